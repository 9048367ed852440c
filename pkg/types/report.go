package types

import (
	"errors"
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Finding is the outcome of inspecting one listener hostname
type Finding struct {
	Host         string    `json:"host" yaml:"host"`
	Gateway      string    `json:"gateway" yaml:"gateway"`
	Provider     string    `json:"provider" yaml:"provider"`
	Listener     string    `json:"listener" yaml:"listener"`
	Expiration   time.Time `json:"expiration" yaml:"expiration"`
	DaysLeft     int       `json:"days_left" yaml:"days_left"`
	NeedsRenewal bool      `json:"needs_renewal" yaml:"needs_renewal"`
}

// HostError records a host whose certificate could not be inspected
type HostError struct {
	Host     string
	Gateway  string
	Provider string
	Err      error
}

func (e *HostError) Error() string {
	if e.Gateway == "" {
		return fmt.Sprintf("%s: %v", e.Host, e.Err)
	}
	return fmt.Sprintf("%s (gateway %s): %v", e.Host, e.Gateway, e.Err)
}

func (e *HostError) Unwrap() error {
	return e.Err
}

// Report is the result of a fleet scan.
//
// Renewals lists hostnames in discovery order. A hostname served by several
// listeners is listed once per listener.
type Report struct {
	Today    time.Time     `json:"today" yaml:"today"`
	Window   time.Duration `json:"window" yaml:"window"`
	Gateways int           `json:"gateways" yaml:"gateways"`
	Renewals []string      `json:"renewals" yaml:"renewals"`
	Findings []Finding     `json:"findings" yaml:"findings"`
	Errors   []*HostError  `json:"-" yaml:"-"`
}

// Failed reports whether the scan found hosts needing renewal or hosts that
// could not be checked
func (r *Report) Failed() bool {
	return len(r.Renewals) > 0 || len(r.Errors) > 0
}

// Err returns all host errors as a single error, or nil
func (r *Report) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	var result *multierror.Error
	for _, e := range r.Errors {
		result = multierror.Append(result, e)
	}
	return result.ErrorOrNil()
}

// ErrorsMatching returns the host errors wrapping target
func (r *Report) ErrorsMatching(target error) []*HostError {
	var out []*HostError
	for _, e := range r.Errors {
		if errors.Is(e, target) {
			out = append(out, e)
		}
	}
	return out
}
