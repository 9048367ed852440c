package certs

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vietdv277/gatecert/pkg/provider"
	"github.com/vietdv277/gatecert/pkg/types"
)

// ParseEndDate decodes an OpenSSL end date such as
// "notAfter=Mar  4 12:00:00 2027 GMT" into a calendar date
func ParseEndDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if _, after, ok := strings.Cut(s, "="); ok {
		s = after
	}

	fields := strings.Fields(s)
	if len(fields) < 4 {
		return time.Time{}, fmt.Errorf("%w: unexpected end date %q", provider.ErrParse, s)
	}

	month, err := time.Parse("Jan", fields[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: month %q", provider.ErrParse, fields[0])
	}
	day, err := strconv.Atoi(fields[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: day %q", provider.ErrParse, fields[1])
	}
	year, err := strconv.Atoi(fields[3])
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: year %q", provider.ErrParse, fields[3])
	}

	date := time.Date(year, month.Month(), day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day || date.Month() != month.Month() {
		return time.Time{}, fmt.Errorf("%w: invalid date %q", provider.ErrParse, s)
	}
	return date, nil
}

// ParseDate accepts either an ISO date (2006-01-02), an RFC 3339 timestamp
// or an OpenSSL end date
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return types.DateOf(t), nil
	}
	return ParseEndDate(s)
}

// StaticSource serves certificate expirations from a fixed host to date map
type StaticSource struct {
	dates map[string]string
}

// NewStaticSource creates a StaticSource from host to date strings
func NewStaticSource(dates map[string]string) *StaticSource {
	return &StaticSource{dates: dates}
}

// LoadStaticSource reads a YAML mapping of hostnames to expiration dates
func LoadStaticSource(path string) (*StaticSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate file: %w", err)
	}

	var dates map[string]string
	if err := yaml.Unmarshal(data, &dates); err != nil {
		return nil, fmt.Errorf("failed to parse certificate file: %w", err)
	}

	return NewStaticSource(dates), nil
}

// Expiration returns the configured date for host
func (s *StaticSource) Expiration(_ context.Context, host string) (time.Time, error) {
	raw, ok := s.dates[host]
	if !ok {
		return time.Time{}, fmt.Errorf("%w: %s: no certificate on record", provider.ErrConnection, host)
	}

	date, err := ParseDate(raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", host, err)
	}
	return date, nil
}
