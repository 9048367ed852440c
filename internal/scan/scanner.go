package scan

import (
	"context"
	"fmt"
	"time"

	"github.com/juju/clock"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/vietdv277/gatecert/pkg/provider"
	"github.com/vietdv277/gatecert/pkg/types"
)

// DefaultWorkers is the number of concurrent certificate lookups
const DefaultWorkers = 8

// Target is a renewal-eligible listener hostname together with the gateway
// that serves it
type Target struct {
	Host     string
	Gateway  string
	Provider string
	Listener string
}

// Targets applies FilterListeners to every gateway and returns the eligible
// hostnames in discovery order. Hostnames are not deduplicated.
func Targets(gateways []types.Gateway) []Target {
	var targets []Target
	for _, gw := range gateways {
		for _, l := range FilterListeners(gw.Listeners) {
			targets = append(targets, Target{
				Host:     l.HostName,
				Gateway:  gw.Name,
				Provider: gw.Provider,
				Listener: l.Name,
			})
		}
	}
	return targets
}

// Scanner checks every HTTPS listener of a fleet for certificates inside the
// renewal window
type Scanner struct {
	source  provider.CertificateSource
	clock   clock.Clock
	window  time.Duration
	workers int
	logger  *logrus.Entry
}

// Option allows customizing the Scanner
type Option func(*Scanner)

// WithWindow sets the renewal window
func WithWindow(window time.Duration) Option {
	return func(s *Scanner) {
		s.window = window
	}
}

// WithWorkers sets the maximum number of concurrent certificate lookups
func WithWorkers(n int) Option {
	return func(s *Scanner) {
		s.workers = n
	}
}

// WithClock sets the clock used to determine today's date
func WithClock(c clock.Clock) Option {
	return func(s *Scanner) {
		s.clock = c
	}
}

// WithLogger sets the logger
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// NewScanner creates a Scanner looking up certificates through source
func NewScanner(source provider.CertificateSource, opts ...Option) *Scanner {
	s := &Scanner{
		source:  source,
		clock:   clock.WallClock,
		window:  DefaultWindow,
		workers: DefaultWorkers,
		logger:  logrus.NewEntry(logrus.StandardLogger()),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.workers < 1 {
		s.workers = 1
	}
	if s.window <= 0 {
		s.window = DefaultWindow
	}

	return s
}

// Run lists the gateways of every provider and scans them. Failing to list
// any provider aborts the run without a report.
func (s *Scanner) Run(ctx context.Context, providers ...provider.GatewayProvider) (*types.Report, error) {
	gateways, err := CollectGateways(ctx, providers...)
	if err != nil {
		return nil, err
	}
	return s.Scan(ctx, gateways)
}

// CollectGateways concatenates the gateways of all providers in order
func CollectGateways(ctx context.Context, providers ...provider.GatewayProvider) ([]types.Gateway, error) {
	if len(providers) == 0 {
		return nil, fmt.Errorf("%w: no gateway provider configured", provider.ErrConfigurationMissing)
	}

	var gateways []types.Gateway
	for _, p := range providers {
		gws, err := p.ListGateways(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: failed to list %s gateways: %w", provider.ErrConfigurationMissing, p.Name(), err)
		}
		gateways = append(gateways, gws...)
	}
	return gateways, nil
}

type lookup struct {
	expiration time.Time
	err        error
	done       bool
}

// Scan inspects every eligible listener hostname and classifies it against
// the renewal window. Today's date is read once per call.
//
// A host whose certificate cannot be retrieved is recorded in the report's
// Errors and the scan continues. If ctx is cancelled, the hosts checked so
// far are reported, the remaining ones are recorded as errors and ctx.Err()
// is returned alongside the partial report.
func (s *Scanner) Scan(ctx context.Context, gateways []types.Gateway) (*types.Report, error) {
	today := types.DateOf(s.clock.Now())
	targets := Targets(gateways)

	s.logger.WithFields(logrus.Fields{
		"gateways": len(gateways),
		"hosts":    len(targets),
		"workers":  s.workers,
	}).Debug("starting certificate scan")

	// each lookup writes only its own slot
	lookups := make([]lookup, len(targets))

	var g errgroup.Group
	g.SetLimit(s.workers)
	for i := range targets {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			exp, err := s.source.Expiration(ctx, targets[i].Host)
			lookups[i] = lookup{expiration: exp, err: err, done: true}
			return nil
		})
	}
	_ = g.Wait()

	report := &types.Report{
		Today:    today,
		Window:   s.window,
		Gateways: len(gateways),
	}

	for i, t := range targets {
		res := lookups[i]
		logger := s.logger.WithFields(logrus.Fields{
			"host":    t.Host,
			"gateway": t.Gateway,
		})

		if !res.done {
			res.err = fmt.Errorf("not checked: %w", context.Cause(ctx))
		}
		if res.err != nil {
			logger.WithError(res.err).Warn("failed to check certificate")
			report.Errors = append(report.Errors, &types.HostError{
				Host:     t.Host,
				Gateway:  t.Gateway,
				Provider: t.Provider,
				Err:      res.err,
			})
			continue
		}

		needsRenewal := NeedsRenewal(res.expiration, today, s.window)
		daysLeft := DaysUntil(res.expiration, today)
		logger.WithFields(logrus.Fields{
			"expires":   res.expiration.Format(time.DateOnly),
			"days_left": daysLeft,
			"renew":     needsRenewal,
		}).Debug("checked certificate")

		report.Findings = append(report.Findings, types.Finding{
			Host:         t.Host,
			Gateway:      t.Gateway,
			Provider:     t.Provider,
			Listener:     t.Listener,
			Expiration:   types.DateOf(res.expiration),
			DaysLeft:     daysLeft,
			NeedsRenewal: needsRenewal,
		})
		if needsRenewal {
			report.Renewals = append(report.Renewals, t.Host)
		}
	}

	s.logger.WithFields(logrus.Fields{
		"checked":  len(report.Findings),
		"renewals": len(report.Renewals),
		"errors":   len(report.Errors),
	}).Info("certificate scan finished")

	if err := ctx.Err(); err != nil {
		return report, err
	}
	return report, nil
}
