// Package metrics exports scan results in the Prometheus text format, for
// the node_exporter textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vietdv277/gatecert/pkg/types"
)

const namespace = "gatecert"

// Recorder holds the gauges describing the most recent scan
type Recorder struct {
	registry   *prometheus.Registry
	expiryDays *prometheus.GaugeVec
	renewals   prometheus.Gauge
	errors     prometheus.Gauge
	lastScan   prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		expiryDays: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "certificate_expiry_days",
			Help:      "Days until the certificate served for a host expires.",
		}, []string{"host", "gateway", "provider"}),
		renewals: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "hosts_requiring_renewal",
			Help:      "Number of listener hostnames whose certificate is inside the renewal window.",
		}),
		errors: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "certificate_check_errors",
			Help:      "Number of hostnames whose certificate could not be checked.",
		}),
		lastScan: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_scan_timestamp_seconds",
			Help:      "Unix time the last scan finished.",
		}),
	}

	r.registry.MustRegister(r.expiryDays, r.renewals, r.errors, r.lastScan)
	return r
}

// Registry returns the registry the gauges are registered with
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Record replaces the gauges with the contents of report
func (r *Recorder) Record(report *types.Report, finished time.Time) {
	r.expiryDays.Reset()
	for _, f := range report.Findings {
		r.expiryDays.WithLabelValues(f.Host, f.Gateway, f.Provider).Set(float64(f.DaysLeft))
	}
	r.renewals.Set(float64(len(report.Renewals)))
	r.errors.Set(float64(len(report.Errors)))
	r.lastScan.Set(float64(finished.Unix()))
}

// WriteTextfile atomically writes the gauges to path
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
