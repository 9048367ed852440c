package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietdv277/gatecert/pkg/types"
)

var finished = time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)

func sampleReport() *types.Report {
	return &types.Report{
		Renewals: []string{"soon.example.com"},
		Findings: []types.Finding{
			{Host: "soon.example.com", Gateway: "gw-web", Provider: "azure", DaysLeft: 10, NeedsRenewal: true},
			{Host: "later.example.com", Gateway: "gw-web", Provider: "azure", DaysLeft: 90},
		},
		Errors: []*types.HostError{
			{Host: "down.example.com", Gateway: "gw-web", Provider: "azure", Err: errors.New("refused")},
		},
	}
}

func TestRecord(t *testing.T) {
	r := NewRecorder()
	r.Record(sampleReport(), finished)

	assert.Equal(t, float64(1), testutil.ToFloat64(r.renewals))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.errors))
	assert.Equal(t, float64(finished.Unix()), testutil.ToFloat64(r.lastScan))

	expected := `
# HELP gatecert_certificate_expiry_days Days until the certificate served for a host expires.
# TYPE gatecert_certificate_expiry_days gauge
gatecert_certificate_expiry_days{gateway="gw-web",host="later.example.com",provider="azure"} 90
gatecert_certificate_expiry_days{gateway="gw-web",host="soon.example.com",provider="azure"} 10
`
	require.NoError(t, testutil.CollectAndCompare(r.expiryDays, strings.NewReader(expected)))
}

func TestRecordReplacesPreviousScan(t *testing.T) {
	r := NewRecorder()
	r.Record(sampleReport(), finished)
	r.Record(&types.Report{}, finished.Add(time.Hour))

	assert.Equal(t, 0, testutil.CollectAndCount(r.expiryDays))
	assert.Equal(t, float64(0), testutil.ToFloat64(r.renewals))
	assert.Equal(t, float64(finished.Add(time.Hour).Unix()), testutil.ToFloat64(r.lastScan))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Record(sampleReport(), finished)

	path := filepath.Join(t.TempDir(), "gatecert.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "gatecert_hosts_requiring_renewal 1")
	assert.Contains(t, string(data), "gatecert_certificate_check_errors 1")
	assert.Contains(t, string(data), `gatecert_certificate_expiry_days{gateway="gw-web",host="soon.example.com",provider="azure"} 10`)
}

func TestWriteTextfileMissingDir(t *testing.T) {
	r := NewRecorder()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "gatecert.prom"))
	assert.ErrorContains(t, err, "failed to write metrics textfile")
}
