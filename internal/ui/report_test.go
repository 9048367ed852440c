package ui

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	pkgtypes "github.com/vietdv277/gatecert/pkg/types"
)

var today = time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC)

func sampleReport() *pkgtypes.Report {
	return &pkgtypes.Report{
		Today:    today,
		Window:   30 * 24 * time.Hour,
		Gateways: 2,
		Renewals: []string{"soon.example.com", "gone.example.com"},
		Findings: []pkgtypes.Finding{
			{Host: "soon.example.com", Gateway: "gw-web", Provider: "azure", Expiration: today.AddDate(0, 0, 10), DaysLeft: 10, NeedsRenewal: true},
			{Host: "later.example.com", Gateway: "gw-web", Provider: "azure", Expiration: today.AddDate(0, 0, 90), DaysLeft: 90},
			{Host: "gone.example.com", Gateway: "gw-api", Provider: "azure", Expiration: today.AddDate(0, 0, -1), DaysLeft: -1, NeedsRenewal: true},
		},
		Errors: []*pkgtypes.HostError{
			{Host: "down.example.com", Gateway: "gw-api", Provider: "azure", Err: errors.New("connection refused")},
		},
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintReport(&buf, sampleReport()))

	out := buf.String()
	assert.Contains(t, out, "soon.example.com")
	assert.Contains(t, out, "2026-03-20")
	assert.Contains(t, out, "● renew")
	assert.Contains(t, out, "● ok")
	assert.Contains(t, out, "✕ expired")
	assert.Contains(t, out, "down.example.com")
	assert.Contains(t, out, "connection refused")
	assert.Contains(t, out, "3 hosts checked")
	assert.Contains(t, out, "2 require renewal")
	assert.Contains(t, out, "1 errors")
	assert.Contains(t, out, "window 30 days")
}

func TestPrintReportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintReport(&buf, &pkgtypes.Report{Window: 30 * 24 * time.Hour}))

	assert.NotContains(t, buf.String(), TopLeft)
	assert.Contains(t, buf.String(), "0 hosts checked")
}

func TestPrintRenewals(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintRenewals(&buf, []string{"a.example.com", "a.example.com", "b.example.com"}))
	assert.Equal(t, "hosts requiring renewal:\na.example.com\na.example.com\nb.example.com\n", buf.String())

	buf.Reset()
	require.NoError(t, PrintRenewals(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestPrintGateways(t *testing.T) {
	gateways := []pkgtypes.Gateway{
		{
			Name:          "gw-web",
			Scope:         "sub-1",
			ResourceGroup: "rg-web",
			Listeners: []pkgtypes.Listener{
				{Name: "a", HostName: "shop.example.com", Protocol: pkgtypes.ProtocolHTTPS},
				{Name: "b", HostName: "shop.example.com", Protocol: pkgtypes.ProtocolHTTP},
				{Name: "c", HostName: "api.example.com", Protocol: pkgtypes.ProtocolHTTPS},
			},
		},
		{Name: "gw-internal", Listeners: []pkgtypes.Listener{{Name: "d", Protocol: pkgtypes.ProtocolHTTPS}}},
	}

	var buf bytes.Buffer
	require.NoError(t, PrintGateways(&buf, gateways))

	out := buf.String()
	assert.Contains(t, out, "gw-web")
	assert.Contains(t, out, "rg-web")
	assert.Contains(t, out, "api.example.com")
	assert.Contains(t, out, "2/3")
	assert.Contains(t, out, "0/1")
	assert.Contains(t, out, "2 gateways, 2 HTTPS hosts")
}

func TestPrintSubscriptions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintSubscriptions(&buf, []pkgtypes.Subscription{
		{ID: "sub-1", DisplayName: "Production", State: "Enabled"},
		{ID: "sub-2", DisplayName: "Legacy", State: "Disabled"},
	}))

	assert.Contains(t, buf.String(), "Production")
	assert.Contains(t, buf.String(), "Disabled")
	assert.Contains(t, buf.String(), "2 subscriptions")
}

func TestEncodeReportJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeReport(&buf, OutputJSON, sampleReport()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "2026-03-10", doc["today"])
	assert.Equal(t, float64(30), doc["window_days"])
	assert.Equal(t, []any{"soon.example.com", "gone.example.com"}, doc["renewals"])
	require.Len(t, doc["errors"], 1)
	assert.Equal(t, "connection refused", doc["errors"].([]any)[0].(map[string]any)["error"])
}

func TestEncodeReportYAMLEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodeReport(&buf, OutputYAML, &pkgtypes.Report{Today: today, Window: 30 * 24 * time.Hour}))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, []any{}, doc["renewals"])
	assert.Equal(t, []any{}, doc["errors"])
}

func TestValidateOutput(t *testing.T) {
	assert.NoError(t, ValidateOutput("table"))
	assert.NoError(t, ValidateOutput("json"))
	assert.NoError(t, ValidateOutput("yaml"))
	assert.ErrorContains(t, ValidateOutput("xml"), "unsupported output format")
	assert.Error(t, Encode(&bytes.Buffer{}, "table", nil))
}
