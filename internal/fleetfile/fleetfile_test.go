package fleetfile

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietdv277/gatecert/pkg/provider"
	"github.com/vietdv277/gatecert/pkg/types"
)

const azJSON = `[
  {
    "id": "/subscriptions/sub-1/resourceGroups/rg-web/providers/Microsoft.Network/applicationGateways/gw-web",
    "name": "gw-web",
    "resourceGroup": "rg-web",
    "httpListeners": [
      {"name": "https-shop", "hostName": "shop.example.com", "hostNames": [], "protocol": "Https"},
      {"name": "http-shop", "hostName": "shop.example.com", "protocol": "Http"},
      {"name": "https-default", "hostName": null, "protocol": "Https"},
      {"name": "lowercase", "hostName": "lower.example.com", "protocol": "https"}
    ]
  },
  {
    "id": "/subscriptions/sub-1/resourceGroups/rg-api/providers/Microsoft.Network/applicationGateways/gw-api",
    "httpListeners": [
      {"name": "multi", "hostName": null, "hostNames": ["a.example.com", "*.example.com", "b.example.com"], "protocol": "Https"}
    ]
  }
]`

const fleetYAML = `
- name: gw-yaml
  httpListeners:
    - name: https-yaml
      hostName: yaml.example.com
      protocol: Https
    - name: no-host
      protocol: Https
`

func TestDecodeJSON(t *testing.T) {
	gateways, err := Decode(strings.NewReader(azJSON), "json")
	require.NoError(t, err)
	require.Len(t, gateways, 2)

	assert.Equal(t, types.Gateway{
		Provider:      "file",
		ResourceGroup: "rg-web",
		Name:          "gw-web",
		ID:            "/subscriptions/sub-1/resourceGroups/rg-web/providers/Microsoft.Network/applicationGateways/gw-web",
		Listeners: []types.Listener{
			{Name: "https-shop", HostName: "shop.example.com", Protocol: types.ProtocolHTTPS},
			{Name: "http-shop", HostName: "shop.example.com", Protocol: types.ProtocolHTTP},
			{Name: "https-default", Protocol: types.ProtocolHTTPS},
			{Name: "lowercase", HostName: "lower.example.com", Protocol: types.Protocol("https")},
		},
	}, gateways[0])

	assert.Equal(t, "gw-api", gateways[1].Name)
	assert.Equal(t, []types.Listener{
		{Name: "multi", Protocol: types.ProtocolHTTPS},
		{Name: "multi", HostName: "a.example.com", Protocol: types.ProtocolHTTPS},
		{Name: "multi", HostName: "b.example.com", Protocol: types.ProtocolHTTPS},
	}, gateways[1].Listeners)
}

func TestDecodeYAML(t *testing.T) {
	gateways, err := Decode(strings.NewReader(fleetYAML), "yaml")
	require.NoError(t, err)

	require.Len(t, gateways, 1)
	assert.Equal(t, []types.Listener{
		{Name: "https-yaml", HostName: "yaml.example.com", Protocol: types.ProtocolHTTPS},
		{Name: "no-host", Protocol: types.ProtocolHTTPS},
	}, gateways[0].Listeners)
}

func TestDecodeEmpty(t *testing.T) {
	gateways, err := Decode(strings.NewReader(""), "yaml")
	require.NoError(t, err)
	assert.Empty(t, gateways)

	gateways, err = Decode(strings.NewReader("[]"), "json")
	require.NoError(t, err)
	assert.Empty(t, gateways)
}

func TestDecodeErrors(t *testing.T) {
	_, err := Decode(strings.NewReader("{not json"), "json")
	assert.ErrorContains(t, err, "failed to decode gateway JSON")

	_, err = Decode(strings.NewReader("key: [unclosed"), "yaml")
	assert.ErrorContains(t, err, "failed to decode gateway YAML")

	_, err = Decode(strings.NewReader("[]"), "xml")
	assert.ErrorContains(t, err, "unsupported gateway file format")
}

func TestProviderListGateways(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "gateways.json")
	yamlPath := filepath.Join(dir, "gateways.yaml")
	require.NoError(t, os.WriteFile(jsonPath, []byte(azJSON), 0o600))
	require.NoError(t, os.WriteFile(yamlPath, []byte(fleetYAML), 0o600))

	p := NewProvider(jsonPath)
	assert.Equal(t, "file", p.Name())
	gateways, err := p.ListGateways(context.Background())
	require.NoError(t, err)
	assert.Len(t, gateways, 2)

	gateways, err = NewProvider(yamlPath).ListGateways(context.Background())
	require.NoError(t, err)
	assert.Len(t, gateways, 1)
}

func TestProviderMissingFile(t *testing.T) {
	_, err := NewProvider(filepath.Join(t.TempDir(), "missing.json")).ListGateways(context.Background())
	assert.ErrorIs(t, err, provider.ErrConfigurationMissing)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestProviderCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProvider("unused.json").ListGateways(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
