// Package fleetfile reads gateway configuration exported by
// `az network application-gateway list` (JSON) or an equivalent YAML file.
package fleetfile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vietdv277/gatecert/pkg/provider"
	"github.com/vietdv277/gatecert/pkg/types"
)

type listenerRecord struct {
	Name      string   `json:"name" yaml:"name"`
	HostName  string   `json:"hostName" yaml:"hostName"`
	HostNames []string `json:"hostNames" yaml:"hostNames"`
	Protocol  string   `json:"protocol" yaml:"protocol"`
}

type gatewayRecord struct {
	Name          string           `json:"name" yaml:"name"`
	ID            string           `json:"id" yaml:"id"`
	ResourceGroup string           `json:"resourceGroup" yaml:"resourceGroup"`
	HTTPListeners []listenerRecord `json:"httpListeners" yaml:"httpListeners"`
}

// Provider serves gateways from a file on disk
type Provider struct {
	path string
}

// NewProvider creates a Provider reading path on every ListGateways call
func NewProvider(path string) *Provider {
	return &Provider{path: path}
}

// Name implements provider.GatewayProvider
func (p *Provider) Name() string {
	return "file"
}

// ListGateways implements provider.GatewayProvider
func (p *Provider) ListGateways(ctx context.Context) ([]types.Gateway, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return LoadFile(p.path)
}

// LoadFile reads gateways from path. Files ending in .json are decoded as
// JSON, anything else as YAML.
func LoadFile(path string) ([]types.Gateway, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read gateway file: %w", provider.ErrConfigurationMissing, err)
	}

	format := "yaml"
	if strings.EqualFold(filepath.Ext(path), ".json") {
		format = "json"
	}
	return Decode(bytes.NewReader(data), format)
}

// Decode reads a list of gateway records in the given format ("json" or
// "yaml"). Listener protocols are kept verbatim.
func Decode(r io.Reader, format string) ([]types.Gateway, error) {
	var records []gatewayRecord
	switch format {
	case "json":
		if err := json.NewDecoder(r).Decode(&records); err != nil {
			return nil, fmt.Errorf("failed to decode gateway JSON: %w", err)
		}
	case "yaml":
		if err := yaml.NewDecoder(r).Decode(&records); err != nil && err != io.EOF {
			return nil, fmt.Errorf("failed to decode gateway YAML: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported gateway file format: %s", format)
	}

	gateways := make([]types.Gateway, 0, len(records))
	for _, rec := range records {
		gateways = append(gateways, toGateway(rec))
	}
	return gateways, nil
}

func toGateway(rec gatewayRecord) types.Gateway {
	gw := types.Gateway{
		Provider:      "file",
		ResourceGroup: rec.ResourceGroup,
		Name:          rec.Name,
		ID:            rec.ID,
	}
	if gw.Name == "" {
		gw.Name = filepath.Base(rec.ID)
	}

	for _, l := range rec.HTTPListeners {
		listener := types.Listener{
			Name:     l.Name,
			HostName: l.HostName,
			Protocol: types.Protocol(l.Protocol),
		}
		gw.Listeners = append(gw.Listeners, listener)

		for _, host := range l.HostNames {
			if host == "" || host == l.HostName || strings.Contains(host, "*") {
				continue
			}
			extra := listener
			extra.HostName = host
			gw.Listeners = append(gw.Listeners, extra)
		}
	}
	return gw
}
