package types

import "time"

// Protocol is the listener protocol as reported by the gateway provider.
type Protocol string

// Listener protocols. Spelling follows Azure Application Gateway.
const (
	ProtocolHTTP  Protocol = "Http"
	ProtocolHTTPS Protocol = "Https"
	ProtocolTCP   Protocol = "Tcp"
	ProtocolTLS   Protocol = "Tls"
)

// Gateway represents one load balancer configuration (Application Gateway,
// ALB/NLB or GCP URL map). Scope is the subscription ID, region or project
// the gateway was listed from.
type Gateway struct {
	Provider      string     `json:"provider" yaml:"provider"`
	Scope         string     `json:"scope,omitempty" yaml:"scope,omitempty"`
	ResourceGroup string     `json:"resource_group,omitempty" yaml:"resource_group,omitempty"`
	Name          string     `json:"name" yaml:"name"`
	ID            string     `json:"id,omitempty" yaml:"id,omitempty"`
	Listeners     []Listener `json:"listeners" yaml:"listeners"`
}

// Listener represents a gateway listener binding a protocol to a hostname.
// An empty HostName means the listener has no hostname configured.
type Listener struct {
	Name     string   `json:"name" yaml:"name"`
	HostName string   `json:"host_name,omitempty" yaml:"host_name,omitempty"`
	Protocol Protocol `json:"protocol" yaml:"protocol"`
}

// Subscription represents an Azure subscription
type Subscription struct {
	ID          string `json:"id" yaml:"id"`
	DisplayName string `json:"display_name" yaml:"display_name"`
	State       string `json:"state" yaml:"state"`
	TenantID    string `json:"tenant_id,omitempty" yaml:"tenant_id,omitempty"`
}

// DateOf truncates t to its UTC calendar date
func DateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
