package provider

import (
	"context"
	"errors"
	"time"

	"github.com/vietdv277/gatecert/pkg/types"
)

// Common errors
var (
	ErrNotSupported     = errors.New("feature not supported by this provider")
	ErrNotConfigured    = errors.New("provider not configured")
	ErrAuthFailed       = errors.New("authentication failed")
	ErrPermissionDenied = errors.New("permission denied")

	// ErrConfigurationMissing means a required input (credentials, the
	// gateway list) could not be obtained. It aborts a scan.
	ErrConfigurationMissing = errors.New("configuration missing")

	// ErrConnection means the TLS handshake with a host did not complete.
	ErrConnection = errors.New("connection failed")

	// ErrParse means the certificate expiration could not be decoded.
	ErrParse = errors.New("certificate parse failed")
)

// GatewayProvider defines the interface for listing gateway configurations
type GatewayProvider interface {
	// Name returns the provider identifier (e.g., "azure", "aws")
	Name() string

	// ListGateways returns every gateway visible to the provider, listeners
	// in configuration order
	ListGateways(ctx context.Context) ([]types.Gateway, error)
}

// CertificateSource defines the interface for looking up certificate expirations
type CertificateSource interface {
	// Expiration returns the calendar date the host's current certificate
	// stops being valid
	Expiration(ctx context.Context, host string) (time.Time, error)
}

// SubscriptionLister is implemented by providers that group gateways by
// subscription
type SubscriptionLister interface {
	ListSubscriptions(ctx context.Context) ([]types.Subscription, error)
}
