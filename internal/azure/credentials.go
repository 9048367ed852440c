package azure

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/kelseyhightower/envconfig"

	"github.com/vietdv277/gatecert/pkg/provider"
)

// Authentication methods
const (
	AuthSecret  = "secret"
	AuthDefault = "default"
)

// Credentials holds the service principal used to read gateway configuration
type Credentials struct {
	ClientID     string `envconfig:"CLIENT_ID" required:"true"`
	ClientSecret string `envconfig:"CLIENT_SECRET" required:"true"`
	TenantID     string `envconfig:"TENANT_ID" required:"true"`
}

// LoadCredentials reads the service principal from the CLIENT_ID,
// CLIENT_SECRET and TENANT_ID environment variables. A missing variable
// yields an error wrapping provider.ErrConfigurationMissing.
func LoadCredentials() (*Credentials, error) {
	var creds Credentials
	if err := envconfig.Process("", &creds); err != nil {
		return nil, fmt.Errorf("%w: %w", provider.ErrConfigurationMissing, err)
	}
	return &creds, nil
}

// TokenCredential builds an Azure SDK credential from the service principal
func (c *Credentials) TokenCredential() (azcore.TokenCredential, error) {
	cred, err := azidentity.NewClientSecretCredential(c.TenantID, c.ClientID, c.ClientSecret, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create client secret credential: %w", err)
	}
	return cred, nil
}

// NewCredential resolves a credential for the given auth method. "secret"
// requires the service principal environment; "default" defers to the
// Azure SDK default chain (environment, managed identity, az CLI).
func NewCredential(method string) (azcore.TokenCredential, error) {
	switch method {
	case "", AuthSecret:
		creds, err := LoadCredentials()
		if err != nil {
			return nil, err
		}
		return creds.TokenCredential()
	case AuthDefault:
		cred, err := azidentity.NewDefaultAzureCredential(nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", provider.ErrConfigurationMissing, err)
		}
		return cred, nil
	default:
		return nil, fmt.Errorf("unknown azure auth method: %s (supported: %s, %s)", method, AuthSecret, AuthDefault)
	}
}
