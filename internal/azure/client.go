package azure

import (
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/arm"
	"github.com/sirupsen/logrus"
)

// Client wraps the Azure credential and ARM client configuration
type Client struct {
	cred          azcore.TokenCredential
	options       *arm.ClientOptions
	authMethod    string
	subscriptions []string
	logger        *logrus.Entry
}

// ClientOption allows customizing the Azure Client
type ClientOption func(*Client)

// WithCredential sets the credential, skipping environment lookup
func WithCredential(cred azcore.TokenCredential) ClientOption {
	return func(c *Client) {
		c.cred = cred
	}
}

// WithAuthMethod sets how the credential is resolved when none is given
func WithAuthMethod(method string) ClientOption {
	return func(c *Client) {
		c.authMethod = method
	}
}

// WithSubscriptions limits the client to the given subscription IDs instead
// of every subscription the credential can see
func WithSubscriptions(ids ...string) ClientOption {
	return func(c *Client) {
		c.subscriptions = append(c.subscriptions, ids...)
	}
}

// WithClientOptions sets the ARM client options (transport, retries, cloud)
func WithClientOptions(options *arm.ClientOptions) ClientOption {
	return func(c *Client) {
		c.options = options
	}
}

// WithLogger sets the logger
func WithLogger(logger *logrus.Entry) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new Azure Client with the given options
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		authMethod: AuthSecret,
		logger:     logrus.NewEntry(logrus.StandardLogger()),
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	if c.cred == nil {
		cred, err := NewCredential(c.authMethod)
		if err != nil {
			return nil, fmt.Errorf("failed to load Azure credentials: %w", err)
		}
		c.cred = cred
	}

	c.logger.WithFields(logrus.Fields{
		"auth":          c.authMethod,
		"subscriptions": len(c.subscriptions),
	}).Debug("azure client ready")

	return c, nil
}

// Name implements provider.GatewayProvider
func (c *Client) Name() string {
	return "azure"
}

func toValue[T any](v *T) T {
	if v == nil {
		var zero T
		return zero
	}
	return *v
}
