package gcp

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
)

const scopeCloudPlatform = "https://www.googleapis.com/auth/cloud-platform"

// Client wraps GCP credentials and configuration.
// It is the entry point for all GCP operations and holds Application Default
// Credentials loaded via google.FindDefaultCredentials.
type Client struct {
	credentials *google.Credentials
	project     string
	region      string
	logger      *logrus.Entry
}

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithProject sets the GCP project ID.
func WithProject(project string) Option {
	return func(c *Client) {
		c.project = project
	}
}

// WithRegion limits regional load balancers to one region. Global load
// balancers are always included.
func WithRegion(region string) Option {
	return func(c *Client) {
		c.region = region
	}
}

// WithCredentials sets the credentials, skipping ADC lookup.
func WithCredentials(creds *google.Credentials) Option {
	return func(c *Client) {
		c.credentials = creds
	}
}

// WithLogger sets the logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a new GCP client using Application Default Credentials (ADC).
// ADC is resolved in this order:
//  1. GOOGLE_APPLICATION_CREDENTIALS environment variable (service account key file)
//  2. gcloud user credentials (~/.config/gcloud/application_default_credentials.json)
//  3. Metadata server (when running on GCE / GKE / Cloud Run)
func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	c := &Client{
		logger: logrus.NewEntry(logrus.StandardLogger()),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.credentials == nil {
		creds, err := google.FindDefaultCredentials(ctx, scopeCloudPlatform)
		if err != nil {
			return nil, fmt.Errorf(
				"no GCP application default credentials found "+
					"(run 'gcloud auth application-default login'): %w",
				err,
			)
		}
		c.credentials = creds
	}

	// Prefer the project from credentials when caller did not set one
	if c.project == "" && c.credentials.ProjectID != "" {
		c.project = c.credentials.ProjectID
	}

	return c, nil
}

// Name implements provider.GatewayProvider.
func (c *Client) Name() string {
	return "gcp"
}

// Project returns the configured GCP project ID.
func (c *Client) Project() string {
	return c.project
}

// Region returns the configured GCP region.
func (c *Client) Region() string {
	return c.region
}
