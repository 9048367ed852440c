package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/sirupsen/logrus"
)

// ELBv2API is the subset of the Elastic Load Balancing v2 API used to read
// listener configuration
type ELBv2API interface {
	DescribeLoadBalancers(ctx context.Context, params *elbv2.DescribeLoadBalancersInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeLoadBalancersOutput, error)
	DescribeListeners(ctx context.Context, params *elbv2.DescribeListenersInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeListenersOutput, error)
	DescribeRules(ctx context.Context, params *elbv2.DescribeRulesInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeRulesOutput, error)
}

// STSAPI is the subset of the STS API used to resolve the caller identity
type STSAPI interface {
	GetCallerIdentity(ctx context.Context, params *sts.GetCallerIdentityInput, optFns ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error)
}

// EC2API is the subset of the EC2 API used to enumerate regions
type EC2API interface {
	DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
}

// AllRegions is the region value that lists load balancers in every region
// enabled for the account
const AllRegions = "all"

const defaultRegion = "us-east-1"

// Client wraps AWS SDK clients
type Client struct {
	ELBv2 ELBv2API
	STS   STSAPI
	EC2   EC2API

	// regionalELBv2 returns the ELBv2 client for a region when listing
	// all regions
	regionalELBv2 func(region string) ELBv2API

	profile    string
	region     string
	allRegions bool
	logger     *logrus.Entry
}

// ClientOption allows customizing the AWS Client
type ClientOption func(*Client)

// WithProfile sets the AWS profile for the client
func WithProfile(profile string) ClientOption {
	return func(c *Client) {
		c.profile = profile
	}
}

// WithRegion sets the AWS region for the client. AllRegions lists every
// enabled region.
func WithRegion(region string) ClientOption {
	return func(c *Client) {
		if region == AllRegions {
			c.allRegions = true
			return
		}
		c.region = region
	}
}

// WithLogger sets the logger
func WithLogger(logger *logrus.Entry) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithAPIs sets the service clients, skipping SDK config loading
func WithAPIs(lb ELBv2API, identity STSAPI) ClientOption {
	return func(c *Client) {
		c.ELBv2 = lb
		c.STS = identity
	}
}

// WithRegionalAPIs sets the clients used to list all regions, skipping SDK
// config loading
func WithRegionalAPIs(regions EC2API, lb func(region string) ELBv2API, identity STSAPI) ClientOption {
	return func(c *Client) {
		c.allRegions = true
		c.EC2 = regions
		c.regionalELBv2 = lb
		c.STS = identity
	}
}

// NewClient creates a new AWS Client with the given options
func NewClient(ctx context.Context, opts ...ClientOption) (*Client, error) {
	c := &Client{
		logger: logrus.NewEntry(logrus.StandardLogger()),
	}

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	if c.ready() {
		return c, nil
	}

	// Build config options
	var configOpts []func(*config.LoadOptions) error

	if c.profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(c.profile))
	}

	if c.region != "" {
		configOpts = append(configOpts, config.WithRegion(c.region))
	}

	// Load AWS config
	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	if c.region == "" {
		c.region = cfg.Region
	}
	if c.allRegions && cfg.Region == "" {
		// DescribeRegions needs some endpoint to talk to
		cfg.Region = defaultRegion
	}
	if c.ELBv2 == nil {
		c.ELBv2 = elbv2.NewFromConfig(cfg)
	}
	if c.STS == nil {
		c.STS = sts.NewFromConfig(cfg)
	}
	if c.EC2 == nil {
		c.EC2 = ec2.NewFromConfig(cfg)
	}
	if c.regionalELBv2 == nil {
		c.regionalELBv2 = func(region string) ELBv2API {
			return elbv2.NewFromConfig(cfg, func(o *elbv2.Options) {
				o.Region = region
			})
		}
	}

	return c, nil
}

// ready reports whether every client needed for the configured scope is set
func (c *Client) ready() bool {
	if c.STS == nil {
		return false
	}
	if c.allRegions {
		return c.EC2 != nil && c.regionalELBv2 != nil
	}
	return c.ELBv2 != nil
}

// Name implements provider.GatewayProvider
func (c *Client) Name() string {
	return "aws"
}

// Region returns the region the client talks to, or AllRegions
func (c *Client) Region() string {
	if c.allRegions {
		return AllRegions
	}
	return c.region
}

func deref(s *string) string {
	return aws.ToString(s)
}

func derefInt32(i *int32) int32 {
	return aws.ToInt32(i)
}
