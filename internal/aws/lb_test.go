package aws

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgtypes "github.com/vietdv277/gatecert/pkg/types"
)

type fakeELBv2 struct {
	loadBalancers [][]elbv2types.LoadBalancer
	listeners     map[string][]elbv2types.Listener
	rules         map[string][][]elbv2types.Rule
	rulesErr      error
}

func (f *fakeELBv2) DescribeLoadBalancers(_ context.Context, in *elbv2.DescribeLoadBalancersInput, _ ...func(*elbv2.Options)) (*elbv2.DescribeLoadBalancersOutput, error) {
	page := pageIndex(in.Marker)
	out := &elbv2.DescribeLoadBalancersOutput{LoadBalancers: f.loadBalancers[page]}
	if page+1 < len(f.loadBalancers) {
		out.NextMarker = marker(page + 1)
	}
	return out, nil
}

func (f *fakeELBv2) DescribeListeners(_ context.Context, in *elbv2.DescribeListenersInput, _ ...func(*elbv2.Options)) (*elbv2.DescribeListenersOutput, error) {
	return &elbv2.DescribeListenersOutput{Listeners: f.listeners[aws.ToString(in.LoadBalancerArn)]}, nil
}

func (f *fakeELBv2) DescribeRules(_ context.Context, in *elbv2.DescribeRulesInput, _ ...func(*elbv2.Options)) (*elbv2.DescribeRulesOutput, error) {
	if f.rulesErr != nil {
		return nil, f.rulesErr
	}
	pages := f.rules[aws.ToString(in.ListenerArn)]
	if len(pages) == 0 {
		return &elbv2.DescribeRulesOutput{}, nil
	}
	page := pageIndex(in.Marker)
	out := &elbv2.DescribeRulesOutput{Rules: pages[page]}
	if page+1 < len(pages) {
		out.NextMarker = marker(page + 1)
	}
	return out, nil
}

type fakeSTS struct{}

func (fakeSTS) GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	return &sts.GetCallerIdentityOutput{
		Account: aws.String("123456789012"),
		Arn:     aws.String("arn:aws:iam::123456789012:user/auditor"),
		UserId:  aws.String("AIDAEXAMPLE"),
	}, nil
}

var markers = []string{"", "page-1", "page-2", "page-3"}

func marker(i int) *string { return aws.String(markers[i]) }

func pageIndex(m *string) int {
	for i, v := range markers {
		if v == aws.ToString(m) {
			return i
		}
	}
	return 0
}

func hostRule(hosts ...string) elbv2types.Rule {
	return elbv2types.Rule{
		Conditions: []elbv2types.RuleCondition{{
			Field:            aws.String("host-header"),
			HostHeaderConfig: &elbv2types.HostHeaderConditionConfig{Values: hosts},
		}},
	}
}

func newTestClient(t *testing.T, api ELBv2API) *Client {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c, err := NewClient(context.Background(),
		WithAPIs(api, fakeSTS{}),
		WithRegion("eu-west-1"),
		WithLogger(logrus.NewEntry(logger)),
	)
	require.NoError(t, err)
	return c
}

func TestListGateways(t *testing.T) {
	api := &fakeELBv2{
		loadBalancers: [][]elbv2types.LoadBalancer{
			{{
				LoadBalancerName: aws.String("web"),
				LoadBalancerArn:  aws.String("arn:lb/web"),
				Type:             elbv2types.LoadBalancerTypeEnumApplication,
			}},
			{
				{
					LoadBalancerName: aws.String("geneve"),
					LoadBalancerArn:  aws.String("arn:lb/geneve"),
					Type:             elbv2types.LoadBalancerTypeEnumGateway,
				},
				{
					LoadBalancerName: aws.String("tcp"),
					LoadBalancerArn:  aws.String("arn:lb/tcp"),
					Type:             elbv2types.LoadBalancerTypeEnumNetwork,
				},
			},
		},
		listeners: map[string][]elbv2types.Listener{
			"arn:lb/web": {
				{ListenerArn: aws.String("arn:l/443"), Protocol: elbv2types.ProtocolEnumHttps, Port: aws.Int32(443)},
				{ListenerArn: aws.String("arn:l/80"), Protocol: elbv2types.ProtocolEnumHttp, Port: aws.Int32(80)},
			},
			"arn:lb/tcp": {
				{ListenerArn: aws.String("arn:l/tls"), Protocol: elbv2types.ProtocolEnumTls, Port: aws.Int32(8443)},
			},
		},
		rules: map[string][][]elbv2types.Rule{
			"arn:l/443": {
				{hostRule("shop.example.com"), hostRule("api.example.com", "*.example.com")},
				{hostRule("shop.example.com", "admin.example.com")},
			},
			"arn:l/80": {
				{hostRule("shop.example.com")},
			},
		},
	}

	gateways, err := newTestClient(t, api).ListGateways(context.Background())
	require.NoError(t, err)

	require.Len(t, gateways, 2)
	assert.Equal(t, pkgtypes.Gateway{
		Provider: "aws",
		Scope:    "eu-west-1",
		Name:     "web",
		ID:       "arn:lb/web",
		Listeners: []pkgtypes.Listener{
			{Name: "https:443", HostName: "shop.example.com", Protocol: pkgtypes.ProtocolHTTPS},
			{Name: "https:443", HostName: "api.example.com", Protocol: pkgtypes.ProtocolHTTPS},
			{Name: "https:443", HostName: "admin.example.com", Protocol: pkgtypes.ProtocolHTTPS},
			{Name: "http:80", HostName: "shop.example.com", Protocol: pkgtypes.ProtocolHTTP},
		},
	}, gateways[0])

	assert.Equal(t, "tcp", gateways[1].Name)
	assert.Equal(t, []pkgtypes.Listener{
		{Name: "tls:8443", Protocol: pkgtypes.ProtocolTLS},
	}, gateways[1].Listeners)
}

func TestListGatewaysRuleFailure(t *testing.T) {
	api := &fakeELBv2{
		loadBalancers: [][]elbv2types.LoadBalancer{{{
			LoadBalancerName: aws.String("web"),
			LoadBalancerArn:  aws.String("arn:lb/web"),
			Type:             elbv2types.LoadBalancerTypeEnumApplication,
		}}},
		listeners: map[string][]elbv2types.Listener{
			"arn:lb/web": {{ListenerArn: aws.String("arn:l/443"), Protocol: elbv2types.ProtocolEnumHttps}},
		},
		rulesErr: errors.New("AccessDenied"),
	}

	gateways, err := newTestClient(t, api).ListGateways(context.Background())

	require.Error(t, err)
	assert.Nil(t, gateways)
	assert.Contains(t, err.Error(), "load balancer web")
	assert.Contains(t, err.Error(), "AccessDenied")
}

func TestHostHeadersLegacyValues(t *testing.T) {
	rule := elbv2types.Rule{
		Conditions: []elbv2types.RuleCondition{
			{Field: aws.String("path-pattern"), Values: []string{"/api/*"}},
			{Field: aws.String("host-header"), Values: []string{"legacy.example.com"}},
		},
	}

	assert.Equal(t, []string{"legacy.example.com"}, hostHeaders(rule))
}

func TestToProtocol(t *testing.T) {
	tests := []struct {
		in   elbv2types.ProtocolEnum
		want pkgtypes.Protocol
	}{
		{elbv2types.ProtocolEnumHttps, pkgtypes.ProtocolHTTPS},
		{elbv2types.ProtocolEnumHttp, pkgtypes.ProtocolHTTP},
		{elbv2types.ProtocolEnumTls, pkgtypes.ProtocolTLS},
		{elbv2types.ProtocolEnumTcp, pkgtypes.ProtocolTCP},
		{elbv2types.ProtocolEnumUdp, pkgtypes.Protocol("UDP")},
	}

	for _, tt := range tests {
		t.Run(string(tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, toProtocol(tt.in))
		})
	}
}

func TestCallerIdentity(t *testing.T) {
	id, err := newTestClient(t, &fakeELBv2{}).CallerIdentity(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &CallerIdentity{
		Account: "123456789012",
		Arn:     "arn:aws:iam::123456789012:user/auditor",
		UserID:  "AIDAEXAMPLE",
	}, id)
}

func TestClientName(t *testing.T) {
	c := newTestClient(t, &fakeELBv2{})
	assert.Equal(t, "aws", c.Name())
	assert.Equal(t, "eu-west-1", c.Region())
}

type fakeEC2 struct {
	regions []string
	err     error
}

func (f fakeEC2) DescribeRegions(context.Context, *ec2.DescribeRegionsInput, ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := &ec2.DescribeRegionsOutput{}
	for _, r := range f.regions {
		out.Regions = append(out.Regions, ec2types.Region{RegionName: aws.String(r)})
	}
	return out, nil
}

func singleLB(name string) *fakeELBv2 {
	arn := "arn:lb/" + name
	return &fakeELBv2{
		loadBalancers: [][]elbv2types.LoadBalancer{{{
			LoadBalancerName: aws.String(name),
			LoadBalancerArn:  aws.String(arn),
			Type:             elbv2types.LoadBalancerTypeEnumApplication,
		}}},
		listeners: map[string][]elbv2types.Listener{
			arn: {{ListenerArn: aws.String(arn + "/443"), Protocol: elbv2types.ProtocolEnumHttps, Port: aws.Int32(443)}},
		},
		rules: map[string][][]elbv2types.Rule{
			arn + "/443": {{hostRule(name + ".example.com")}},
		},
	}
}

func newAllRegionsClient(t *testing.T, regions EC2API, apis map[string]ELBv2API) *Client {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	c, err := NewClient(context.Background(),
		WithRegionalAPIs(regions, func(region string) ELBv2API { return apis[region] }, fakeSTS{}),
		WithLogger(logrus.NewEntry(logger)),
	)
	require.NoError(t, err)
	return c
}

func TestListGatewaysAllRegions(t *testing.T) {
	c := newAllRegionsClient(t,
		fakeEC2{regions: []string{"us-east-1", "eu-west-1"}},
		map[string]ELBv2API{
			"eu-west-1": singleLB("dublin"),
			"us-east-1": singleLB("virginia"),
		},
	)

	gateways, err := c.ListGateways(context.Background())
	require.NoError(t, err)

	require.Len(t, gateways, 2)
	assert.Equal(t, "dublin", gateways[0].Name)
	assert.Equal(t, "eu-west-1", gateways[0].Scope)
	assert.Equal(t, "virginia", gateways[1].Name)
	assert.Equal(t, "us-east-1", gateways[1].Scope)
	assert.Equal(t, []pkgtypes.Listener{
		{Name: "https:443", HostName: "virginia.example.com", Protocol: pkgtypes.ProtocolHTTPS},
	}, gateways[1].Listeners)
	assert.Equal(t, AllRegions, c.Region())
}

func TestListGatewaysAllRegionsFailure(t *testing.T) {
	c := newAllRegionsClient(t, fakeEC2{err: errors.New("UnauthorizedOperation")}, nil)

	_, err := c.ListGateways(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to describe regions")
	assert.Contains(t, err.Error(), "UnauthorizedOperation")
}

func TestWithRegionAll(t *testing.T) {
	c := &Client{}
	WithRegion(AllRegions)(c)

	assert.True(t, c.allRegions)
	assert.Empty(t, c.region)
}
