package aws

import (
	"context"
	"fmt"
	"strings"

	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"

	pkgtypes "github.com/vietdv277/gatecert/pkg/types"
)

const hostHeaderField = "host-header"

// ListGateways returns every application and network load balancer with
// one listener record per host-header rule value. With AllRegions set, every
// region enabled for the account is listed in turn.
func (c *Client) ListGateways(ctx context.Context) ([]pkgtypes.Gateway, error) {
	if !c.allRegions {
		return c.listRegion(ctx, c.region, c.ELBv2)
	}

	regions, err := c.Regions(ctx)
	if err != nil {
		return nil, err
	}

	var gateways []pkgtypes.Gateway
	for _, region := range regions {
		gws, err := c.listRegion(ctx, region, c.regionalELBv2(region))
		if err != nil {
			return nil, fmt.Errorf("region %s: %w", region, err)
		}
		gateways = append(gateways, gws...)
	}
	return gateways, nil
}

func (c *Client) listRegion(ctx context.Context, region string, api ELBv2API) ([]pkgtypes.Gateway, error) {
	var gateways []pkgtypes.Gateway

	paginator := elbv2.NewDescribeLoadBalancersPaginator(api, &elbv2.DescribeLoadBalancersInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to describe load balancers: %w", err)
		}

		for _, lb := range page.LoadBalancers {
			if lb.Type == elbv2types.LoadBalancerTypeEnumGateway {
				continue
			}
			gw, err := toGateway(ctx, api, region, lb)
			if err != nil {
				return nil, err
			}
			gateways = append(gateways, gw)
		}
	}

	c.logger.WithField("region", region).
		WithField("gateways", len(gateways)).
		Debug("listed load balancers")

	return gateways, nil
}

func toGateway(ctx context.Context, api ELBv2API, region string, lb elbv2types.LoadBalancer) (pkgtypes.Gateway, error) {
	gw := pkgtypes.Gateway{
		Provider: "aws",
		Scope:    region,
		Name:     deref(lb.LoadBalancerName),
		ID:       deref(lb.LoadBalancerArn),
	}

	listeners, err := describeListeners(ctx, api, gw.ID)
	if err != nil {
		return gw, fmt.Errorf("load balancer %s: %w", gw.Name, err)
	}

	for _, l := range listeners {
		var rules []elbv2types.Rule
		if isHTTPProtocol(l.Protocol) {
			rules, err = describeRules(ctx, api, deref(l.ListenerArn))
			if err != nil {
				return gw, fmt.Errorf("load balancer %s: %w", gw.Name, err)
			}
		}
		gw.Listeners = append(gw.Listeners, toListeners(l, rules)...)
	}

	return gw, nil
}

func describeListeners(ctx context.Context, api ELBv2API, lbARN string) ([]elbv2types.Listener, error) {
	var listeners []elbv2types.Listener
	input := &elbv2.DescribeListenersInput{LoadBalancerArn: &lbARN}
	for {
		output, err := api.DescribeListeners(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to describe listeners: %w", err)
		}
		listeners = append(listeners, output.Listeners...)
		if output.NextMarker == nil || *output.NextMarker == "" {
			return listeners, nil
		}
		input.Marker = output.NextMarker
	}
}

func describeRules(ctx context.Context, api ELBv2API, listenerARN string) ([]elbv2types.Rule, error) {
	var rules []elbv2types.Rule
	input := &elbv2.DescribeRulesInput{ListenerArn: &listenerARN}
	for {
		output, err := api.DescribeRules(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to describe rules: %w", err)
		}
		rules = append(rules, output.Rules...)
		if output.NextMarker == nil || *output.NextMarker == "" {
			return rules, nil
		}
		input.Marker = output.NextMarker
	}
}

// toListeners converts an ELBv2 Listener and its rules to listener records.
// Every distinct host-header value becomes one record; a listener without
// host rules yields a single record with no hostname.
func toListeners(l elbv2types.Listener, rules []elbv2types.Rule) []pkgtypes.Listener {
	name := fmt.Sprintf("%s:%d", strings.ToLower(string(l.Protocol)), derefInt32(l.Port))
	protocol := toProtocol(l.Protocol)

	var listeners []pkgtypes.Listener
	seen := make(map[string]bool)
	for _, r := range rules {
		for _, host := range hostHeaders(r) {
			if host == "" || seen[host] || strings.ContainsAny(host, "*?") {
				continue
			}
			seen[host] = true
			listeners = append(listeners, pkgtypes.Listener{
				Name:     name,
				HostName: host,
				Protocol: protocol,
			})
		}
	}

	if len(listeners) == 0 {
		return []pkgtypes.Listener{{Name: name, Protocol: protocol}}
	}
	return listeners
}

// hostHeaders returns the host-header condition values of a rule
func hostHeaders(r elbv2types.Rule) []string {
	var hosts []string
	for _, cond := range r.Conditions {
		if deref(cond.Field) != hostHeaderField {
			continue
		}
		if cond.HostHeaderConfig != nil && len(cond.HostHeaderConfig.Values) > 0 {
			hosts = append(hosts, cond.HostHeaderConfig.Values...)
			continue
		}
		hosts = append(hosts, cond.Values...)
	}
	return hosts
}

// toProtocol maps the ELBv2 protocol enum onto the listener protocol names
func toProtocol(p elbv2types.ProtocolEnum) pkgtypes.Protocol {
	switch p {
	case elbv2types.ProtocolEnumHttps:
		return pkgtypes.ProtocolHTTPS
	case elbv2types.ProtocolEnumHttp:
		return pkgtypes.ProtocolHTTP
	case elbv2types.ProtocolEnumTls:
		return pkgtypes.ProtocolTLS
	case elbv2types.ProtocolEnumTcp:
		return pkgtypes.ProtocolTCP
	default:
		return pkgtypes.Protocol(p)
	}
}

func isHTTPProtocol(p elbv2types.ProtocolEnum) bool {
	return p == elbv2types.ProtocolEnumHttps || p == elbv2types.ProtocolEnumHttp
}
