package gcp

import (
	"context"
	"fmt"
	"strings"

	compute "cloud.google.com/go/compute/apiv1"
	"cloud.google.com/go/compute/apiv1/computepb"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/vietdv277/gatecert/pkg/types"
)

// targetProxy is a target HTTP(S) proxy reduced to what the listener
// conversion needs
type targetProxy struct {
	name     string
	urlMap   string
	protocol types.Protocol
}

// ListGateways returns one gateway per URL map that a target HTTP or HTTPS
// proxy routes to. Each host of the URL map's host rules becomes a listener
// of every proxy referencing it.
func (c *Client) ListGateways(ctx context.Context) ([]types.Gateway, error) {
	urlMaps, err := c.listURLMaps(ctx)
	if err != nil {
		return nil, err
	}

	proxies, err := c.listHTTPSProxies(ctx)
	if err != nil {
		return nil, err
	}
	httpProxies, err := c.listHTTPProxies(ctx)
	if err != nil {
		return nil, err
	}
	proxies = append(proxies, httpProxies...)

	gateways := toGateways(c.project, urlMaps, proxies)
	c.logger.WithField("project", c.project).
		WithField("gateways", len(gateways)).
		Debug("listed url maps")

	return gateways, nil
}

func (c *Client) clientOptions() []option.ClientOption {
	return []option.ClientOption{option.WithTokenSource(c.credentials.TokenSource)}
}

// inScope reports whether an aggregated list key is covered by the client's
// region. Global resources always are.
func (c *Client) inScope(key string) bool {
	if key == "global" || c.region == "" {
		return true
	}
	return key == "regions/"+c.region
}

func (c *Client) listURLMaps(ctx context.Context) ([]*computepb.UrlMap, error) {
	client, err := compute.NewUrlMapsRESTClient(ctx, c.clientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create url maps client: %w", err)
	}
	defer func() { _ = client.Close() }()

	var urlMaps []*computepb.UrlMap
	it := client.AggregatedList(ctx, &computepb.AggregatedListUrlMapsRequest{Project: c.project})
	for {
		pair, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list url maps: %w", err)
		}
		if !c.inScope(pair.Key) {
			continue
		}
		urlMaps = append(urlMaps, pair.Value.GetUrlMaps()...)
	}
	return urlMaps, nil
}

func (c *Client) listHTTPSProxies(ctx context.Context) ([]targetProxy, error) {
	client, err := compute.NewTargetHttpsProxiesRESTClient(ctx, c.clientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create target https proxies client: %w", err)
	}
	defer func() { _ = client.Close() }()

	var proxies []targetProxy
	it := client.AggregatedList(ctx, &computepb.AggregatedListTargetHttpsProxiesRequest{Project: c.project})
	for {
		pair, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list target https proxies: %w", err)
		}
		if !c.inScope(pair.Key) {
			continue
		}
		for _, p := range pair.Value.GetTargetHttpsProxies() {
			proxies = append(proxies, targetProxy{
				name:     p.GetName(),
				urlMap:   p.GetUrlMap(),
				protocol: types.ProtocolHTTPS,
			})
		}
	}
	return proxies, nil
}

func (c *Client) listHTTPProxies(ctx context.Context) ([]targetProxy, error) {
	client, err := compute.NewTargetHttpProxiesRESTClient(ctx, c.clientOptions()...)
	if err != nil {
		return nil, fmt.Errorf("create target http proxies client: %w", err)
	}
	defer func() { _ = client.Close() }()

	var proxies []targetProxy
	it := client.AggregatedList(ctx, &computepb.AggregatedListTargetHttpProxiesRequest{Project: c.project})
	for {
		pair, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list target http proxies: %w", err)
		}
		if !c.inScope(pair.Key) {
			continue
		}
		for _, p := range pair.Value.GetTargetHttpProxies() {
			proxies = append(proxies, targetProxy{
				name:     p.GetName(),
				urlMap:   p.GetUrlMap(),
				protocol: types.ProtocolHTTP,
			})
		}
	}
	return proxies, nil
}

// toGateways joins proxies to the URL maps they reference. URL maps no
// proxy references are not served and are skipped.
func toGateways(project string, urlMaps []*computepb.UrlMap, proxies []targetProxy) []types.Gateway {
	var gateways []types.Gateway
	for _, um := range urlMaps {
		link := resourcePath(um.GetSelfLink())
		gw := types.Gateway{
			Provider: "gcp",
			Scope:    project,
			Name:     um.GetName(),
			ID:       link,
		}

		referenced := false
		for _, p := range proxies {
			if resourcePath(p.urlMap) != link {
				continue
			}
			referenced = true
			gw.Listeners = append(gw.Listeners, toListeners(p, um)...)
		}
		if referenced {
			gateways = append(gateways, gw)
		}
	}
	return gateways
}

// toListeners yields one listener per concrete host of the URL map's host
// rules, or a single hostless listener when there are none
func toListeners(p targetProxy, um *computepb.UrlMap) []types.Listener {
	var listeners []types.Listener
	for _, rule := range um.GetHostRules() {
		for _, host := range rule.GetHosts() {
			if host == "" || strings.Contains(host, "*") {
				continue
			}
			listeners = append(listeners, types.Listener{
				Name:     p.name,
				HostName: host,
				Protocol: p.protocol,
			})
		}
	}
	if len(listeners) == 0 {
		return []types.Listener{{Name: p.name, Protocol: p.protocol}}
	}
	return listeners
}

// resourcePath trims a compute self link down to its "projects/..." path
func resourcePath(link string) string {
	if i := strings.Index(link, "projects/"); i >= 0 {
		return link[i:]
	}
	return link
}
