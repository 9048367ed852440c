package azure

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"

	"github.com/vietdv277/gatecert/pkg/types"
)

// ListGateways returns the Application Gateways of every subscription in
// scope. An error listing any subscription fails the whole call.
func (c *Client) ListGateways(ctx context.Context) ([]types.Gateway, error) {
	ids, err := c.subscriptionIDs(ctx)
	if err != nil {
		return nil, err
	}

	var gateways []types.Gateway
	for _, id := range ids {
		gws, err := c.listSubscriptionGateways(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("subscription %s: %w", id, err)
		}
		c.logger.WithField("subscription", id).
			WithField("gateways", len(gws)).
			Debug("listed application gateways")
		gateways = append(gateways, gws...)
	}

	return gateways, nil
}

func (c *Client) listSubscriptionGateways(ctx context.Context, subscriptionID string) ([]types.Gateway, error) {
	client, err := armnetwork.NewApplicationGatewaysClient(subscriptionID, c.cred, c.options)
	if err != nil {
		return nil, fmt.Errorf("failed to create application gateways client: %w", err)
	}

	var gateways []types.Gateway
	pager := client.NewListAllPager(nil)
	for pager.More() {
		next, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list application gateways: %w", err)
		}
		for _, gw := range next.Value {
			if gw == nil {
				continue
			}
			gateways = append(gateways, toGateway(subscriptionID, gw))
		}
	}

	return gateways, nil
}

// toGateway converts an ARM ApplicationGateway to our Gateway type
func toGateway(subscriptionID string, gw *armnetwork.ApplicationGateway) types.Gateway {
	id := toValue(gw.ID)
	result := types.Gateway{
		Provider:      "azure",
		Scope:         subscriptionID,
		ResourceGroup: resourceGroupFromID(id),
		Name:          toValue(gw.Name),
		ID:            id,
	}

	if gw.Properties == nil {
		return result
	}

	for _, l := range gw.Properties.HTTPListeners {
		if l == nil {
			continue
		}
		result.Listeners = append(result.Listeners, toListeners(l)...)
	}

	return result
}

// toListeners converts an ARM listener. A multi-site listener carrying
// several hostNames yields one listener per additional hostname.
func toListeners(l *armnetwork.ApplicationGatewayHTTPListener) []types.Listener {
	listener := types.Listener{Name: toValue(l.Name)}
	if l.Properties == nil {
		return []types.Listener{listener}
	}

	listener.HostName = toValue(l.Properties.HostName)
	listener.Protocol = types.Protocol(toValue(l.Properties.Protocol))
	listeners := []types.Listener{listener}

	for _, h := range l.Properties.HostNames {
		host := toValue(h)
		if host == "" || host == listener.HostName || strings.Contains(host, "*") {
			continue
		}
		extra := listener
		extra.HostName = host
		listeners = append(listeners, extra)
	}

	return listeners
}

// resourceGroupFromID extracts the resource group from an ARM resource ID
func resourceGroupFromID(id string) string {
	parts := strings.Split(id, "/")
	for i := 0; i+1 < len(parts); i++ {
		if strings.EqualFold(parts[i], "resourceGroups") {
			return parts[i+1]
		}
	}
	return ""
}
