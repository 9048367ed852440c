package azure

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armsubscriptions"

	"github.com/vietdv277/gatecert/pkg/types"
)

// ListSubscriptions returns every subscription visible to the credential
func (c *Client) ListSubscriptions(ctx context.Context) ([]types.Subscription, error) {
	client, err := armsubscriptions.NewClient(c.cred, c.options)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscriptions client: %w", err)
	}

	var subs []types.Subscription
	pager := client.NewListPager(nil)
	for pager.More() {
		next, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list subscriptions: %w", err)
		}
		for _, sub := range next.Value {
			if sub == nil {
				continue
			}
			subs = append(subs, toSubscription(sub))
		}
	}

	return subs, nil
}

// subscriptionIDs returns the configured subscriptions, or every enabled
// subscription when none were configured
func (c *Client) subscriptionIDs(ctx context.Context) ([]string, error) {
	if len(c.subscriptions) > 0 {
		return c.subscriptions, nil
	}

	subs, err := c.ListSubscriptions(ctx)
	if err != nil {
		return nil, err
	}

	var ids []string
	for _, sub := range subs {
		if sub.State != "" && sub.State != string(armsubscriptions.SubscriptionStateEnabled) {
			c.logger.WithField("subscription", sub.ID).
				WithField("state", sub.State).
				Debug("skipping subscription that is not enabled")
			continue
		}
		ids = append(ids, sub.ID)
	}
	return ids, nil
}

// toSubscription converts an ARM Subscription to our Subscription type
func toSubscription(sub *armsubscriptions.Subscription) types.Subscription {
	return types.Subscription{
		ID:          toValue(sub.SubscriptionID),
		DisplayName: toValue(sub.DisplayName),
		State:       string(toValue(sub.State)),
		TenantID:    toValue(sub.TenantID),
	}
}
