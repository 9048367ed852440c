package aws

import (
	"context"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// Regions returns the regions enabled for the account, sorted by name
func (c *Client) Regions(ctx context.Context) ([]string, error) {
	output, err := c.EC2.DescribeRegions(ctx, &ec2.DescribeRegionsInput{
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("opt-in-status"),
				Values: []string{"opt-in-not-required", "opted-in"},
			},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe regions: %w", err)
	}

	regions := make([]string, 0, len(output.Regions))
	for _, r := range output.Regions {
		if name := deref(r.RegionName); name != "" {
			regions = append(regions, name)
		}
	}
	sort.Strings(regions)

	c.logger.WithField("regions", len(regions)).Debug("described regions")

	return regions, nil
}
