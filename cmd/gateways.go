package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vietdv277/gatecert/internal/scan"
	"github.com/vietdv277/gatecert/internal/ui"
)

var gatewaysCmd = &cobra.Command{
	Use:     "gateways",
	Aliases: []string{"gw", "lb"},
	Short:   "List gateways and their renewal-eligible listeners",
	Long: `List the gateways of the current context with the HTTPS listener
hostnames a scan would check. No TLS connections are made.

Examples:
  gatecert gateways
  gatecert gateways --provider aws --profile prod --region eu-west-1
  gatecert gateways --file gateways.json -o yaml`,
	Args: cobra.NoArgs,
	RunE: runGateways,
}

func init() {
	rootCmd.AddCommand(gatewaysCmd)
	addSourceFlags(gatewaysCmd)
}

func runGateways(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format, err := outputFormat()
	if err != nil {
		return err
	}

	src, _, err := resolveSource()
	if err != nil {
		return err
	}

	p, err := newGatewayProvider(ctx, src)
	if err != nil {
		return err
	}

	gateways, err := scan.CollectGateways(ctx, p)
	if err != nil {
		return err
	}

	if format != ui.OutputTable {
		return ui.Encode(cmd.OutOrStdout(), format, gateways)
	}
	return ui.PrintGateways(cmd.OutOrStdout(), gateways)
}
