package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vietdv277/gatecert/internal/config"
	"github.com/vietdv277/gatecert/internal/ui"
)

var subscriptionsAuth string

var subscriptionsCmd = &cobra.Command{
	Use:     "subscriptions",
	Aliases: []string{"subs"},
	Short:   "List Azure subscriptions visible to the credentials",
	Long: `List the Azure subscriptions the configured service principal (or the
default credential chain with --auth default) can read.

Examples:
  gatecert subscriptions
  gatecert subs --auth default -o json`,
	Args: cobra.NoArgs,
	RunE: runSubscriptions,
}

func init() {
	rootCmd.AddCommand(subscriptionsCmd)
	subscriptionsCmd.Flags().StringVar(&subscriptionsAuth, "auth", "", "Azure auth method (secret, default)")
}

func runSubscriptions(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	client, err := newAzureClient(&config.Context{Provider: config.ProviderAzure, AuthMethod: subscriptionsAuth})
	if err != nil {
		return err
	}

	subs, err := client.ListSubscriptions(cmd.Context())
	if err != nil {
		return err
	}

	if format != ui.OutputTable {
		return ui.Encode(cmd.OutOrStdout(), format, subs)
	}
	return ui.PrintSubscriptions(cmd.OutOrStdout(), subs)
}
