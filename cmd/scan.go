package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vietdv277/gatecert/internal/config"
	"github.com/vietdv277/gatecert/internal/ui"
	"github.com/vietdv277/gatecert/pkg/provider"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan load balancer listeners for certificates that need renewal",
	Long: `List every gateway of the current context, connect to each HTTPS listener
hostname and report the certificates expiring within the renewal window.

The command exits with status 1 when at least one host needs renewal or
could not be checked.

Examples:
  gatecert scan
  gatecert scan --window-days 30 -o json
  gatecert scan --subscription sub-1 --subscription sub-2
  gatecert scan -i                              # pick Azure subscriptions
  gatecert scan --file gateways.json --plain
  gatecert scan --metrics-file /var/lib/node_exporter/gatecert.prom`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

var (
	scanInteractive bool
	scanMetricsFile string
	scanCertFile    string
	scanPlain       bool
)

func init() {
	rootCmd.AddCommand(scanCmd)

	addSourceFlags(scanCmd)
	scanCmd.Flags().BoolVarP(&scanInteractive, "interactive", "i", false, "Select Azure subscriptions interactively")
	scanCmd.Flags().StringVar(&scanMetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	scanCmd.Flags().StringVar(&scanCertFile, "cert-file", "", "Read expiration dates from a host: date YAML file instead of connecting")
	scanCmd.Flags().BoolVar(&scanPlain, "plain", false, "Print only the hosts requiring renewal")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	format, err := outputFormat()
	if err != nil {
		return err
	}

	src, name, err := resolveSource()
	if err != nil {
		return err
	}
	logEntry("scan").WithField("context", name).WithField("provider", src.Provider).Debug("resolved gateway source")

	if scanInteractive {
		if err := pickSubscriptions(ctx, src); err != nil {
			return err
		}
	}

	gateways, err := newGatewayProvider(ctx, src)
	if err != nil {
		return err
	}

	source, err := newCertificateSource(scanCertFile)
	if err != nil {
		return err
	}

	report, err := newScanner(source).Run(ctx, gateways)
	if report == nil {
		return err
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if writeErr := writeReport(cmd, report, format, scanPlain, scanMetricsFile); writeErr != nil && err == nil {
		err = writeErr
	}
	return err
}

// pickSubscriptions narrows an Azure source to the subscriptions chosen in
// the interactive selector
func pickSubscriptions(ctx context.Context, src *config.Context) error {
	if src.Provider != config.ProviderAzure {
		return fmt.Errorf("%w: --interactive selects Azure subscriptions, context uses %s", provider.ErrNotSupported, src.Provider)
	}

	client, err := newAzureClient(&config.Context{Provider: src.Provider, AuthMethod: src.AuthMethod})
	if err != nil {
		return err
	}

	subs, err := client.ListSubscriptions(ctx)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return fmt.Errorf("%w: no Azure subscriptions visible to these credentials", provider.ErrConfigurationMissing)
	}

	selected, err := ui.SelectSubscriptions(subs)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		return fmt.Errorf("no subscription selected")
	}

	src.Subscriptions = make([]string, 0, len(selected))
	for _, sub := range selected {
		src.Subscriptions = append(src.Subscriptions, sub.ID)
	}
	return nil
}
