package cmd

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vietdv277/gatecert/internal/aws"
	"github.com/vietdv277/gatecert/internal/azure"
	"github.com/vietdv277/gatecert/internal/certs"
	"github.com/vietdv277/gatecert/internal/config"
	"github.com/vietdv277/gatecert/internal/fleetfile"
	"github.com/vietdv277/gatecert/internal/gcp"
	"github.com/vietdv277/gatecert/internal/metrics"
	"github.com/vietdv277/gatecert/internal/scan"
	"github.com/vietdv277/gatecert/internal/ui"
	"github.com/vietdv277/gatecert/pkg/provider"
	pkgtypes "github.com/vietdv277/gatecert/pkg/types"
)

// ErrRenewalRequired is returned when a scan flags hosts or fails to check
// some of them, so the process exits non-zero
var ErrRenewalRequired = errors.New("certificate renewal required")

var (
	// Source override flags
	sourceProvider      string
	sourceFile          string
	sourceSubscriptions []string
	sourceAuth          string
	sourceProfile       string
	sourceProject       string
	sourceRegion        string
)

// addSourceFlags registers the flags that override the context's gateway
// source
func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sourceProvider, "provider", "", "Gateway provider (azure, aws, gcp, file)")
	cmd.Flags().StringVarP(&sourceFile, "file", "f", "", "Read gateways from an 'az network application-gateway list' export")
	cmd.Flags().StringSliceVarP(&sourceSubscriptions, "subscription", "s", nil, "Azure subscription ID (repeatable)")
	cmd.Flags().StringVar(&sourceAuth, "auth", "", "Azure auth method (secret, default)")
	cmd.Flags().StringVar(&sourceProfile, "profile", "", "AWS profile name")
	cmd.Flags().StringVar(&sourceProject, "project", "", "GCP project ID")
	cmd.Flags().StringVar(&sourceRegion, "region", "", "AWS or GCP region ('all' lists every enabled AWS region)")
}

// resolveSource returns the context to read gateways from: --context, else
// the current context, else Azure with all subscriptions. Source flags
// override the context's settings.
func resolveSource() (*config.Context, string, error) {
	src := &config.Context{Provider: config.ProviderAzure}
	name := "(default)"

	if requested := viper.GetString("context"); requested != "" {
		ctx, err := config.GetContext(requested)
		if err != nil {
			return nil, "", err
		}
		*src = *ctx
		name = requested
	} else {
		ctx, current, err := config.GetCurrentContext()
		if err != nil {
			return nil, "", err
		}
		if ctx != nil {
			*src = *ctx
			name = current
		}
	}

	switch {
	case sourceProvider != "":
		src.Provider = sourceProvider
	case sourceFile != "":
		src.Provider = config.ProviderFile
	}
	if sourceFile != "" {
		src.File = sourceFile
	}
	if len(sourceSubscriptions) > 0 {
		src.Subscriptions = sourceSubscriptions
	}
	if sourceAuth != "" {
		src.AuthMethod = sourceAuth
	}
	if sourceProfile != "" {
		src.Profile = sourceProfile
	}
	if sourceProject != "" {
		src.Project = sourceProject
	}
	if sourceRegion != "" {
		src.Region = sourceRegion
	}

	if err := src.Validate(); err != nil {
		return nil, "", err
	}
	return src, name, nil
}

// newAzureClient creates an Azure client for the context
func newAzureClient(src *config.Context) (*azure.Client, error) {
	return azure.NewClient(
		azure.WithAuthMethod(src.AuthMethod),
		azure.WithSubscriptions(src.Subscriptions...),
		azure.WithLogger(logEntry("azure")),
	)
}

// newGatewayProvider creates the gateway provider a context points at
func newGatewayProvider(ctx context.Context, src *config.Context) (provider.GatewayProvider, error) {
	switch src.Provider {
	case config.ProviderAzure:
		return newAzureClient(src)
	case config.ProviderAWS:
		client, err := aws.NewClient(ctx,
			aws.WithProfile(src.Profile),
			aws.WithRegion(src.Region),
			aws.WithLogger(logEntry("aws")),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", provider.ErrConfigurationMissing, err)
		}
		return client, nil
	case config.ProviderGCP:
		client, err := gcp.NewClient(ctx,
			gcp.WithProject(src.Project),
			gcp.WithRegion(src.Region),
			gcp.WithLogger(logEntry("gcp")),
		)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", provider.ErrConfigurationMissing, err)
		}
		return client, nil
	case config.ProviderFile:
		return fleetfile.NewProvider(src.File), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", provider.ErrNotSupported, src.Provider)
	}
}

// newCertificateSource returns the live TLS inspector, or the fixture file
// when certFile is set
func newCertificateSource(certFile string) (provider.CertificateSource, error) {
	if certFile != "" {
		return certs.LoadStaticSource(certFile)
	}
	return certs.NewInspector(
		certs.WithTimeout(viper.GetDuration("timeout")),
		certs.WithLogger(logEntry("certs")),
	), nil
}

// newScanner creates a scanner configured from flags, environment and
// config file defaults
func newScanner(source provider.CertificateSource) *scan.Scanner {
	return scan.NewScanner(source,
		scan.WithWindow(scan.WindowDays(viper.GetInt("window_days"))),
		scan.WithWorkers(viper.GetInt("workers")),
		scan.WithLogger(logEntry("scan")),
	)
}

// outputFormat returns the validated --output setting
func outputFormat() (string, error) {
	format := viper.GetString("output")
	if err := ui.ValidateOutput(format); err != nil {
		return "", err
	}
	return format, nil
}

// writeReport prints the report in the requested format, writes the
// metrics textfile when asked, and turns a failed report into an error
func writeReport(cmd *cobra.Command, report *pkgtypes.Report, format string, plain bool, metricsFile string) error {
	out := cmd.OutOrStdout()

	var err error
	switch {
	case format != ui.OutputTable:
		err = ui.EncodeReport(out, format, report)
	case plain:
		err = ui.PrintRenewals(out, report.Renewals)
	default:
		err = ui.PrintReport(out, report)
	}
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if metricsFile != "" {
		recorder := metrics.NewRecorder()
		recorder.Record(report, time.Now())
		if err := recorder.WriteTextfile(metricsFile); err != nil {
			return err
		}
	}

	if report.Failed() {
		return fmt.Errorf("%w: %d hosts inside the %d day window, %d hosts not checked",
			ErrRenewalRequired, len(report.Renewals), int(report.Window.Hours()/24), len(report.Errors))
	}
	return nil
}
