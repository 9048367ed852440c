package cmd

import (
	"github.com/spf13/cobra"

	"github.com/vietdv277/gatecert/pkg/types"
)

var (
	certMetricsFile string
	certFile        string
	certPlain       bool
)

var certCmd = &cobra.Command{
	Use:   "cert <host>...",
	Short: "Check the certificates of hosts directly",
	Long: `Connect to each host on port 443 and classify its certificate against
the renewal window, without listing any gateway.

Examples:
  gatecert cert example.com
  gatecert cert shop.example.com api.example.com --window-days 14 -o yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCert,
}

func init() {
	rootCmd.AddCommand(certCmd)
	certCmd.Flags().StringVar(&certMetricsFile, "metrics-file", "", "Write Prometheus metrics to this textfile")
	certCmd.Flags().StringVar(&certFile, "cert-file", "", "Read expiration dates from a host: date YAML file instead of connecting")
	certCmd.Flags().BoolVar(&certPlain, "plain", false, "Print only the hosts requiring renewal")
}

// hostsGateway wraps command line hosts into a gateway of HTTPS listeners
func hostsGateway(hosts []string) types.Gateway {
	gw := types.Gateway{Name: "cli", Provider: "cli"}
	for _, host := range hosts {
		gw.Listeners = append(gw.Listeners, types.Listener{
			Name:     host,
			HostName: host,
			Protocol: types.ProtocolHTTPS,
		})
	}
	return gw
}

func runCert(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	source, err := newCertificateSource(certFile)
	if err != nil {
		return err
	}

	report, err := newScanner(source).Scan(cmd.Context(), []types.Gateway{hostsGateway(args)})
	if report == nil {
		return err
	}

	if writeErr := writeReport(cmd, report, format, certPlain, certMetricsFile); writeErr != nil && err == nil {
		err = writeErr
	}
	return err
}
