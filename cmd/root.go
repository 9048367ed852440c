package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/vietdv277/gatecert/internal/certs"
	"github.com/vietdv277/gatecert/internal/config"
	"github.com/vietdv277/gatecert/internal/logging"
	"github.com/vietdv277/gatecert/internal/scan"
	"github.com/vietdv277/gatecert/internal/ui"
)

var (
	// Global flags
	contextName string
	logLevel    string
	logFormat   string
	verbose     bool
	output      string
	windowDays  int
	workers     int
	timeout     time.Duration

	log       *logrus.Logger
	configErr error
)

var rootCmd = &cobra.Command{
	Use:   "gatecert",
	Short: "gatecert - TLS certificate renewal auditor for cloud load balancers",
	Long: `gatecert walks the listener configuration of your cloud load balancers
(Azure Application Gateways, AWS ALB/NLB, GCP URL maps), connects to every
HTTPS hostname and reports the certificates that expire within the renewal
window. It exits with status 1 when a certificate needs renewal or a host
could not be checked.

Scanning:
  gatecert scan                      # Scan the current context
  gatecert scan -i                   # Pick Azure subscriptions interactively
  gatecert scan --file gateways.json # Scan an 'az network application-gateway list' export
  gatecert cert example.com          # Check hosts directly

Context-Aware Commands:
  gatecert use azure:prod            # Switch to the Azure production context
  gatecert status                    # Show current context and auth status
  gatecert contexts                  # List all configured contexts

Inventory:
  gatecert gateways                  # List gateways and their HTTPS hosts
  gatecert subscriptions             # List Azure subscriptions`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupLogging,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags (available to all subcommands)
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&contextName, "context", "c", "", "Context to use instead of the current one")
	flags.StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	flags.StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Shorthand for --log-level debug")
	flags.StringVarP(&output, "output", "o", ui.OutputTable, "Output format (table, json, yaml)")
	flags.IntVar(&windowDays, "window-days", int(scan.DefaultWindow.Hours()/24), "Flag certificates expiring within this many days")
	flags.IntVar(&workers, "workers", scan.DefaultWorkers, "Concurrent certificate checks")
	flags.DurationVar(&timeout, "timeout", certs.DefaultTimeout, "TLS connection timeout per host")

	// Bind flags to viper
	_ = viper.BindPFlag("context", flags.Lookup("context"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
	_ = viper.BindPFlag("log_format", flags.Lookup("log-format"))
	_ = viper.BindPFlag("output", flags.Lookup("output"))
	_ = viper.BindPFlag("window_days", flags.Lookup("window-days"))
	_ = viper.BindPFlag("workers", flags.Lookup("workers"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))
}

func initConfig() {
	// CLIENT_ID, CLIENT_SECRET and TENANT_ID may come from a .env file
	_ = godotenv.Load()

	// Read from environment variables
	viper.SetEnvPrefix("GATECERT")
	viper.AutomaticEnv()

	// Config file defaults sit below flags and environment
	cfg, err := config.LoadConfig()
	if err != nil {
		configErr = err
		return
	}
	if d := cfg.Defaults; d != nil {
		if d.Output != "" {
			viper.SetDefault("output", d.Output)
		}
		if d.WindowDays > 0 {
			viper.SetDefault("window_days", d.WindowDays)
		}
		if d.Workers > 0 {
			viper.SetDefault("workers", d.Workers)
		}
		if d.Timeout > 0 {
			viper.SetDefault("timeout", d.Timeout)
		}
	}
}

func setupLogging(cmd *cobra.Command, args []string) error {
	if configErr != nil {
		return configErr
	}

	level := viper.GetString("log_level")
	if verbose {
		level = "debug"
	}

	logger, err := logging.New(level, viper.GetString("log_format"))
	if err != nil {
		return err
	}
	log = logger
	return nil
}

// logEntry returns the command logger tagged with a component name
func logEntry(component string) *logrus.Entry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return log.WithField("component", component)
}
