package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vietdv277/gatecert/internal/aws"
	"github.com/vietdv277/gatecert/internal/config"
	"github.com/vietdv277/gatecert/internal/gcp"
	"github.com/vietdv277/gatecert/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current context and authentication status",
	Long: `Display the current active context and verify authentication status
for the configured gateway provider.

Examples:
  gatecert status
  gatecert status --context aws:prod`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	ctx, ctxName, err := resolveSource()
	if err != nil {
		return fmt.Errorf("failed to get current context: %w", err)
	}

	fmt.Fprintln(out, "Current Status")
	fmt.Fprintln(out, ui.MutedStyle.Render("─────────────────────────────────"))
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Context:  %s\n", ui.HeaderStyle.Render(ctxName))
	fmt.Fprintf(out, "Provider: %s\n", ui.ProviderStyle(ctx.Provider).Render(ctx.Provider))

	switch ctx.Provider {
	case config.ProviderAzure:
		displayAzureStatus(cmd.Context(), out, ctx)
	case config.ProviderAWS:
		displayAWSStatus(cmd.Context(), out, ctx)
	case config.ProviderGCP:
		displayGCPStatus(cmd.Context(), out, ctx)
	case config.ProviderFile:
		displayFileStatus(out, ctx)
	}

	return nil
}

func notAuthenticated(out io.Writer, err error, hints ...string) {
	fmt.Fprintln(out, ui.ExpiredStyle.Render("✗ Not authenticated"))
	fmt.Fprintf(out, "          %s\n", ui.MutedStyle.Render(err.Error()))
	fmt.Fprintln(out)
	fmt.Fprintln(out, "To authenticate:")
	for _, hint := range hints {
		fmt.Fprintf(out, "  %s\n", hint)
	}
}

func displayAzureStatus(ctx context.Context, out io.Writer, src *config.Context) {
	if len(src.Subscriptions) == 0 {
		fmt.Fprintf(out, "Scope:    %s\n", ui.MutedStyle.Render("all enabled subscriptions"))
	} else {
		fmt.Fprintf(out, "Scope:    %d subscriptions\n", len(src.Subscriptions))
	}
	fmt.Fprintln(out)

	fmt.Fprint(out, "Auth:     ")
	client, err := newAzureClient(src)
	if err != nil {
		notAuthenticated(out, err,
			"export CLIENT_ID, CLIENT_SECRET and TENANT_ID (or put them in .env)",
			"or run 'az login' and use --auth default")
		return
	}

	subs, err := client.ListSubscriptions(ctx)
	if err != nil {
		notAuthenticated(out, err, "check the service principal has Reader access")
		return
	}
	fmt.Fprintln(out, ui.OKStyle.Render("✓ Authenticated"))
	fmt.Fprintf(out, "Visible:  %d subscriptions\n", len(subs))
}

func displayAWSStatus(ctx context.Context, out io.Writer, src *config.Context) {
	fmt.Fprintf(out, "Profile:  %s\n", ui.AWSStyle.Render(src.Profile))
	if src.Region != "" {
		fmt.Fprintf(out, "Region:   %s\n", src.Region)
	}
	fmt.Fprintln(out)

	fmt.Fprint(out, "Auth:     ")
	client, err := aws.NewClient(ctx,
		aws.WithProfile(src.Profile),
		aws.WithRegion(src.Region),
		aws.WithLogger(logEntry("aws")),
	)
	if err != nil {
		notAuthenticated(out, err, fmt.Sprintf("aws sso login --profile %s", src.Profile))
		return
	}

	identity, err := client.CallerIdentity(ctx)
	if err != nil {
		notAuthenticated(out, err, fmt.Sprintf("aws sso login --profile %s", src.Profile))
		return
	}
	fmt.Fprintln(out, ui.OKStyle.Render("✓ Authenticated"))
	fmt.Fprintf(out, "Account:  %s\n", identity.Account)
	fmt.Fprintf(out, "User:     %s\n", identity.UserID)
	if identity.Arn != "" {
		fmt.Fprintf(out, "ARN:      %s\n", ui.MutedStyle.Render(identity.Arn))
	}
}

func displayGCPStatus(ctx context.Context, out io.Writer, src *config.Context) {
	fmt.Fprintf(out, "Project:  %s\n", ui.GCPStyle.Render(src.Project))
	if src.Region != "" {
		fmt.Fprintf(out, "Region:   %s\n", src.Region)
	}
	fmt.Fprintln(out)

	fmt.Fprint(out, "Auth:     ")
	client, err := gcp.NewClient(ctx,
		gcp.WithProject(src.Project),
		gcp.WithRegion(src.Region),
		gcp.WithLogger(logEntry("gcp")),
	)
	if err != nil {
		notAuthenticated(out, err, "gcloud auth application-default login")
		return
	}

	identity, err := client.CallerIdentity(ctx)
	if err != nil {
		notAuthenticated(out, err, "gcloud auth application-default login")
		return
	}
	fmt.Fprintln(out, ui.OKStyle.Render("✓ Authenticated"))
	if identity.Email != "" {
		fmt.Fprintf(out, "Account:  %s\n", identity.Email)
	}
	fmt.Fprintf(out, "Type:     %s\n", ui.MutedStyle.Render(identity.TokenType))
}

func displayFileStatus(out io.Writer, src *config.Context) {
	fmt.Fprintf(out, "File:     %s\n", src.File)
	fmt.Fprintln(out)

	fmt.Fprint(out, "Status:   ")
	info, err := os.Stat(src.File)
	if err != nil {
		fmt.Fprintln(out, ui.ExpiredStyle.Render("✗ Not readable"))
		fmt.Fprintf(out, "          %s\n", ui.MutedStyle.Render(err.Error()))
		return
	}
	fmt.Fprintln(out, ui.OKStyle.Render("✓ Found"))
	fmt.Fprintf(out, "Modified: %s\n", info.ModTime().Format("2006-01-02 15:04"))
}
