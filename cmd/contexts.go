package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vietdv277/gatecert/internal/config"
	"github.com/vietdv277/gatecert/internal/ui"
)

var contextsCmd = &cobra.Command{
	Use:     "contexts",
	Aliases: []string{"ctx"},
	Short:   "List all configured contexts",
	Long: `List all configured gateway contexts.

The current active context is marked with an asterisk (*).

Examples:
  gatecert contexts
  gatecert ctx`,
	Args: cobra.NoArgs,
	RunE: runContexts,
}

func init() {
	rootCmd.AddCommand(contextsCmd)
}

func printAddContextHint(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Add a context with:")
	fmt.Fprintln(out, "  gatecert use add azure:prod --subscription <subscription-id>")
	fmt.Fprintln(out, "  gatecert use add aws:prod --profile <profile> --region <region>")
	fmt.Fprintln(out, "  gatecert use add gcp:prod --project <project-id>")
	fmt.Fprintln(out, "  gatecert use add file:export --file gateways.json")
}

func runContexts(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	contexts, current, err := config.ListContexts()
	if err != nil {
		return fmt.Errorf("failed to list contexts: %w", err)
	}

	if len(contexts) == 0 {
		fmt.Fprintln(out, "No contexts configured; scans default to Azure with all subscriptions.")
		fmt.Fprintln(out)
		printAddContextHint(cmd)
		return nil
	}

	names := make([]string, 0, len(contexts))
	for name := range contexts {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %-20s  %-8s  %s\n",
		ui.HeaderStyle.Render("CONTEXT"),
		ui.HeaderStyle.Render("PROVIDER"),
		ui.HeaderStyle.Render("SOURCE"))
	fmt.Fprintln(out, ui.MutedStyle.Render("  "+strings.Repeat("─", 60)))

	for _, name := range names {
		ctx := contexts[name]

		marker := "  "
		nameStr := fmt.Sprintf("%-20s", name)
		if name == current {
			marker = "* "
			nameStr = ui.OKStyle.Render(nameStr)
		}

		fmt.Fprintf(out, "%s%s  %s  %s\n",
			marker,
			nameStr,
			ui.ProviderStyle(ctx.Provider).Render(fmt.Sprintf("%-8s", ctx.Provider)),
			ui.ContextSource(ctx))
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "  %d contexts configured", len(contexts))
	if current != "" {
		fmt.Fprintf(out, ", current: %s", ui.OKStyle.Render(current))
	}
	fmt.Fprintln(out)

	return nil
}
