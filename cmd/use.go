package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vietdv277/gatecert/internal/config"
	"github.com/vietdv277/gatecert/internal/ui"
)

var useCmd = &cobra.Command{
	Use:   "use [context-name]",
	Short: "Set the active context",
	Long: `Set the active gateway context for subsequent commands.

Context names follow the pattern: <provider>:<name>
Examples: azure:prod, aws:prod, gcp:staging, file:export

Without a name, an interactive selector lists the configured contexts.

Examples:
  gatecert use                 # Pick a context interactively
  gatecert use azure:prod      # Switch to the Azure production context
  gatecert use aws:eu          # Switch to an AWS context`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUse,
}

var useAddCmd = &cobra.Command{
	Use:   "add <context-name>",
	Short: "Add a new context",
	Long: `Add a new context configuration. The provider is taken from the name
prefix, --provider, or guessed from the other flags.

Examples:
  gatecert use add azure:prod --subscription sub-1 --subscription sub-2
  gatecert use add azure:all --auth default
  gatecert use add aws:prod --profile prod-sso --region eu-west-1
  gatecert use add gcp:staging --project mycompany-staging --region europe-west1
  gatecert use add file:export --file gateways.json`,
	Args: cobra.ExactArgs(1),
	RunE: runUseAdd,
}

var useDeleteCmd = &cobra.Command{
	Use:   "delete <context-name>",
	Short: "Delete a context",
	Long: `Delete a context configuration.

Examples:
  gatecert use delete aws:old-env`,
	Args:    cobra.ExactArgs(1),
	Aliases: []string{"rm", "remove"},
	RunE:    runUseDelete,
}

var (
	// Flags for use add
	useAddProvider      string
	useAddSubscriptions []string
	useAddAuth          string
	useAddProfile       string
	useAddProject       string
	useAddRegion        string
	useAddFile          string
)

func init() {
	rootCmd.AddCommand(useCmd)
	useCmd.AddCommand(useAddCmd)
	useCmd.AddCommand(useDeleteCmd)

	useAddCmd.Flags().StringVar(&useAddProvider, "provider", "", "Gateway provider (azure, aws, gcp, file)")
	useAddCmd.Flags().StringSliceVarP(&useAddSubscriptions, "subscription", "s", nil, "Azure subscription ID (repeatable, default all)")
	useAddCmd.Flags().StringVar(&useAddAuth, "auth", "", "Azure auth method (secret, default)")
	useAddCmd.Flags().StringVar(&useAddProfile, "profile", "", "AWS profile name")
	useAddCmd.Flags().StringVar(&useAddProject, "project", "", "GCP project ID")
	useAddCmd.Flags().StringVar(&useAddRegion, "region", "", "AWS or GCP region ('all' lists every enabled AWS region)")
	useAddCmd.Flags().StringVarP(&useAddFile, "file", "f", "", "Gateway export file")
}

func runUse(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	contexts, current, err := config.ListContexts()
	if err != nil {
		return err
	}

	var name string
	if len(args) == 0 {
		if len(contexts) == 0 {
			fmt.Fprintln(out, "No contexts configured.")
			fmt.Fprintln(out)
			printAddContextHint(cmd)
			return nil
		}
		name, err = ui.SelectContext(contexts, current)
		if err != nil {
			return err
		}
	} else {
		name = args[0]
	}

	if _, ok := contexts[name]; !ok {
		fmt.Fprintf(out, "Context %q not found.\n\n", name)
		if len(contexts) == 0 {
			printAddContextHint(cmd)
			return nil
		}

		names := make([]string, 0, len(contexts))
		for n := range contexts {
			names = append(names, n)
		}
		sort.Strings(names)

		fmt.Fprintln(out, "Available contexts:")
		for _, n := range names {
			marker := "  "
			if n == current {
				marker = "* "
			}
			fmt.Fprintf(out, "  %s%s\n", marker, n)
		}
		return nil
	}

	if err := config.SetCurrentContext(name); err != nil {
		return fmt.Errorf("failed to switch context: %w", err)
	}

	ctx := contexts[name]
	fmt.Fprintf(out, "Switched to context: %s\n", name)
	fmt.Fprintf(out, "  Provider: %s\n", ui.ProviderStyle(ctx.Provider).Render(ctx.Provider))
	fmt.Fprintf(out, "  Source:   %s\n", ui.ContextSource(ctx))

	return nil
}

// contextProvider picks the provider for a new context from --provider,
// the name prefix, then the flags given
func contextProvider(name string) (string, error) {
	if useAddProvider != "" {
		return useAddProvider, nil
	}
	if prefix, _ := config.ParseContextName(name); prefix != "" {
		return prefix, nil
	}

	switch {
	case useAddFile != "":
		return config.ProviderFile, nil
	case useAddProfile != "":
		return config.ProviderAWS, nil
	case useAddProject != "":
		return config.ProviderGCP, nil
	case len(useAddSubscriptions) > 0 || useAddAuth != "":
		return config.ProviderAzure, nil
	}
	return "", fmt.Errorf("cannot determine provider. Use format 'azure:name', 'aws:name', 'gcp:name' or 'file:name', or pass --provider")
}

func runUseAdd(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	contextName := args[0]

	provider, err := contextProvider(contextName)
	if err != nil {
		return err
	}

	ctx := &config.Context{
		Provider: provider,
		Region:   useAddRegion,
	}

	switch provider {
	case config.ProviderAzure:
		ctx.Subscriptions = useAddSubscriptions
		ctx.AuthMethod = useAddAuth
	case config.ProviderAWS:
		ctx.Profile = useAddProfile
	case config.ProviderGCP:
		ctx.Project = useAddProject
	case config.ProviderFile:
		if useAddFile == "" {
			return fmt.Errorf("--file is required for file contexts")
		}
		ctx.File = useAddFile
	}

	if err := config.AddContext(contextName, ctx); err != nil {
		return fmt.Errorf("failed to add context: %w", err)
	}

	fmt.Fprintf(out, "Context added: %s\n", contextName)
	fmt.Fprintln(out, "\nTo use this context:")
	fmt.Fprintf(out, "  gatecert use %s\n", contextName)

	return nil
}

func runUseDelete(cmd *cobra.Command, args []string) error {
	contextName := args[0]

	if err := config.DeleteContext(contextName); err != nil {
		return fmt.Errorf("failed to delete context: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Context deleted: %s\n", contextName)
	return nil
}
