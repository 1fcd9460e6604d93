package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/opensocial-protocol/osp-cli/internal/app"
	"github.com/opensocial-protocol/osp-cli/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "osp",
		Short: "Deployment and administration tooling for the OpenSocial Protocol",
		Long: `osp builds, deploys and administers the OpenSocial Protocol contracts.

Deterministic contracts are deployed through a CREATE2 factory with vanity
salts, logic modules are wired into the router and every deployed address is
recorded in per-environment address books.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if skipAppInit(cmd) {
				return nil
			}

			// Find project root
			projectRoot, err := config.FindProjectRoot()
			if err != nil {
				return err
			}

			// Set up viper
			v := config.SetupViper(projectRoot)

			// Bind global flags that have been set
			bindGlobalFlags(v, cmd)

			// Initialize app with DI
			appInstance, err := app.InitApp(v)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}

			// Store app in context
			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// Add timeout if configured
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				// Store cancel func to be called on command completion
				cmd.PostRun = func(cmd *cobra.Command, args []string) {
					cancel()
				}
			}

			cmd.SetContext(ctx)

			return nil
		},
	}

	addGlobalFlags(rootCmd.PersistentFlags())

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "build",
		Title: "Build Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "deployment",
		Title: "Deployment Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	// Build commands
	for _, c := range []*cobra.Command{NewCompileCmd(), NewSelectorsCmd(), NewExportABICmd()} {
		c.GroupID = "build"
		rootCmd.AddCommand(c)
	}

	// Deployment commands
	for _, c := range []*cobra.Command{NewDeployCmd(), NewRouterCmd(), NewAdminCmd()} {
		c.GroupID = "deployment"
		rootCmd.AddCommand(c)
	}

	// Management commands
	for _, c := range []*cobra.Command{NewAddressesCmd(), NewCreate2Cmd(), NewNetworksCmd()} {
		c.GroupID = "management"
		rootCmd.AddCommand(c)
	}

	// Version command
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// addGlobalFlags registers the flags every command accepts
func addGlobalFlags(flags *pflag.FlagSet) {
	flags.Bool("debug", false, "Enable debug output")
	flags.Bool("non-interactive", false, "Disable interactive prompts")
	flags.StringP("env", "e", "", "Deployment environment (dev, beta, pre, prod)")
	flags.StringP("network", "n", "", "Network to use (e.g. local, baseSepolia)")
	flags.Bool("dry-run", false, "Print calldata instead of sending administration transactions")
	flags.Duration("timeout", 0, "Command timeout (default 10m)")
}

// skipAppInit reports whether cmd runs without a project
func skipAppInit(cmd *cobra.Command) bool {
	switch cmd.Name() {
	case "version", "help", "completion", cobra.ShellCompRequestCmd, cobra.ShellCompNoDescRequestCmd:
		return true
	}
	// Bare group commands only print their help
	return !cmd.Runnable()
}

// bindGlobalFlags binds command flags to viper
func bindGlobalFlags(v *viper.Viper, cmd *cobra.Command) {
	// Only bind flags that exist and have been changed
	for flag, key := range map[string]string{
		"debug":           "debug",
		"non-interactive": "non_interactive",
		"env":             "env",
		"network":         "network",
		"dry-run":         "dry_run",
		"timeout":         "timeout",
	} {
		if f := cmd.Flag(flag); f != nil && f.Changed {
			v.Set(key, f.Value.String())
		}
	}
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}

// useColor reports whether output should be colored
func useColor() bool {
	return !color.NoColor
}
