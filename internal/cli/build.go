package cli

import (
	"github.com/opensocial-protocol/osp-cli/internal/cli/render"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
	"github.com/spf13/cobra"
)

// NewCompileCmd creates the compile command
func NewCompileCmd() *cobra.Command {
	var skipBuild bool

	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Build contracts and regenerate selectors, ABIs and router setup",
		Long: `Run forge build, then write the function selector files, export the
contract ABIs, merge the event definitions into the client ABI and regenerate
the router setup of the Foundry test suite.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.CompileContracts.Run(cmd.Context(), usecase.CompileContractsParams{SkipBuild: skipBuild})
			if err != nil {
				return err
			}

			return render.NewBuildRenderer(cmd.OutOrStdout(), useColor()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&skipBuild, "skip-build", false, "Reuse the existing compiler output")

	return cmd
}

// NewSelectorsCmd creates the selectors command
func NewSelectorsCmd() *cobra.Command {
	var (
		include         []string
		skipRouterSetup bool
	)

	cmd := &cobra.Command{
		Use:   "selectors",
		Short: "Write function selector maps for the router interfaces",
		Long: `Write a signature to selector map for every compiled contract matching
the include patterns under target/fun-sig. A selector shared by two contracts
is an error, except for the aggregate client interface.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.GenerateSelectors.Run(cmd.Context(), usecase.GenerateSelectorsParams{
				Patterns:        include,
				SkipRouterSetup: skipRouterSetup,
			})
			if err != nil {
				return err
			}

			return render.NewBuildRenderer(cmd.OutOrStdout(), useColor()).RenderSelectors(result)
		},
	}

	cmd.Flags().StringSliceVar(&include, "include", nil, "Source path patterns to generate selectors for")
	cmd.Flags().BoolVar(&skipRouterSetup, "skip-router-setup", false, "Leave the test router setup untouched")

	return cmd
}

// NewExportABICmd creates the export-abi command
func NewExportABICmd() *cobra.Command {
	var params usecase.ExportABIsParams

	cmd := &cobra.Command{
		Use:   "export-abi",
		Short: "Export contract ABIs to target/abis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ExportABIs.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewBuildRenderer(cmd.OutOrStdout(), useColor()).RenderABIs(result)
		},
	}

	cmd.Flags().StringSliceVar(&params.Only, "only", nil, "Export only contracts matching these patterns")
	cmd.Flags().StringSliceVar(&params.Except, "except", nil, "Skip contracts matching these patterns")
	cmd.Flags().BoolVar(&params.Clean, "clean", true, "Remove previously exported ABIs first")
	cmd.Flags().BoolVar(&params.SkipClientMerge, "skip-client-merge", false, "Do not merge events into the client ABI")

	return cmd
}
