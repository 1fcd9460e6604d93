package cli

import (
	"github.com/opensocial-protocol/osp-cli/internal/cli/render"
	"github.com/opensocial-protocol/osp-cli/internal/domain"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
	"github.com/spf13/cobra"
)

// NewRouterCmd creates the router command group
func NewRouterCmd() *cobra.Command {
	routerCmd := &cobra.Command{
		Use:   "router",
		Short: "Inspect and update the protocol router",
	}

	routerCmd.AddCommand(newRouterUpdateCmd(), newRouterShowCmd())

	return routerCmd
}

func newRouterUpdateCmd() *cobra.Command {
	var (
		logic string
		impls map[string]string
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Deploy new logic modules and reroute their selectors",
		Long: `Deploy a new implementation for each logic module, diff its selectors
against the router and apply every removal, update and addition in a single
multicall. With --dry-run the multicall is printed instead of sent.`,
		Example: `  osp router update -e beta -n baseSepolia --logic profile,content
  osp router update -e prod -n base --logic community --impl community=0x... --dry-run`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			modules, err := selectModules(cmd, logic, app.Selector)
			if err != nil {
				return err
			}
			existing, err := parseImpls(impls)
			if err != nil {
				return err
			}

			result, err := app.UpdateRouter.Run(cmd.Context(), usecase.UpdateRouterParams{
				Modules: modules,
				Impls:   existing,
			})
			if err != nil {
				return err
			}

			return render.NewRouterRenderer(cmd.OutOrStdout(), useColor()).RenderUpdate(result)
		},
	}

	cmd.Flags().StringVar(&logic, "logic", "", "Comma separated logic modules (governance,profile,content,relation,community)")
	cmd.Flags().StringToStringVar(&impls, "impl", nil, "Reuse a deployed implementation, as module=address")

	return cmd
}

func newRouterShowCmd() *cobra.Command {
	var logic string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the selectors registered on the router",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var params usecase.ShowRouterParams
			if logic != "" {
				if params.Modules, err = domain.ParseLogicModules(logic); err != nil {
					return err
				}
			}

			result, err := app.ShowRouter.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewRouterRenderer(cmd.OutOrStdout(), useColor()).Render(result)
		},
	}

	cmd.Flags().StringVar(&logic, "logic", "", "Only show these logic modules")

	return cmd
}
