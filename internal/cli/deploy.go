package cli

import (
	"github.com/opensocial-protocol/osp-cli/internal/cli/render"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
	"github.com/spf13/cobra"
)

// NewDeployCmd creates the deploy command group
func NewDeployCmd() *cobra.Command {
	deployCmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deployment commands",
		Long:  "Commands for deploying the protocol and its conditions",
	}

	deployCmd.AddCommand(
		newDeployFactoryCmd(),
		newDeployProtocolCmd(),
		newDeployFixedFeeCondCmd(),
		newDeployWhitelistCondCmd(),
		newDeployPresaleSigCondCmd(),
		newDeployImplementationsCmd(),
		newDeployReactionsCmd(),
	)

	return deployCmd
}

func newDeployFactoryCmd() *cobra.Command {
	var params usecase.DeployFactoryParams

	cmd := &cobra.Command{
		Use:   "factory",
		Short: "Deploy the EIP-2470 singleton factory",
		Long: `Broadcast the presigned EIP-2470 deployment transaction. Nothing is sent
when the factory already has code on the network.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployFactory.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout(), useColor()).RenderFactory(result)
		},
	}

	cmd.Flags().BoolVar(&params.Fund, "fund", false, "Fund the one-time factory deployer from the signer")

	return cmd
}

func newDeployProtocolCmd() *cobra.Command {
	var params usecase.DeployProtocolParams

	cmd := &cobra.Command{
		Use:   "protocol",
		Short: "Deploy and initialize the full protocol",
		Long: `Compile, deploy the deterministic contracts through the CREATE2 factory,
deploy the logic modules and initialize the router in one multicall. The
address book of the env and network is written even when the logic phase
fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployProtocol.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout(), useColor()).Render(result)
		},
	}

	cmd.Flags().BoolVar(&params.SkipCompile, "skip-compile", false, "Reuse the existing build output")

	return cmd
}

func newDeployFixedFeeCondCmd() *cobra.Command {
	var params usecase.DeployFixedFeeCondParams

	cmd := &cobra.Command{
		Use:   "fixed-fee-cond",
		Short: "Deploy the fixed fee community condition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployFixedFeeCond.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout(), useColor()).RenderCondition(result)
		},
	}

	cmd.Flags().BoolVar(&params.Whitelist, "whitelist", false, "Whitelist the condition on the router")

	return cmd
}

func newDeployWhitelistCondCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whitelist-cond",
		Short: "Redeploy the whitelist address community condition",
		Long: `Deploy a new whitelist address community condition, replace the old one in
the address book and swap the router whitelist from the old condition to the
new one. The condition's init code must have changed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.RedeployWhitelistCond.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout(), useColor()).RenderCondition(result)
		},
	}
}

func newDeployPresaleSigCondCmd() *cobra.Command {
	var params usecase.DeployPresaleSigCondParams

	cmd := &cobra.Command{
		Use:   "presale-sig-cond",
		Short: "Deploy the presale signature community condition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployPresaleSigCond.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout(), useColor()).RenderCondition(result)
		},
	}

	cmd.Flags().Uint64Var(&params.Start, "start", 0, "Presale start as unix seconds")
	cmd.Flags().BoolVar(&params.Whitelist, "whitelist", false, "Whitelist the condition on the router")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newDeployImplementationsCmd() *cobra.Command {
	var params usecase.DeployImplementationsParams

	cmd := &cobra.Command{
		Use:   "implementations",
		Short: "Redeploy the join NFT, ERC-6551 account and community NFT implementations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployImplementations.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout(), useColor()).RenderImplementations(result)
		},
	}

	cmd.Flags().StringSliceVar(&params.Keys, "only", nil, "Address book keys to redeploy (default all)")

	return cmd
}

func newDeployReactionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reactions",
		Short: "Deploy the like and vote reactions and whitelist them on the router",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.DeployReactions.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewDeployRenderer(cmd.OutOrStdout(), useColor()).RenderReactions(result)
		},
	}
}
