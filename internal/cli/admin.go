package cli

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/opensocial-protocol/osp-cli/internal/app"
	"github.com/opensocial-protocol/osp-cli/internal/cli/render"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
	"github.com/spf13/cobra"
)

// NewAdminCmd creates the admin command group
func NewAdminCmd() *cobra.Command {
	adminCmd := &cobra.Command{
		Use:   "admin",
		Short: "Protocol administration",
		Long: `Administration calls on the deployed protocol. Every command sends one
transaction, or with --dry-run prints the target and calldata for submission
through a multisig.`,
	}

	adminCmd.AddCommand(
		newAdminAddressCmd("grant-roles", "Grant the admin, governance, operation and state roles", "address",
			func(ctx context.Context, a *app.App, addr common.Address, _ bool) (*usecase.AdminResult, error) {
				return a.Admin.GrantRoles(ctx, addr)
			}),
		newAdminAddressCmd("whitelist-app", "Whitelist an app contract on the router", "address",
			func(ctx context.Context, a *app.App, addr common.Address, disable bool) (*usecase.AdminResult, error) {
				return a.Admin.WhitelistApp(ctx, addr, !disable)
			}),
		newAdminAddressCmd("whitelist-token", "Whitelist a payment token on the router", "token",
			func(ctx context.Context, a *app.App, addr common.Address, disable bool) (*usecase.AdminResult, error) {
				return a.Admin.WhitelistToken(ctx, addr, !disable)
			}),
		newAdminAddressCmd("whitelist-slot", "Whitelist a slot NFT on the slot NFT community condition", "slot",
			func(ctx context.Context, a *app.App, addr common.Address, disable bool) (*usecase.AdminResult, error) {
				return a.Admin.WhitelistSlot(ctx, addr, !disable)
			}),
		newAdminSetBaseURICmd(),
		newAdminInitFixedFeeCmd(),
		newAdminCommunityCreatorCmd(),
		newAdminSetERC6551ImplCmd(),
		newAdminSyncCommunityAccountsCmd(),
	)

	return adminCmd
}

type adminAddressFunc func(ctx context.Context, a *app.App, addr common.Address, disable bool) (*usecase.AdminResult, error)

// newAdminAddressCmd builds a command taking one address flag
func newAdminAddressCmd(use, short, flag string, run adminAddressFunc) *cobra.Command {
	var (
		value   string
		disable bool
	)

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			addr, err := parseAddress(flag, value)
			if err != nil {
				return err
			}

			result, err := run(cmd.Context(), app, addr, disable)
			if err != nil {
				return err
			}

			return render.NewAdminRenderer(cmd.OutOrStdout(), useColor()).Render(result)
		},
	}

	cmd.Flags().StringVar(&value, flag, "", "Target address")
	_ = cmd.MarkFlagRequired(flag)
	if use != "grant-roles" {
		cmd.Flags().BoolVar(&disable, "disable", false, "Remove from the whitelist instead")
	}

	return cmd
}

func newAdminSetBaseURICmd() *cobra.Command {
	var uri string

	cmd := &cobra.Command{
		Use:   "set-base-uri",
		Short: "Set the token metadata base URI",
		Long: `Set the token metadata base URI. Without --uri the env's metadata base URL
followed by the chain id is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.Admin.SetBaseURI(cmd.Context(), uri)
			if err != nil {
				return err
			}

			return render.NewAdminRenderer(cmd.OutOrStdout(), useColor()).Render(result)
		},
	}

	cmd.Flags().StringVar(&uri, "uri", "", "Base URI")

	return cmd
}

func newAdminInitFixedFeeCmd() *cobra.Command {
	var start uint64

	cmd := &cobra.Command{
		Use:   "init-fixed-fee",
		Short: "Set the fixed fee condition's price table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.Admin.InitFixedFee(cmd.Context(), start)
			if err != nil {
				return err
			}

			return render.NewAdminRenderer(cmd.OutOrStdout(), useColor()).Render(result)
		},
	}

	cmd.Flags().Uint64Var(&start, "start", 0, "Fee start as unix seconds")
	_ = cmd.MarkFlagRequired("start")

	return cmd
}

func newAdminCommunityCreatorCmd() *cobra.Command {
	var address, amount string

	cmd := &cobra.Command{
		Use:   "community-creator",
		Short: "Allow an address to create communities through the whitelist condition",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			creator, err := parseAddress("address", address)
			if err != nil {
				return err
			}
			limit, err := parseAmount("amount", amount)
			if err != nil {
				return err
			}

			result, err := app.Admin.SetCommunityCreator(cmd.Context(), creator, limit)
			if err != nil {
				return err
			}

			return render.NewAdminRenderer(cmd.OutOrStdout(), useColor()).Render(result)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Creator address")
	cmd.Flags().StringVar(&amount, "amount", "1", "Maximum number of communities the address may create")
	_ = cmd.MarkFlagRequired("address")

	return cmd
}

func newAdminSetERC6551ImplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-erc6551-impl",
		Short: "Point the router at the recorded ERC-6551 account implementation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.Admin.SetERC6551AccountImpl(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewAdminRenderer(cmd.OutOrStdout(), useColor()).Render(result)
		},
	}
}

func newAdminSyncCommunityAccountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-community-accounts",
		Short: "Set the community id on every community's ERC-6551 account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.SyncCommunityAccounts.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewAdminRenderer(cmd.OutOrStdout(), useColor()).RenderCommunityAccounts(result)
		},
	}
}
