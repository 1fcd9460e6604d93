package cli

import (
	"github.com/opensocial-protocol/osp-cli/internal/cli/render"
	"github.com/opensocial-protocol/osp-cli/internal/usecase"
	"github.com/spf13/cobra"
)

// NewAddressesCmd creates the addresses command group
func NewAddressesCmd() *cobra.Command {
	addressesCmd := &cobra.Command{
		Use:     "addresses",
		Aliases: []string{"addr"},
		Short:   "Read and edit the address books",
	}

	addressesCmd.AddCommand(newAddressesShowCmd(), newAddressesGetCmd(), newAddressesSetCmd())

	return addressesCmd
}

func newAddressesShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the address book of the env and network",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ManageAddresses.Show(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewAddressesRenderer(cmd.OutOrStdout(), useColor()).Render(result)
		},
	}
}

func newAddressesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print the address recorded under a key",
		Long: `Print the address recorded under a key. Without a key the operator picks
one of the recorded keys.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			var key string
			if len(args) == 1 {
				key = args[0]
			} else {
				shown, err := app.ManageAddresses.Show(cmd.Context())
				if err != nil {
					return err
				}
				keys := make([]string, 0, len(shown.Entries))
				for _, e := range shown.Entries {
					keys = append(keys, e.Key)
				}
				if key, err = app.Selector.Select(cmd.Context(), keys, "Address book key"); err != nil {
					return err
				}
			}

			entry, err := app.ManageAddresses.Get(cmd.Context(), key)
			if err != nil {
				return err
			}

			return render.NewAddressesRenderer(cmd.OutOrStdout(), useColor()).RenderEntry(entry)
		},
	}
}

func newAddressesSetCmd() *cobra.Command {
	var global bool

	cmd := &cobra.Command{
		Use:   "set <key> <address>",
		Short: "Record an address under a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			addr, err := parseAddress("address", args[1])
			if err != nil {
				return err
			}

			result, err := app.ManageAddresses.Set(cmd.Context(), usecase.SetAddressParams{
				Key:     args[0],
				Address: addr,
				Global:  global,
			})
			if err != nil {
				return err
			}

			return render.NewAddressesRenderer(cmd.OutOrStdout(), useColor()).RenderSet(result)
		},
	}

	cmd.Flags().BoolVar(&global, "global", false, "Write to the env-wide book shared by all networks")

	return cmd
}
