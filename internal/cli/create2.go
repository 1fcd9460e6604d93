package cli

import (
	"github.com/opensocial-protocol/osp-cli/internal/cli/render"
	"github.com/spf13/cobra"
)

// NewCreate2Cmd creates the create2 command group
func NewCreate2Cmd() *cobra.Command {
	create2Cmd := &cobra.Command{
		Use:   "create2",
		Short: "Inspect cached CREATE2 records",
	}

	create2Cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the mined CREATE2 records of the env",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowCreate2.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewCreate2Renderer(cmd.OutOrStdout(), useColor()).Render(result)
		},
	})

	return create2Cmd
}
