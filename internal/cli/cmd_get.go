package cli

import (
	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get <id>",
		Short: "Show one task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := bootstrap()
			if err != nil {
				return err
			}
			t, err := ctx.Backend.Get(args[0])
			if err != nil {
				return err
			}
			return renderTask(cmd.OutOrStdout(), args[0], t)
		},
	}
	return cmd
}
