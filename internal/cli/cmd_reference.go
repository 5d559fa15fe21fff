package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lotar-dev/lotar/internal/task"
)

func newReferenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reference",
		Short: "Add or remove a task reference",
	}
	cmd.AddCommand(newReferenceAddCmd(), newReferenceRemoveCmd())
	return cmd
}

func newReferenceAddCmd() *cobra.Command {
	var line int
	cmd := &cobra.Command{
		Use:   "add <id> <kind> <value>",
		Short: "Add a reference (kind is link, file, or code)",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := bootstrap()
			if err != nil {
				return err
			}
			kind := task.ReferenceKind(args[1])
			if !task.IsValidReferenceKind(kind) {
				return fmt.Errorf("invalid reference kind %q", args[1])
			}
			t, err := ctx.Service.AddReference(args[0], kind, args[2], line)
			if err != nil {
				return err
			}
			return renderTask(cmd.OutOrStdout(), args[0], t)
		},
	}
	cmd.Flags().IntVar(&line, "line", 0, "line number, for a code reference")
	return cmd
}

func newReferenceRemoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <id> <kind> <value>",
		Short: "Remove every reference matching kind and value",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := bootstrap()
			if err != nil {
				return err
			}
			kind := task.ReferenceKind(args[1])
			if !task.IsValidReferenceKind(kind) {
				return fmt.Errorf("invalid reference kind %q", args[1])
			}
			t, err := ctx.Service.RemoveReference(args[0], kind, args[2])
			if err != nil {
				return err
			}
			return renderTask(cmd.OutOrStdout(), args[0], t)
		},
	}
	return cmd
}
