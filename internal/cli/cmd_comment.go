package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newCommentCmd() *cobra.Command {
	var author string
	cmd := &cobra.Command{
		Use:   "comment <id> [text]",
		Short: "Append a comment to a task, or list its comments when text is omitted",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := bootstrap()
			if err != nil {
				return err
			}
			if len(args) == 1 || strings.TrimSpace(args[1]) == "" {
				comments, err := ctx.Service.ListComments(args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return renderJSON(cmd.OutOrStdout(), comments)
				}
				for _, c := range comments {
					fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", c.Date.Format("2006-01-02"), c.Author, c.Text)
				}
				return nil
			}
			t, err := ctx.Service.AppendComment(args[0], author, args[1])
			if err != nil {
				return err
			}
			return renderTask(cmd.OutOrStdout(), args[0], t)
		},
	}
	cmd.Flags().StringVar(&author, "author", "@me", "comment author (@me resolves to the current identity)")
	return cmd
}
