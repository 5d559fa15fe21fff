package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lotar-dev/lotar/internal/vcs"
)

func newChangelogCmd() *cobra.Command {
	var rev string
	cmd := &cobra.Command{
		Use:   "changelog",
		Short: "List task changes across a revision range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := bootstrap()
			if err != nil {
				return err
			}
			reader := vcs.NewGitReader(ctx.Runner, ctx.RepoRoot)
			diffs, err := vcs.ChangelogRange(reader, ctx.TasksRoot, rev)
			if err != nil {
				return err
			}
			if jsonOut {
				return renderJSON(cmd.OutOrStdout(), diffs)
			}
			out := cmd.OutOrStdout()
			for _, d := range diffs {
				fmt.Fprintf(out, "%s (%s..%s, %s)\n", d.TaskID, d.From, d.To, d.Mode)
				for _, c := range d.Changes {
					fmt.Fprintf(out, "  %s: %q -> %q\n", c.Field, c.Old, c.New)
				}
				if d.Textual != "" {
					fmt.Fprint(out, d.Textual)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&rev, "rev", "", "revision or revision range (e.g. base..head); empty diffs HEAD against the working tree")
	return cmd
}
