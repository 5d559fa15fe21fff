package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lotar-dev/lotar/internal/codeowners"
	"github.com/lotar-dev/lotar/internal/scanner"
)

func newScanCmd() *cobra.Command {
	var reanchor bool
	var rewrite bool

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the working tree for signal-word markers and apply them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := bootstrap()
			if err != nil {
				return err
			}
			scanRoot := ctx.RepoRoot
			if scanRoot == "" {
				scanRoot = ctx.CWD
			}
			opts := scanner.OptionsFromConfig(scanRoot, ctx.Config)

			findings, warnings, err := scanner.Scan(opts)
			if err != nil {
				return err
			}
			scannedFiles, err := scanner.ListFiles(opts)
			if err != nil {
				return err
			}

			owners, err := codeowners.Load(scanRoot)
			if err != nil {
				return err
			}

			result, err := scanner.Apply(ctx.Service, ctx.Backend, findings, scannedFiles, ctx.Config.Scan.Mentions, reanchor, owners, scanRoot, rewrite)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, a := range result.Applied {
				fmt.Fprintf(out, "%s:%d  %s  %s\n", a.Path, a.Line, a.Disposition, a.TaskID)
			}
			for _, w := range warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			for _, w := range result.Warnings {
				fmt.Fprintf(out, "warning: %s\n", w)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reanchor, "reanchor", false, "prune code: references at files this run scanned but no longer finds a marker for")
	cmd.Flags().BoolVar(&rewrite, "rewrite", false, "rewrite source lines to inject the assigned key after newly created tasks' signal words")
	return cmd
}
