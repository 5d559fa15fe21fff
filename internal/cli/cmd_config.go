package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lotar-dev/lotar/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and edit the resolved configuration",
	}
	cmd.AddCommand(newConfigGetCmd(), newConfigSetCmd(), newConfigListCmd(), newConfigExplainCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print the resolved value at a dotted config key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := bootstrap()
			if err != nil {
				return err
			}
			v, err := config.GetValue(ctx.Config, args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return renderJSON(cmd.OutOrStdout(), v)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%v\n", v)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var project bool
	cmd := &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a dotted config key on this invocation's in-memory config",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := bootstrap()
			if err != nil {
				return err
			}
			if err := config.SetValue(ctx.Config, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (in-memory; not yet persisted to a tier file)\n", args[0], args[1])
			return nil
		},
	}
	cmd.Flags().BoolVar(&project, "project", true, "accepted for compatibility; has no effect, since this command writes no tier file")
	return cmd
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every resolvable config key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := config.AllConfigPaths()
			if jsonOut {
				return renderJSON(cmd.OutOrStdout(), paths)
			}
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
}

func newConfigExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain <key>",
		Short: "Show which config tier set a key, and what every tier contributed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := bootstrap()
			if err != nil {
				return err
			}
			chain, err := ctx.Loader.GetResolutionChain(ctx.Tracked, args[0])
			if err != nil {
				return err
			}
			if jsonOut {
				return renderJSON(cmd.OutOrStdout(), chain)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s = %v (from %s)\n", chain.Key, chain.FinalValue, chain.WinningFrom)
			for _, e := range chain.Entries {
				marker := " "
				if e.IsWinning {
					marker = "*"
				}
				fmt.Fprintf(out, " %s %-10s %v\n", marker, e.Source, e.Value)
			}
			return nil
		},
	}
}
