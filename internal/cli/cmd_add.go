package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lotar-dev/lotar/internal/taskservice"
)

func newAddCmd() *cobra.Command {
	var (
		project     string
		status      string
		priority    string
		typ         string
		assignee    string
		reporter    string
		tags        []string
		dueDate     string
		effort      string
		description string
		category    string
		dryRun      bool
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a new task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := bootstrap()
			if err != nil {
				return err
			}
			branch, _ := ctx.Runner.Run(ctx.RepoRoot, "git", "rev-parse", "--abbrev-ref", "HEAD")

			result, err := ctx.Service.Create(taskservice.CreateInput{
				Project:     project,
				Title:       args[0],
				Status:      status,
				Priority:    priority,
				Type:        typ,
				Assignee:    assignee,
				Reporter:    reporter,
				Tags:        tags,
				DueDate:     dueDate,
				Effort:      effort,
				Description: description,
				Category:    category,
				Branch:      branch,
				DryRun:      dryRun,
			})
			if err != nil {
				return err
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "would create %s in %s\n", result.Task.Title, result.Prefix)
				return nil
			}
			return renderTask(cmd.OutOrStdout(), result.ID, result.Task)
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "project name or existing prefix")
	cmd.Flags().StringVar(&status, "status", "", "initial status")
	cmd.Flags().StringVar(&priority, "priority", "", "initial priority")
	cmd.Flags().StringVar(&typ, "type", "", "task type")
	cmd.Flags().StringVar(&assignee, "assignee", "", "assignee (@me resolves to the current identity)")
	cmd.Flags().StringVar(&reporter, "reporter", "", "reporter (@me resolves to the current identity)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag (repeatable)")
	cmd.Flags().StringVar(&dueDate, "due", "", "due date")
	cmd.Flags().StringVar(&effort, "effort", "", "effort estimate")
	cmd.Flags().StringVar(&description, "description", "", "task description")
	cmd.Flags().StringVar(&category, "category", "", "category")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print what would be created without persisting it")
	return cmd
}
