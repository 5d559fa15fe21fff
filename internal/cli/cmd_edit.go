package cli

import (
	"github.com/spf13/cobra"

	"github.com/lotar-dev/lotar/internal/taskservice"
)

func newEditCmd() *cobra.Command {
	var (
		title       string
		status      string
		priority    string
		typ         string
		assignee    string
		reporter    string
		dueDate     string
		effort      string
		description string
		category    string
		tags        []string
		acceptance  []string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an existing task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := bootstrap()
			if err != nil {
				return err
			}
			patch := taskservice.UpdatePatch{}
			flags := cmd.Flags()
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("status") {
				patch.Status = &status
			}
			if flags.Changed("priority") {
				patch.Priority = &priority
			}
			if flags.Changed("type") {
				patch.Type = &typ
			}
			if flags.Changed("assignee") {
				patch.Assignee = &assignee
			}
			if flags.Changed("reporter") {
				patch.Reporter = &reporter
			}
			if flags.Changed("due") {
				patch.DueDate = &dueDate
			}
			if flags.Changed("effort") {
				patch.Effort = &effort
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("category") {
				patch.Category = &category
			}
			if flags.Changed("tag") {
				patch.Tags = tags
				patch.TagsSet = true
			}
			if flags.Changed("acceptance") {
				patch.AcceptanceCriteria = acceptance
				patch.AcceptanceCriteriaSet = true
			}

			t, err := ctx.Service.Update(args[0], patch)
			if err != nil {
				return err
			}
			return renderTask(cmd.OutOrStdout(), args[0], t)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	cmd.Flags().StringVar(&priority, "priority", "", "new priority")
	cmd.Flags().StringVar(&typ, "type", "", "new type")
	cmd.Flags().StringVar(&assignee, "assignee", "", "new assignee (@me resolves)")
	cmd.Flags().StringVar(&reporter, "reporter", "", "new reporter (@me resolves)")
	cmd.Flags().StringVar(&dueDate, "due", "", "new due date")
	cmd.Flags().StringVar(&effort, "effort", "", "new effort estimate")
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "full tag replacement (repeatable)")
	cmd.Flags().StringSliceVar(&acceptance, "acceptance", nil, "full acceptance-criteria replacement (repeatable)")
	return cmd
}
