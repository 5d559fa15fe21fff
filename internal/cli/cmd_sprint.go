package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/lotar-dev/lotar/internal/events"
	"github.com/lotar-dev/lotar/internal/sprint"
	"github.com/lotar-dev/lotar/internal/task"
)

const lengthDemotedWarning = "warning: both length and ends_at were set; length was dropped in favor of ends_at"

func newSprintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sprint",
		Short: "Manage sprints and sprint membership",
	}
	cmd.AddCommand(newSprintCreateCmd(), newSprintEditCmd(), newSprintAssignCmd(), newSprintIntegrityCmd())
	return cmd
}

func newSprintCreateCmd() *cobra.Command {
	var (
		label    string
		goal     string
		capacity int
		length   int
		endsAt   string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new sprint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := bootstrap()
			if err != nil {
				return err
			}
			if capacity == 0 {
				capacity = ctx.Config.Sprints.DefaultCapacity
			}
			plan := task.SprintPlan{Label: label, Goal: goal, Capacity: capacity, Length: length}
			if endsAt != "" {
				ends, err := time.Parse("2006-01-02", endsAt)
				if err != nil {
					return fmt.Errorf("invalid --ends-at %q: %w", endsAt, err)
				}
				plan.EndsAt = &ends
			}
			s := &task.Sprint{Plan: plan}
			id, lengthDemoted, err := ctx.Backend.AddSprint(s)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created sprint %d\n", id)
			if lengthDemoted {
				fmt.Fprintln(cmd.OutOrStdout(), lengthDemotedWarning)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "sprint label")
	cmd.Flags().StringVar(&goal, "goal", "", "sprint goal")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "sprint capacity (defaults to sprints.default_capacity)")
	cmd.Flags().IntVar(&length, "length", 0, "sprint length in days (dropped if --ends-at is also set)")
	cmd.Flags().StringVar(&endsAt, "ends-at", "", "sprint end date (YYYY-MM-DD)")
	return cmd
}

func newSprintEditCmd() *cobra.Command {
	var (
		label    string
		goal     string
		capacity int
		length   int
		endsAt   string
	)
	cmd := &cobra.Command{
		Use:   "edit <sprint-id>",
		Short: "Edit an existing sprint's plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := bootstrap()
			if err != nil {
				return err
			}
			var id int
			if _, err := fmt.Sscanf(args[0], "%d", &id); err != nil {
				return fmt.Errorf("invalid sprint id %q", args[0])
			}
			s, err := ctx.Backend.GetSprint(id)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("label") {
				s.Plan.Label = label
			}
			if cmd.Flags().Changed("goal") {
				s.Plan.Goal = goal
			}
			if cmd.Flags().Changed("capacity") {
				s.Plan.Capacity = capacity
			}
			if cmd.Flags().Changed("length") {
				s.Plan.Length = length
			}
			if cmd.Flags().Changed("ends-at") {
				ends, err := time.Parse("2006-01-02", endsAt)
				if err != nil {
					return fmt.Errorf("invalid --ends-at %q: %w", endsAt, err)
				}
				s.Plan.EndsAt = &ends
			}
			lengthDemoted, err := ctx.Backend.EditSprint(id, s)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "updated sprint %d\n", id)
			if lengthDemoted {
				fmt.Fprintln(cmd.OutOrStdout(), lengthDemotedWarning)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&label, "label", "", "sprint label")
	cmd.Flags().StringVar(&goal, "goal", "", "sprint goal")
	cmd.Flags().IntVar(&capacity, "capacity", 0, "sprint capacity")
	cmd.Flags().IntVar(&length, "length", 0, "sprint length in days (dropped if --ends-at is also set)")
	cmd.Flags().StringVar(&endsAt, "ends-at", "", "sprint end date (YYYY-MM-DD)")
	return cmd
}

func newSprintAssignCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "assign <task-id> <sprint-id>",
		Short: "Add a task to a sprint (or replace its membership with --force)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := bootstrap()
			if err != nil {
				return err
			}
			var sprintID int
			if _, err := fmt.Sscanf(args[1], "%d", &sprintID); err != nil {
				return fmt.Errorf("invalid sprint id %q", args[1])
			}
			publisher := events.NewPublishHelper(events.NewNopPublisher())
			result, err := sprint.Assign(ctx.Backend, args[0], sprintID, force, publisher)
			if err != nil {
				return err
			}
			if len(result.Replaced) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "%s now in sprint %d (replaced %v)\n", result.TaskID, result.SprintID, result.Replaced)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s added to sprint %d\n", result.TaskID, result.SprintID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace existing sprint membership instead of adding")
	return cmd
}

func newSprintIntegrityCmd() *cobra.Command {
	var (
		project string
		cleanup bool
	)
	cmd := &cobra.Command{
		Use:   "integrity",
		Short: "Detect (and optionally clean up) dangling sprint references",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := bootstrap()
			if err != nil {
				return err
			}
			if cleanup {
				publisher := events.NewPublishHelper(events.NewNopPublisher())
				n, err := sprint.CleanupMissingSprintRefs(ctx.Backend, project, publisher)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "cleaned %d dangling sprint reference(s)\n", n)
				return nil
			}
			report, err := sprint.DetectMissingSprints(ctx.Backend, project)
			if err != nil {
				return err
			}
			if report.Empty() {
				fmt.Fprintln(cmd.OutOrStdout(), "no dangling sprint references")
				return nil
			}
			for _, d := range report.Dangling {
				fmt.Fprintf(cmd.OutOrStdout(), "%s references missing sprint %d\n", d.TaskID, d.SprintID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "restrict to one project prefix")
	cmd.Flags().BoolVar(&cleanup, "cleanup", false, "remove dangling references instead of just reporting them")
	return cmd
}
