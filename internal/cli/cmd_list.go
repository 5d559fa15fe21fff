package cli

import (
	"github.com/spf13/cobra"

	"github.com/lotar-dev/lotar/internal/pagination"
	"github.com/lotar-dev/lotar/internal/storage"
)

// defaultListPageSize/maxListPageSize bound list's --limit (and its
// --page-size/--per-page aliases) the way the original's parse_page did for
// its own query-param handling.
const (
	defaultListPageSize = 50
	maxListPageSize     = 500
)

func newListCmd() *cobra.Command {
	var (
		project    string
		statuses   []string
		priorities []string
		types      []string
		tags       []string
		sprints    []int
		query      string
		limit      int
		pageSize   int
		perPage    int
		offset     int
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tasks matching a filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := bootstrap()
			if err != nil {
				return err
			}
			filter := storage.Filter{
				Prefix:     project,
				Statuses:   statuses,
				Priorities: priorities,
				Types:      types,
				Tags:       tags,
				Sprints:    sprints,
				TextQuery:  query,
			}
			records, err := ctx.Backend.Search(filter)
			if err != nil {
				return err
			}

			effectiveLimit := firstNonZero(limit, pageSize, perPage)
			page, err := pagination.Resolve(effectiveLimit, offset, defaultListPageSize, maxListPageSize)
			if err != nil {
				return err
			}
			start, end := pagination.SliceBounds(len(records), page.Offset, page.Limit)
			records = records[start:end]

			out := make([]taskRecord, len(records))
			for i, r := range records {
				out[i] = taskRecord{ID: r.ID, Task: r.Task}
			}
			return renderTaskList(cmd.OutOrStdout(), out)
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "restrict to one project prefix")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "filter by status (repeatable)")
	cmd.Flags().StringSliceVar(&priorities, "priority", nil, "filter by priority (repeatable)")
	cmd.Flags().StringSliceVar(&types, "type", nil, "filter by type (repeatable)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "filter by tag (repeatable)")
	cmd.Flags().IntSliceVar(&sprints, "sprint", nil, "filter by sprint ID (repeatable)")
	cmd.Flags().StringVar(&query, "query", "", "free-text search over title/description/tags")
	cmd.Flags().IntVar(&limit, "limit", 0, "max results to return (default 50, max 500)")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "alias for --limit")
	cmd.Flags().IntVar(&perPage, "per-page", 0, "alias for --limit")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of matching results to skip")
	return cmd
}

func firstNonZero(values ...int) int {
	for _, v := range values {
		if v != 0 {
			return v
		}
	}
	return 0
}
