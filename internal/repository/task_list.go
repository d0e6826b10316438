package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/mtlprog/teamtasks/internal/domain"
)

// TaskListFilters holds all supported filters for task listing.
type TaskListFilters struct {
	Status      *domain.TaskStatus   // Optional: filter by status
	Priority    *domain.TaskPriority // Optional: filter by priority
	TeamID      *string              // Optional: filter by team
	Search      string               // Optional: case-insensitive substring of title or description
	DueDateFrom *time.Time           // Optional: inclusive lower bound
	DueDateTo   *time.Time           // Optional: inclusive upper bound
	TagIDs      []string             // Optional: task carries at least one of these tags
	Limit       int                  // Required: page size
	Offset      int                  // Required: page offset
}

// applyTaskFilters adds the WHERE clauses shared by the page and count queries.
func applyTaskFilters(qb sq.SelectBuilder, filters TaskListFilters) sq.SelectBuilder {
	if filters.Status != nil {
		qb = qb.Where(sq.Eq{"status": *filters.Status})
	}
	if filters.Priority != nil {
		qb = qb.Where(sq.Eq{"priority": *filters.Priority})
	}
	if filters.TeamID != nil {
		qb = qb.Where(sq.Eq{"team_id": *filters.TeamID})
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		pattern := likePattern(search)
		qb = qb.Where(sq.Or{
			sq.ILike{"title": pattern},
			sq.ILike{"description": pattern},
		})
	}
	if filters.DueDateFrom != nil {
		qb = qb.Where(sq.GtOrEq{"due_date": *filters.DueDateFrom})
	}
	if filters.DueDateTo != nil {
		qb = qb.Where(sq.LtOrEq{"due_date": *filters.DueDateTo})
	}
	if len(filters.TagIDs) > 0 {
		qb = qb.Where(sq.Expr(
			"EXISTS (SELECT 1 FROM task_tags tt WHERE tt.task_id = tasks.id AND tt.tag_id = ANY(?::uuid[]))",
			filters.TagIDs,
		))
	}
	return qb
}

// List retrieves tasks with filters and pagination, newest first.
// Returns the page of tasks and the total number of matching tasks.
func (r *TaskRepository) List(ctx context.Context, filters TaskListFilters) ([]*domain.Task, int, error) {
	query, args, err := applyTaskFilters(psql.Select(taskColumns...).From("tasks"), filters).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(filters.Limit)).
		Offset(uint64(filters.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build List query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query tasks: %w", err)
	}

	tasks, err := scanTasks(rows)
	if err != nil {
		return nil, 0, err
	}

	countQuery, countArgs, err := applyTaskFilters(psql.Select("COUNT(*)").From("tasks"), filters).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	if err := r.attachTags(ctx, tasks); err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}
