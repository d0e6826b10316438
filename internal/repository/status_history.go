package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/teamtasks/internal/domain"
)

// StatusHistoryRepository handles the append-only status history.
type StatusHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewStatusHistoryRepository creates a new StatusHistoryRepository.
func NewStatusHistoryRepository(pool *pgxpool.Pool) *StatusHistoryRepository {
	return &StatusHistoryRepository{pool: pool}
}

// Create appends a status history row.
func (r *StatusHistoryRepository) Create(ctx context.Context, h *domain.StatusHistory) error {
	query, args, err := psql.
		Insert("status_history").
		Columns("task_id", "previous_status", "new_status", "changed_by_id").
		Values(h.TaskID, h.PreviousStatus, h.NewStatus, h.ChangedByID).
		Suffix("RETURNING id, changed_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Create query for status history: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&h.ID, &h.ChangedAt); err != nil {
		return fmt.Errorf("create status history: %w", err)
	}
	return nil
}

// ListByTask returns the task's transitions, newest first.
func (r *StatusHistoryRepository) ListByTask(ctx context.Context, taskID string) ([]*domain.StatusHistory, error) {
	query, args, err := psql.
		Select(
			"h.id", "h.task_id", "h.previous_status", "h.new_status", "h.changed_by_id", "h.changed_at",
			"u.email", "u.first_name", "u.last_name",
		).
		From("status_history h").
		LeftJoin("users u ON u.id = h.changed_by_id").
		Where(sq.Eq{"h.task_id": taskID}).
		OrderBy("h.changed_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByTask query for status history: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query status history: %w", err)
	}
	defer rows.Close()

	history := []*domain.StatusHistory{}
	for rows.Next() {
		var h domain.StatusHistory
		var email, firstName, lastName *string
		if err := rows.Scan(
			&h.ID, &h.TaskID, &h.PreviousStatus, &h.NewStatus, &h.ChangedByID, &h.ChangedAt,
			&email, &firstName, &lastName,
		); err != nil {
			return nil, fmt.Errorf("scan status history: %w", err)
		}
		h.ChangedBy = joinedUser(h.ChangedByID, email, firstName, lastName)
		history = append(history, &h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status history rows: %w", err)
	}
	return history, nil
}

// joinedUser builds a summary from LEFT JOIN columns, nil when the user is absent.
func joinedUser(id, email, firstName, lastName *string) *domain.UserSummary {
	if id == nil || email == nil {
		return nil
	}
	u := &domain.UserSummary{ID: *id, Email: *email}
	if firstName != nil {
		u.FirstName = *firstName
	}
	if lastName != nil {
		u.LastName = *lastName
	}
	return u
}
