package repository

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/teamtasks/internal/domain"
)

// ActivityRepository handles the append-only activity feed.
type ActivityRepository struct {
	pool *pgxpool.Pool
}

// NewActivityRepository creates a new ActivityRepository.
func NewActivityRepository(pool *pgxpool.Pool) *ActivityRepository {
	return &ActivityRepository{pool: pool}
}

// ActivityFilters narrows the feed.
type ActivityFilters struct {
	TeamID *string
	Type   *domain.ActivityType
	Limit  int
}

// Create appends an activity row.
func (r *ActivityRepository) Create(ctx context.Context, a domain.NewActivity) (*domain.Activity, error) {
	query, args, err := psql.
		Insert("activities").
		Columns("type", "description", "actor_id", "team_id", "task_id").
		Values(a.Type, a.Description, a.ActorID, a.TeamID, a.TaskID).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for activity: %w", err)
	}

	activity := &domain.Activity{
		Type:        a.Type,
		Description: a.Description,
		ActorID:     a.ActorID,
		TeamID:      a.TeamID,
		TaskID:      a.TaskID,
	}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&activity.ID, &activity.CreatedAt); err != nil {
		return nil, fmt.Errorf("create activity: %w", err)
	}
	return activity, nil
}

// Feed returns the most recent activities with actor and task joined.
func (r *ActivityRepository) Feed(ctx context.Context, filters ActivityFilters) ([]*domain.Activity, error) {
	qb := psql.
		Select(
			"a.id", "a.type", "a.description", "a.actor_id", "a.team_id", "a.task_id", "a.created_at",
			"u.email", "u.first_name", "u.last_name", "t.title",
		).
		From("activities a").
		LeftJoin("users u ON u.id = a.actor_id").
		LeftJoin("tasks t ON t.id = a.task_id")

	if filters.TeamID != nil {
		qb = qb.Where(sq.Eq{"a.team_id": *filters.TeamID})
	}
	if filters.Type != nil {
		qb = qb.Where(sq.Eq{"a.type": *filters.Type})
	}

	query, args, err := qb.
		OrderBy("a.created_at DESC", "a.id DESC").
		Limit(uint64(filters.Limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Feed query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query activities: %w", err)
	}
	defer rows.Close()

	activities := []*domain.Activity{}
	for rows.Next() {
		var a domain.Activity
		var email, firstName, lastName *string
		if err := rows.Scan(
			&a.ID, &a.Type, &a.Description, &a.ActorID, &a.TeamID, &a.TaskID, &a.CreatedAt,
			&email, &firstName, &lastName, &a.TaskTitle,
		); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.Actor = joinedUser(a.ActorID, email, firstName, lastName)
		activities = append(activities, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity rows: %w", err)
	}
	return activities, nil
}
