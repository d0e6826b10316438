package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/teamtasks/internal/domain"
)

// WatcherRepository handles task subscriptions and watcher notifications.
type WatcherRepository struct {
	pool *pgxpool.Pool
}

// NewWatcherRepository creates a new WatcherRepository.
func NewWatcherRepository(pool *pgxpool.Pool) *WatcherRepository {
	return &WatcherRepository{pool: pool}
}

// WatchlistFilters narrows a user's watchlist.
type WatchlistFilters struct {
	UserID string
	Status *domain.TaskStatus
	TeamID *string
	Limit  int
	Offset int
}

func scanWatcher(row pgx.Row) (*domain.TaskWatcher, error) {
	var w domain.TaskWatcher
	if err := row.Scan(&w.ID, &w.TaskID, &w.UserID, &w.CreatedAt); err != nil {
		return nil, err
	}
	return &w, nil
}

// Subscribe creates the (task, user) subscription unless it already exists.
// The task row is locked for the duration so concurrent subscribers cannot
// push the task past maxWatchers. Returns the subscription and whether it was created.
func (r *WatcherRepository) Subscribe(ctx context.Context, taskID, userID string, maxWatchers int) (*domain.TaskWatcher, bool, error) {
	var (
		watcher *domain.TaskWatcher
		created bool
	)

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query, args, err := psql.
			Select("id").
			From("tasks").
			Where(sq.Eq{"id": taskID}).
			Suffix("FOR UPDATE").
			ToSql()
		if err != nil {
			return fmt.Errorf("build task lock query: %w", err)
		}
		var lockedID string
		if err := tx.QueryRow(ctx, query, args...).Scan(&lockedID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrTaskNotFound
			}
			return fmt.Errorf("lock task: %w", err)
		}

		query, args, err = psql.
			Select("id", "task_id", "user_id", "created_at").
			From("task_watchers").
			Where(sq.Eq{"task_id": taskID, "user_id": userID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build existing watcher query: %w", err)
		}
		existing, err := scanWatcher(tx.QueryRow(ctx, query, args...))
		switch {
		case err == nil:
			watcher = existing
			return nil
		case !errors.Is(err, pgx.ErrNoRows):
			return fmt.Errorf("get existing watcher: %w", err)
		}

		query, args, err = psql.
			Select("COUNT(*)").
			From("task_watchers").
			Where(sq.Eq{"task_id": taskID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build watcher count query: %w", err)
		}
		var count int
		if err := tx.QueryRow(ctx, query, args...).Scan(&count); err != nil {
			return fmt.Errorf("count watchers: %w", err)
		}
		if count >= maxWatchers {
			return fmt.Errorf("%w: task %s has %d watchers", domain.ErrWatcherLimitReached, taskID, count)
		}

		query, args, err = psql.
			Insert("task_watchers").
			Columns("task_id", "user_id").
			Values(taskID, userID).
			Suffix("RETURNING id, task_id, user_id, created_at").
			ToSql()
		if err != nil {
			return fmt.Errorf("build watcher insert query: %w", err)
		}
		watcher, err = scanWatcher(tx.QueryRow(ctx, query, args...))
		if err != nil {
			if isPgForeignKeyError(err) {
				return domain.ErrUserNotFound
			}
			return fmt.Errorf("create watcher: %w", err)
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return watcher, created, nil
}

// Unsubscribe removes the subscription. Returns false when none existed.
func (r *WatcherRepository) Unsubscribe(ctx context.Context, taskID, userID string) (bool, error) {
	query, args, err := psql.
		Delete("task_watchers").
		Where(sq.Eq{"task_id": taskID, "user_id": userID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build Unsubscribe query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete watcher: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListByTask returns the task's watchers with user summaries, oldest first.
func (r *WatcherRepository) ListByTask(ctx context.Context, taskID string) ([]*domain.TaskWatcher, error) {
	query, args, err := psql.
		Select(
			"w.id", "w.task_id", "w.user_id", "w.created_at",
			"u.email", "u.first_name", "u.last_name",
		).
		From("task_watchers w").
		Join("users u ON u.id = w.user_id").
		Where(sq.Eq{"w.task_id": taskID}).
		OrderBy("w.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListByTask query for watchers: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query watchers: %w", err)
	}
	defer rows.Close()

	watchers := []*domain.TaskWatcher{}
	for rows.Next() {
		var w domain.TaskWatcher
		var u domain.UserSummary
		if err := rows.Scan(&w.ID, &w.TaskID, &w.UserID, &w.CreatedAt, &u.Email, &u.FirstName, &u.LastName); err != nil {
			return nil, fmt.Errorf("scan watcher: %w", err)
		}
		u.ID = w.UserID
		w.User = &u
		watchers = append(watchers, &w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate watcher rows: %w", err)
	}
	return watchers, nil
}

// CreateNotifications inserts all notifications with a single statement.
func (r *WatcherRepository) CreateNotifications(ctx context.Context, notifications []*domain.TaskWatcherNotification) error {
	if len(notifications) == 0 {
		return nil
	}

	insert := psql.
		Insert("task_watcher_notifications").
		Columns("user_id", "task_id", "event_type", "payload", "created_at")
	for _, n := range notifications {
		insert = insert.Values(n.UserID, n.TaskID, n.EventType, []byte(n.Payload), n.CreatedAt)
	}

	query, args, err := insert.Suffix("RETURNING id").ToSql()
	if err != nil {
		return fmt.Errorf("build CreateNotifications query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("insert notifications: %w", err)
	}
	defer rows.Close()

	// RETURNING preserves VALUES order for a single multi-row insert.
	i := 0
	for rows.Next() {
		if i < len(notifications) {
			if err := rows.Scan(&notifications[i].ID); err != nil {
				return fmt.Errorf("scan notification id: %w", err)
			}
		}
		i++
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("insert notifications: %w", err)
	}
	return nil
}

// ListNotifications returns the user's notifications, newest first.
func (r *WatcherRepository) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*domain.TaskWatcherNotification, error) {
	qb := psql.
		Select(
			"n.id", "n.user_id", "n.task_id", "n.event_type", "n.payload", "n.created_at", "n.read_at",
			"t.title",
		).
		From("task_watcher_notifications n").
		Join("tasks t ON t.id = n.task_id").
		Where(sq.Eq{"n.user_id": userID})
	if unreadOnly {
		qb = qb.Where(sq.Eq{"n.read_at": nil})
	}

	query, args, err := qb.OrderBy("n.created_at DESC", "n.id DESC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build ListNotifications query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*domain.TaskWatcherNotification{}
	for rows.Next() {
		var n domain.TaskWatcherNotification
		var payload []byte
		if err := rows.Scan(
			&n.ID, &n.UserID, &n.TaskID, &n.EventType, &payload, &n.CreatedAt, &n.ReadAt, &n.TaskTitle,
		); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		n.Payload = payload
		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notification rows: %w", err)
	}
	return notifications, nil
}

// MarkRead stamps readAt on the listed notifications owned by userID that are still unread.
// IDs belonging to other users are ignored. Returns the number of rows changed.
func (r *WatcherRepository) MarkRead(ctx context.Context, userID string, ids []string, readAt time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := psql.
		Update("task_watcher_notifications").
		Set("read_at", readAt).
		Where(sq.Eq{
			"id":      ids,
			"user_id": userID,
			"read_at": nil,
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build MarkRead query: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Watchlist returns the tasks the user watches, most recently updated first.
func (r *WatcherRepository) Watchlist(ctx context.Context, filters WatchlistFilters) ([]*domain.WatchlistEntry, int, error) {
	apply := func(qb sq.SelectBuilder) sq.SelectBuilder {
		qb = qb.
			From("task_watchers w").
			Join("tasks t ON t.id = w.task_id").
			Join("teams tm ON tm.id = t.team_id").
			Where(sq.Eq{"w.user_id": filters.UserID})
		if filters.Status != nil {
			qb = qb.Where(sq.Eq{"t.status": *filters.Status})
		}
		if filters.TeamID != nil {
			qb = qb.Where(sq.Eq{"t.team_id": *filters.TeamID})
		}
		return qb
	}

	query, args, err := apply(psql.Select(
		"t.id", "t.title", "t.description", "t.status", "t.priority", "t.due_date",
		"t.team_id", "t.created_by_id", "t.assigned_to_id", "t.version",
		"t.created_at", "t.updated_at",
		"tm.name", "w.created_at",
	)).
		OrderBy("t.updated_at DESC", "t.id DESC").
		Limit(uint64(filters.Limit)).
		Offset(uint64(filters.Offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build Watchlist query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query watchlist: %w", err)
	}
	defer rows.Close()

	entries := []*domain.WatchlistEntry{}
	for rows.Next() {
		var t domain.Task
		var e domain.WatchlistEntry
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate,
			&t.TeamID, &t.CreatedByID, &t.AssignedToID, &t.Version,
			&t.CreatedAt, &t.UpdatedAt,
			&e.TeamName, &e.WatchedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan watchlist entry: %w", err)
		}
		e.Task = &t
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate watchlist rows: %w", err)
	}

	countQuery, countArgs, err := apply(psql.Select("COUNT(*)")).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build watchlist count query: %w", err)
	}
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count watchlist: %w", err)
	}

	return entries, total, nil
}
