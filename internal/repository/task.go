package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mtlprog/teamtasks/internal/domain"
)

// taskColumns is the shared list of columns for task queries.
var taskColumns = []string{
	"id", "title", "description", "status", "priority", "due_date",
	"team_id", "created_by_id", "assigned_to_id", "version",
	"created_at", "updated_at",
}

// TaskRepository handles database operations for tasks.
type TaskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository creates a new TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{pool: pool}
}

// scanTask scans a single row into a Task struct.
func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.DueDate,
		&task.TeamID,
		&task.CreatedByID,
		&task.AssignedToID,
		&task.Version,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, fmt.Errorf("scan task: %w", err)
	}
	return &task, nil
}

// scanTasks scans multiple rows into a slice of Task structs.
func scanTasks(rows pgx.Rows) ([]*domain.Task, error) {
	defer rows.Close()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return tasks, nil
}

// GetByID retrieves a task by ID together with its tags.
func (r *TaskRepository) GetByID(ctx context.Context, taskID string) (*domain.Task, error) {
	query, args, err := psql.
		Select(taskColumns...).
		From("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build GetByID query for task: %w", err)
	}

	task, err := scanTask(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	if err := r.attachTags(ctx, []*domain.Task{task}); err != nil {
		return nil, err
	}

	return task, nil
}

// Create inserts a new task.
// Returns the created task with ID, Version, CreatedAt, and UpdatedAt populated.
func (r *TaskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	query, args, err := psql.
		Insert("tasks").
		Columns(
			"title", "description", "status", "priority", "due_date",
			"team_id", "created_by_id", "assigned_to_id",
		).
		Values(
			task.Title,
			task.Description,
			task.Status,
			task.Priority,
			task.DueDate,
			task.TeamID,
			task.CreatedByID,
			task.AssignedToID,
		).
		Suffix("RETURNING id, version, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build Create query for task: %w", err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&task.ID, &task.Version, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		if isPgForeignKeyError(err) {
			return nil, fmt.Errorf("%w: team or user reference is missing", domain.ErrTeamNotFound)
		}
		return nil, fmt.Errorf("create task: %w", err)
	}

	if task.Tags == nil {
		task.Tags = []domain.Tag{}
	}

	return task, nil
}

// Update writes all mutable fields of the task with optimistic locking.
// The write only applies when the stored version equals task.Version; on success
// task.Version and task.UpdatedAt are refreshed. A stale version yields ErrConcurrentUpdate.
func (r *TaskRepository) Update(ctx context.Context, task *domain.Task) error {
	query, args, err := psql.
		Update("tasks").
		Set("title", task.Title).
		Set("description", task.Description).
		Set("status", task.Status).
		Set("priority", task.Priority).
		Set("due_date", task.DueDate).
		Set("assigned_to_id", task.AssignedToID).
		Set("version", sq.Expr("version + 1")).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{
			"id":      task.ID,
			"version": task.Version,
		}).
		Suffix("RETURNING version, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build Update query for task %s: %w", task.ID, err)
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&task.Version, &task.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: task %s is no longer at version %d", domain.ErrConcurrentUpdate, task.ID, task.Version)
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("%w: assignee does not exist", domain.ErrUserNotFound)
		}
		return fmt.Errorf("update task: %w", err)
	}

	return nil
}

// Delete removes a task; dependent rows cascade.
func (r *TaskRepository) Delete(ctx context.Context, taskID string) error {
	query, args, err := psql.
		Delete("tasks").
		Where(sq.Eq{"id": taskID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build Delete query for task %s: %w", taskID, err)
	}

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// CountActiveByTeam counts the team's tasks that are still pending or in progress.
func (r *TaskRepository) CountActiveByTeam(ctx context.Context, teamID string) (int, error) {
	query, args, err := psql.
		Select("COUNT(*)").
		From("tasks").
		Where(sq.Eq{
			"team_id": teamID,
			"status":  domain.ActiveStatuses(),
		}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build CountActiveByTeam query: %w", err)
	}

	var count int
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("count active tasks: %w", err)
	}
	return count, nil
}

// ReplaceTags swaps the task's tag set for tagIDs in a single transaction.
func (r *TaskRepository) ReplaceTags(ctx context.Context, taskID string, tagIDs []string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		query, args, err := psql.
			Delete("task_tags").
			Where(sq.Eq{"task_id": taskID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("build tag delete query: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("clear task tags: %w", err)
		}

		if len(tagIDs) == 0 {
			return nil
		}

		insert := psql.Insert("task_tags").Columns("task_id", "tag_id")
		for _, tagID := range tagIDs {
			insert = insert.Values(taskID, tagID)
		}
		query, args, err = insert.Suffix("ON CONFLICT DO NOTHING").ToSql()
		if err != nil {
			return fmt.Errorf("build tag insert query: %w", err)
		}
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			if isPgForeignKeyError(err) {
				return fmt.Errorf("%w: %v", domain.ErrTagNotFound, tagIDs)
			}
			return fmt.Errorf("insert task tags: %w", err)
		}
		return nil
	})
}

// attachTags loads tags for the given tasks with a single query.
func (r *TaskRepository) attachTags(ctx context.Context, tasks []*domain.Task) error {
	if len(tasks) == 0 {
		return nil
	}

	ids := make([]string, len(tasks))
	byID := make(map[string]*domain.Task, len(tasks))
	for i, task := range tasks {
		ids[i] = task.ID
		byID[task.ID] = task
		task.Tags = []domain.Tag{}
	}

	query, args, err := psql.
		Select("tt.task_id", "t.id", "t.name", "t.created_at").
		From("task_tags tt").
		Join("tags t ON t.id = tt.tag_id").
		Where(sq.Eq{"tt.task_id": ids}).
		OrderBy("t.name ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("build tags query: %w", err)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("query task tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var taskID string
		var tag domain.Tag
		if err := rows.Scan(&taskID, &tag.ID, &tag.Name, &tag.CreatedAt); err != nil {
			return fmt.Errorf("scan task tag: %w", err)
		}
		if task, ok := byID[taskID]; ok {
			task.Tags = append(task.Tags, tag)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate task tag rows: %w", err)
	}
	return nil
}
