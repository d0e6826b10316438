package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mtlprog/teamtasks/internal/domain"
	"github.com/mtlprog/teamtasks/internal/repository"
)

// CreateTaskParams describes a new task.
type CreateTaskParams struct {
	Title        string
	Description  string
	Status       *domain.TaskStatus
	Priority     *domain.TaskPriority
	DueDate      *time.Time
	TeamID       string
	CreatedByID  *string
	AssignedToID *string
}

// NullableUpdate is a field that may be left alone, cleared, or set.
type NullableUpdate[T any] struct {
	Set   bool // false: keep the stored value
	Value *T   // nil with Set: clear
}

// UpdateTaskCommand enumerates the mutable task fields. Nil pointers leave fields unchanged.
type UpdateTaskCommand struct {
	Title        *string
	Description  *string
	Status       *domain.TaskStatus
	Priority     *domain.TaskPriority
	DueDate      NullableUpdate[time.Time]
	AssignedToID NullableUpdate[string]
}

// ListTasksQuery holds listing filters and the requested page.
type ListTasksQuery struct {
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	TeamID      *string
	Search      string
	DueDateFrom *time.Time
	DueDateTo   *time.Time
	TagIDs      []string
	Page        domain.PageRequest
}

// TaskService coordinates task operations and state transitions.
type TaskService struct {
	tasks    TaskStore
	users    UserStore
	teams    TeamStore
	tags     TagStore
	history  StatusHistoryStore
	activity ActivityRecorder
	watchers WatcherNotifier
	now      func() time.Time
}

// NewTaskService creates a new TaskService.
func NewTaskService(
	tasks TaskStore,
	users UserStore,
	teams TeamStore,
	tags TagStore,
	history StatusHistoryStore,
	activity ActivityRecorder,
	watchers WatcherNotifier,
) *TaskService {
	return &TaskService{
		tasks:    tasks,
		users:    users,
		teams:    teams,
		tags:     tags,
		history:  history,
		activity: activity,
		watchers: watchers,
		now:      time.Now,
	}
}

// requireUser fails with ErrUserNotFound unless the user exists.
func requireUser(ctx context.Context, users UserStore, userID, role string) error {
	exists, err := users.Exists(ctx, userID)
	if err != nil {
		return fmt.Errorf("check %s: %w", role, err)
	}
	if !exists {
		return fmt.Errorf("%w: %s %s", domain.ErrUserNotFound, role, userID)
	}
	return nil
}

// CreateTask validates and persists a new task, then records a task_created activity
// when the creator is known. A returned error wrapping ErrSideEffectFailed comes with
// the created task.
func (s *TaskService) CreateTask(ctx context.Context, params CreateTaskParams) (*domain.Task, error) {
	title := strings.TrimSpace(params.Title)
	if title == "" {
		return nil, domain.ErrEmptyTitle
	}
	if params.TeamID == "" {
		return nil, domain.ErrTeamRequired
	}

	status := domain.TaskStatusPending
	if params.Status != nil {
		status = *params.Status
		if !status.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
		}
	}

	priority := domain.TaskPriorityMedium
	if params.Priority != nil {
		priority = *params.Priority
		if !priority.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPriority, priority)
		}
	}

	dueDate, err := NormalizeDueDate(params.DueDate, s.now())
	if err != nil {
		return nil, err
	}

	if _, err := s.teams.GetByID(ctx, params.TeamID); err != nil {
		return nil, err
	}
	if params.CreatedByID != nil {
		if err := requireUser(ctx, s.users, *params.CreatedByID, "creator"); err != nil {
			return nil, err
		}
	}
	if params.AssignedToID != nil {
		if err := requireUser(ctx, s.users, *params.AssignedToID, "assignee"); err != nil {
			return nil, err
		}
	}

	task, err := s.tasks.Create(ctx, &domain.Task{
		Title:        title,
		Description:  params.Description,
		Status:       status,
		Priority:     priority,
		DueDate:      dueDate,
		TeamID:       params.TeamID,
		CreatedByID:  params.CreatedByID,
		AssignedToID: params.AssignedToID,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("task created",
		"task_id", task.ID,
		"team_id", task.TeamID,
		"status", task.Status,
	)

	effects := newSideEffects("task_id", task.ID)
	if task.CreatedByID != nil {
		effects.run("activity", func() error {
			_, err := s.activity.Record(ctx, domain.NewActivity{
				Type:        domain.ActivityTaskCreated,
				Description: fmt.Sprintf("Task %q created.", task.Title),
				ActorID:     task.CreatedByID,
				TeamID:      &task.TeamID,
				TaskID:      &task.ID,
			})
			return err
		})
	}

	return task, effects.Err()
}

// UpdateTask applies cmd to the task on behalf of changedByID.
//
// A status change must be allowed by the state machine; a rejected change leaves
// the task untouched. After the task row is saved, the follow-up writes run in
// order: status history, activity, watcher notifications. Those are best-effort:
// if any fails the updated task is still returned, together with an error
// wrapping ErrSideEffectFailed.
func (s *TaskService) UpdateTask(
	ctx context.Context,
	taskID string,
	cmd UpdateTaskCommand,
	changedByID string,
) (*domain.Task, error) {
	if changedByID == "" {
		return nil, domain.ErrActorRequired
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	if err := requireUser(ctx, s.users, changedByID, "changedBy"); err != nil {
		return nil, err
	}

	previous := *task
	changed := false

	if cmd.Title != nil {
		title := strings.TrimSpace(*cmd.Title)
		if title == "" {
			return nil, domain.ErrEmptyTitle
		}
		if title != task.Title {
			task.Title = title
			changed = true
		}
	}

	if cmd.Description != nil && *cmd.Description != task.Description {
		task.Description = *cmd.Description
		changed = true
	}

	if cmd.Status != nil && *cmd.Status != task.Status {
		if err := ValidateTransition(task.Status, *cmd.Status); err != nil {
			return nil, fmt.Errorf("task %s: %w", task.ID, err)
		}
		task.Status = *cmd.Status
		changed = true
	}

	if cmd.Priority != nil && *cmd.Priority != task.Priority {
		if !cmd.Priority.IsValid() {
			return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPriority, *cmd.Priority)
		}
		task.Priority = *cmd.Priority
		changed = true
	}

	if cmd.DueDate.Set && !sameDueDate(cmd.DueDate.Value, task.DueDate) {
		dueDate, err := NormalizeDueDate(cmd.DueDate.Value, s.now())
		if err != nil {
			return nil, err
		}
		task.DueDate = dueDate
		changed = true
	}

	if cmd.AssignedToID.Set && !sameString(cmd.AssignedToID.Value, task.AssignedToID) {
		if cmd.AssignedToID.Value != nil {
			if err := requireUser(ctx, s.users, *cmd.AssignedToID.Value, "assignee"); err != nil {
				return nil, err
			}
		}
		task.AssignedToID = cmd.AssignedToID.Value
		changed = true
	}

	if !changed {
		return task, nil
	}

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	slog.Info("task updated",
		"task_id", task.ID,
		"changed_by", changedByID,
		"old_status", previous.Status,
		"new_status", task.Status,
		"version", task.Version,
	)

	return task, s.afterUpdate(ctx, &previous, task, changedByID)
}

// afterUpdate runs the side effects of a persisted update.
func (s *TaskService) afterUpdate(ctx context.Context, previous, task *domain.Task, changedByID string) error {
	effects := newSideEffects("task_id", task.ID, "changed_by", changedByID)

	if previous.Status != task.Status {
		effects.run("status history", func() error {
			return s.history.Create(ctx, &domain.StatusHistory{
				TaskID:         task.ID,
				PreviousStatus: previous.Status,
				NewStatus:      task.Status,
				ChangedByID:    &changedByID,
			})
		})
		effects.run("activity", func() error {
			_, err := s.activity.Record(ctx, domain.NewActivity{
				Type:        domain.ActivityStatusChanged,
				Description: fmt.Sprintf("Status of %q changed from '%s' to '%s'.", task.Title, previous.Status, task.Status),
				ActorID:     &changedByID,
				TeamID:      &task.TeamID,
				TaskID:      &task.ID,
			})
			return err
		})
		effects.run("watcher notification", func() error {
			_, err := s.watchers.NotifyWatchers(ctx, task.ID, domain.WatcherEventStatusChange, changedByID, map[string]any{
				"taskId":         task.ID,
				"taskTitle":      task.Title,
				"previousStatus": previous.Status,
				"newStatus":      task.Status,
				"changedById":    changedByID,
			})
			return err
		})
	} else {
		effects.run("activity", func() error {
			_, err := s.activity.Record(ctx, domain.NewActivity{
				Type:        domain.ActivityTaskUpdated,
				Description: fmt.Sprintf("Task %q updated.", task.Title),
				ActorID:     &changedByID,
				TeamID:      &task.TeamID,
				TaskID:      &task.ID,
			})
			return err
		})
	}

	if previous.Priority != task.Priority {
		effects.run("watcher notification", func() error {
			_, err := s.watchers.NotifyWatchers(ctx, task.ID, domain.WatcherEventPriorityChange, changedByID, map[string]any{
				"taskId":           task.ID,
				"taskTitle":        task.Title,
				"previousPriority": previous.Priority,
				"newPriority":      task.Priority,
				"changedById":      changedByID,
			})
			return err
		})
	}

	return effects.Err()
}

// GetTask returns a task with its tags.
func (s *TaskService) GetTask(ctx context.Context, taskID string) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, taskID)
}

// DeleteTask removes a task and everything that cascades from it.
func (s *TaskService) DeleteTask(ctx context.Context, taskID string) error {
	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}
	slog.Info("task deleted", "task_id", taskID)
	return nil
}

// ListTasks returns one page of tasks matching the query, newest first.
func (s *TaskService) ListTasks(ctx context.Context, q ListTasksQuery) (domain.Page[*domain.Task], error) {
	page := q.Page.Normalize()

	if q.Status != nil && !q.Status.IsValid() {
		return domain.Page[*domain.Task]{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *q.Status)
	}
	if q.Priority != nil && !q.Priority.IsValid() {
		return domain.Page[*domain.Task]{}, fmt.Errorf("%w: %q", domain.ErrInvalidPriority, *q.Priority)
	}

	tasks, total, err := s.tasks.List(ctx, repository.TaskListFilters{
		Status:      q.Status,
		Priority:    q.Priority,
		TeamID:      q.TeamID,
		Search:      q.Search,
		DueDateFrom: q.DueDateFrom,
		DueDateTo:   q.DueDateTo,
		TagIDs:      q.TagIDs,
		Limit:       page.Limit,
		Offset:      page.Offset(),
	})
	if err != nil {
		return domain.Page[*domain.Task]{}, err
	}

	return domain.NewPage(tasks, total, page), nil
}

// UpdateTaskTags replaces the task's tags and returns the refreshed task.
func (s *TaskService) UpdateTaskTags(ctx context.Context, taskID string, tagIDs []string) (*domain.Task, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}

	unique := dedupe(tagIDs)
	if len(unique) > 0 {
		found, err := s.tags.CountExisting(ctx, unique)
		if err != nil {
			return nil, err
		}
		if found != len(unique) {
			return nil, fmt.Errorf("%w: %d of %d tags exist", domain.ErrTagNotFound, found, len(unique))
		}
	}

	if err := s.tasks.ReplaceTags(ctx, taskID, unique); err != nil {
		return nil, err
	}

	slog.Info("task tags replaced", "task_id", taskID, "tag_count", len(unique))

	return s.tasks.GetByID(ctx, taskID)
}

// GetStatusHistory returns the task's transitions, newest first.
func (s *TaskService) GetStatusHistory(ctx context.Context, taskID string) ([]*domain.StatusHistory, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.history.ListByTask(ctx, taskID)
}

func sameString(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
