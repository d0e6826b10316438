package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mtlprog/teamtasks/internal/domain"
	"github.com/mtlprog/teamtasks/internal/repository"
)

// WatchlistQuery selects a page of a user's watchlist.
type WatchlistQuery struct {
	UserID string
	Status *domain.TaskStatus
	TeamID *string
	Page   domain.PageRequest
}

// TaskWatcherService manages subscriptions and watcher notifications.
type TaskWatcherService struct {
	watchers WatcherStore
	tasks    TaskStore
	users    UserStore
	teams    TeamStore
	activity ActivityRecorder
	now      func() time.Time
}

// NewTaskWatcherService creates a new TaskWatcherService.
func NewTaskWatcherService(
	watchers WatcherStore,
	tasks TaskStore,
	users UserStore,
	teams TeamStore,
	activity ActivityRecorder,
) *TaskWatcherService {
	return &TaskWatcherService{
		watchers: watchers,
		tasks:    tasks,
		users:    users,
		teams:    teams,
		activity: activity,
		now:      time.Now,
	}
}

// Subscribe makes userID a watcher of taskID.
// An existing subscription is returned unchanged with created=false, even when
// the task is already at MaxWatchersPerTask.
func (s *TaskWatcherService) Subscribe(ctx context.Context, taskID, userID string) (*domain.TaskWatcher, bool, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, false, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, false, err
	}

	member, err := s.teams.IsMember(ctx, task.TeamID, userID)
	if err != nil {
		return nil, false, err
	}
	if !member {
		return nil, false, fmt.Errorf("%w: user %s, team %s", domain.ErrNotTeamMember, userID, task.TeamID)
	}

	watcher, created, err := s.watchers.Subscribe(ctx, taskID, userID, domain.MaxWatchersPerTask)
	if err != nil {
		return nil, false, err
	}

	summary := user.Summary()
	watcher.User = &summary

	if !created {
		return watcher, false, nil
	}

	slog.Info("watcher added", "task_id", taskID, "user_id", userID)

	effects := newSideEffects("task_id", taskID, "user_id", userID)
	effects.run("activity", func() error {
		_, err := s.activity.Record(ctx, domain.NewActivity{
			Type:        domain.ActivityWatcherAdded,
			Description: fmt.Sprintf("%s started watching %q.", summary.FullName(), task.Title),
			ActorID:     &userID,
			TeamID:      &task.TeamID,
			TaskID:      &task.ID,
		})
		return err
	})

	return watcher, true, effects.Err()
}

// Unsubscribe removes the subscription. Missing subscriptions are not an error.
func (s *TaskWatcherService) Unsubscribe(ctx context.Context, taskID, userID string) error {
	removed, err := s.watchers.Unsubscribe(ctx, taskID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return nil
	}

	slog.Info("watcher removed", "task_id", taskID, "user_id", userID)

	effects := newSideEffects("task_id", taskID, "user_id", userID)
	effects.run("activity", func() error {
		task, err := s.tasks.GetByID(ctx, taskID)
		if err != nil {
			return err
		}
		_, err = s.activity.Record(ctx, domain.NewActivity{
			Type:        domain.ActivityWatcherRemoved,
			Description: fmt.Sprintf("User stopped watching %q.", task.Title),
			ActorID:     &userID,
			TeamID:      &task.TeamID,
			TaskID:      &task.ID,
		})
		return err
	})

	return effects.Err()
}

// NotifyWatchers stores one notification per watcher of the task except actorID.
// All notifications of a call share one timestamp. Returns the number created.
func (s *TaskWatcherService) NotifyWatchers(
	ctx context.Context,
	taskID string,
	eventType domain.WatcherEventType,
	actorID string,
	payload any,
) (int, error) {
	watchers, err := s.watchers.ListByTask(ctx, taskID)
	if err != nil {
		return 0, fmt.Errorf("list watchers: %w", err)
	}

	recipients := make([]string, 0, len(watchers))
	for _, w := range watchers {
		if w.UserID == actorID {
			continue
		}
		recipients = append(recipients, w.UserID)
	}
	if len(recipients) == 0 {
		return 0, nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return 0, fmt.Errorf("marshal notification payload: %w", err)
	}

	createdAt := s.now()
	notifications := make([]*domain.TaskWatcherNotification, len(recipients))
	for i, userID := range recipients {
		notifications[i] = &domain.TaskWatcherNotification{
			UserID:    userID,
			TaskID:    taskID,
			EventType: eventType,
			Payload:   body,
			CreatedAt: createdAt,
		}
	}

	if err := s.watchers.CreateNotifications(ctx, notifications); err != nil {
		return 0, fmt.Errorf("create notifications: %w", err)
	}

	slog.Debug("watchers notified",
		"task_id", taskID,
		"event_type", eventType,
		"recipients", len(notifications),
	)

	return len(notifications), nil
}

// ListWatchers returns the task's watchers.
func (s *TaskWatcherService) ListWatchers(ctx context.Context, taskID string) ([]*domain.TaskWatcher, error) {
	if _, err := s.tasks.GetByID(ctx, taskID); err != nil {
		return nil, err
	}
	return s.watchers.ListByTask(ctx, taskID)
}

// GetWatchlist returns a page of the tasks the user watches, each annotated with IsOverdue.
func (s *TaskWatcherService) GetWatchlist(ctx context.Context, q WatchlistQuery) (domain.Page[*domain.WatchlistEntry], error) {
	if q.UserID == "" {
		return domain.Page[*domain.WatchlistEntry]{}, domain.ErrActorRequired
	}
	if q.Status != nil && !q.Status.IsValid() {
		return domain.Page[*domain.WatchlistEntry]{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, *q.Status)
	}
	if err := requireUser(ctx, s.users, q.UserID, "watcher"); err != nil {
		return domain.Page[*domain.WatchlistEntry]{}, err
	}

	page := q.Page.Normalize()
	entries, total, err := s.watchers.Watchlist(ctx, repository.WatchlistFilters{
		UserID: q.UserID,
		Status: q.Status,
		TeamID: q.TeamID,
		Limit:  page.Limit,
		Offset: page.Offset(),
	})
	if err != nil {
		return domain.Page[*domain.WatchlistEntry]{}, err
	}

	annotateOverdue(entries, s.now())

	return domain.NewPage(entries, total, page), nil
}

// GetNotifications returns the user's own notifications, newest first.
func (s *TaskWatcherService) GetNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*domain.TaskWatcherNotification, error) {
	if userID == "" {
		return nil, domain.ErrActorRequired
	}
	return s.watchers.ListNotifications(ctx, userID, unreadOnly)
}

// MarkNotificationsAsRead marks the listed notifications read for userID.
// IDs owned by other users are silently skipped. Returns the number updated.
func (s *TaskWatcherService) MarkNotificationsAsRead(ctx context.Context, userID string, ids []string) (int64, error) {
	if userID == "" {
		return 0, domain.ErrActorRequired
	}

	updated, err := s.watchers.MarkRead(ctx, userID, dedupe(ids), s.now())
	if err != nil {
		return 0, err
	}

	slog.Info("notifications marked read",
		"user_id", userID,
		"requested", len(ids),
		"updated", updated,
	)

	return updated, nil
}
