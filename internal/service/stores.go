package service

import (
	"context"
	"time"

	"github.com/mtlprog/teamtasks/internal/domain"
	"github.com/mtlprog/teamtasks/internal/repository"
)

// Storage contracts consumed by the services. The repository package provides
// the PostgreSQL implementations.

type TaskStore interface {
	GetByID(ctx context.Context, taskID string) (*domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, task *domain.Task) error
	Delete(ctx context.Context, taskID string) error
	List(ctx context.Context, filters repository.TaskListFilters) ([]*domain.Task, int, error)
	ReplaceTags(ctx context.Context, taskID string, tagIDs []string) error
}

type TeamTaskCounter interface {
	CountActiveByTeam(ctx context.Context, teamID string) (int, error)
	GetTeamStats(ctx context.Context, teamID string) (*domain.TeamStats, error)
}

type UserStore interface {
	GetByID(ctx context.Context, userID string) (*domain.User, error)
	Exists(ctx context.Context, userID string) (bool, error)
	List(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, userID string) error
}

type TeamStore interface {
	GetByID(ctx context.Context, teamID string) (*domain.Team, error)
	List(ctx context.Context) ([]*domain.Team, error)
	ListForUser(ctx context.Context, userID string) ([]*domain.Team, error)
	Create(ctx context.Context, team *domain.Team) (*domain.Team, error)
	Update(ctx context.Context, team *domain.Team) error
	Delete(ctx context.Context, teamID string) error
	ListMembers(ctx context.Context, teamID string) ([]*domain.TeamMembership, error)
	GetMembership(ctx context.Context, teamID, userID string) (*domain.TeamMembership, error)
	IsMember(ctx context.Context, teamID, userID string) (bool, error)
	AddMember(ctx context.Context, m *domain.TeamMembership) (*domain.TeamMembership, error)
	RemoveMember(ctx context.Context, teamID, userID string) error
}

type TagStore interface {
	List(ctx context.Context) ([]domain.Tag, error)
	Create(ctx context.Context, name string) (*domain.Tag, error)
	CountExisting(ctx context.Context, tagIDs []string) (int, error)
}

type CommentStore interface {
	GetByID(ctx context.Context, commentID string) (*domain.Comment, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.Comment, error)
	ListAll(ctx context.Context) ([]*domain.Comment, error)
	Create(ctx context.Context, c *domain.Comment) (*domain.Comment, error)
	UpdateContent(ctx context.Context, commentID, content string) error
	Delete(ctx context.Context, commentID string) error
}

type StatusHistoryStore interface {
	Create(ctx context.Context, h *domain.StatusHistory) error
	ListByTask(ctx context.Context, taskID string) ([]*domain.StatusHistory, error)
}

type ActivityStore interface {
	Create(ctx context.Context, a domain.NewActivity) (*domain.Activity, error)
	Feed(ctx context.Context, filters repository.ActivityFilters) ([]*domain.Activity, error)
}

type WatcherStore interface {
	Subscribe(ctx context.Context, taskID, userID string, maxWatchers int) (*domain.TaskWatcher, bool, error)
	Unsubscribe(ctx context.Context, taskID, userID string) (bool, error)
	ListByTask(ctx context.Context, taskID string) ([]*domain.TaskWatcher, error)
	CreateNotifications(ctx context.Context, notifications []*domain.TaskWatcherNotification) error
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]*domain.TaskWatcherNotification, error)
	MarkRead(ctx context.Context, userID string, ids []string, readAt time.Time) (int64, error)
	Watchlist(ctx context.Context, filters repository.WatchlistFilters) ([]*domain.WatchlistEntry, int, error)
}

// ActivityRecorder appends audit entries.
type ActivityRecorder interface {
	Record(ctx context.Context, a domain.NewActivity) (*domain.Activity, error)
}

// WatcherNotifier fans an event out to a task's watchers.
type WatcherNotifier interface {
	NotifyWatchers(ctx context.Context, taskID string, eventType domain.WatcherEventType, actorID string, payload any) (int, error)
}
