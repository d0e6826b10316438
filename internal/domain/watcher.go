package domain

import (
	"encoding/json"
	"time"
)

// MaxWatchersPerTask caps the number of subscriptions a single task accepts.
const MaxWatchersPerTask = 50

// WatcherEventType classifies notifications sent to watchers.
type WatcherEventType string

const (
	WatcherEventStatusChange   WatcherEventType = "status_change"
	WatcherEventPriorityChange WatcherEventType = "priority_change"
	WatcherEventComment        WatcherEventType = "comment"
)

// TaskWatcher is a subscription of a user to a task.
type TaskWatcher struct {
	ID        string
	TaskID    string
	UserID    string
	CreatedAt time.Time

	User *UserSummary
}

// TaskWatcherNotification is one fan-out record for a watcher.
type TaskWatcherNotification struct {
	ID        string
	UserID    string
	TaskID    string
	EventType WatcherEventType
	Payload   json.RawMessage
	CreatedAt time.Time
	ReadAt    *time.Time

	TaskTitle string
}

// IsRead reports whether the notification was marked as read.
func (n *TaskWatcherNotification) IsRead() bool {
	return n.ReadAt != nil
}

// WatchlistEntry is a watched task annotated for the watchlist view.
type WatchlistEntry struct {
	Task      *Task
	TeamName  string
	WatchedAt time.Time
	IsOverdue bool
}
