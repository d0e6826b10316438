package domain

import "time"

// ActivityType represents the kind of audit feed entry.
type ActivityType string

const (
	ActivityTaskCreated    ActivityType = "task_created"
	ActivityTaskUpdated    ActivityType = "task_updated"
	ActivityStatusChanged  ActivityType = "status_changed"
	ActivityCommentAdded   ActivityType = "comment_added"
	ActivityTeamCreated    ActivityType = "team_created"
	ActivityMemberAdded    ActivityType = "member_added"
	ActivityWatcherAdded   ActivityType = "watcher_added"
	ActivityWatcherRemoved ActivityType = "watcher_removed"
)

// IsValid checks if the activity type is one of the known values.
func (t ActivityType) IsValid() bool {
	switch t {
	case ActivityTaskCreated, ActivityTaskUpdated, ActivityStatusChanged,
		ActivityCommentAdded, ActivityTeamCreated, ActivityMemberAdded,
		ActivityWatcherAdded, ActivityWatcherRemoved:
		return true
	default:
		return false
	}
}

// ActivityFeedLimit caps the number of rows returned by the feed.
const ActivityFeedLimit = 50

// Activity is an immutable audit log entry.
type Activity struct {
	ID          string
	Type        ActivityType
	Description string
	ActorID     *string // nil once the actor is deleted
	TeamID      *string
	TaskID      *string
	CreatedAt   time.Time

	// Joined on read.
	Actor     *UserSummary
	TaskTitle *string
}

// NewActivity describes an activity to append.
type NewActivity struct {
	Type        ActivityType
	Description string
	ActorID     *string
	TeamID      *string
	TaskID      *string
}

// StatusHistory records one accepted status transition.
type StatusHistory struct {
	ID             string
	TaskID         string
	PreviousStatus TaskStatus
	NewStatus      TaskStatus
	ChangedByID    *string
	ChangedAt      time.Time

	ChangedBy *UserSummary
}
