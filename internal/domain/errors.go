package domain

import "errors"

// Domain-specific errors for business logic validation.
var (
	// Not found errors
	ErrTaskNotFound       = errors.New("task not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrTeamNotFound       = errors.New("team not found")
	ErrCommentNotFound    = errors.New("comment not found")
	ErrTagNotFound        = errors.New("tag not found")
	ErrMembershipNotFound = errors.New("membership not found")

	// State machine errors
	ErrInvalidTransition = errors.New("invalid status transition")

	// Policy errors
	ErrNotTeamMember       = errors.New("user is not a member of the task's team")
	ErrWatcherLimitReached = errors.New("task has reached the maximum number of watchers")
	ErrTeamHasActiveTasks  = errors.New("team has active tasks")
	ErrCannotRemoveOwner   = errors.New("team owner cannot be removed")

	// Conflict errors
	ErrConcurrentUpdate = errors.New("task was modified concurrently")
	ErrEmailTaken       = errors.New("email already registered")
	ErrTagExists        = errors.New("tag already exists")
	ErrAlreadyMember    = errors.New("user is already a team member")

	// Validation errors
	ErrEmptyTitle          = errors.New("title is required")
	ErrDueDateInPast       = errors.New("due date cannot be in the past")
	ErrInvalidStatus       = errors.New("invalid task status")
	ErrInvalidPriority     = errors.New("invalid task priority")
	ErrTeamRequired        = errors.New("team is required")
	ErrActorRequired       = errors.New("acting user is required")
	ErrEmptyComment        = errors.New("comment content is required")
	ErrEmptyTeamName       = errors.New("team name is required")
	ErrEmptyTagName        = errors.New("tag name is required")
	ErrInvalidUser         = errors.New("invalid user data")
	ErrInvalidRole         = errors.New("invalid membership role")
	ErrInvalidActivityType = errors.New("invalid activity type")

	// Side effect errors: the primary mutation is committed, an audit or
	// notification write after it failed.
	ErrSideEffectFailed  = errors.New("side effect failed")
	ErrActivityLogFailed = errors.New("activity logging failed")
)
