package dto

import (
	"encoding/json"
	"time"

	"github.com/mtlprog/teamtasks/internal/domain"
)

// PageResponse is the envelope for paginated lists.
type PageResponse[T any] struct {
	Data       []T `json:"data"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// ToPageResponse converts a domain page, mapping every item.
func ToPageResponse[S, T any](p domain.Page[S], convert func(S) T) PageResponse[T] {
	data := make([]T, len(p.Data))
	for i, item := range p.Data {
		data[i] = convert(item)
	}
	return PageResponse[T]{
		Data:       data,
		Total:      p.Total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages,
	}
}

// UserResponse represents a user; the password hash is never exposed.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToUserResponse converts a domain user.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserSummaryResponse is a user embedded in another resource.
type UserSummaryResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

func toUserSummary(u *domain.UserSummary) *UserSummaryResponse {
	if u == nil {
		return nil
	}
	return &UserSummaryResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

// TagResponse represents a tag.
type TagResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToTagResponse converts a domain tag.
func ToTagResponse(t domain.Tag) TagResponse {
	return TagResponse{ID: t.ID, Name: t.Name, CreatedAt: t.CreatedAt}
}

// TaskResponse represents a task.
type TaskResponse struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	Status       string        `json:"status"`
	Priority     string        `json:"priority"`
	DueDate      *Date         `json:"dueDate" swaggertype:"string" example:"2026-12-31"`
	TeamID       string        `json:"teamId"`
	CreatedByID  *string       `json:"createdById"`
	AssignedToID *string       `json:"assignedToId"`
	Version      int           `json:"version"`
	IsOverdue    bool          `json:"isOverdue"`
	Tags         []TagResponse `json:"tags"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// ToTaskResponse converts a domain task; isOverdue is evaluated at now.
func ToTaskResponse(t *domain.Task, now time.Time) TaskResponse {
	resp := TaskResponse{
		ID:           t.ID,
		Title:        t.Title,
		Description:  t.Description,
		Status:       string(t.Status),
		Priority:     string(t.Priority),
		TeamID:       t.TeamID,
		CreatedByID:  t.CreatedByID,
		AssignedToID: t.AssignedToID,
		Version:      t.Version,
		IsOverdue:    t.IsOverdue(now),
		Tags:         make([]TagResponse, len(t.Tags)),
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
	if t.DueDate != nil {
		d := NewDate(*t.DueDate)
		resp.DueDate = &d
	}
	for i, tag := range t.Tags {
		resp.Tags[i] = ToTagResponse(tag)
	}
	return resp
}

// StatusHistoryResponse represents one status transition.
type StatusHistoryResponse struct {
	ID             string               `json:"id"`
	TaskID         string               `json:"taskId"`
	PreviousStatus string               `json:"previousStatus"`
	NewStatus      string               `json:"newStatus"`
	ChangedByID    *string              `json:"changedById"`
	ChangedBy      *UserSummaryResponse `json:"changedBy"`
	ChangedAt      time.Time            `json:"changedAt"`
}

// ToStatusHistoryResponse converts a domain history row.
func ToStatusHistoryResponse(h *domain.StatusHistory) StatusHistoryResponse {
	return StatusHistoryResponse{
		ID:             h.ID,
		TaskID:         h.TaskID,
		PreviousStatus: string(h.PreviousStatus),
		NewStatus:      string(h.NewStatus),
		ChangedByID:    h.ChangedByID,
		ChangedBy:      toUserSummary(h.ChangedBy),
		ChangedAt:      h.ChangedAt,
	}
}

// CommentResponse represents a comment.
type CommentResponse struct {
	ID        string               `json:"id"`
	TaskID    string               `json:"taskId"`
	AuthorID  string               `json:"authorId"`
	Author    *UserSummaryResponse `json:"author"`
	Content   string               `json:"content"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// ToCommentResponse converts a domain comment.
func ToCommentResponse(c *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		TaskID:    c.TaskID,
		AuthorID:  c.AuthorID,
		Author:    toUserSummary(c.Author),
		Content:   c.Content,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// ActivityResponse represents an activity feed entry.
type ActivityResponse struct {
	ID          string               `json:"id"`
	Type        string               `json:"type"`
	Description string               `json:"description"`
	ActorID     *string              `json:"actorId"`
	Actor       *UserSummaryResponse `json:"actor"`
	TeamID      *string              `json:"teamId"`
	TaskID      *string              `json:"taskId"`
	TaskTitle   *string              `json:"taskTitle"`
	CreatedAt   time.Time            `json:"createdAt"`
}

// ToActivityResponse converts a domain activity.
func ToActivityResponse(a *domain.Activity) ActivityResponse {
	return ActivityResponse{
		ID:          a.ID,
		Type:        string(a.Type),
		Description: a.Description,
		ActorID:     a.ActorID,
		Actor:       toUserSummary(a.Actor),
		TeamID:      a.TeamID,
		TaskID:      a.TaskID,
		TaskTitle:   a.TaskTitle,
		CreatedAt:   a.CreatedAt,
	}
}

// WatcherResponse represents a task subscription.
type WatcherResponse struct {
	ID        string               `json:"id"`
	TaskID    string               `json:"taskId"`
	UserID    string               `json:"userId"`
	User      *UserSummaryResponse `json:"user,omitempty"`
	CreatedAt time.Time            `json:"createdAt"`
}

// ToWatcherResponse converts a domain watcher.
func ToWatcherResponse(w *domain.TaskWatcher) WatcherResponse {
	return WatcherResponse{
		ID:        w.ID,
		TaskID:    w.TaskID,
		UserID:    w.UserID,
		User:      toUserSummary(w.User),
		CreatedAt: w.CreatedAt,
	}
}

// NotificationResponse represents a watcher notification.
type NotificationResponse struct {
	ID        string          `json:"id"`
	UserID    string          `json:"userId"`
	TaskID    string          `json:"taskId"`
	TaskTitle string          `json:"taskTitle"`
	EventType string          `json:"eventType"`
	Payload   json.RawMessage `json:"payload" swaggertype:"object"`
	CreatedAt time.Time       `json:"createdAt"`
	ReadAt    *time.Time      `json:"readAt"`
}

// ToNotificationResponse converts a domain notification.
func ToNotificationResponse(n *domain.TaskWatcherNotification) NotificationResponse {
	payload := n.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	return NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		TaskID:    n.TaskID,
		TaskTitle: n.TaskTitle,
		EventType: string(n.EventType),
		Payload:   payload,
		CreatedAt: n.CreatedAt,
		ReadAt:    n.ReadAt,
	}
}

// WatchlistEntryResponse is a watched task with its team name.
type WatchlistEntryResponse struct {
	TaskResponse
	TeamName  string    `json:"teamName"`
	WatchedAt time.Time `json:"watchedAt"`
}

// ToWatchlistEntryResponse converts a watchlist entry. IsOverdue is taken from the
// entry as computed by the service.
func ToWatchlistEntryResponse(e *domain.WatchlistEntry) WatchlistEntryResponse {
	task := ToTaskResponse(e.Task, time.Now())
	task.IsOverdue = e.IsOverdue
	task.Tags = nil
	return WatchlistEntryResponse{
		TaskResponse: task,
		TeamName:     e.TeamName,
		WatchedAt:    e.WatchedAt,
	}
}

// TeamResponse represents a team.
type TeamResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ToTeamResponse converts a domain team.
func ToTeamResponse(t *domain.Team) TeamResponse {
	return TeamResponse{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		OwnerID:     t.OwnerID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// MembershipResponse represents a team membership.
type MembershipResponse struct {
	ID       string               `json:"id"`
	TeamID   string               `json:"teamId"`
	UserID   string               `json:"userId"`
	Role     string               `json:"role"`
	User     *UserSummaryResponse `json:"user,omitempty"`
	JoinedAt time.Time            `json:"joinedAt"`
}

// ToMembershipResponse converts a domain membership.
func ToMembershipResponse(m *domain.TeamMembership) MembershipResponse {
	return MembershipResponse{
		ID:       m.ID,
		TeamID:   m.TeamID,
		UserID:   m.UserID,
		Role:     string(m.Role),
		User:     toUserSummary(m.User),
		JoinedAt: m.JoinedAt,
	}
}

// TeamDetailResponse is a team with its members.
type TeamDetailResponse struct {
	TeamResponse
	Members []MembershipResponse `json:"members"`
}

// ToTeamDetailResponse converts a team detail.
func ToTeamDetailResponse(d *domain.TeamDetail) TeamDetailResponse {
	resp := TeamDetailResponse{
		TeamResponse: ToTeamResponse(d.Team),
		Members:      make([]MembershipResponse, len(d.Members)),
	}
	for i, m := range d.Members {
		resp.Members[i] = ToMembershipResponse(m)
	}
	return resp
}

// TeamStatsResponse represents task statistics for a team.
type TeamStatsResponse struct {
	TeamID        string         `json:"teamId"`
	TotalTasks    int            `json:"totalTasks"`
	TasksByStatus map[string]int `json:"tasksByStatus"`
	OverdueCount  int            `json:"overdueCount"`
	MemberCount   int            `json:"memberCount"`
}

// ToTeamStatsResponse converts team statistics, listing every status even when zero.
func ToTeamStatsResponse(s *domain.TeamStats) TeamStatsResponse {
	byStatus := map[string]int{
		string(domain.TaskStatusPending):    0,
		string(domain.TaskStatusInProgress): 0,
		string(domain.TaskStatusCompleted):  0,
		string(domain.TaskStatusCancelled):  0,
	}
	for status, count := range s.TasksByStatus {
		byStatus[string(status)] = count
	}
	return TeamStatsResponse{
		TeamID:        s.TeamID,
		TotalTasks:    s.TotalTasks,
		TasksByStatus: byStatus,
		OverdueCount:  s.OverdueCount,
		MemberCount:   s.MemberCount,
	}
}

// Map converts a slice with convert.
func Map[S, T any](items []S, convert func(S) T) []T {
	out := make([]T, len(items))
	for i, item := range items {
		out[i] = convert(item)
	}
	return out
}
