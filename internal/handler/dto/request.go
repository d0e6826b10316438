package dto

// CreateTaskRequest represents the request body for POST /tasks.
type CreateTaskRequest struct {
	Title        string  `json:"title"`
	Description  string  `json:"description,omitempty"`
	Status       *string `json:"status,omitempty"`
	Priority     *string `json:"priority,omitempty"`
	DueDate      *Date   `json:"dueDate,omitempty" swaggertype:"string" example:"2026-12-31"`
	TeamID       string  `json:"teamId"`
	CreatedByID  *string `json:"createdById,omitempty"`
	AssignedToID *string `json:"assignedToId,omitempty"`
}

// UpdateTaskRequest represents the request body for PATCH /tasks/{id}.
// dueDate and assignedToId accept null to clear the value.
type UpdateTaskRequest struct {
	Title        *string          `json:"title,omitempty"`
	Description  *string          `json:"description,omitempty"`
	Status       *string          `json:"status,omitempty"`
	Priority     *string          `json:"priority,omitempty"`
	DueDate      Nullable[Date]   `json:"dueDate" swaggertype:"string" example:"2026-12-31"`
	AssignedToID Nullable[string] `json:"assignedToId" swaggertype:"string"`
	ChangedByID  string           `json:"changedById"`
}

// UpdateTaskTagsRequest represents the request body for PUT /tasks/{id}/tags.
type UpdateTaskTagsRequest struct {
	TagIDs []string `json:"tagIds"`
}

// CreateCommentRequest represents the request body for POST /tasks/{id}/comments.
type CreateCommentRequest struct {
	Content  string `json:"content"`
	AuthorID string `json:"authorId"`
}

// UpdateCommentRequest represents the request body for PUT /comments/{id}.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// SubscribeRequest represents the request body for POST /tasks/{id}/watchers.
type SubscribeRequest struct {
	UserID string `json:"userId"`
}

// MarkNotificationsReadRequest represents the request body for PATCH /watchers/notifications/read.
type MarkNotificationsReadRequest struct {
	UserID          string   `json:"userId"`
	NotificationIDs []string `json:"notificationIds"`
}

// CreateTeamRequest represents the request body for POST /teams.
type CreateTeamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OwnerID     string `json:"ownerId"`
}

// UpdateTeamRequest represents the request body for PUT /teams/{id}.
type UpdateTeamRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

// AddMemberRequest represents the request body for POST /teams/{id}/members.
type AddMemberRequest struct {
	UserID string `json:"userId"`
	Role   string `json:"role,omitempty"`
}

// CreateUserRequest represents the request body for POST /users.
type CreateUserRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// UpdateUserRequest represents the request body for PUT /users/{id}.
type UpdateUserRequest struct {
	Email     *string `json:"email,omitempty"`
	Password  *string `json:"password,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

// CreateTagRequest represents the request body for POST /tags.
type CreateTagRequest struct {
	Name string `json:"name"`
}
