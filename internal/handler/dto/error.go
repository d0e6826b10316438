package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mtlprog/teamtasks/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Not found
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, "TASK_NOT_FOUND", message
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "USER_NOT_FOUND", message
	case errors.Is(err, domain.ErrTeamNotFound):
		return http.StatusNotFound, "TEAM_NOT_FOUND", message
	case errors.Is(err, domain.ErrCommentNotFound):
		return http.StatusNotFound, "COMMENT_NOT_FOUND", message
	case errors.Is(err, domain.ErrTagNotFound):
		return http.StatusNotFound, "TAG_NOT_FOUND", message
	case errors.Is(err, domain.ErrMembershipNotFound):
		return http.StatusNotFound, "MEMBERSHIP_NOT_FOUND", message

	// State machine
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusBadRequest, "INVALID_TRANSITION", message

	// Policy
	case errors.Is(err, domain.ErrNotTeamMember):
		return http.StatusUnprocessableEntity, "NOT_TEAM_MEMBER", message
	case errors.Is(err, domain.ErrWatcherLimitReached):
		return http.StatusUnprocessableEntity, "WATCHER_LIMIT_REACHED", message
	case errors.Is(err, domain.ErrTeamHasActiveTasks):
		return http.StatusUnprocessableEntity, "TEAM_HAS_ACTIVE_TASKS", message
	case errors.Is(err, domain.ErrCannotRemoveOwner):
		return http.StatusUnprocessableEntity, "CANNOT_REMOVE_OWNER", message

	// Conflicts
	case errors.Is(err, domain.ErrConcurrentUpdate):
		return http.StatusConflict, "CONCURRENT_UPDATE", message
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "EMAIL_TAKEN", message
	case errors.Is(err, domain.ErrTagExists):
		return http.StatusConflict, "TAG_EXISTS", message
	case errors.Is(err, domain.ErrAlreadyMember):
		return http.StatusConflict, "ALREADY_MEMBER", message

	// Validation
	case errors.Is(err, domain.ErrEmptyTitle),
		errors.Is(err, domain.ErrDueDateInPast),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrTeamRequired),
		errors.Is(err, domain.ErrActorRequired),
		errors.Is(err, domain.ErrEmptyComment),
		errors.Is(err, domain.ErrEmptyTeamName),
		errors.Is(err, domain.ErrEmptyTagName),
		errors.Is(err, domain.ErrInvalidUser),
		errors.Is(err, domain.ErrInvalidRole),
		errors.Is(err, domain.ErrInvalidActivityType):
		return http.StatusBadRequest, "VALIDATION_ERROR", message

	// Default: internal server error
	default:
		// Log unmapped error for debugging
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}
