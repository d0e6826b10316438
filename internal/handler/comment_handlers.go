package handler

import (
	"net/http"

	"github.com/mtlprog/teamtasks/internal/handler/dto"
)

// handleCreateComment adds a comment to a task.
// @Summary Comment on a task
// @Description authorId falls back to X-User-ID. Watchers other than the author are notified.
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param X-User-ID header string false "Acting user ID"
// @Param request body dto.CreateCommentRequest true "Comment"
// @Success 201 {object} dto.CommentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id}/comments [post]
func (h *Handler) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.CreateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	authorID := actorID(r, req.AuthorID)
	if authorID == "" || !validUUIDs(authorID) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "authorId must be a valid UUID")
		return
	}

	comment, err := h.commentService.CreateComment(r.Context(), taskID, authorID, req.Content)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToCommentResponse(comment))
}

// handleListTaskComments lists a task's comments, oldest first.
// @Summary List task comments
// @Tags comments
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {array} dto.CommentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id}/comments [get]
func (h *Handler) handleListTaskComments(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.ListByTask(r.Context(), taskID)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.Map(comments, dto.ToCommentResponse))
}

// handleListComments lists all comments, newest first.
// @Summary List comments
// @Tags comments
// @Produce json
// @Success 200 {array} dto.CommentResponse
// @Router /comments [get]
func (h *Handler) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.commentService.ListAll(r.Context())
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.Map(comments, dto.ToCommentResponse))
}

// handleUpdateComment edits a comment.
// @Summary Edit comment
// @Tags comments
// @Accept json
// @Produce json
// @Param id path string true "Comment ID"
// @Param request body dto.UpdateCommentRequest true "New content"
// @Success 200 {object} dto.CommentResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /comments/{id} [put]
func (h *Handler) handleUpdateComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.commentService.UpdateComment(r.Context(), commentID, req.Content)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.ToCommentResponse(comment))
}

// handleDeleteComment deletes a comment.
// @Summary Delete comment
// @Tags comments
// @Param id path string true "Comment ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /comments/{id} [delete]
func (h *Handler) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	commentID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	if !checkServiceError(w, r, h.commentService.DeleteComment(r.Context(), commentID)) {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
