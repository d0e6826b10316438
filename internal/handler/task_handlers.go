package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/mtlprog/teamtasks/internal/domain"
	"github.com/mtlprog/teamtasks/internal/handler/dto"
	"github.com/mtlprog/teamtasks/internal/service"
)

// handleCreateTask creates a new task.
// @Summary Create a new task
// @Description Creates a task in a team. Status defaults to pending, priority to medium. createdById falls back to X-User-ID.
// @Tags tasks
// @Accept json
// @Produce json
// @Param X-User-ID header string false "Acting user ID"
// @Param request body dto.CreateTaskRequest true "Task creation request"
// @Success 201 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks [post]
func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Parse request body
	var req dto.CreateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if !validUUIDs(req.TeamID) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "teamId must be a valid UUID")
		return
	}

	params := service.CreateTaskParams{
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate.Ptr(),
		TeamID:       req.TeamID,
		AssignedToID: req.AssignedToID,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		params.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		params.Priority = &priority
	}
	if creator := actorID(r, deref(req.CreatedByID)); creator != "" {
		params.CreatedByID = &creator
	}
	for _, id := range []*string{params.CreatedByID, params.AssignedToID} {
		if id != nil && !validUUIDs(*id) {
			respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "user ids must be valid UUIDs")
			return
		}
	}

	task, err := h.taskService.CreateTask(ctx, params)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTaskResponse(task, h.now()))
}

// handleGetTask retrieves a task.
// @Summary Get task
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id} [get]
func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(r.Context(), taskID)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task, h.now()))
}

// handleListTasks lists tasks with filters and pagination.
// @Summary List tasks
// @Description Newest first. tags is a comma-separated list of tag IDs; a task matches if it has any of them.
// @Tags tasks
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, in_progress, completed, cancelled)
// @Param priority query string false "Filter by priority" Enums(low, medium, high)
// @Param teamId query string false "Filter by team"
// @Param search query string false "Case-insensitive match on title or description"
// @Param dueDateFrom query string false "Due on or after (YYYY-MM-DD)"
// @Param dueDateTo query string false "Due on or before (YYYY-MM-DD)"
// @Param tags query string false "Comma-separated tag IDs"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(10)
// @Success 200 {object} dto.PageResponse[dto.TaskResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Router /tasks [get]
func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	q := service.ListTasksQuery{
		Search: query.Get("search"),
		Page:   queryPage(r),
	}
	if v := query.Get("status"); v != "" {
		status := domain.TaskStatus(v)
		q.Status = &status
	}
	if v := query.Get("priority"); v != "" {
		priority := domain.TaskPriority(v)
		q.Priority = &priority
	}
	var err error
	if q.TeamID, err = queryUUID(r, "teamId"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if q.DueDateFrom, err = queryDate(r, "dueDateFrom"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if q.DueDateTo, err = queryDate(r, "dueDateTo"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}
	if v := query.Get("tags"); v != "" {
		for _, id := range strings.Split(v, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if !validUUIDs(id) {
				respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "tags must be valid UUIDs")
				return
			}
			q.TagIDs = append(q.TagIDs, id)
		}
	}

	result, err := h.taskService.ListTasks(ctx, q)
	if !checkServiceError(w, r, err) {
		return
	}

	now := h.now()
	respondJSON(w, http.StatusOK, dto.ToPageResponse(result, func(t *domain.Task) dto.TaskResponse {
		return dto.ToTaskResponse(t, now)
	}))
}

// handleUpdateTask applies a partial update.
// @Summary Update task
// @Description Updates the provided fields. A status change must follow pending -> in_progress -> completed, with cancelled reachable from any non-terminal status. dueDate and assignedToId accept null. changedById falls back to X-User-ID.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param X-User-ID header string false "Acting user ID"
// @Param request body dto.UpdateTaskRequest true "Fields to update"
// @Success 200 {object} dto.TaskResponse
// @Header 200 {string} X-Side-Effect-Failure "true when history, activity or notifications could not be written"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /tasks/{id} [patch]
func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	changedBy := actorID(r, req.ChangedByID)
	if changedBy == "" {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "changedById is required")
		return
	}
	if !validUUIDs(changedBy) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "changedById must be a valid UUID")
		return
	}
	if req.AssignedToID.Value != nil && !validUUIDs(*req.AssignedToID.Value) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "assignedToId must be a valid UUID")
		return
	}

	cmd := service.UpdateTaskCommand{
		Title:       req.Title,
		Description: req.Description,
		DueDate: service.NullableUpdate[time.Time]{
			Set:   req.DueDate.Set,
			Value: req.DueDate.Value.Ptr(),
		},
		AssignedToID: service.NullableUpdate[string]{
			Set:   req.AssignedToID.Set,
			Value: req.AssignedToID.Value,
		},
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		cmd.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		cmd.Priority = &priority
	}

	task, err := h.taskService.UpdateTask(ctx, taskID, cmd, changedBy)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task, h.now()))
}

// handleDeleteTask deletes a task with its comments, history and subscriptions.
// @Summary Delete task
// @Tags tasks
// @Param id path string true "Task ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id} [delete]
func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	if !checkServiceError(w, r, h.taskService.DeleteTask(r.Context(), taskID)) {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleUpdateTaskTags replaces the task's tag set.
// @Summary Replace task tags
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param request body dto.UpdateTaskTagsRequest true "Tag IDs"
// @Success 200 {object} dto.TaskResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id}/tags [put]
func (h *Handler) handleUpdateTaskTags(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateTaskTagsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validUUIDs(req.TagIDs...) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "tagIds must be valid UUIDs")
		return
	}

	task, err := h.taskService.UpdateTaskTags(r.Context(), taskID, req.TagIDs)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTaskResponse(task, h.now()))
}

// handleGetStatusHistory lists a task's status transitions.
// @Summary Task status history
// @Tags tasks
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {array} dto.StatusHistoryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id}/history [get]
func (h *Handler) handleGetStatusHistory(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	history, err := h.taskService.GetStatusHistory(r.Context(), taskID)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.Map(history, dto.ToStatusHistoryResponse))
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
