package handler

import (
	"net/http"
	"strconv"

	"github.com/mtlprog/teamtasks/internal/domain"
	"github.com/mtlprog/teamtasks/internal/handler/dto"
	"github.com/mtlprog/teamtasks/internal/service"
)

// handleSubscribe subscribes a user to a task.
// @Summary Watch a task
// @Description Subscribes userId (or X-User-ID) to the task. The user must belong to the task's team. Returns 201 for a new subscription and 200 when it already existed.
// @Tags watchers
// @Accept json
// @Produce json
// @Param id path string true "Task ID"
// @Param X-User-ID header string false "Acting user ID"
// @Param request body dto.SubscribeRequest false "Subscriber"
// @Success 200 {object} dto.WatcherResponse
// @Success 201 {object} dto.WatcherResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /tasks/{id}/watchers [post]
func (h *Handler) handleSubscribe(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.SubscribeRequest
	if r.ContentLength != 0 && !decodeJSON(w, r, &req) {
		return
	}

	userID := actorID(r, req.UserID)
	if userID == "" || !validUUIDs(userID) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "userId must be a valid UUID")
		return
	}

	watcher, created, err := h.watcherService.Subscribe(r.Context(), taskID, userID)
	if !checkServiceError(w, r, err) {
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respondJSON(w, status, dto.ToWatcherResponse(watcher))
}

// handleUnsubscribe removes a user's subscription. Removing a missing subscription succeeds.
// @Summary Stop watching a task
// @Tags watchers
// @Param id path string true "Task ID"
// @Param userId path string true "User ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Router /tasks/{id}/watchers/{userId} [delete]
func (h *Handler) handleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := extractID(w, r, "userId")
	if !ok {
		return
	}

	if !checkServiceError(w, r, h.watcherService.Unsubscribe(r.Context(), taskID, userID)) {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListWatchers lists a task's watchers.
// @Summary List task watchers
// @Tags watchers
// @Produce json
// @Param id path string true "Task ID"
// @Success 200 {array} dto.WatcherResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /tasks/{id}/watchers [get]
func (h *Handler) handleListWatchers(w http.ResponseWriter, r *http.Request) {
	taskID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	watchers, err := h.watcherService.ListWatchers(r.Context(), taskID)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.Map(watchers, dto.ToWatcherResponse))
}

// handleGetWatchlist lists the tasks a user watches.
// @Summary Watchlist
// @Description Tasks watched by userId (or X-User-ID), most recently updated first, each with isOverdue.
// @Tags watchers
// @Produce json
// @Param X-User-ID header string false "Acting user ID"
// @Param userId query string false "Watcher"
// @Param status query string false "Filter by status" Enums(pending, in_progress, completed, cancelled)
// @Param teamId query string false "Filter by team"
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Page size (max 100)" default(10)
// @Success 200 {object} dto.PageResponse[dto.WatchlistEntryResponse]
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /watchers/watchlist [get]
func (h *Handler) handleGetWatchlist(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	q := service.WatchlistQuery{UserID: userID, Page: queryPage(r)}
	if v := r.URL.Query().Get("status"); v != "" {
		status := domain.TaskStatus(v)
		q.Status = &status
	}
	var err error
	if q.TeamID, err = queryUUID(r, "teamId"); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	result, err := h.watcherService.GetWatchlist(r.Context(), q)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.ToPageResponse(result, dto.ToWatchlistEntryResponse))
}

// handleGetNotifications lists a user's notifications.
// @Summary Watcher notifications
// @Tags watchers
// @Produce json
// @Param X-User-ID header string false "Acting user ID"
// @Param userId query string false "Recipient"
// @Param unreadOnly query bool false "Only unread notifications"
// @Success 200 {array} dto.NotificationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /watchers/notifications [get]
func (h *Handler) handleGetNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := requestUser(w, r)
	if !ok {
		return
	}

	unreadOnly := false
	if v := r.URL.Query().Get("unreadOnly"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "unreadOnly must be a boolean")
			return
		}
		unreadOnly = parsed
	}

	notifications, err := h.watcherService.GetNotifications(r.Context(), userID, unreadOnly)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.Map(notifications, dto.ToNotificationResponse))
}

// handleMarkNotificationsRead marks notifications as read.
// @Summary Mark notifications read
// @Description Only notifications owned by the user are updated; other IDs are ignored.
// @Tags watchers
// @Accept json
// @Produce json
// @Param X-User-ID header string false "Acting user ID"
// @Param request body dto.MarkNotificationsReadRequest true "Notification IDs"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Router /watchers/notifications/read [patch]
func (h *Handler) handleMarkNotificationsRead(w http.ResponseWriter, r *http.Request) {
	var req dto.MarkNotificationsReadRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	userID := actorID(r, req.UserID)
	if userID == "" || !validUUIDs(userID) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "userId must be a valid UUID")
		return
	}
	if !validUUIDs(req.NotificationIDs...) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "notificationIds must be valid UUIDs")
		return
	}

	if _, err := h.watcherService.MarkNotificationsAsRead(r.Context(), userID, req.NotificationIDs); !checkServiceError(w, r, err) {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// requestUser resolves the userId query parameter, falling back to X-User-ID.
func requestUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := actorID(r, r.URL.Query().Get("userId"))
	if userID == "" || !validUUIDs(userID) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "userId must be a valid UUID")
		return "", false
	}
	return userID, true
}
