package handler

import (
	"net/http"

	"github.com/mtlprog/teamtasks/internal/domain"
	"github.com/mtlprog/teamtasks/internal/handler/dto"
)

// handleGetActivityFeed returns the newest activity entries.
// @Summary Activity feed
// @Description Newest first, at most 50 entries.
// @Tags activity
// @Produce json
// @Param teamId query string false "Filter by team"
// @Param type query string false "Filter by activity type" Enums(task_created, task_updated, status_changed, comment_added, team_created, member_added, watcher_added, watcher_removed)
// @Success 200 {array} dto.ActivityResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /activity [get]
func (h *Handler) handleGetActivityFeed(w http.ResponseWriter, r *http.Request) {
	teamID, err := queryUUID(r, "teamId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	var activityType *domain.ActivityType
	if v := r.URL.Query().Get("type"); v != "" {
		t := domain.ActivityType(v)
		activityType = &t
	}

	feed, err := h.activityService.GetFeed(r.Context(), teamID, activityType)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.Map(feed, dto.ToActivityResponse))
}
