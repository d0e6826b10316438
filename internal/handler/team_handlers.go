package handler

import (
	"net/http"

	"github.com/mtlprog/teamtasks/internal/domain"
	"github.com/mtlprog/teamtasks/internal/handler/dto"
)

// handleCreateTeam creates a team owned by ownerId (or X-User-ID).
// @Summary Create team
// @Tags teams
// @Accept json
// @Produce json
// @Param X-User-ID header string false "Acting user ID"
// @Param request body dto.CreateTeamRequest true "Team"
// @Success 201 {object} dto.TeamResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /teams [post]
func (h *Handler) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTeamRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ownerID := actorID(r, req.OwnerID)
	if ownerID == "" || !validUUIDs(ownerID) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "ownerId must be a valid UUID")
		return
	}

	team, err := h.teamService.CreateTeam(r.Context(), req.Name, req.Description, ownerID)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTeamResponse(team))
}

// handleListTeams lists all teams.
// @Summary List teams
// @Tags teams
// @Produce json
// @Success 200 {array} dto.TeamResponse
// @Router /teams [get]
func (h *Handler) handleListTeams(w http.ResponseWriter, r *http.Request) {
	teams, err := h.teamService.ListTeams(r.Context())
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.Map(teams, dto.ToTeamResponse))
}

// handleGetTeam returns a team with its members.
// @Summary Get team
// @Tags teams
// @Produce json
// @Param id path string true "Team ID"
// @Success 200 {object} dto.TeamDetailResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /teams/{id} [get]
func (h *Handler) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	detail, err := h.teamService.GetTeamDetail(r.Context(), teamID)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTeamDetailResponse(detail))
}

// handleUpdateTeam renames a team or changes its description.
// @Summary Update team
// @Tags teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID"
// @Param request body dto.UpdateTeamRequest true "Fields to update"
// @Success 200 {object} dto.TeamResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /teams/{id} [put]
func (h *Handler) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	teamID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateTeamRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	team, err := h.teamService.UpdateTeam(r.Context(), teamID, req.Name, req.Description)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTeamResponse(team))
}

// handleDeleteTeam deletes a team without active tasks.
// @Summary Delete team
// @Description Fails with 422 while the team has pending or in-progress tasks.
// @Tags teams
// @Param id path string true "Team ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /teams/{id} [delete]
func (h *Handler) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	teamID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	if !checkServiceError(w, r, h.teamService.DeleteTeam(r.Context(), teamID)) {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleGetTeamStats returns task statistics for a team.
// @Summary Team statistics
// @Description Task counts by status, overdue count and member count.
// @Tags teams
// @Produce json
// @Param id path string true "Team ID"
// @Success 200 {object} dto.TeamStatsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /teams/{id}/stats [get]
func (h *Handler) handleGetTeamStats(w http.ResponseWriter, r *http.Request) {
	teamID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	stats, err := h.teamService.GetTeamStats(r.Context(), teamID)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.ToTeamStatsResponse(stats))
}

// handleListMembers lists a team's members, owner first.
// @Summary List team members
// @Tags teams
// @Produce json
// @Param id path string true "Team ID"
// @Success 200 {array} dto.MembershipResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /teams/{id}/members [get]
func (h *Handler) handleListMembers(w http.ResponseWriter, r *http.Request) {
	teamID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	members, err := h.teamService.ListMembers(r.Context(), teamID)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.Map(members, dto.ToMembershipResponse))
}

// handleAddMember adds a user to a team.
// @Summary Add team member
// @Description role defaults to member; a team has exactly one owner.
// @Tags teams
// @Accept json
// @Produce json
// @Param id path string true "Team ID"
// @Param X-User-ID header string false "Acting user ID"
// @Param request body dto.AddMemberRequest true "Member"
// @Success 201 {object} dto.MembershipResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /teams/{id}/members [post]
func (h *Handler) handleAddMember(w http.ResponseWriter, r *http.Request) {
	teamID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.AddMemberRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !validUUIDs(req.UserID) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "userId must be a valid UUID")
		return
	}

	membership, err := h.teamService.AddMember(r.Context(), teamID, req.UserID, domain.TeamRole(req.Role), actorID(r, ""))
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToMembershipResponse(membership))
}

// handleRemoveMember removes a non-owner member.
// @Summary Remove team member
// @Tags teams
// @Param id path string true "Team ID"
// @Param userId path string true "User ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 422 {object} dto.ErrorResponse
// @Router /teams/{id}/members/{userId} [delete]
func (h *Handler) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	teamID, ok := extractID(w, r, "id")
	if !ok {
		return
	}
	userID, ok := extractID(w, r, "userId")
	if !ok {
		return
	}

	if !checkServiceError(w, r, h.teamService.RemoveMember(r.Context(), teamID, userID)) {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
