package handler

import (
	"net/http"

	"github.com/mtlprog/teamtasks/internal/handler/dto"
	"github.com/mtlprog/teamtasks/internal/service"
)

// handleCreateUser registers a user.
// @Summary Create user
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.CreateUserRequest true "User"
// @Success 201 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users [post]
func (h *Handler) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.CreateUser(r.Context(), service.CreateUserParams{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToUserResponse(user))
}

// handleListUsers lists all users.
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} dto.UserResponse
// @Router /users [get]
func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context())
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.Map(users, dto.ToUserResponse))
}

// handleGetUser returns a user.
// @Summary Get user
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id} [get]
func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetUser(r.Context(), userID)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// handleUpdateUser updates a user's profile or password.
// @Summary Update user
// @Tags users
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body dto.UpdateUserRequest true "Fields to update"
// @Success 200 {object} dto.UserResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /users/{id} [put]
func (h *Handler) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.userService.UpdateUser(r.Context(), userID, service.UpdateUserParams{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.ToUserResponse(user))
}

// handleDeleteUser deletes a user. Owned teams are deleted with the user.
// @Summary Delete user
// @Tags users
// @Param id path string true "User ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id} [delete]
func (h *Handler) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	if !checkServiceError(w, r, h.userService.DeleteUser(r.Context(), userID)) {
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleListUserTeams lists the teams a user belongs to.
// @Summary List a user's teams
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} dto.TeamResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /users/{id}/teams [get]
func (h *Handler) handleListUserTeams(w http.ResponseWriter, r *http.Request) {
	userID, ok := extractID(w, r, "id")
	if !ok {
		return
	}

	teams, err := h.teamService.ListTeamsForUser(r.Context(), userID)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.Map(teams, dto.ToTeamResponse))
}
