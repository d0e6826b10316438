package handler

import (
	"net/http"

	"github.com/mtlprog/teamtasks/internal/handler/dto"
)

// handleListTags lists all tags.
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {array} dto.TagResponse
// @Router /tags [get]
func (h *Handler) handleListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.ListTags(r.Context())
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusOK, dto.Map(tags, dto.ToTagResponse))
}

// handleCreateTag creates a tag.
// @Summary Create tag
// @Tags tags
// @Accept json
// @Produce json
// @Param request body dto.CreateTagRequest true "Tag"
// @Success 201 {object} dto.TagResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Router /tags [post]
func (h *Handler) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTagRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	tag, err := h.tagService.CreateTag(r.Context(), req.Name)
	if !checkServiceError(w, r, err) {
		return
	}

	respondJSON(w, http.StatusCreated, dto.ToTagResponse(*tag))
}
