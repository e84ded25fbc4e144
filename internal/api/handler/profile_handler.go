package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"osas-connect/internal/dto"
	"osas-connect/internal/service"
	"osas-connect/pkg/response"
)

// ProfileHandler student profiles
type ProfileHandler struct {
	profileSvc service.ProfileService
}

// NewProfileHandler creates a ProfileHandler
func NewProfileHandler(profileSvc service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileSvc: profileSvc}
}

// GetMine
// GET /api/v1/profile
func (h *ProfileHandler) GetMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	profile, err := h.profileSvc.GetMine(c.Request.Context(), userID)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, profile)
}

// UpdateMine
// PUT /api/v1/profile
func (h *ProfileHandler) UpdateMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	profile, err := h.profileSvc.UpdateMine(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, profile)
}

// GetByUser staff view of a student's profile
// GET /api/v1/students/:id/profile
func (h *ProfileHandler) GetByUser(c *gin.Context) {
	profile, err := h.profileSvc.GetByUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, profile)
}

// SetDisciplinary record or clear a disciplinary action
// PUT /api/v1/students/:id/disciplinary
func (h *ProfileHandler) SetDisciplinary(c *gin.Context) {
	staffID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.DisciplinaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	profile, err := h.profileSvc.SetDisciplinaryAction(c.Request.Context(), c.Param("id"), *req.HasDisciplinaryAction, staffID)
	if err != nil {
		h.handleProfileError(c, err)
		return
	}

	response.OK(c, profile)
}

func (h *ProfileHandler) handleProfileError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrProfileNotFound):
		response.NotFound(c, 13001, "student profile not found")
	case errors.Is(err, service.ErrStudentIDExists):
		response.Conflict(c, 11004, "student ID is already registered")
	default:
		response.InternalError(c)
	}
}
