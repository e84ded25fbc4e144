package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"osas-connect/internal/dto"
	"osas-connect/internal/service"
	"osas-connect/pkg/response"
)

// ScholarshipHandler scholarship catalogue
type ScholarshipHandler struct {
	scholarshipSvc service.ScholarshipService
}

// NewScholarshipHandler creates a ScholarshipHandler
func NewScholarshipHandler(scholarshipSvc service.ScholarshipService) *ScholarshipHandler {
	return &ScholarshipHandler{scholarshipSvc: scholarshipSvc}
}

// List
// GET /api/v1/scholarships
func (h *ScholarshipHandler) List(c *gin.Context) {
	var req dto.ScholarshipListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.scholarshipSvc.List(c.Request.Context(), &req)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, list)
}

// Get
// GET /api/v1/scholarships/:id
func (h *ScholarshipHandler) Get(c *gin.Context) {
	s, err := h.scholarshipSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleScholarshipError(c, err)
		return
	}

	response.OK(c, s)
}

// Create
// POST /api/v1/scholarships
func (h *ScholarshipHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateScholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	s, err := h.scholarshipSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		h.handleScholarshipError(c, err)
		return
	}

	response.Created(c, s)
}

// Update
// PUT /api/v1/scholarships/:id
func (h *ScholarshipHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateScholarshipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	s, err := h.scholarshipSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		h.handleScholarshipError(c, err)
		return
	}

	response.OK(c, s)
}

// Delete
// DELETE /api/v1/scholarships/:id
func (h *ScholarshipHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.scholarshipSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		h.handleScholarshipError(c, err)
		return
	}

	response.OK(c, nil)
}

func (h *ScholarshipHandler) handleScholarshipError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrScholarshipNotFound):
		response.NotFound(c, 14001, "scholarship not found")
	case errors.Is(err, service.ErrScholarshipDateInvalid):
		response.BadRequest(c, 14002, "deadline must not be before the open date")
	case errors.Is(err, service.ErrScholarshipInUse):
		response.Conflict(c, 14003, "scholarship has applications and cannot be deleted")
	default:
		response.InternalError(c)
	}
}
