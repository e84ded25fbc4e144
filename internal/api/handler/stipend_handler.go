package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"osas-connect/internal/dto"
	"osas-connect/internal/service"
	"osas-connect/pkg/response"
)

// StipendHandler stipend releases
type StipendHandler struct {
	stipendSvc service.StipendService
}

// NewStipendHandler creates a StipendHandler
func NewStipendHandler(stipendSvc service.StipendService) *StipendHandler {
	return &StipendHandler{stipendSvc: stipendSvc}
}

// Release
// POST /api/v1/applications/:id/stipends
func (h *StipendHandler) Release(c *gin.Context) {
	staffID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ReleaseStipendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	rec, err := h.stipendSvc.Release(c.Request.Context(), c.Param("id"), staffID, &req)
	if err != nil {
		h.handleStipendError(c, err)
		return
	}

	response.Created(c, rec)
}

// List releases of one application
// GET /api/v1/applications/:id/stipends
func (h *StipendHandler) List(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	list, err := h.stipendSvc.List(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		h.handleStipendError(c, err)
		return
	}

	response.OK(c, list)
}

// ListAll every release, optionally for one period
// GET /api/v1/stipends
func (h *StipendHandler) ListAll(c *gin.Context) {
	var req dto.StipendListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, err := h.stipendSvc.ListAll(c.Request.Context(), &req)
	if err != nil {
		h.handleStipendError(c, err)
		return
	}

	response.OK(c, list)
}

func (h *StipendHandler) handleStipendError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrApplicationNotFound):
		response.NotFound(c, 15001, "application not found")
	case errors.Is(err, service.ErrStipendNotApproved):
		response.BadRequest(c, 18001, "stipends can only be released for approved applications")
	case errors.Is(err, service.ErrStipendInvalidAmount):
		response.ValidationFailed(c, map[string]string{"amount": "must be greater than 0"})
	case errors.Is(err, service.ErrStipendPeriodRequired):
		response.ValidationFailed(c, map[string]string{"period": "is required"})
	case errors.Is(err, service.ErrStipendAlreadyPaid):
		response.Conflict(c, 18002, "stipend for this period has already been released")
	default:
		response.InternalError(c)
	}
}
