package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"osas-connect/internal/dto"
	"osas-connect/internal/model"
	"osas-connect/internal/service"
	"osas-connect/pkg/response"
)

// RenewalHandler scholarship renewals
type RenewalHandler struct {
	renewalSvc service.RenewalService
}

// NewRenewalHandler creates a RenewalHandler
func NewRenewalHandler(renewalSvc service.RenewalService) *RenewalHandler {
	return &RenewalHandler{renewalSvc: renewalSvc}
}

// CurrentPeriod
// GET /api/v1/renewals/current-period
func (h *RenewalHandler) CurrentPeriod(c *gin.Context) {
	p := h.renewalSvc.CurrentPeriod()
	response.OK(c, gin.H{
		"period":        p.Name,
		"academic_year": p.AcademicYear,
		"semester":      p.Semester,
	})
}

// Eligibility every rule with its outcome
// GET /api/v1/applications/:id/renewal-eligibility
func (h *RenewalHandler) Eligibility(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	result, err := h.renewalSvc.Eligibility(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		h.handleRenewalError(c, err)
		return
	}

	response.OK(c, result)
}

// Submit
// POST /api/v1/renewals
func (h *RenewalHandler) Submit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SubmitRenewalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	r, err := h.renewalSvc.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleRenewalError(c, err)
		return
	}

	response.Created(c, r)
}

// List students see only their own renewals
// GET /api/v1/renewals
func (h *RenewalHandler) List(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.RenewalListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.renewalSvc.List(c.Request.Context(), &req, callerID, role)
	if err != nil {
		h.handleRenewalError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get
// GET /api/v1/renewals/:id
func (h *RenewalHandler) Get(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	r, err := h.renewalSvc.Get(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		h.handleRenewalError(c, err)
		return
	}

	response.OK(c, r)
}

// Statistics
// GET /api/v1/renewals/statistics
func (h *RenewalHandler) Statistics(c *gin.Context) {
	var req dto.RenewalStatisticsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	stats, err := h.renewalSvc.Statistics(c.Request.Context(), &req)
	if err != nil {
		h.handleRenewalError(c, err)
		return
	}

	response.OK(c, stats)
}

// ────────────────────── review ──────────────────────

// StartReview
// POST /api/v1/renewals/:id/review
func (h *RenewalHandler) StartReview(c *gin.Context) {
	h.review(c, h.renewalSvc.StartReview)
}

// Approve
// POST /api/v1/renewals/:id/approve
func (h *RenewalHandler) Approve(c *gin.Context) {
	h.review(c, h.renewalSvc.Approve)
}

// Reject notes required
// POST /api/v1/renewals/:id/reject
func (h *RenewalHandler) Reject(c *gin.Context) {
	staffID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RejectRenewalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	r, err := h.renewalSvc.Reject(c.Request.Context(), c.Param("id"), staffID, &req)
	if err != nil {
		h.handleRenewalError(c, err)
		return
	}

	response.OK(c, r)
}

type reviewFunc func(ctx context.Context, id, staffID string, req *dto.ReviewRenewalRequest) (*model.RenewalApplication, error)

func (h *RenewalHandler) review(c *gin.Context, fn reviewFunc) {
	staffID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ReviewRenewalRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	r, err := fn(c.Request.Context(), c.Param("id"), staffID, &req)
	if err != nil {
		h.handleRenewalError(c, err)
		return
	}

	response.OK(c, r)
}

func (h *RenewalHandler) handleRenewalError(c *gin.Context, err error) {
	var notEligible *service.NotEligibleError
	if errors.As(err, &notEligible) {
		response.ErrorWithDetails(c, http.StatusUnprocessableEntity, 19002, "not eligible for renewal", notEligible.Failed)
		return
	}
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrRenewalNotFound):
		response.NotFound(c, 19001, "renewal application not found")
	case errors.Is(err, service.ErrApplicationNotFound):
		response.NotFound(c, 15001, "application not found")
	case errors.Is(err, service.ErrNotEligible):
		response.Error(c, http.StatusUnprocessableEntity, 19002, "not eligible for renewal")
	case errors.Is(err, service.ErrRenewalInvalidTransition):
		response.BadRequest(c, 19003, "invalid renewal status transition")
	case errors.Is(err, service.ErrRenewalNotesRequired):
		response.BadRequest(c, 19004, "notes are required when rejecting a renewal")
	case errors.Is(err, service.ErrRenewalExists):
		response.Conflict(c, 19005, "a renewal for this period is already on file")
	case errors.Is(err, service.ErrInvalidPeriod):
		response.ValidationFailed(c, map[string]string{"period": err.Error()})
	case errors.Is(err, service.ErrProfileNotFound):
		response.NotFound(c, 13001, "student profile not found")
	default:
		response.InternalError(c)
	}
}
