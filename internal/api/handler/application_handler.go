package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"osas-connect/internal/dto"
	"osas-connect/internal/service"
	"osas-connect/pkg/response"
)

// ApplicationHandler scholarship applications
type ApplicationHandler struct {
	appSvc service.ApplicationService
}

// NewApplicationHandler creates an ApplicationHandler
func NewApplicationHandler(appSvc service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appSvc: appSvc}
}

// ────────────────────── student ──────────────────────

// Create start a draft
// POST /api/v1/applications
func (h *ApplicationHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	app, err := h.appSvc.CreateDraft(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.Created(c, app)
}

// Update edit a draft or incomplete application
// PUT /api/v1/applications/:id
func (h *ApplicationHandler) Update(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	app, err := h.appSvc.UpdateDraft(c.Request.Context(), c.Param("id"), userID, &req)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, app)
}

// Submit
// POST /api/v1/applications/:id/submit
func (h *ApplicationHandler) Submit(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	app, err := h.appSvc.Submit(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, app)
}

// Withdraw remove a draft
// DELETE /api/v1/applications/:id/withdraw
func (h *ApplicationHandler) Withdraw(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.appSvc.Withdraw(c.Request.Context(), c.Param("id"), userID); err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, nil)
}

// ────────────────────── staff ──────────────────────

// StartVerification
// POST /api/v1/applications/:id/start-verification
func (h *ApplicationHandler) StartVerification(c *gin.Context) {
	staffID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	app, err := h.appSvc.StartVerification(c.Request.Context(), c.Param("id"), staffID)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, app)
}

// CompleteVerification
// POST /api/v1/applications/:id/complete-verification
func (h *ApplicationHandler) CompleteVerification(c *gin.Context) {
	staffID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CompleteVerificationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	app, err := h.appSvc.CompleteVerification(c.Request.Context(), c.Param("id"), staffID, &req)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, app)
}

// StartEvaluation
// POST /api/v1/applications/:id/start-evaluation
func (h *ApplicationHandler) StartEvaluation(c *gin.Context) {
	staffID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	app, err := h.appSvc.StartEvaluation(c.Request.Context(), c.Param("id"), staffID)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, app)
}

// Evaluate approve or reject
// POST /api/v1/applications/:id/evaluate
func (h *ApplicationHandler) Evaluate(c *gin.Context) {
	staffID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	app, err := h.appSvc.Evaluate(c.Request.Context(), c.Param("id"), staffID, &req)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, app)
}

// ────────────────────── shared ──────────────────────

// List students see only their own applications
// GET /api/v1/applications
func (h *ApplicationHandler) List(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.ApplicationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	apps, total, err := h.appSvc.List(c.Request.Context(), &req, callerID, role)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OKPage(c, apps, total, req.GetPage(), req.GetPageSize())
}

// Get
// GET /api/v1/applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	app, err := h.appSvc.Get(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	response.OK(c, app)
}

// QRCode reference slip QR as PNG
// GET /api/v1/applications/:id/qrcode
func (h *ApplicationHandler) QRCode(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	png, err := h.appSvc.ReferenceQRCode(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		h.handleApplicationError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", png)
}

func (h *ApplicationHandler) handleApplicationError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrApplicationNotFound):
		response.NotFound(c, 15001, "application not found")
	case errors.Is(err, service.ErrScholarshipNotFound):
		response.NotFound(c, 14001, "scholarship not found")
	case errors.Is(err, service.ErrApplicationExists):
		response.Conflict(c, 15002, "an active application for this scholarship already exists")
	case errors.Is(err, service.ErrScholarshipClosed):
		response.BadRequest(c, 15003, "scholarship is not accepting applications")
	case errors.Is(err, service.ErrInvalidStatusTransition):
		response.BadRequest(c, 15004, "invalid application status transition")
	case errors.Is(err, service.ErrApplicationNotEditable):
		response.BadRequest(c, 15005, "application can only be changed while draft or incomplete")
	case errors.Is(err, service.ErrWithdrawNotAllowed):
		response.BadRequest(c, 15006, "only draft applications can be withdrawn")
	case errors.Is(err, service.ErrNoSlotsAvailable):
		response.Conflict(c, 15007, "no scholarship slots available")
	case errors.Is(err, service.ErrRejectionNotesRequired):
		response.BadRequest(c, 15008, "notes are required when rejecting")
	case errors.Is(err, service.ErrProfileNotFound):
		response.NotFound(c, 13001, "student profile not found")
	default:
		response.InternalError(c)
	}
}
