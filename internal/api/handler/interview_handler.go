package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"osas-connect/internal/dto"
	"osas-connect/internal/service"
	"osas-connect/pkg/response"
)

// InterviewHandler interview scheduling
type InterviewHandler struct {
	interviewSvc service.InterviewService
}

// NewInterviewHandler creates an InterviewHandler
func NewInterviewHandler(interviewSvc service.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewSvc: interviewSvc}
}

// Schedule
// POST /api/v1/interviews
func (h *InterviewHandler) Schedule(c *gin.Context) {
	staffID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ScheduleInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	iv, err := h.interviewSvc.Schedule(c.Request.Context(), staffID, &req)
	if err != nil {
		h.handleInterviewError(c, err)
		return
	}

	response.Created(c, iv)
}

// Reschedule
// POST /api/v1/interviews/:id/reschedule
func (h *InterviewHandler) Reschedule(c *gin.Context) {
	staffID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.RescheduleInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	iv, err := h.interviewSvc.Reschedule(c.Request.Context(), c.Param("id"), staffID, &req)
	if err != nil {
		h.handleInterviewError(c, err)
		return
	}

	response.OK(c, iv)
}

// Cancel
// POST /api/v1/interviews/:id/cancel
func (h *InterviewHandler) Cancel(c *gin.Context) {
	staffID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CancelInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	iv, err := h.interviewSvc.Cancel(c.Request.Context(), c.Param("id"), staffID, &req)
	if err != nil {
		h.handleInterviewError(c, err)
		return
	}

	response.OK(c, iv)
}

// Complete record the outcome
// POST /api/v1/interviews/:id/complete
func (h *InterviewHandler) Complete(c *gin.Context) {
	staffID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CompleteInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	iv, err := h.interviewSvc.Complete(c.Request.Context(), c.Param("id"), staffID, &req)
	if err != nil {
		h.handleInterviewError(c, err)
		return
	}

	response.OK(c, iv)
}

// List
// GET /api/v1/interviews
func (h *InterviewHandler) List(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	var req dto.InterviewListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	list, total, err := h.interviewSvc.List(c.Request.Context(), &req, callerID, role)
	if err != nil {
		h.handleInterviewError(c, err)
		return
	}

	response.OKPage(c, list, total, req.GetPage(), req.GetPageSize())
}

// Get
// GET /api/v1/interviews/:id
func (h *InterviewHandler) Get(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	iv, err := h.interviewSvc.Get(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		h.handleInterviewError(c, err)
		return
	}

	response.OK(c, iv)
}

// CalendarInvite .ics download
// GET /api/v1/interviews/:id/calendar.ics
func (h *InterviewHandler) CalendarInvite(c *gin.Context) {
	callerID, role, ok := MustGetCaller(c)
	if !ok {
		return
	}

	data, err := h.interviewSvc.CalendarInvite(c.Request.Context(), c.Param("id"), callerID, role)
	if err != nil {
		h.handleInterviewError(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename=interview.ics")
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

func (h *InterviewHandler) handleInterviewError(c *gin.Context, err error) {
	if handleCommonError(c, err) {
		return
	}
	switch {
	case errors.Is(err, service.ErrInterviewNotFound):
		response.NotFound(c, 17001, "interview not found")
	case errors.Is(err, service.ErrApplicationNotFound):
		response.NotFound(c, 15001, "application not found")
	case errors.Is(err, service.ErrInterviewNotSchedulable):
		response.BadRequest(c, 17002, "application must be verified or under evaluation to schedule an interview")
	case errors.Is(err, service.ErrInterviewInPast):
		response.BadRequest(c, 17003, "interview must be scheduled in the future")
	case errors.Is(err, service.ErrInterviewerConflict):
		response.Conflict(c, 17004, "interviewer has another interview within 60 minutes")
	case errors.Is(err, service.ErrInterviewerNotStaff):
		response.BadRequest(c, 17005, "interviewer must be an active OSAS staff member")
	case errors.Is(err, service.ErrInterviewClosed):
		response.BadRequest(c, 17006, "interview is already completed or cancelled")
	default:
		response.InternalError(c)
	}
}
