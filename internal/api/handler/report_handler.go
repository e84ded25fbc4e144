package handler

import (
	"bytes"
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"osas-connect/internal/dto"
	"osas-connect/internal/service"
	"osas-connect/pkg/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler dashboard and Excel exports
type ReportHandler struct {
	reportSvc service.ReportService
}

// NewReportHandler creates a ReportHandler
func NewReportHandler(reportSvc service.ReportService) *ReportHandler {
	return &ReportHandler{reportSvc: reportSvc}
}

// Dashboard staff overview
// GET /api/v1/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	d, err := h.reportSvc.Dashboard(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, d)
}

// ExportApplications
// GET /api/v1/export/applications?status=&scholarship_id=
func (h *ReportHandler) ExportApplications(c *gin.Context) {
	var req dto.ApplicationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	buf, filename, err := h.reportSvc.ExportApplications(c.Request.Context(), &req)
	h.sendExcel(c, buf, filename, err)
}

// ExportStipends
// GET /api/v1/export/stipends?period=
func (h *ReportHandler) ExportStipends(c *gin.Context) {
	var req dto.ExportPeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	buf, filename, err := h.reportSvc.ExportStipends(c.Request.Context(), req.Period)
	h.sendExcel(c, buf, filename, err)
}

// ExportRenewals
// GET /api/v1/export/renewals?period=
func (h *ReportHandler) ExportRenewals(c *gin.Context) {
	var req dto.ExportPeriodRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindError(c, err)
		return
	}

	buf, filename, err := h.reportSvc.ExportRenewals(c.Request.Context(), req.Period)
	h.sendExcel(c, buf, filename, err)
}

func (h *ReportHandler) sendExcel(c *gin.Context, buf *bytes.Buffer, filename string, err error) {
	if err != nil {
		h.handleReportError(c, err)
		return
	}

	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *ReportHandler) handleReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidPeriod):
		response.ValidationFailed(c, map[string]string{"period": err.Error()})
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
