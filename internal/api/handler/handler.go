package handler

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"osas-connect/internal/service"
	pkgerrors "osas-connect/pkg/errors"
	"osas-connect/pkg/response"
)

// Handler aggregates every module handler
type Handler struct {
	Auth         *AuthHandler
	User         *UserHandler
	Profile      *ProfileHandler
	Scholarship  *ScholarshipHandler
	Application  *ApplicationHandler
	Document     *DocumentHandler
	Interview    *InterviewHandler
	Stipend      *StipendHandler
	Renewal      *RenewalHandler
	Notification *NotificationHandler
	Report       *ReportHandler
}

// NewHandler wires handlers to services
func NewHandler(svc *service.Service, cookie *CookieOptions, maxUploadBytes int64) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth, cookie),
		User:         NewUserHandler(svc.User),
		Profile:      NewProfileHandler(svc.Profile),
		Scholarship:  NewScholarshipHandler(svc.Scholarship),
		Application:  NewApplicationHandler(svc.Application),
		Document:     NewDocumentHandler(svc.Document, maxUploadBytes),
		Interview:    NewInterviewHandler(svc.Interview),
		Stipend:      NewStipendHandler(svc.Stipend),
		Renewal:      NewRenewalHandler(svc.Renewal),
		Notification: NewNotificationHandler(svc.Notification),
		Report:       NewReportHandler(svc.Report),
	}
}

// ── binding ──

// bindError writes 422 with per-field messages for validator failures, 400 otherwise
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldName(fe)] = fieldMessage(fe)
		}
		response.ValidationFailed(c, fields)
		return
	}
	response.BadRequest(c, 10001, "invalid request body")
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return toSnake(ns)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid":
		return "must be a valid id"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "datetime":
		return "must use the format " + fe.Param()
	default:
		return "is invalid"
	}
}

// toSnake turns "Criteria.MaxGWA" into "criteria.max_gwa"
func toSnake(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		isUpper := r >= 'A' && r <= 'Z'
		if isUpper {
			if i > 0 && runes[i-1] != '.' {
				prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
				nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
				prevUpper := runes[i-1] >= 'A' && runes[i-1] <= 'Z'
				if prevLower || (prevUpper && nextLower) {
					b.WriteByte('_')
				}
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ── shared service errors ──

// handleCommonError covers errors shared by every module; returns false when err is not one of them
func handleCommonError(c *gin.Context, err error) bool {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		response.ValidationFailed(c, verr.Fields)
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 10006, err.Error())
	case errors.Is(err, service.ErrNoPermission):
		response.Forbidden(c, 10003, "no permission")
	default:
		return false
	}
	return true
}
