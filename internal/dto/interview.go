package dto

import "time"

// ── interviews ──

// ScheduleInterviewRequest schedule; interviewer defaults to the caller
type ScheduleInterviewRequest struct {
	ApplicationID string    `json:"application_id" binding:"required,uuid"`
	InterviewerID string    `json:"interviewer_id" binding:"omitempty,uuid"`
	Schedule      time.Time `json:"schedule"       binding:"required"`
	Location      string    `json:"location"       binding:"required,max=255"`
	Type          string    `json:"type"           binding:"required,oneof=in_person online"`
	Notes         string    `json:"notes"          binding:"omitempty,max=2000"`
}

// RescheduleInterviewRequest move to a new time
type RescheduleInterviewRequest struct {
	Schedule time.Time `json:"schedule" binding:"required"`
	Location *string   `json:"location" binding:"omitempty,max=255"`
	Reason   string    `json:"reason"   binding:"required,max=1000"`
}

// CancelInterviewRequest cancel
type CancelInterviewRequest struct {
	Reason string `json:"reason" binding:"required,max=1000"`
}

// CompleteInterviewRequest record the outcome
type CompleteInterviewRequest struct {
	Recommendation string `json:"recommendation" binding:"required,oneof=approved rejected waitlisted"`
	Notes          string `json:"notes"          binding:"omitempty,max=5000"`
}

// InterviewListRequest list filters
type InterviewListRequest struct {
	PaginationRequest
	Status        string `form:"status"         binding:"omitempty,oneof=scheduled completed cancelled rescheduled"`
	ApplicationID string `form:"application_id" binding:"omitempty,uuid"`
	InterviewerID string `form:"interviewer_id" binding:"omitempty,uuid"`
	From          string `form:"from"           binding:"omitempty,datetime=2006-01-02"`
	To            string `form:"to"             binding:"omitempty,datetime=2006-01-02"`
}
