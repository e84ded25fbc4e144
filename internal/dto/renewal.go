package dto

import "osas-connect/internal/model"

// ── renewals ──

// SubmitRenewalRequest period defaults to the current academic period
type SubmitRenewalRequest struct {
	ApplicationID string  `json:"application_id" binding:"required,uuid"`
	CGPA          float64 `json:"cgpa"           binding:"required,min=1,max=5"`
	Period        *string `json:"period"         binding:"omitempty,max=60"`
}

// ReviewRenewalRequest start review or approve
type ReviewRenewalRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=2000"`
}

// RejectRenewalRequest reject; notes are mandatory
type RejectRenewalRequest struct {
	Notes string `json:"notes" binding:"required,max=2000"`
}

// RenewalListRequest list filters
type RenewalListRequest struct {
	PaginationRequest
	Status        string `form:"status"         binding:"omitempty,oneof=pending under_review approved rejected"`
	Period        string `form:"period"         binding:"omitempty,max=60"`
	ScholarshipID string `form:"scholarship_id" binding:"omitempty,uuid"`
}

// RenewalStatisticsRequest period defaults to all periods
type RenewalStatisticsRequest struct {
	Period string `form:"period" binding:"omitempty,max=60"`
}

// EligibilityResponse outcome of every renewal rule
type EligibilityResponse struct {
	Eligible  bool                     `json:"eligible"`
	Period    string                   `json:"period"`
	Deadline  *string                  `json:"deadline,omitempty"`
	Threshold float64                  `json:"gwa_threshold"`
	Checks    []model.EligibilityCheck `json:"checks"`
}

// ScholarshipRenewalCount renewals per scholarship
type ScholarshipRenewalCount struct {
	ScholarshipID string `json:"scholarship_id"`
	Name          string `json:"name"`
	Count         int64  `json:"count"`
}

// RenewalStatisticsResponse renewal statistics
type RenewalStatisticsResponse struct {
	Period              string                    `json:"period,omitempty"`
	Total               int64                     `json:"total"`
	ByStatus            map[string]int64          `json:"by_status"`
	ApprovalRate        float64                   `json:"approval_rate"`
	AverageApprovedCGPA float64                   `json:"average_approved_cgpa"`
	ByScholarship       []ScholarshipRenewalCount `json:"by_scholarship"`
}
