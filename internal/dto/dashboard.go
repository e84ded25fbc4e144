package dto

// ── dashboard ──

// DashboardResponse staff overview
type DashboardResponse struct {
	CurrentPeriod         string           `json:"current_period"`
	ApplicationsByStatus  map[string]int64 `json:"applications_by_status"`
	TotalApplications     int64            `json:"total_applications"`
	PendingDocuments      int64            `json:"pending_documents"`
	UpcomingInterviews    int64            `json:"upcoming_interviews"`
	PendingRenewals       int64            `json:"pending_renewals"`
	TotalStipendsReleased float64          `json:"total_stipends_released"`
}

// ExportPeriodRequest period filter for exports
type ExportPeriodRequest struct {
	Period string `form:"period" binding:"omitempty,max=60"`
}
