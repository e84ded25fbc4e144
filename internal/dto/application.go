package dto

// ── applications ──

// CreateApplicationRequest start a draft
type CreateApplicationRequest struct {
	ScholarshipID string `json:"scholarship_id" binding:"required,uuid"`
	PurposeLetter string `json:"purpose_letter" binding:"omitempty,max=5000"`
}

// UpdateApplicationRequest edit a draft or incomplete application
type UpdateApplicationRequest struct {
	PurposeLetter *string `json:"purpose_letter" binding:"omitempty,max=5000"`
}

// ApplicationListRequest list filters; students only ever see their own
type ApplicationListRequest struct {
	PaginationRequest
	Status        string `form:"status"         binding:"omitempty,oneof=draft submitted under_verification verified incomplete under_evaluation approved rejected"`
	ScholarshipID string `form:"scholarship_id" binding:"omitempty,uuid"`
	Keyword       string `form:"keyword"        binding:"omitempty,max=50"`
}

// CompleteVerificationRequest finish document verification
type CompleteVerificationRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=2000"`
}

// EvaluateRequest final decision
type EvaluateRequest struct {
	Decision string   `json:"decision" binding:"required,oneof=approved rejected"`
	Score    *float64 `json:"score"    binding:"omitempty,min=0,max=100"`
	Notes    string   `json:"notes"    binding:"omitempty,max=2000"`
}
