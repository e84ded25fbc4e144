package dto

import "osas-connect/internal/model"

// ── scholarships ──

// ScholarshipListRequest list filters
type ScholarshipListRequest struct {
	Status   string `form:"status"    binding:"omitempty,oneof=active inactive upcoming"`
	Type     string `form:"type"      binding:"omitempty,oneof=academic_full academic_partial student_assistantship performing_arts_full performing_arts_partial economic_assistance others"`
	OpenOnly bool   `form:"open_only"`
}

// CriteriaRequest admission thresholds
type CriteriaRequest struct {
	MaxGWA          *float64 `json:"max_gwa"           binding:"omitempty,min=1,max=5"`
	MaxFamilyIncome *float64 `json:"max_family_income" binding:"omitempty,min=0"`
	MinYearLevel    *int     `json:"min_year_level"    binding:"omitempty,min=1,max=5"`
}

// CreateScholarshipRequest create
type CreateScholarshipRequest struct {
	Name              string           `json:"name"               binding:"required,min=2,max=200"`
	Type              string           `json:"type"               binding:"required,oneof=academic_full academic_partial student_assistantship performing_arts_full performing_arts_partial economic_assistance others"`
	Description       string           `json:"description"        binding:"omitempty,max=5000"`
	StipendAmount     float64          `json:"stipend_amount"     binding:"min=0"`
	TotalSlots        int              `json:"total_slots"        binding:"min=0"`
	OpenDate          string           `json:"open_date"          binding:"required,datetime=2006-01-02"`
	Deadline          string           `json:"deadline"           binding:"required,datetime=2006-01-02"`
	Status            string           `json:"status"             binding:"omitempty,oneof=active inactive upcoming"`
	Criteria          *CriteriaRequest `json:"criteria"`
	RequiredDocuments []string         `json:"required_documents" binding:"omitempty,max=20,dive,min=1,max=60"`
	IsRenewable       *bool            `json:"is_renewable"`
}

// UpdateScholarshipRequest nil fields are left unchanged
type UpdateScholarshipRequest struct {
	Name              *string          `json:"name"               binding:"omitempty,min=2,max=200"`
	Type              *string          `json:"type"               binding:"omitempty,oneof=academic_full academic_partial student_assistantship performing_arts_full performing_arts_partial economic_assistance others"`
	Description       *string          `json:"description"        binding:"omitempty,max=5000"`
	StipendAmount     *float64         `json:"stipend_amount"     binding:"omitempty,min=0"`
	TotalSlots        *int             `json:"total_slots"        binding:"omitempty,min=0"`
	OpenDate          *string          `json:"open_date"          binding:"omitempty,datetime=2006-01-02"`
	Deadline          *string          `json:"deadline"           binding:"omitempty,datetime=2006-01-02"`
	Status            *string          `json:"status"             binding:"omitempty,oneof=active inactive upcoming"`
	Criteria          *CriteriaRequest `json:"criteria"`
	RequiredDocuments *[]string        `json:"required_documents" binding:"omitempty,max=20,dive,min=1,max=60"`
	IsRenewable       *bool            `json:"is_renewable"`
}

// ScholarshipResponse scholarship with live availability
type ScholarshipResponse struct {
	*model.Scholarship
	AvailableSlots int64 `json:"available_slots"`
	IsOpen         bool  `json:"is_open"`
}
