package model

import (
	"time"

	"gorm.io/datatypes"
)

// Renewal statuses
const (
	RenewalPending     = "pending"
	RenewalUnderReview = "under_review"
	RenewalApproved    = "approved"
	RenewalRejected    = "rejected"
)

// EligibilityCheck outcome of one renewal rule, stored with the renewal as a snapshot
type EligibilityCheck struct {
	Rule    string `json:"rule"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// RenewalApplication (table renewal_applications)
type RenewalApplication struct {
	RenewalID             string                                `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"renewal_id"`
	OriginalApplicationID string                                `gorm:"type:uuid;not null"                             json:"original_application_id"`
	UserID                string                                `gorm:"type:uuid;not null"                             json:"user_id"`
	ScholarshipID         string                                `gorm:"type:uuid;not null"                             json:"scholarship_id"`
	RenewalPeriod         string                                `gorm:"type:varchar(60);not null"                      json:"renewal_period"`
	AcademicYear          string                                `gorm:"type:varchar(20);not null"                      json:"academic_year"`
	Semester              string                                `gorm:"type:varchar(20);not null"                      json:"semester"`
	CGPA                  float64                               `gorm:"column:cgpa;type:numeric(4,3);not null"         json:"cgpa"`
	Status                string                                `gorm:"type:varchar(20);not null;default:'pending'"    json:"status"`
	SubmittedAt           time.Time                             `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"submitted_at"`
	ReviewedBy            *string                               `gorm:"type:uuid"                                      json:"reviewed_by,omitempty"`
	ReviewedAt            *time.Time                            `json:"reviewed_at,omitempty"`
	ReviewNotes           string                                `gorm:"type:text;not null;default:''"                  json:"review_notes"`
	Eligibility           datatypes.JSONSlice[EligibilityCheck] `gorm:"type:jsonb;not null;default:'[]'"               json:"eligibility"`
	VersionedModel

	User                *User                   `gorm:"foreignKey:UserID;references:UserID"                              json:"user,omitempty"`
	Scholarship         *Scholarship            `gorm:"foreignKey:ScholarshipID;references:ScholarshipID"                json:"scholarship,omitempty"`
	OriginalApplication *ScholarshipApplication `gorm:"foreignKey:OriginalApplicationID;references:ApplicationID"       json:"original_application,omitempty"`
}

func (RenewalApplication) TableName() string { return "renewal_applications" }

// BlocksPeriod pending, under_review and approved renewals occupy their period
func (r *RenewalApplication) BlocksPeriod() bool {
	return r.Status == RenewalPending || r.Status == RenewalUnderReview || r.Status == RenewalApproved
}
