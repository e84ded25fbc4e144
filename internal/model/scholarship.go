package model

import (
	"time"

	"gorm.io/datatypes"
)

// Scholarship types
const (
	ScholarshipAcademicFull          = "academic_full"
	ScholarshipAcademicPartial       = "academic_partial"
	ScholarshipStudentAssistantship  = "student_assistantship"
	ScholarshipPerformingArtsFull    = "performing_arts_full"
	ScholarshipPerformingArtsPartial = "performing_arts_partial"
	ScholarshipEconomicAssistance    = "economic_assistance"
	ScholarshipOthers                = "others"
)

// Scholarship statuses
const (
	ScholarshipStatusActive   = "active"
	ScholarshipStatusInactive = "inactive"
	ScholarshipStatusUpcoming = "upcoming"
)

// ScholarshipCriteria optional admission thresholds; nil means not enforced
type ScholarshipCriteria struct {
	MaxGWA          *float64 `json:"max_gwa,omitempty"`
	MaxFamilyIncome *float64 `json:"max_family_income,omitempty"`
	MinYearLevel    *int     `json:"min_year_level,omitempty"`
}

// Scholarship (table scholarships)
type Scholarship struct {
	ScholarshipID     string                                  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"scholarship_id"`
	Name              string                                  `gorm:"type:varchar(200);not null"                     json:"name"`
	Type              string                                  `gorm:"type:varchar(40);not null"                      json:"type"`
	Description       string                                  `gorm:"type:text;not null;default:''"                  json:"description"`
	StipendAmount     float64                                 `gorm:"type:numeric(12,2);not null;default:0"          json:"stipend_amount"`
	TotalSlots        int                                     `gorm:"not null;default:0"                             json:"total_slots"`
	OpenDate          time.Time                               `gorm:"type:date;not null"                             json:"open_date"`
	Deadline          time.Time                               `gorm:"type:date;not null"                             json:"deadline"`
	Status            string                                  `gorm:"type:varchar(20);not null;default:'upcoming'"   json:"status"`
	Criteria          datatypes.JSONType[ScholarshipCriteria] `gorm:"type:jsonb;not null;default:'{}'"               json:"criteria"`
	RequiredDocuments datatypes.JSONSlice[string]             `gorm:"type:jsonb;not null;default:'[]'"               json:"required_documents"`
	IsRenewable       bool                                    `gorm:"not null;default:true"                          json:"is_renewable"`
	SoftDeleteModel
}

func (Scholarship) TableName() string { return "scholarships" }

// IsOpen active and today in loc falls within [open_date, deadline], both
// days inclusive. OpenDate and Deadline are calendar dates without a zone.
func (s *Scholarship) IsOpen(now time.Time, loc *time.Location) bool {
	if s.Status != ScholarshipStatusActive {
		return false
	}
	if loc == nil {
		loc = time.UTC
	}
	today := calendarDay(now.In(loc))
	return !today.Before(calendarDay(s.OpenDate)) && !today.After(calendarDay(s.Deadline))
}

func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
