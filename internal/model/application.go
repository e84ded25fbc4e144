package model

import "time"

// Application statuses
const (
	AppStatusDraft             = "draft"
	AppStatusSubmitted         = "submitted"
	AppStatusUnderVerification = "under_verification"
	AppStatusVerified          = "verified"
	AppStatusIncomplete        = "incomplete"
	AppStatusUnderEvaluation   = "under_evaluation"
	AppStatusApproved          = "approved"
	AppStatusRejected          = "rejected"
)

// Stipend statuses
const (
	StipendNone     = "none"
	StipendPending  = "pending"
	StipendReleased = "released"
)

// ScholarshipApplication (table scholarship_applications)
type ScholarshipApplication struct {
	ApplicationID     string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"application_id"`
	UserID            string     `gorm:"type:uuid;not null"                             json:"user_id"`
	ScholarshipID     string     `gorm:"type:uuid;not null"                             json:"scholarship_id"`
	Status            string     `gorm:"type:varchar(30);not null;default:'draft'"      json:"status"`
	PurposeLetter     string     `gorm:"type:text;not null;default:''"                  json:"purpose_letter"`
	SubmittedAt       *time.Time `json:"submitted_at,omitempty"`
	VerifierID        *string    `gorm:"type:uuid"                                      json:"verifier_id,omitempty"`
	VerifiedAt        *time.Time `json:"verified_at,omitempty"`
	VerificationNotes string     `gorm:"type:text;not null;default:''"                  json:"verification_notes"`
	EvaluatorID       *string    `gorm:"type:uuid"                                      json:"evaluator_id,omitempty"`
	EvaluatedAt       *time.Time `json:"evaluated_at,omitempty"`
	EvaluationScore   *float64   `gorm:"type:numeric(5,2)"                              json:"evaluation_score,omitempty"`
	EvaluationNotes   string     `gorm:"type:text;not null;default:''"                  json:"evaluation_notes"`
	RejectionReason   string     `gorm:"type:text;not null;default:''"                  json:"rejection_reason"`
	InterviewSchedule *time.Time `json:"interview_schedule,omitempty"`
	InterviewNotes    string     `gorm:"type:text;not null;default:''"                  json:"interview_notes"`
	StipendStatus     string     `gorm:"type:varchar(20);not null;default:'none'"       json:"stipend_status"`
	LastStipendDate   *time.Time `json:"last_stipend_date,omitempty"`
	AmountReceived    float64    `gorm:"type:numeric(12,2);not null;default:0"          json:"amount_received"`
	ApprovedAt        *time.Time `json:"approved_at,omitempty"`
	VersionedModel

	User        *User        `gorm:"foreignKey:UserID;references:UserID"               json:"user,omitempty"`
	Scholarship *Scholarship `gorm:"foreignKey:ScholarshipID;references:ScholarshipID" json:"scholarship,omitempty"`
	Documents   []Document   `gorm:"foreignKey:ApplicationID"                          json:"documents,omitempty"`
}

func (ScholarshipApplication) TableName() string { return "scholarship_applications" }

// applicationTransitions allowed from → to moves of the application lifecycle
var applicationTransitions = map[string][]string{
	AppStatusDraft:             {AppStatusSubmitted},
	AppStatusSubmitted:         {AppStatusUnderVerification, AppStatusRejected},
	AppStatusUnderVerification: {AppStatusVerified, AppStatusIncomplete, AppStatusRejected},
	AppStatusIncomplete:        {AppStatusSubmitted, AppStatusRejected},
	AppStatusVerified:          {AppStatusUnderEvaluation, AppStatusRejected},
	AppStatusUnderEvaluation:   {AppStatusApproved, AppStatusRejected},
}

// CanTransition reports whether an application may move from one status to another
func CanTransition(from, to string) bool {
	for _, next := range applicationTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsEditableByStudent draft and incomplete applications accept edits and uploads
func (a *ScholarshipApplication) IsEditableByStudent() bool {
	return a.Status == AppStatusDraft || a.Status == AppStatusIncomplete
}
