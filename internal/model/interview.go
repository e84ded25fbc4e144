package model

import "time"

// Interview statuses
const (
	InterviewScheduled   = "scheduled"
	InterviewCompleted   = "completed"
	InterviewCancelled   = "cancelled"
	InterviewRescheduled = "rescheduled"
)

// Interview types
const (
	InterviewInPerson = "in_person"
	InterviewOnline   = "online"
)

// Interview (table interviews)
type Interview struct {
	InterviewID      string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"interview_id"`
	ApplicationID    string     `gorm:"type:uuid;not null"                             json:"application_id"`
	InterviewerID    string     `gorm:"type:uuid;not null"                             json:"interviewer_id"`
	Schedule         time.Time  `gorm:"not null"                                       json:"schedule"`
	Location         string     `gorm:"type:varchar(255);not null;default:''"          json:"location"`
	Type             string     `gorm:"type:varchar(20);not null;default:'in_person'"  json:"type"`
	Status           string     `gorm:"type:varchar(20);not null;default:'scheduled'"  json:"status"`
	Notes            string     `gorm:"type:text;not null;default:''"                  json:"notes"`
	Recommendation   *string    `gorm:"type:varchar(20)"                               json:"recommendation,omitempty"` // approved | rejected | waitlisted
	ReminderSentAt   *time.Time `json:"reminder_sent_at,omitempty"`
	RescheduleReason string     `gorm:"type:text;not null;default:''"                  json:"reschedule_reason"`
	SoftDeleteModel

	Application *ScholarshipApplication `gorm:"foreignKey:ApplicationID;references:ApplicationID" json:"application,omitempty"`
	Interviewer *User                   `gorm:"foreignKey:InterviewerID;references:UserID"        json:"interviewer,omitempty"`
}

func (Interview) TableName() string { return "interviews" }

// IsUpcoming scheduled or rescheduled interviews are still pending
func (i *Interview) IsUpcoming() bool {
	return i.Status == InterviewScheduled || i.Status == InterviewRescheduled
}
