package model

// Notification types
const (
	NotifyApplicationStatus  = "application_status"
	NotifyDocumentVerified   = "document_verification"
	NotifyInterviewScheduled = "interview_scheduled"
	NotifyInterviewReminder  = "interview_reminder"
	NotifyRenewalStatus      = "renewal_status"
	NotifyRenewalReminder    = "renewal_reminder"
	NotifyStipendReleased    = "stipend_released"
)

// Notification in-app message (table notifications)
type Notification struct {
	NotificationID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"notification_id"`
	UserID         string  `gorm:"type:uuid;not null"                             json:"user_id"`
	Type           string  `gorm:"type:varchar(50);not null"                      json:"type"`
	Title          string  `gorm:"type:varchar(200);not null"                     json:"title"`
	Content        string  `gorm:"type:text;not null"                             json:"content"`
	IsRead         bool    `gorm:"not null;default:false"                         json:"is_read"`
	RelatedType    *string `gorm:"type:varchar(30)"                               json:"related_type,omitempty"` // application | interview | renewal | document
	RelatedID      *string `gorm:"type:uuid"                                      json:"related_id,omitempty"`
	SoftDeleteModel
}

func (Notification) TableName() string { return "notifications" }
