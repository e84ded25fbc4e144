package model

import "time"

// Document verification statuses
const (
	DocPending  = "pending"
	DocVerified = "verified"
	DocRejected = "rejected"
)

// Document uploaded supporting document (table documents)
type Document struct {
	DocumentID         string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"document_id"`
	ApplicationID      string     `gorm:"type:uuid;not null"                             json:"application_id"`
	UserID             string     `gorm:"type:uuid;not null"                             json:"user_id"`
	DocumentType       string     `gorm:"type:varchar(60);not null"                      json:"document_type"`
	StoredName         string     `gorm:"type:varchar(100);not null"                     json:"-"`
	OriginalName       string     `gorm:"type:varchar(255);not null"                     json:"original_name"`
	MimeType           string     `gorm:"type:varchar(100);not null"                     json:"mime_type"`
	Size               int64      `gorm:"not null"                                       json:"size"`
	VerificationStatus string     `gorm:"type:varchar(20);not null;default:'pending'"    json:"verification_status"`
	VerificationNotes  string     `gorm:"type:text;not null;default:''"                  json:"verification_notes"`
	VerifiedBy         *string    `gorm:"type:uuid"                                      json:"verified_by,omitempty"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
	NameMatchScore     *float64   `gorm:"type:numeric(4,3)"                              json:"name_match_score,omitempty"`
	SoftDeleteModel
}

func (Document) TableName() string { return "documents" }
