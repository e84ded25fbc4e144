package model

import "time"

// StipendRecord one stipend release (table stipend_records)
type StipendRecord struct {
	StipendID     string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"stipend_id"`
	ApplicationID string    `gorm:"type:uuid;not null"                             json:"application_id"`
	Amount        float64   `gorm:"type:numeric(12,2);not null"                    json:"amount"`
	Period        string    `gorm:"type:varchar(60);not null"                      json:"period"`
	ReleasedBy    string    `gorm:"type:uuid;not null"                             json:"released_by"`
	ReleasedAt    time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"released_at"`
	Notes         string    `gorm:"type:text;not null;default:''"                  json:"notes"`
	BaseModel

	Application *ScholarshipApplication `gorm:"foreignKey:ApplicationID;references:ApplicationID" json:"application,omitempty"`
}

func (StipendRecord) TableName() string { return "stipend_records" }
