package model

import (
	"time"

	"gorm.io/datatypes"
)

// Enrollment statuses
const (
	EnrollmentEnrolled    = "enrolled"
	EnrollmentNotEnrolled = "not_enrolled"
	EnrollmentOnLeave     = "on_leave"
	EnrollmentGraduated   = "graduated"
)

// Address home address, embedded with the address_ column prefix
type Address struct {
	Street   string `gorm:"type:varchar(200);not null;default:''" json:"street"`
	Barangay string `gorm:"type:varchar(100);not null;default:''" json:"barangay"`
	City     string `gorm:"type:varchar(100);not null;default:''" json:"city"`
	Province string `gorm:"type:varchar(100);not null;default:''" json:"province"`
	ZipCode  string `gorm:"type:varchar(10);not null;default:''"  json:"zip_code"`
}

// FamilyMember a household member listed on the profile
type FamilyMember struct {
	Name          string  `json:"name"`
	Relationship  string  `json:"relationship"`
	Age           int     `json:"age"`
	Occupation    string  `json:"occupation"`
	MonthlyIncome float64 `json:"monthly_income"`
}

// Expenses monthly household expenses keyed by category (food, rent, utilities, ...)
type Expenses map[string]float64

// Total sum of every category
func (e Expenses) Total() float64 {
	var sum float64
	for _, v := range e {
		sum += v
	}
	return sum
}

// StudentProfile student demographics, family and academic standing (table student_profiles)
type StudentProfile struct {
	UserID         string     `gorm:"type:uuid;primaryKey"                   json:"user_id"`
	StudentID      *string    `gorm:"type:varchar(30)"                       json:"student_id,omitempty"`
	Course         string     `gorm:"type:varchar(150);not null;default:''"  json:"course"`
	Major          string     `gorm:"type:varchar(150);not null;default:''"  json:"major"`
	YearLevel      int        `gorm:"type:smallint;not null;default:0"       json:"year_level"`
	Sex            string     `gorm:"type:varchar(10);not null;default:''"   json:"sex"`
	CivilStatus    string     `gorm:"type:varchar(20);not null;default:''"   json:"civil_status"`
	Birthdate      *time.Time `gorm:"type:date"                              json:"birthdate,omitempty"`
	Mobile         string     `gorm:"type:varchar(20);not null;default:''"   json:"mobile"`
	Address        Address    `gorm:"embedded;embeddedPrefix:address_"       json:"address"`

	FatherName          string  `gorm:"type:varchar(150);not null;default:''" json:"father_name"`
	FatherOccupation    string  `gorm:"type:varchar(150);not null;default:''" json:"father_occupation"`
	FatherMonthlyIncome float64 `gorm:"type:numeric(12,2);not null;default:0" json:"father_monthly_income"`
	MotherName          string  `gorm:"type:varchar(150);not null;default:''" json:"mother_name"`
	MotherOccupation    string  `gorm:"type:varchar(150);not null;default:''" json:"mother_occupation"`
	MotherMonthlyIncome float64 `gorm:"type:numeric(12,2);not null;default:0" json:"mother_monthly_income"`
	GuardianName        string  `gorm:"type:varchar(150);not null;default:''" json:"guardian_name"`
	SiblingsCount       int     `gorm:"type:smallint;not null;default:0"      json:"siblings_count"`

	FamilyMembers       datatypes.JSONSlice[FamilyMember] `gorm:"type:jsonb;not null;default:'[]'" json:"family_members"`
	MonthlyFamilyIncome *float64                          `gorm:"type:numeric(12,2)"               json:"monthly_family_income,omitempty"`
	Expenses            datatypes.JSONType[Expenses]      `gorm:"type:jsonb;not null;default:'{}'" json:"expenses"`

	CurrentGWA            *float64 `gorm:"column:current_gwa;type:numeric(4,3)"               json:"current_gwa,omitempty"`
	EnrollmentStatus      string   `gorm:"type:varchar(20);not null;default:'enrolled'"       json:"enrollment_status"`
	HasDisciplinaryAction bool     `gorm:"not null;default:false"                             json:"has_disciplinary_action"`

	IsPWD           bool   `gorm:"column:is_pwd;not null;default:false"   json:"is_pwd"`
	DisabilityType  string `gorm:"type:varchar(100);not null;default:''"  json:"disability_type"`
	IndigenousGroup string `gorm:"type:varchar(100);not null;default:''"  json:"indigenous_group"`
	BaseModel
}

func (StudentProfile) TableName() string { return "student_profiles" }

// MissingFields the fields a student must fill in before submitting an application
func (p *StudentProfile) MissingFields() []string {
	var missing []string
	if p.StudentID == nil || *p.StudentID == "" {
		missing = append(missing, "student_id")
	}
	if p.Course == "" {
		missing = append(missing, "course")
	}
	if p.YearLevel < 1 {
		missing = append(missing, "year_level")
	}
	if p.Sex == "" {
		missing = append(missing, "sex")
	}
	if p.Birthdate == nil {
		missing = append(missing, "birthdate")
	}
	if p.Mobile == "" {
		missing = append(missing, "mobile")
	}
	if p.Address.City == "" {
		missing = append(missing, "address.city")
	}
	if p.Address.Province == "" {
		missing = append(missing, "address.province")
	}
	if p.MonthlyFamilyIncome == nil {
		missing = append(missing, "monthly_family_income")
	}
	return missing
}

// IsComplete reports whether MissingFields is empty
func (p *StudentProfile) IsComplete() bool {
	return len(p.MissingFields()) == 0
}
