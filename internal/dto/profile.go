package dto

import "osas-connect/internal/model"

// ── student profile ──

// AddressRequest replaces the whole address when present
type AddressRequest struct {
	Street   string `json:"street"   binding:"omitempty,max=200"`
	Barangay string `json:"barangay" binding:"omitempty,max=100"`
	City     string `json:"city"     binding:"omitempty,max=100"`
	Province string `json:"province" binding:"omitempty,max=100"`
	ZipCode  string `json:"zip_code" binding:"omitempty,max=10"`
}

// FamilyRequest replaces the parent and guardian block when present
type FamilyRequest struct {
	FatherName          string  `json:"father_name"           binding:"omitempty,max=150"`
	FatherOccupation    string  `json:"father_occupation"     binding:"omitempty,max=150"`
	FatherMonthlyIncome float64 `json:"father_monthly_income" binding:"min=0"`
	MotherName          string  `json:"mother_name"           binding:"omitempty,max=150"`
	MotherOccupation    string  `json:"mother_occupation"     binding:"omitempty,max=150"`
	MotherMonthlyIncome float64 `json:"mother_monthly_income" binding:"min=0"`
	GuardianName        string  `json:"guardian_name"         binding:"omitempty,max=150"`
	SiblingsCount       int     `json:"siblings_count"        binding:"min=0,max=30"`
}

// FamilyMemberRequest one household member
type FamilyMemberRequest struct {
	Name          string  `json:"name"           binding:"required,max=150"`
	Relationship  string  `json:"relationship"   binding:"required,max=50"`
	Age           int     `json:"age"            binding:"min=0,max=120"`
	Occupation    string  `json:"occupation"     binding:"omitempty,max=150"`
	MonthlyIncome float64 `json:"monthly_income" binding:"min=0"`
}

// UpdateProfileRequest student edits own profile; only present fields are applied
type UpdateProfileRequest struct {
	StudentID   *string `json:"student_id"   binding:"omitempty,min=1,max=30"`
	Course      *string `json:"course"       binding:"omitempty,max=150"`
	Major       *string `json:"major"        binding:"omitempty,max=150"`
	YearLevel   *int    `json:"year_level"   binding:"omitempty,min=1,max=5"`
	Sex         *string `json:"sex"          binding:"omitempty,oneof=male female"`
	CivilStatus *string `json:"civil_status" binding:"omitempty,oneof=single married widowed separated"`
	Birthdate   *string `json:"birthdate"    binding:"omitempty,datetime=2006-01-02"`
	Mobile      *string `json:"mobile"       binding:"omitempty,max=20"`

	Address       *AddressRequest        `json:"address"`
	Family        *FamilyRequest         `json:"family"`
	FamilyMembers *[]FamilyMemberRequest `json:"family_members" binding:"omitempty,max=20,dive"`

	MonthlyFamilyIncome *float64           `json:"monthly_family_income" binding:"omitempty,min=0"`
	Expenses            map[string]float64 `json:"expenses"              binding:"omitempty,max=20,dive,keys,min=1,max=50,endkeys,min=0"`

	CurrentGWA       *float64 `json:"current_gwa"       binding:"omitempty,min=1,max=5"`
	EnrollmentStatus *string  `json:"enrollment_status" binding:"omitempty,oneof=enrolled not_enrolled on_leave graduated"`

	IsPWD           *bool   `json:"is_pwd"`
	DisabilityType  *string `json:"disability_type"  binding:"omitempty,max=100"`
	IndigenousGroup *string `json:"indigenous_group" binding:"omitempty,max=100"`
}

// DisciplinaryRequest staff records or clears a disciplinary action
type DisciplinaryRequest struct {
	HasDisciplinaryAction *bool `json:"has_disciplinary_action" binding:"required"`
}

// ProfileResponse profile plus completeness
type ProfileResponse struct {
	Profile       *model.StudentProfile `json:"profile"`
	IsComplete    bool                  `json:"is_complete"`
	MissingFields []string              `json:"missing_fields"`
	ExpensesTotal float64               `json:"expenses_total"`
}
