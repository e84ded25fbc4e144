package model

import (
	"strings"
	"time"
)

// User roles
const (
	RoleStudent   = "student"
	RoleOSASStaff = "osas_staff"
	RoleAdmin     = "admin"
)

// User account (table users)
type User struct {
	UserID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	FirstName    string     `gorm:"type:varchar(100);not null"                     json:"first_name"`
	MiddleName   string     `gorm:"type:varchar(100);not null;default:''"          json:"middle_name"`
	LastName     string     `gorm:"type:varchar(100);not null"                     json:"last_name"`
	Email        string     `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string     `gorm:"type:varchar(20);not null;default:'student'"    json:"role"` // student | osas_staff | admin
	IsActive     bool       `gorm:"not null;default:true"                          json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	SoftDeleteModel

	Profile *StudentProfile `gorm:"foreignKey:UserID;references:UserID" json:"profile,omitempty"`
}

func (User) TableName() string { return "users" }

// FullName "First M. Last"
func (u *User) FullName() string {
	parts := []string{u.FirstName}
	if m := strings.TrimSpace(u.MiddleName); m != "" {
		parts = append(parts, string([]rune(m)[0])+".")
	}
	parts = append(parts, u.LastName)
	return strings.Join(parts, " ")
}

// IsStaff osas_staff and admin both act as staff
func (u *User) IsStaff() bool {
	return u.Role == RoleOSASStaff || u.Role == RoleAdmin
}

// IsStaffRole role-string variant of IsStaff for callers that only hold JWT claims
func IsStaffRole(role string) bool {
	return role == RoleOSASStaff || role == RoleAdmin
}
