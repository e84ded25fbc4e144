package dto

// ── auth ──

// LoginRequest login
type LoginRequest struct {
	Email      string `json:"email"       binding:"required,email"`
	Password   string `json:"password"    binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// RegisterRequest student self-registration
type RegisterRequest struct {
	FirstName  string `json:"first_name"  binding:"required,min=1,max=100"`
	MiddleName string `json:"middle_name" binding:"omitempty,max=100"`
	LastName   string `json:"last_name"   binding:"required,min=1,max=100"`
	Email      string `json:"email"       binding:"required,email,max=255"`
	Password   string `json:"password"    binding:"required,min=8,max=72"`
	StudentID  string `json:"student_id"  binding:"omitempty,max=30"`
}

// RefreshTokenRequest refresh
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ChangePasswordRequest change own password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}
