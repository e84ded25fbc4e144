package dto

// ── users ──

// UserListRequest user list query
type UserListRequest struct {
	PaginationRequest
	Role    string `form:"role"    binding:"omitempty,oneof=student osas_staff admin"`
	Keyword string `form:"keyword" binding:"omitempty,max=50"`
}

// CreateUserRequest admin creates a staff or admin account
type CreateUserRequest struct {
	FirstName  string `json:"first_name"  binding:"required,min=1,max=100"`
	MiddleName string `json:"middle_name" binding:"omitempty,max=100"`
	LastName   string `json:"last_name"   binding:"required,min=1,max=100"`
	Email      string `json:"email"       binding:"required,email,max=255"`
	Password   string `json:"password"    binding:"required,min=8,max=72"`
	Role       string `json:"role"        binding:"required,oneof=osas_staff admin"`
}

// UpdateUserRequest name and email; nil fields are left unchanged
type UpdateUserRequest struct {
	FirstName  *string `json:"first_name"  binding:"omitempty,min=1,max=100"`
	MiddleName *string `json:"middle_name" binding:"omitempty,max=100"`
	LastName   *string `json:"last_name"   binding:"omitempty,min=1,max=100"`
	Email      *string `json:"email"       binding:"omitempty,email,max=255"`
}

// SetActiveRequest activate or deactivate
type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// AssignRoleRequest change role
type AssignRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=student osas_staff admin"`
}
