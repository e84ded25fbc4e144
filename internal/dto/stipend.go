package dto

// ── stipends ──

// ReleaseStipendRequest release one period's stipend
type ReleaseStipendRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Period string  `json:"period" binding:"required,max=60"`
	Notes  string  `json:"notes"  binding:"omitempty,max=1000"`
}

// StipendListRequest filter by period label
type StipendListRequest struct {
	Period string `form:"period" binding:"omitempty,max=60"`
}
