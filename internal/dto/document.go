package dto

// ── documents ──

// VerifyDocumentRequest staff verification of one document
type VerifyDocumentRequest struct {
	Status        string  `json:"status"         binding:"required,oneof=verified rejected"`
	Notes         string  `json:"notes"          binding:"omitempty,max=2000"`
	ExtractedName *string `json:"extracted_name" binding:"omitempty,min=1,max=200"`
}
