package dto

// ── notifications ──

// NotificationListRequest list filters
type NotificationListRequest struct {
	PaginationRequest
	UnreadOnly bool `form:"unread_only"`
}

// UnreadCountResponse unread badge
type UnreadCountResponse struct {
	Count int64 `json:"count"`
}

// MarkAllReadResponse rows marked
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
