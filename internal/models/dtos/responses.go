package dtos

// APIResponse is the standard JSON envelope for every API endpoint
type APIResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message,omitempty"`
	ResponseTime string `json:"response_time,omitempty"`
	Data         any    `json:"data,omitempty"`
}

// SessionResponse is returned by GET /api/me
type SessionResponse struct {
	DiscordID     string  `json:"discord_id"`
	Username      string  `json:"username"`
	Avatar        *string `json:"avatar"`
	Discriminator string  `json:"discriminator"`
	IsMember      bool    `json:"is_member"`
}

// ReviewStatusResponse is returned by GET /api/whitelist/status
type ReviewStatusResponse struct {
	ReviewStatus string `json:"review_status"`
}

// SubmissionResponse is returned by POST /api/whitelist
type SubmissionResponse struct {
	ReviewStatus string `json:"review_status"`
	CardID       string `json:"card_id"`
}
