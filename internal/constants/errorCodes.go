package constants

// Discord API error codes
// These constants define specific error scenarios for calls to Discord

const (
	ErrCodeInvalidBotToken  = "INVALID_BOT_TOKEN"
	ErrCodeNetworkError     = "NETWORK_ERROR"
	ErrCodeRateLimited      = "RATE_LIMITED"
	ErrCodeResourceNotFound = "RESOURCE_NOT_FOUND"
	ErrCodeOAuthExchange    = "OAUTH_EXCHANGE_FAILED"
	ErrCodeBadResponse      = "BAD_RESPONSE"
)

var DiscordErrorMessages = map[string]string{
	ErrCodeInvalidBotToken:  "The Discord bot token is invalid or has been revoked",
	ErrCodeNetworkError:     "Unable to reach Discord. Please check connectivity",
	ErrCodeRateLimited:      "Discord rate limit exceeded. Please try again later",
	ErrCodeResourceNotFound: "The requested Discord resource was not found",
	ErrCodeOAuthExchange:    "Discord rejected the authorization code exchange",
	ErrCodeBadResponse:      "Discord returned a response that could not be parsed",
}

// GetErrorMessage returns the human readable message for a code
func GetErrorMessage(code string) string {
	if msg, ok := DiscordErrorMessages[code]; ok {
		return msg
	}
	return "Unknown error"
}
