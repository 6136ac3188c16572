package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/andrevaleby/santamaria-backend/internal/constants"
	"github.com/andrevaleby/santamaria-backend/internal/discord"
)

// ChannelAPI is the slice of the Discord REST surface the review
// workflow needs. The concrete implementation is DiscordChannelProvider;
// tests substitute function-field mocks.
type ChannelAPI interface {
	CreateMessage(ctx context.Context, channelID string, payload discord.MessagePayload) (*discord.Message, error)
	GetMessage(ctx context.Context, channelID, messageID string) (*discord.Message, error)
	EditMessage(ctx context.Context, channelID, messageID string, payload discord.MessagePayload) error
	ExecuteWebhook(ctx context.Context, webhookURL string, payload discord.WebhookPayload) error
}

// DiscordChannelProvider talks to the Discord REST API with a bot token
type DiscordChannelProvider struct {
	BaseURL  string
	BotToken string
	Client   *http.Client
}

var _ ChannelAPI = (*DiscordChannelProvider)(nil)

// NewDiscordChannelProvider creates a new bot-authenticated REST client
func NewDiscordChannelProvider(botToken string) *DiscordChannelProvider {
	return &DiscordChannelProvider{
		BaseURL:  defaultDiscordAPIBaseURL,
		BotToken: botToken,
		Client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateMessage posts a message to a channel and returns the created
// message, whose ID becomes the review card ID
func (p *DiscordChannelProvider) CreateMessage(ctx context.Context, channelID string, payload discord.MessagePayload) (*discord.Message, error) {
	var msg discord.Message
	endpoint := fmt.Sprintf("/channels/%s/messages", channelID)
	if err := p.doJSON(ctx, http.MethodPost, endpoint, payload, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// GetMessage fetches a channel message by ID
func (p *DiscordChannelProvider) GetMessage(ctx context.Context, channelID, messageID string) (*discord.Message, error) {
	var msg discord.Message
	endpoint := fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID)
	if err := p.doJSON(ctx, http.MethodGet, endpoint, nil, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// EditMessage replaces the embeds and components of an existing message
func (p *DiscordChannelProvider) EditMessage(ctx context.Context, channelID, messageID string, payload discord.MessagePayload) error {
	endpoint := fmt.Sprintf("/channels/%s/messages/%s", channelID, messageID)
	return p.doJSON(ctx, http.MethodPatch, endpoint, payload, nil)
}

// ExecuteWebhook fires an incoming webhook. The full webhook URL comes
// from configuration, so this bypasses BaseURL.
func (p *DiscordChannelProvider) ExecuteWebhook(ctx context.Context, webhookURL string, payload discord.WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to marshal webhook payload",
			Err:     err,
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create webhook request",
			Err:     err,
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return p.buildHTTPError(resp.StatusCode, "webhook", string(bodyBytes))
	}
	return nil
}

// doJSON performs a bot-authenticated request with optional JSON body
// and optional decoded result
func (p *DiscordChannelProvider) doJSON(ctx context.Context, method, endpoint string, payload, result interface{}) error {
	if p.BotToken == "" {
		return &ProviderError{
			Code:    constants.ErrCodeInvalidBotToken,
			Message: "DISCORD_TOKEN is not set",
		}
	}

	var bodyReader io.Reader
	if payload != nil {
		payloadBytes, err := json.Marshal(payload)
		if err != nil {
			return &ProviderError{
				Code:    constants.ErrCodeNetworkError,
				Message: "Failed to marshal request body",
				Err:     err,
			}
		}
		bodyReader = bytes.NewReader(payloadBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.BaseURL+endpoint, bodyReader)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to create request",
			Err:     err,
		}
	}
	req.Header.Set("Authorization", "Bot "+p.BotToken)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.Client.Do(req)
	if err != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: constants.GetErrorMessage(constants.ErrCodeNetworkError),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	bodyBytes, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: "Failed to read response body",
			Err:     readErr,
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return p.buildHTTPError(resp.StatusCode, endpoint, string(bodyBytes))
	}

	if result != nil {
		if err := json.Unmarshal(bodyBytes, result); err != nil {
			return &ProviderError{
				Code:    constants.ErrCodeBadResponse,
				Message: "Failed to decode response",
				Details: string(bodyBytes),
				Err:     err,
			}
		}
	}
	return nil
}

// buildHTTPError creates appropriate error based on status code
func (p *DiscordChannelProvider) buildHTTPError(statusCode int, endpoint string, body string) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &ProviderError{
			Code:    constants.ErrCodeInvalidBotToken,
			Message: fmt.Sprintf("Authentication failed for endpoint %s", endpoint),
			Details: body,
		}
	case http.StatusNotFound:
		return &ProviderError{
			Code:    constants.ErrCodeResourceNotFound,
			Message: fmt.Sprintf("Resource not found: %s", endpoint),
			Details: body,
		}
	case http.StatusTooManyRequests:
		return &ProviderError{
			Code:    constants.ErrCodeRateLimited,
			Message: constants.GetErrorMessage(constants.ErrCodeRateLimited),
			Details: body,
		}
	default:
		return &ProviderError{
			Code:    constants.ErrCodeNetworkError,
			Message: fmt.Sprintf("Discord returned status %d for %s", statusCode, endpoint),
			Details: body,
		}
	}
}

// IsNotFound reports whether an error is the not-found provider error,
// used to downgrade the card edit step when the original message was
// deleted
func IsNotFound(err error) bool {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe.Code == constants.ErrCodeResourceNotFound
	}
	return false
}
