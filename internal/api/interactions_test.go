package api

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/andrevaleby/santamaria-backend/internal/common"
	"github.com/andrevaleby/santamaria-backend/internal/constants"
	"github.com/andrevaleby/santamaria-backend/internal/db/repositories"
	"github.com/andrevaleby/santamaria-backend/internal/discord"
	gormModels "github.com/andrevaleby/santamaria-backend/internal/models/gorm"
	"github.com/andrevaleby/santamaria-backend/internal/services"
)

// Mock ChannelAPI
type mockChannelAPI struct {
	createMessageFunc  func(ctx context.Context, channelID string, payload discord.MessagePayload) (*discord.Message, error)
	getMessageFunc     func(ctx context.Context, channelID, messageID string) (*discord.Message, error)
	editMessageFunc    func(ctx context.Context, channelID, messageID string, payload discord.MessagePayload) error
	executeWebhookFunc func(ctx context.Context, webhookURL string, payload discord.WebhookPayload) error
}

func (m *mockChannelAPI) CreateMessage(ctx context.Context, channelID string, payload discord.MessagePayload) (*discord.Message, error) {
	if m.createMessageFunc == nil {
		return &discord.Message{ID: "333333333333333333", ChannelID: channelID}, nil
	}
	return m.createMessageFunc(ctx, channelID, payload)
}

func (m *mockChannelAPI) GetMessage(ctx context.Context, channelID, messageID string) (*discord.Message, error) {
	if m.getMessageFunc == nil {
		return &discord.Message{ID: messageID, ChannelID: channelID}, nil
	}
	return m.getMessageFunc(ctx, channelID, messageID)
}

func (m *mockChannelAPI) EditMessage(ctx context.Context, channelID, messageID string, payload discord.MessagePayload) error {
	if m.editMessageFunc == nil {
		return nil
	}
	return m.editMessageFunc(ctx, channelID, messageID, payload)
}

func (m *mockChannelAPI) ExecuteWebhook(ctx context.Context, webhookURL string, payload discord.WebhookPayload) error {
	if m.executeWebhookFunc == nil {
		return nil
	}
	return m.executeWebhookFunc(ctx, webhookURL, payload)
}

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&gormModels.User{}); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func newTestDeps(t *testing.T, db *gorm.DB, channels *mockChannelAPI) *Dependencies {
	users := repositories.NewUserRepository(db)
	guard := common.NewMemoryDecisionGuard()
	audit := services.NewAuditService(nil)

	return &Dependencies{
		Repo:  &Repositories{User: users},
		Guard: guard,
		Services: &Services{
			Audit:      audit,
			Submission: services.NewSubmissionService(db, channels, "log-channel", nil),
			Review:     services.NewReviewService(guard, channels, users, audit, "approv-channel", "reprov-channel", nil),
		},
	}
}

func seedPendingUser(t *testing.T, db *gorm.DB) {
	user := gormModels.User{
		DiscordID:    "123456789012345678",
		Username:     "andre",
		IsMember:     true,
		ReviewStatus: constants.ReviewStatusPending,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}
}

type interactionClient struct {
	handler http.HandlerFunc
	private ed25519.PrivateKey
}

func newInteractionClient(t *testing.T, deps *Dependencies) *interactionClient {
	public, private, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate key pair: %v", err)
	}
	return &interactionClient{
		handler: InteractionsHandler(deps, hex.EncodeToString(public)),
		private: private,
	}
}

// post signs and delivers one interaction the way Discord does
func (c *interactionClient) post(t *testing.T, body []byte) *httptest.ResponseRecorder {
	const timestamp = "1693000000"
	sig := ed25519.Sign(c.private, append([]byte(timestamp), body...))

	req := httptest.NewRequest("POST", "/api/interactions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Signature-Ed25519", hex.EncodeToString(sig))
	req.Header.Set("X-Signature-Timestamp", timestamp)

	rr := httptest.NewRecorder()
	c.handler.ServeHTTP(rr, req)
	return rr
}

func decodeInteractionResponse(t *testing.T, rr *httptest.ResponseRecorder) discord.InteractionResponse {
	var resp discord.InteractionResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return resp
}

func TestInteractionsHandler_RejectsBadSignature(t *testing.T) {
	deps := newTestDeps(t, setupTestDB(t), &mockChannelAPI{})
	client := newInteractionClient(t, deps)

	body := []byte(`{"type":1}`)
	req := httptest.NewRequest("POST", "/api/interactions", bytes.NewReader(body))
	req.Header.Set("X-Signature-Ed25519", strings.Repeat("00", ed25519.SignatureSize))
	req.Header.Set("X-Signature-Timestamp", "1693000000")

	rr := httptest.NewRecorder()
	client.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 for a forged signature, got %d", rr.Code)
	}
}

func TestInteractionsHandler_RejectsMissingHeaders(t *testing.T) {
	deps := newTestDeps(t, setupTestDB(t), &mockChannelAPI{})
	client := newInteractionClient(t, deps)

	req := httptest.NewRequest("POST", "/api/interactions", strings.NewReader(`{"type":1}`))
	rr := httptest.NewRecorder()
	client.handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without signature headers, got %d", rr.Code)
	}
}

func TestInteractionsHandler_Ping(t *testing.T) {
	deps := newTestDeps(t, setupTestDB(t), &mockChannelAPI{})
	client := newInteractionClient(t, deps)

	rr := client.post(t, []byte(`{"type":1}`))
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rr.Code)
	}

	resp := decodeInteractionResponse(t, rr)
	if resp.Type != discord.ResponsePong {
		t.Errorf("Expected pong, got type %d", resp.Type)
	}
}

func TestInteractionsHandler_ButtonOpensModal(t *testing.T) {
	db := setupTestDB(t)
	seedPendingUser(t, db)
	deps := newTestDeps(t, db, &mockChannelAPI{})
	client := newInteractionClient(t, deps)

	body := []byte(`{
		"type": 3,
		"channel_id": "444444444444444444",
		"message": {"id": "987654321098765432"},
		"member": {"user": {"id": "555555555555555555", "username": "mod", "discriminator": "0"}},
		"data": {"custom_id": "wl:approve:123456789012345678", "component_type": 2}
	}`)

	resp := decodeInteractionResponse(t, client.post(t, body))
	if resp.Type != discord.ResponseModal {
		t.Fatalf("Expected modal response, got type %d", resp.Type)
	}
	if resp.Data.CustomID != "wlm:approve:123456789012345678:987654321098765432" {
		t.Errorf("Modal custom id lost correlation: %s", resp.Data.CustomID)
	}
}

func TestInteractionsHandler_ModalResolvesReview(t *testing.T) {
	db := setupTestDB(t)
	seedPendingUser(t, db)

	var outcomeChannel string
	channels := &mockChannelAPI{
		createMessageFunc: func(ctx context.Context, channelID string, payload discord.MessagePayload) (*discord.Message, error) {
			outcomeChannel = channelID
			return &discord.Message{ID: "333333333333333333"}, nil
		},
	}

	deps := newTestDeps(t, db, channels)
	client := newInteractionClient(t, deps)

	body := []byte(`{
		"type": 5,
		"channel_id": "444444444444444444",
		"member": {"user": {"id": "555555555555555555", "username": "mod", "discriminator": "0"}},
		"data": {
			"custom_id": "wlm:approve:123456789012345678:987654321098765432",
			"components": [{"type": 1, "components": [{"type": 4, "custom_id": "motivo", "value": "Respostas completas"}]}]
		}
	}`)

	resp := decodeInteractionResponse(t, client.post(t, body))
	if resp.Type != discord.ResponseChannelMessageWithSource {
		t.Fatalf("Expected ephemeral ack, got type %d", resp.Type)
	}
	if !strings.Contains(resp.Data.Content, "✅") {
		t.Errorf("Expected success ack, got %q", resp.Data.Content)
	}
	if outcomeChannel != "approv-channel" {
		t.Errorf("Expected outcome in approv-channel, got %s", outcomeChannel)
	}

	var user gormModels.User
	if err := db.Where("discord_id = ?", "123456789012345678").First(&user).Error; err != nil {
		t.Fatalf("Failed to read back user: %v", err)
	}
	if user.ReviewStatus != constants.ReviewStatusApproved {
		t.Errorf("Expected approved status, got %s", user.ReviewStatus)
	}
}

func TestInteractionsHandler_UnknownCustomID(t *testing.T) {
	deps := newTestDeps(t, setupTestDB(t), &mockChannelAPI{})
	client := newInteractionClient(t, deps)

	body := []byte(`{
		"type": 3,
		"member": {"user": {"id": "555555555555555555", "username": "mod"}},
		"data": {"custom_id": "help_button", "component_type": 2}
	}`)

	rr := client.post(t, body)
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected 200 with an ephemeral notice, got %d", rr.Code)
	}

	resp := decodeInteractionResponse(t, rr)
	if resp.Data == nil || resp.Data.Flags != discord.MessageFlagEphemeral {
		t.Error("Expected an ephemeral error notice")
	}
}

func TestInteractionsHandler_MalformedBody(t *testing.T) {
	deps := newTestDeps(t, setupTestDB(t), &mockChannelAPI{})
	client := newInteractionClient(t, deps)

	rr := client.post(t, []byte(`{not json`))
	if rr.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for malformed body, got %d", rr.Code)
	}
}
