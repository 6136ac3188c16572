package api

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"

	"github.com/andrevaleby/santamaria-backend/internal/discord"
	"github.com/andrevaleby/santamaria-backend/internal/logging"
	"github.com/andrevaleby/santamaria-backend/internal/services"
)

const (
	headerSignature = "X-Signature-Ed25519"
	headerTimestamp = "X-Signature-Timestamp"

	modalErrorMessage = "Erro interno ao processar o modal."
)

// verifyInteraction checks the Ed25519 signature Discord attaches to
// every interaction delivery. The signed message is timestamp || body.
func verifyInteraction(publicKey ed25519.PublicKey, r *http.Request, body []byte) bool {
	sig, err := hex.DecodeString(r.Header.Get(headerSignature))
	if err != nil || len(sig) != ed25519.SignatureSize {
		return false
	}
	timestamp := r.Header.Get(headerTimestamp)
	if timestamp == "" {
		return false
	}

	var msg bytes.Buffer
	msg.WriteString(timestamp)
	msg.Write(body)
	return ed25519.Verify(publicKey, msg.Bytes(), sig)
}

// InteractionsHandler handles POST /api/interactions
//
// @Summary      Discord interactions webhook
// @Description  Receives button presses and modal submissions from Discord, verifies the request signature and drives the review state machine.
// @Tags         Review
// @Accept       json
// @Produce      json
// @Success      200  {object}  discord.InteractionResponse
// @Failure      401  {string}  string  "invalid request signature"
// @Router       /api/interactions [post]
func InteractionsHandler(deps *Dependencies, publicKeyHex string) http.HandlerFunc {
	publicKey, err := hex.DecodeString(publicKeyHex)
	if err != nil || len(publicKey) != ed25519.PublicKeySize {
		logging.Fatal("Invalid DISCORD_PUBLIC_KEY", "error", err)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			http.Error(w, "unreadable body", http.StatusBadRequest)
			return
		}

		if !verifyInteraction(ed25519.PublicKey(publicKey), r, body) {
			http.Error(w, "invalid request signature", http.StatusUnauthorized)
			return
		}

		var interaction discord.Interaction
		if err := json.Unmarshal(body, &interaction); err != nil {
			http.Error(w, "malformed interaction", http.StatusBadRequest)
			return
		}

		respondInteraction(w, dispatchInteraction(r, deps, &interaction))
	}
}

// dispatchInteraction routes one verified interaction to the review
// state machine and returns the response Discord shows the moderator.
func dispatchInteraction(r *http.Request, deps *Dependencies, interaction *discord.Interaction) discord.InteractionResponse {
	switch interaction.Type {
	case discord.InteractionPing:
		return discord.InteractionResponse{Type: discord.ResponsePong}

	case discord.InteractionMessageComponent:
		return handleCardButton(r, deps, interaction)

	case discord.InteractionModalSubmit:
		return handleModalSubmit(r, deps, interaction)

	default:
		logging.Warn("Unhandled interaction type", "type", interaction.Type)
		return ephemeralError("Interação não suportada.")
	}
}

func handleCardButton(r *http.Request, deps *Dependencies, interaction *discord.Interaction) discord.InteractionResponse {
	if interaction.Data == nil {
		return ephemeralError(modalErrorMessage)
	}

	id, err := discord.ParseCustomID(interaction.Data.CustomID)
	if err != nil || id.Kind != discord.KindCardButton {
		logging.Warn("Unrecognized component custom id", "custom_id", interaction.Data.CustomID, "error", err)
		return ephemeralError("Este botão não é mais válido.")
	}

	cardID := ""
	if interaction.Message != nil {
		cardID = interaction.Message.ID
	}

	return deps.Services.Review.HandleControlActivated(r.Context(), services.ControlActivated{
		Action:    id.Action,
		SubjectID: id.SubjectID,
		CardID:    cardID,
		Moderator: interaction.Actor(),
	})
}

func handleModalSubmit(r *http.Request, deps *Dependencies, interaction *discord.Interaction) discord.InteractionResponse {
	if interaction.Data == nil {
		return ephemeralError(modalErrorMessage)
	}

	id, err := discord.ParseCustomID(interaction.Data.CustomID)
	if err != nil || id.Kind != discord.KindModal {
		logging.Warn("Unrecognized modal custom id", "custom_id", interaction.Data.CustomID, "error", err)
		return ephemeralError(modalErrorMessage)
	}

	return deps.Services.Review.HandleJustificationCaptured(r.Context(), services.JustificationCaptured{
		Action:        id.Action,
		SubjectID:     id.SubjectID,
		CardID:        id.CardID,
		ChannelID:     interaction.ChannelID,
		Moderator:     interaction.Actor(),
		Justification: interaction.Data.TextInputValue("motivo"),
	})
}

func ephemeralError(message string) discord.InteractionResponse {
	return discord.InteractionResponse{
		Type: discord.ResponseChannelMessageWithSource,
		Data: &discord.ResponseData{
			Content: message,
			Flags:   discord.MessageFlagEphemeral,
		},
	}
}

func respondInteraction(w http.ResponseWriter, resp discord.InteractionResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error("Failed to encode interaction response", "error", err)
	}
}
