package discord

import (
	"fmt"
	"time"

	"github.com/andrevaleby/santamaria-backend/internal/constants"
)

// Embed colors
const (
	ColorBlurple = 0x5865F2
	ColorGreen   = 0x57F287
	ColorRed     = 0xED4245
)

// QA is one answered question on a whitelist application
type QA struct {
	Question string
	Answer   string
}

// NewReviewCard builds the message posted to the review channel for one
// application: the card embed plus the Approve/Reject buttons.
func NewReviewCard(subjectID, username string, avatarURL string, answers []QA) MessagePayload {
	fields := []EmbedField{
		{Name: "👤 Usuário", Value: username, Inline: true},
		{Name: "🆔 ID Discord", Value: subjectID, Inline: true},
	}
	for _, qa := range answers {
		answer := qa.Answer
		if answer == "" {
			answer = constants.EmptyAnswerPlaceholder
		}
		fields = append(fields, EmbedField{Name: qa.Question, Value: answer})
	}

	embed := Embed{
		Title:     "📋 Nova WhiteList Recebida",
		Color:     ColorBlurple,
		Thumbnail: &EmbedThumbnail{URL: avatarURL},
		Fields:    fields,
		Footer:    &EmbedFooter{Text: "Painel de Forms - © Santa Maria RP"},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	buttons := Component{
		Type: ComponentActionRow,
		Components: []Component{
			{
				Type:     ComponentButton,
				Style:    ButtonStyleSuccess,
				Label:    "Aprovar",
				CustomID: CustomID{Kind: KindCardButton, Action: constants.ActionApprove, SubjectID: subjectID}.Encode(),
			},
			{
				Type:     ComponentButton,
				Style:    ButtonStyleDanger,
				Label:    "Reprovar",
				CustomID: CustomID{Kind: KindCardButton, Action: constants.ActionReject, SubjectID: subjectID}.Encode(),
			},
		},
	}

	return MessagePayload{Embeds: []Embed{embed}, Components: []Component{buttons}}
}

// NewJustificationModal builds the free-text prompt opened when a
// moderator presses one of the card buttons.
func NewJustificationModal(action constants.ReviewAction, subjectID, cardID string) InteractionResponse {
	title := "Motivo da Reprovação"
	if action == constants.ActionApprove {
		title = "Motivo da Aprovação"
	}

	return InteractionResponse{
		Type: ResponseModal,
		Data: &ResponseData{
			CustomID: CustomID{Kind: KindModal, Action: action, SubjectID: subjectID, CardID: cardID}.Encode(),
			Title:    title,
			Components: []Component{
				{
					Type: ComponentActionRow,
					Components: []Component{
						{
							Type:     ComponentTextInput,
							CustomID: "motivo",
							Label:    "Digite o motivo",
							Style:    TextInputParagraph,
							Required: true,
						},
					},
				},
			},
		},
	}
}

// NewOutcomeEmbed builds the resolution record published to the
// decision-specific channel.
func NewOutcomeEmbed(action constants.ReviewAction, subjectID, moderatorTag, justification string) Embed {
	title := "📋 Whitelist Reprovada"
	color := ColorRed
	footer := "❌ Whitelist reprovada"
	if action == constants.ActionApprove {
		title = "📋 Whitelist Aprovada"
		color = ColorGreen
		footer = "✅ Whitelist aprovada"
	}

	return Embed{
		Title: title,
		Color: color,
		Fields: []EmbedField{
			{Name: "👤 Usuário", Value: fmt.Sprintf("<@%s>", subjectID)},
			{Name: "👮‍♂️ Moderador", Value: moderatorTag},
			{Name: "📝 Motivo", Value: justification},
		},
		Footer:    &EmbedFooter{Text: footer},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ResolveCard recolors a posted card, stamps the resolved footer and
// disables its action buttons, preserving the original answer fields.
func ResolveCard(card Message, action constants.ReviewAction) MessagePayload {
	payload := MessagePayload{Components: []Component{}}

	if len(card.Embeds) > 0 {
		embed := card.Embeds[0]
		if action == constants.ActionApprove {
			embed.Color = ColorGreen
			embed.Footer = &EmbedFooter{Text: "✅ Esta whitelist já foi aprovada"}
		} else {
			embed.Color = ColorRed
			embed.Footer = &EmbedFooter{Text: "❌ Esta whitelist já foi reprovada"}
		}
		payload.Embeds = []Embed{embed}
	}

	for _, row := range card.Components {
		for i := range row.Components {
			row.Components[i].Disabled = true
		}
		payload.Components = append(payload.Components, row)
	}

	return payload
}

// NewLoginEmbed builds the audit embed for a portal login
func NewLoginEmbed(discordID, username, avatarURL string, isMember bool, at time.Time) Embed {
	membership := "❌ Não"
	if isMember {
		membership = "✅ Sim"
	}

	return Embed{
		Title:     "🟢 Novo Login no Site",
		Color:     0x57E719,
		Thumbnail: &EmbedThumbnail{URL: avatarURL},
		Fields: []EmbedField{
			{Name: "👤 Usuário", Value: username, Inline: true},
			{Name: "🆔 ID", Value: discordID, Inline: true},
			{Name: "🕒 Horário", Value: at.Format("02/01/2006 15:04:05"), Inline: false},
			{Name: "👥 Está no servidor?", Value: membership, Inline: true},
		},
		Footer:    &EmbedFooter{Text: "Painel de Login - © Santa Maria RP"},
		Timestamp: at.UTC().Format(time.RFC3339),
	}
}
