// Package discord holds the wire types exchanged with the Discord REST
// and interactions APIs, plus the builders for the embeds this service
// publishes.
package discord

import "fmt"

// Component types
const (
	ComponentActionRow = 1
	ComponentButton    = 2
	ComponentTextInput = 4
)

// Button styles
const (
	ButtonStyleSuccess = 3
	ButtonStyleDanger  = 4
)

// Text input styles
const (
	TextInputShort     = 1
	TextInputParagraph = 2
)

// Interaction types
const (
	InteractionPing             = 1
	InteractionMessageComponent = 3
	InteractionModalSubmit      = 5
)

// Interaction response types
const (
	ResponsePong                     = 1
	ResponseChannelMessageWithSource = 4
	ResponseDeferredMessageUpdate    = 6
	ResponseModal                    = 9
)

// MessageFlagEphemeral makes an interaction reply visible only to the
// acting moderator
const MessageFlagEphemeral = 64

type EmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline,omitempty"`
}

type EmbedFooter struct {
	Text string `json:"text"`
}

type EmbedThumbnail struct {
	URL string `json:"url"`
}

type Embed struct {
	Title     string          `json:"title,omitempty"`
	Color     int             `json:"color,omitempty"`
	Fields    []EmbedField    `json:"fields,omitempty"`
	Footer    *EmbedFooter    `json:"footer,omitempty"`
	Thumbnail *EmbedThumbnail `json:"thumbnail,omitempty"`
	Timestamp string          `json:"timestamp,omitempty"`
}

// Component is the unified shape Discord uses for action rows, buttons
// and text inputs; Type discriminates.
type Component struct {
	Type       int         `json:"type"`
	Style      int         `json:"style,omitempty"`
	Label      string      `json:"label,omitempty"`
	CustomID   string      `json:"custom_id,omitempty"`
	Disabled   bool        `json:"disabled,omitempty"`
	Required   bool        `json:"required,omitempty"`
	Value      string      `json:"value,omitempty"`
	Components []Component `json:"components,omitempty"`
}

// Message is a channel message as returned by the REST API
type Message struct {
	ID         string      `json:"id"`
	ChannelID  string      `json:"channel_id"`
	Content    string      `json:"content,omitempty"`
	Embeds     []Embed     `json:"embeds,omitempty"`
	Components []Component `json:"components,omitempty"`
}

// MessagePayload is the body for creating or editing a channel message
type MessagePayload struct {
	Content    string      `json:"content,omitempty"`
	Embeds     []Embed     `json:"embeds,omitempty"`
	Components []Component `json:"components"`
}

type User struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Discriminator string  `json:"discriminator"`
	Avatar        *string `json:"avatar"`
}

// Tag renders the legacy user#discriminator handle, falling back to the
// plain username for accounts migrated off discriminators
func (u *User) Tag() string {
	if u.Discriminator == "" || u.Discriminator == "0" {
		return u.Username
	}
	return u.Username + "#" + u.Discriminator
}

type Member struct {
	User *User `json:"user"`
}

// InteractionData carries the component- or modal-specific payload
type InteractionData struct {
	CustomID      string      `json:"custom_id"`
	ComponentType int         `json:"component_type,omitempty"`
	Components    []Component `json:"components,omitempty"`
}

// Interaction is an incoming event from the interactions webhook
type Interaction struct {
	ID        string           `json:"id"`
	Type      int              `json:"type"`
	Token     string           `json:"token"`
	ChannelID string           `json:"channel_id,omitempty"`
	Data      *InteractionData `json:"data,omitempty"`
	Message   *Message         `json:"message,omitempty"`
	Member    *Member          `json:"member,omitempty"`
	User      *User            `json:"user,omitempty"`
}

// Actor returns the user who triggered the interaction, whether it
// arrived from a guild (member) or a DM (user)
func (i *Interaction) Actor() *User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

// TextInputValue finds the submitted value of a modal text input
func (d *InteractionData) TextInputValue(customID string) string {
	for _, row := range d.Components {
		for _, c := range row.Components {
			if c.Type == ComponentTextInput && c.CustomID == customID {
				return c.Value
			}
		}
	}
	return ""
}

// ResponseData is the payload of an interaction response
type ResponseData struct {
	Content    string      `json:"content,omitempty"`
	Flags      int         `json:"flags,omitempty"`
	Embeds     []Embed     `json:"embeds,omitempty"`
	Components []Component `json:"components,omitempty"`
	CustomID   string      `json:"custom_id,omitempty"`
	Title      string      `json:"title,omitempty"`
}

// InteractionResponse is what the webhook endpoint answers with
type InteractionResponse struct {
	Type int           `json:"type"`
	Data *ResponseData `json:"data,omitempty"`
}

// WebhookPayload is the body for executing an incoming webhook
type WebhookPayload struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

const (
	cdnAvatarURL  = "https://cdn.discordapp.com/avatars/%s/%s.png"
	cdnDefaultURL = "https://cdn.discordapp.com/embed/avatars/0.png"
)

// AvatarURL derives the CDN avatar for a user, falling back to the
// default embed avatar when the user has none
func AvatarURL(discordID string, avatar *string) string {
	if avatar == nil || *avatar == "" {
		return cdnDefaultURL
	}
	return fmt.Sprintf(cdnAvatarURL, discordID, *avatar)
}
