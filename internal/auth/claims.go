package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

const (
	// TokenIssuer and TokenAudience are fixed claims on every session
	// credential. Verification rejects tokens minted for anything else.
	TokenIssuer   = "santamariaRP"
	TokenAudience = "frontend"
)

// Identity is the verified Discord identity carried by a session
type Identity struct {
	DiscordID     string  `json:"discord_id"`
	Username      string  `json:"username"`
	Avatar        *string `json:"avatar"`
	Discriminator string  `json:"discriminator"`
	IsMember      bool    `json:"is_member"`
}

// SessionClaims is the JWT claim set of the session cookie
type SessionClaims struct {
	Username      string  `json:"username"`
	Avatar        *string `json:"avatar,omitempty"`
	Discriminator string  `json:"discriminator,omitempty"`
	IsMember      bool    `json:"is_member"`
	jwt.RegisteredClaims
}

// Identity projects the claim set back into an Identity
func (c *SessionClaims) Identity() Identity {
	return Identity{
		DiscordID:     c.Subject,
		Username:      c.Username,
		Avatar:        c.Avatar,
		Discriminator: c.Discriminator,
		IsMember:      c.IsMember,
	}
}
