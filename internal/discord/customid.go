package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andrevaleby/santamaria-backend/internal/constants"
)

// CustomID is the typed correlation token embedded in component IDs.
// Kind "wl" is carried by the two buttons on a review card; kind "wlm"
// by the justification modal, which additionally records the card's
// message ID. Subject and card IDs are Discord snowflakes (decimal
// digits), so the delimiter can never collide with a field value.
type CustomID struct {
	Kind      string
	Action    constants.ReviewAction
	SubjectID string
	CardID    string
}

const (
	KindCardButton = "wl"
	KindModal      = "wlm"

	customIDDelimiter = ":"
)

// ErrBadCustomID reports a component ID this service did not mint or
// cannot parse
var ErrBadCustomID = errors.New("malformed custom id")

// Encode renders the token for a component's custom_id field
func (c CustomID) Encode() string {
	parts := []string{c.Kind, string(c.Action), c.SubjectID}
	if c.Kind == KindModal {
		parts = append(parts, c.CardID)
	}
	return strings.Join(parts, customIDDelimiter)
}

// ParseCustomID decodes and validates a correlation token
func ParseCustomID(s string) (CustomID, error) {
	parts := strings.Split(s, customIDDelimiter)

	var c CustomID
	switch {
	case len(parts) == 3 && parts[0] == KindCardButton:
		c = CustomID{Kind: KindCardButton, Action: constants.ReviewAction(parts[1]), SubjectID: parts[2]}
	case len(parts) == 4 && parts[0] == KindModal:
		c = CustomID{Kind: KindModal, Action: constants.ReviewAction(parts[1]), SubjectID: parts[2], CardID: parts[3]}
	default:
		return CustomID{}, fmt.Errorf("%w: %q", ErrBadCustomID, s)
	}

	if !c.Action.Valid() {
		return CustomID{}, fmt.Errorf("%w: unknown action %q", ErrBadCustomID, parts[1])
	}
	if !isSnowflake(c.SubjectID) || (c.Kind == KindModal && !isSnowflake(c.CardID)) {
		return CustomID{}, fmt.Errorf("%w: non-snowflake id in %q", ErrBadCustomID, s)
	}
	return c, nil
}

func isSnowflake(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
