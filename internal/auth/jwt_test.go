package auth

import (
	"strings"
	"testing"
	"time"
)

func testIdentity() Identity {
	avatar := "a1b2c3"
	return Identity{
		DiscordID:     "123456789012345678",
		Username:      "andre",
		Avatar:        &avatar,
		Discriminator: "0",
		IsMember:      true,
	}
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	issuer := NewSessionIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	identity, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}

	if identity.DiscordID != "123456789012345678" {
		t.Errorf("Expected discord id 123456789012345678, got %s", identity.DiscordID)
	}
	if identity.Username != "andre" {
		t.Errorf("Expected username andre, got %s", identity.Username)
	}
	if !identity.IsMember {
		t.Error("Expected IsMember to survive the round trip")
	}
	if identity.Avatar == nil || *identity.Avatar != "a1b2c3" {
		t.Error("Expected avatar hash to survive the round trip")
	}
}

func TestVerify_Expired(t *testing.T) {
	issuer := NewSessionIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := issuer.Verify(token); err != ErrInvalidCredential {
		t.Errorf("Expected ErrInvalidCredential for expired token, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	issuer := NewSessionIssuer("test-secret", time.Hour)
	other := NewSessionIssuer("other-secret", time.Hour)

	token, err := issuer.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := other.Verify(token); err != ErrInvalidCredential {
		t.Errorf("Expected ErrInvalidCredential for wrong secret, got %v", err)
	}
}

func TestVerify_TamperedPayload(t *testing.T) {
	issuer := NewSessionIssuer("test-secret", time.Hour)

	token, err := issuer.Issue(testIdentity())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("Expected a three part JWT, got %d parts", len(parts))
	}
	tampered := parts[0] + ".eyJkaXNjb3JkX2lkIjoiOTk5In0." + parts[2]

	if _, err := issuer.Verify(tampered); err != ErrInvalidCredential {
		t.Errorf("Expected ErrInvalidCredential for tampered token, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	issuer := NewSessionIssuer("test-secret", time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		if _, err := issuer.Verify(token); err != ErrInvalidCredential {
			t.Errorf("Expected ErrInvalidCredential for %q, got %v", token, err)
		}
	}
}
