package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/tstore/storefront/internal/platform/config"
)

func newTestVerifier(t *testing.T) *Verifier {
	t.Helper()
	verifier, err := NewVerifier(config.AuthConfig{SessionSecret: "test-secret", Issuer: "storefront-api"})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}
	return verifier
}

func TestIssueAndVerify(t *testing.T) {
	verifier := newTestVerifier(t)

	token, err := verifier.IssueToken(Identity{UID: "u1", Email: "u1@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	identity, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if identity.UID != "u1" || identity.Email != "u1@example.com" {
		t.Fatalf("unexpected identity: %+v", identity)
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	verifier := newTestVerifier(t)

	token, err := verifier.IssueToken(Identity{UID: "u1"}, -time.Minute)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	verifier := newTestVerifier(t)
	other, err := NewVerifier(config.AuthConfig{SessionSecret: "other-secret", Issuer: "storefront-api"})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	token, err := other.IssueToken(Identity{UID: "u1"}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyRejectsWrongIssuer(t *testing.T) {
	verifier := newTestVerifier(t)
	other, err := NewVerifier(config.AuthConfig{SessionSecret: "test-secret", Issuer: "someone-else"})
	if err != nil {
		t.Fatalf("new verifier: %v", err)
	}

	token, err := other.IssueToken(Identity{UID: "u1"}, time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if _, err := verifier.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyMissingToken(t *testing.T) {
	verifier := newTestVerifier(t)

	if _, err := verifier.Verify("   "); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}
