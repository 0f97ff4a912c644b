package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), time.Hour)

	raw, err := tm.Issue("user-1", "admin")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := tm.Verify(raw)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.Subject != "user-1" {
		t.Fatalf("subject = %q, want %q", claims.Subject, "user-1")
	}
	if claims.Role != "admin" {
		t.Fatalf("role = %q, want %q", claims.Role, "admin")
	}
}

func TestTokenExpired(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), -time.Minute)

	raw, err := tm.Issue("user-1", "user")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := tm.Verify(raw); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Verify error = %v, want ErrTokenExpired", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := NewTokenManager([]byte("secret-a"), time.Hour)
	verifier := NewTokenManager([]byte("secret-b"), time.Hour)

	raw, err := issuer.Issue("user-1", "user")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := verifier.Verify(raw); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("Verify error = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenMalformed(t *testing.T) {
	tm := NewTokenManager([]byte("test-secret"), time.Hour)

	if _, err := tm.Verify("definitely-not-a-jwt"); !errors.Is(err, ErrTokenMalformed) {
		t.Fatalf("Verify error = %v, want ErrTokenMalformed", err)
	}
}
