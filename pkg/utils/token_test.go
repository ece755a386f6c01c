package utils

import (
	"errors"
	"testing"
	"time"
)

func TestTokenSignParse(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	token, expiresAt, err := m.Sign("5f0c2d7e-1111-4c1a-9d33-3a7e2f1b0c00")
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	if !expiresAt.Equal(now.Add(time.Hour)) {
		t.Errorf("expiresAt %v", expiresAt)
	}

	claims, err := m.Parse(token)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if claims.UserID != "5f0c2d7e-1111-4c1a-9d33-3a7e2f1b0c00" {
		t.Errorf("user id %q", claims.UserID)
	}
	if claims.IssuedAtUnix() != now.Unix() {
		t.Errorf("iat %d, want %d", claims.IssuedAtUnix(), now.Unix())
	}
}

func TestTokenExpired(t *testing.T) {
	m := NewTokenManager("test-secret", time.Minute)
	now := time.Now()
	m.now = func() time.Time { return now }

	token, _, err := m.Sign("user")
	if err != nil {
		t.Fatal(err)
	}

	m.now = func() time.Time { return now.Add(2 * time.Minute) }
	if _, err := m.Parse(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	token, _, err := NewTokenManager("one", time.Hour).Sign("user")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenManager("two", time.Hour).Parse(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
	if _, err := NewTokenManager("one", time.Hour).Parse("garbage"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid for garbage, got %v", err)
	}
}

func TestResetTokenDigest(t *testing.T) {
	token, digest, err := GenerateResetToken()
	if err != nil {
		t.Fatal(err)
	}
	if len(token) != 64 {
		t.Errorf("token length %d", len(token))
	}
	if digest == token || HashResetToken(token) != digest {
		t.Error("digest must be sha256 of token")
	}
}
