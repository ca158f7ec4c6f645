package core

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"
)

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec("super-secret")
	userID := "2f1b9c4e-9a1d-4c52-8a6f-0d9f6f3b1a77"

	token, err := codec.Issue(userID)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	got, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if got != userID {
		t.Fatalf("user id mismatch: got %q want %q", got, userID)
	}
}

func TestVerifyWrongSecret(t *testing.T) {
	t.Parallel()

	token, err := NewTokenCodec("right-secret").Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	if _, err := NewTokenCodec("wrong-secret").Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestVerifyTamperedToken(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec("secret")
	token, err := codec.Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	forged, err := json.Marshal(map[string]string{"_id": "someone-else"})
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	if _, err := codec.Verify(strings.Join(parts, ".")); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for tampered payload, got %v", err)
	}
}

func TestVerifyMalformedToken(t *testing.T) {
	t.Parallel()

	codec := NewTokenCodec("secret")
	for _, tok := range []string{"", "not-a-jwt", "a.b", "a.b.c"} {
		if _, err := codec.Verify(tok); err != ErrInvalidToken {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", tok, err)
		}
	}
}

func TestIssueOmitsExpiryClaim(t *testing.T) {
	t.Parallel()

	token, err := NewTokenCodec("secret").Issue("u1")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("unexpected token shape: %q", token)
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	var claims map[string]any
	if err := json.Unmarshal(payload, &claims); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if _, ok := claims["exp"]; ok {
		t.Fatalf("token must not carry an expiry claim, got %v", claims)
	}
	if claims["_id"] != "u1" {
		t.Fatalf("payload user id mismatch: %v", claims)
	}
}
