package session

import (
	"testing"
	"time"
)

func TestIssueAndValidate(t *testing.T) {
	store := NewStore(time.Hour)

	token := store.Issue()
	if token == "" {
		t.Fatal("expected a non-empty token")
	}
	if !store.Valid(token) {
		t.Error("freshly issued token should be valid")
	}
	if store.Active() != 1 {
		t.Errorf("expected 1 active token, got %d", store.Active())
	}
}

func TestUnknownTokenInvalid(t *testing.T) {
	store := NewStore(time.Hour)

	if store.Valid("not-a-token") {
		t.Error("unknown token should be invalid")
	}
}

func TestTokensAreUnique(t *testing.T) {
	store := NewStore(time.Hour)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token := store.Issue()
		if seen[token] {
			t.Fatalf("duplicate token issued: %s", token)
		}
		seen[token] = true
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	store := NewStore(time.Hour)

	base := time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return base }

	token := store.Issue()
	if !store.Valid(token) {
		t.Fatal("token should be valid before expiry")
	}

	store.now = func() time.Time { return base.Add(2 * time.Hour) }
	if store.Valid(token) {
		t.Error("token should be invalid after expiry")
	}
	if store.Active() != 0 {
		t.Errorf("expired token should be pruned, got %d active", store.Active())
	}
}

func TestRevoke(t *testing.T) {
	store := NewStore(time.Hour)

	token := store.Issue()
	store.Revoke(token)

	if store.Valid(token) {
		t.Error("revoked token should be invalid")
	}
}

func TestZeroTTLUsesDefault(t *testing.T) {
	store := NewStore(0)
	if store.ttl != DefaultTTL {
		t.Errorf("expected default TTL %v, got %v", DefaultTTL, store.ttl)
	}
}
