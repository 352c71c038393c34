package auth

import (
	"testing"
	"time"
)

func TestSession_Expired(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	if (Session{ExpiresAt: now.Add(time.Minute)}).Expired(now) {
		t.Fatalf("did not expect future session to be expired")
	}
	if !(Session{ExpiresAt: now}).Expired(now) {
		t.Fatalf("expected session expiring now to be expired")
	}
	if (Session{}).Expired(now) {
		t.Fatalf("did not expect session without expiry to be expired")
	}
}
