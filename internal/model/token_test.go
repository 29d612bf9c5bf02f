package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func newToken(consumed bool, expiresIn time.Duration, now time.Time) *VerificationToken {
	return &VerificationToken{
		ID:        uuid.New(),
		AccountID: uuid.New(),
		Kind:      KindSignupEmailVerify,
		CreatedAt: now.Add(-time.Hour),
		ExpiresAt: now.Add(expiresIn),
		Consumed:  consumed,
	}
}

func TestVerificationToken_Status(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		consumed  bool
		expiresIn time.Duration
		want      TokenStatus
	}{
		{"fresh", false, 23 * time.Hour, TokenFresh},
		{"consumed", true, 23 * time.Hour, TokenUsed},
		{"expired", false, -time.Minute, TokenExpired},
		{"expired exactly now", false, 0, TokenExpired},
		// Consumed wins over expired: a used-and-now-expired token must
		// report used, not expired.
		{"consumed and expired", true, -time.Minute, TokenUsed},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tok := newToken(tt.consumed, tt.expiresIn, now)
			if got := tok.Status(now); got != tt.want {
				t.Errorf("Status() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTokenStatus_String(t *testing.T) {
	t.Parallel()

	if TokenFresh.String() != "fresh" || TokenUsed.String() != "used" || TokenExpired.String() != "expired" {
		t.Error("TokenStatus names are wrong")
	}
	if TokenStatus(42).String() != "unknown" {
		t.Error("unknown status should stringify as unknown")
	}
}
