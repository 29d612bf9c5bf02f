package model

import (
	"time"

	"github.com/google/uuid"
)

// KindSignupEmailVerify identifies tokens issued to prove control of the
// email address given at signup. Kind is an open set: new token purposes can
// be added without a schema change.
const KindSignupEmailVerify = "signup-email-verify"

// TokenStatus is the lifecycle state of a verification token.
type TokenStatus int

const (
	// TokenFresh means the token is unconsumed and not yet expired.
	TokenFresh TokenStatus = iota
	// TokenUsed means the token has already been consumed. Terminal.
	TokenUsed
	// TokenExpired means the token is unconsumed but past its expiry.
	TokenExpired
)

// String returns a human-readable name for logging.
func (s TokenStatus) String() string {
	switch s {
	case TokenFresh:
		return "fresh"
	case TokenUsed:
		return "used"
	case TokenExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// VerificationToken is a single-use, expiring credential. The id doubles as
// the secret mailed to the user, so it is always generated from a
// cryptographically strong random source, never a sequence.
type VerificationToken struct {
	ID        uuid.UUID `json:"id"`
	AccountID uuid.UUID `json:"account_id"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Consumed  bool      `json:"consumed"`
}

// Status reports the token lifecycle state at the given instant.
//
// The consumed check runs before the expiry check: a token that is both used
// and expired reports used. Redemption flows depend on this ordering.
func (t *VerificationToken) Status(now time.Time) TokenStatus {
	if t.Consumed {
		return TokenUsed
	}
	if !now.Before(t.ExpiresAt) {
		return TokenExpired
	}
	return TokenFresh
}
