package service

import "errors"

// Client-facing token errors. Deterministic outcomes of a verification
// attempt, never logged as server faults.
var (
	// ErrTokenInvalid means no token with the presented id exists.
	ErrTokenInvalid = errors.New("verification token invalid")
	// ErrTokenUsed means the token was already consumed, possibly by a
	// concurrent request that won the race.
	ErrTokenUsed = errors.New("verification token already used")
	// ErrTokenExpired means the token is past its expiry and was never used.
	ErrTokenExpired = errors.New("verification token expired")
)

// Infrastructure errors. The caller must not assume any durable effect
// occurred when one of these is returned.
var (
	// ErrPoolExhausted means no connection could be acquired within the
	// configured timeout.
	ErrPoolExhausted = errors.New("connection pool exhausted")
	// ErrTxBegin means the transaction could not be opened.
	ErrTxBegin = errors.New("could not begin transaction")
	// ErrTxCommit means the commit itself failed; the transaction may or may
	// not have taken effect.
	ErrTxCommit = errors.New("could not commit transaction")
	// ErrAccountStore means the account insert failed for a non-conflict
	// reason.
	ErrAccountStore = errors.New("could not store account")
	// ErrTokenStore means the verification token insert failed.
	ErrTokenStore = errors.New("could not store verification token")
)
