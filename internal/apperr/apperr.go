// Package apperr classifies failures into the stable taxonomy shared by the
// signup and verification flows. Each class carries a numeric code, a fixed
// client-visible message, and an HTTP status; the classifier itself knows
// nothing about transports. Internal detail never rides along: the boundary
// logs the cause and sends only the fixed template.
package apperr

import (
	"errors"
	"net/http"

	"github.com/enrolld/enrolld/internal/repository"
	"github.com/enrolld/enrolld/internal/service"
	"github.com/enrolld/enrolld/internal/validate"
)

// Error is a classified failure.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string { return e.Message }

// The taxonomy. Codes are part of the public contract and must never be
// renumbered.
var (
	PoolExhausted = &Error{Code: 1, Message: "could not get connection from pool", Status: http.StatusInternalServerError}
	TxBeginFailed = &Error{Code: 2, Message: "could not build transaction from connection", Status: http.StatusInternalServerError}

	WrongEmailFormat    = &Error{Code: 3, Message: "the provided email format is incorrect", Status: http.StatusBadRequest}
	WrongPasswordFormat = &Error{Code: 4, Message: "password must be at least 8 characters and include uppercase, lowercase, number, and one of @$!%*?&#", Status: http.StatusBadRequest}

	AccountInsertFailed = &Error{Code: 5, Message: "could not insert account into database", Status: http.StatusInternalServerError}
	TokenInsertFailed   = &Error{Code: 6, Message: "could not insert verification token into database", Status: http.StatusInternalServerError}

	DuplicateIdentity = &Error{Code: 7, Message: "screen name or email is already registered", Status: http.StatusConflict}

	TokenInvalid = &Error{Code: 8, Message: "verification token invalid", Status: http.StatusBadRequest}
	TokenUsed    = &Error{Code: 9, Message: "verification token already used", Status: http.StatusBadRequest}
	TokenExpired = &Error{Code: 10, Message: "verification token expired", Status: http.StatusBadRequest}

	TxCommitFailed = &Error{Code: 11, Message: "could not commit transaction", Status: http.StatusInternalServerError}
	EncodeFailed   = &Error{Code: 12, Message: "could not encode response", Status: http.StatusInternalServerError}

	MalformedBody = &Error{Code: 13, Message: "request body is malformed", Status: http.StatusBadRequest}

	// Internal is the catch-all for unclassified failures.
	Internal = &Error{Code: 50, Message: "an internal error occurred", Status: http.StatusInternalServerError}
)

// Classify maps any failure from the onboarding flows onto the taxonomy.
// Unrecognized errors classify as Internal.
func Classify(err error) *Error {
	switch {
	case err == nil:
		return nil

	case errors.Is(err, validate.ErrEmailFormat):
		return WrongEmailFormat
	case errors.Is(err, validate.ErrPasswordFormat):
		return WrongPasswordFormat

	case errors.Is(err, repository.ErrEmailTaken),
		errors.Is(err, repository.ErrScreenNameTaken):
		return DuplicateIdentity

	case errors.Is(err, service.ErrTokenInvalid):
		return TokenInvalid
	case errors.Is(err, service.ErrTokenUsed):
		return TokenUsed
	case errors.Is(err, service.ErrTokenExpired):
		return TokenExpired

	case errors.Is(err, service.ErrPoolExhausted):
		return PoolExhausted
	case errors.Is(err, service.ErrTxBegin):
		return TxBeginFailed
	case errors.Is(err, service.ErrTxCommit):
		return TxCommitFailed
	case errors.Is(err, service.ErrAccountStore):
		return AccountInsertFailed
	case errors.Is(err, service.ErrTokenStore):
		return TokenInsertFailed

	default:
		return Internal
	}
}

// IsServerFault reports whether the class should be logged as a server
// fault. Token and validation outcomes are expected client-facing results.
func (e *Error) IsServerFault() bool {
	return e.Status >= http.StatusInternalServerError
}
