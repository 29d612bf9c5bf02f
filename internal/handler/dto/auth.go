// Package dto defines request and response shapes for the HTTP API.
package dto

import (
	"time"
)

// SignupRequest is the payload for POST /auth/signup.
type SignupRequest struct {
	ScreenName string `json:"screen_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// VerifyEmailRequest is the payload for POST /auth/verify-email.
type VerifyEmailRequest struct {
	TokenID string `json:"token_id"`
}

// VerifyEmailResponse confirms a redeemed verification token.
type VerifyEmailResponse struct {
	AccountID string `json:"account_id"`
	TokenID   string `json:"token_id"`
	Verified  bool   `json:"verified"`
}

// Meta carries per-request timing metadata, present on every envelope.
type Meta struct {
	// TimeTaken is the handler-observed duration, e.g. "1.234ms".
	TimeTaken string `json:"time_taken"`
	// Timestamp is the RFC 3339 time the response was produced.
	Timestamp string `json:"timestamp"`
}

// ErrorBody is the client-visible error payload. Code is a stable numeric
// identifier; Message is a fixed template with no internal detail.
type ErrorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Envelope is the uniform response wrapper. Exactly one of Data or Error is
// set, matching Success.
type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
	Meta    Meta       `json:"meta"`
}

// NewMeta builds envelope metadata from the request start time.
func NewMeta(start time.Time) Meta {
	return Meta{
		TimeTaken: time.Since(start).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// OK wraps a successful payload.
func OK(data any, start time.Time) Envelope {
	return Envelope{Success: true, Data: data, Meta: NewMeta(start)}
}

// Fail wraps an error payload.
func Fail(code int, message string, start time.Time) Envelope {
	return Envelope{
		Success: false,
		Error:   &ErrorBody{Code: code, Message: message},
		Meta:    NewMeta(start),
	}
}
