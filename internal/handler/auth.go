package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/enrolld/enrolld/internal/apperr"
	"github.com/enrolld/enrolld/internal/handler/dto"
	"github.com/enrolld/enrolld/internal/service"
)

// AuthHandler serves the signup and email verification endpoints. Every
// response, success or failure, goes out in the same envelope with timing
// metadata.
type AuthHandler struct {
	signup *service.SignupService
	logger *slog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(signup *service.SignupService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		signup: signup,
		logger: logger.With("component", "handler.auth"),
	}
}

// Signup registers a new account and provisions its verification token.
//
// POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperr.MalformedBody, err, start)
		return
	}

	view, err := h.signup.Register(r.Context(), service.RegisterInput{
		ScreenName: req.ScreenName,
		Email:      req.Email,
		Password:   req.Password,
	})
	if err != nil {
		h.writeError(w, r, apperr.Classify(err), err, start)
		return
	}

	writeJSON(w, http.StatusCreated, dto.OK(view, start))
}

// VerifyEmail redeems a verification token and marks the account verified.
//
// POST /auth/verify-email
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req dto.VerifyEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperr.MalformedBody, err, start)
		return
	}

	tokenID, err := uuid.Parse(req.TokenID)
	if err != nil {
		h.writeError(w, r, apperr.TokenInvalid, err, start)
		return
	}

	result, err := h.signup.Verify(r.Context(), tokenID)
	if err != nil {
		h.writeError(w, r, apperr.Classify(err), err, start)
		return
	}

	writeJSON(w, http.StatusOK, dto.OK(dto.VerifyEmailResponse{
		AccountID: result.AccountID.String(),
		TokenID:   result.TokenID.String(),
		Verified:  true,
	}, start))
}

// writeError sends the classified failure in the shared envelope. Only
// server faults log the underlying cause; client-facing outcomes (bad
// input, spent tokens) are expected traffic.
func (h *AuthHandler) writeError(w http.ResponseWriter, r *http.Request, class *apperr.Error, cause error, start time.Time) {
	if class.IsServerFault() {
		h.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"code", class.Code,
			"error", cause,
		)
	}
	writeJSON(w, class.Status, dto.Fail(class.Code, class.Message, start))
}
