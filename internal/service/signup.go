// Package service coordinates the onboarding flows: registration and email
// verification. It owns the write path for accounts and verification tokens;
// every multi-row write happens inside a single transaction, and the mail
// side effect is handed off only after commit.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/enrolld/enrolld/internal/metrics"
	"github.com/enrolld/enrolld/internal/model"
	"github.com/enrolld/enrolld/internal/repository"
	"github.com/enrolld/enrolld/internal/validate"
)

// DefaultTokenTTL is the validity window of a signup verification token.
const DefaultTokenTTL = 24 * time.Hour

// Notifier delivers the verification message after commit. Implementations
// must not block the caller and must swallow their own failures.
type Notifier interface {
	DispatchVerification(recipient string, tokenID uuid.UUID)
}

// SignupService drives registration and verification attempts. It holds no
// per-request state; everything mutable lives in the database.
type SignupService struct {
	repo     *repository.Repository
	notifier Notifier
	logger   *slog.Logger
	metrics  metrics.Recorder
	tokenTTL time.Duration
	now      func() time.Time
}

// NewSignupService creates a SignupService.
func NewSignupService(repo *repository.Repository, notifier Notifier, logger *slog.Logger, recorder metrics.Recorder, tokenTTL time.Duration) *SignupService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &SignupService{
		repo:     repo,
		notifier: notifier,
		logger:   logger.With("component", "service.signup"),
		metrics:  recorder,
		tokenTTL: tokenTTL,
		now:      time.Now,
	}
}

// RegisterInput carries the raw signup submission.
type RegisterInput struct {
	ScreenName string
	Email      string
	Password   string
}

// Register validates the credentials, then provisions the account row and
// its verification token as one transaction: either both rows exist
// afterwards or neither does. The verification mail is dispatched strictly
// after commit and never affects the outcome.
func (s *SignupService) Register(ctx context.Context, in RegisterInput) (model.AccountView, error) {
	var view model.AccountView

	// Both checks run before any database interaction.
	if err := validate.Signup(in.Email, in.Password); err != nil {
		s.metrics.IncSignup("validation_error")
		return view, err
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		s.metrics.IncSignup("infra_error")
		return view, classifyBegin(err)
	}
	defer tx.Rollback(ctx)

	account, err := s.repo.CreateAccount(ctx, tx, repository.AccountForm{
		ScreenName: in.ScreenName,
		Email:      in.Email,
		Password:   in.Password,
	})
	if err != nil {
		if errors.Is(err, repository.ErrEmailTaken) || errors.Is(err, repository.ErrScreenNameTaken) {
			s.metrics.IncSignup("conflict")
			return view, err
		}
		s.metrics.IncSignup("infra_error")
		return view, fmt.Errorf("%w: %v", ErrAccountStore, err)
	}

	token, err := s.repo.CreateToken(ctx, tx, repository.TokenForm{
		AccountID: account.ID,
		Kind:      model.KindSignupEmailVerify,
		TTL:       s.tokenTTL,
	})
	if err != nil {
		s.metrics.IncSignup("infra_error")
		return view, fmt.Errorf("%w: %v", ErrTokenStore, err)
	}

	if err := tx.Commit(ctx); err != nil {
		s.metrics.IncSignup("infra_error")
		return view, fmt.Errorf("%w: %v", ErrTxCommit, err)
	}

	// Post-commit handoff; the response does not wait on delivery.
	s.notifier.DispatchVerification(account.Email, token.ID)

	s.logger.Info("account registered",
		"account_id", account.ID,
		"screen_name", account.ScreenName,
		"token_expires_at", token.ExpiresAt,
	)
	s.metrics.IncSignup("created")

	return account.View(), nil
}

// VerifyResult reports a successful email verification.
type VerifyResult struct {
	AccountID uuid.UUID
	TokenID   uuid.UUID
}

// Verify redeems a verification token. Checks run in a fixed order: lookup,
// consumed flag, expiry, then the atomic consume. The consume and the
// account's verified-flag update share one transaction, so they commit or
// roll back together. Among concurrent calls with the same token, exactly
// one succeeds; the rest observe ErrTokenUsed.
func (s *SignupService) Verify(ctx context.Context, tokenID uuid.UUID) (VerifyResult, error) {
	var res VerifyResult

	// Read-only pre-check outside any transaction.
	token, err := s.repo.GetTokenByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, repository.ErrTokenNotFound) {
			s.metrics.IncVerification("invalid")
			return res, ErrTokenInvalid
		}
		s.metrics.IncVerification("infra_error")
		return res, fmt.Errorf("get token: %w", err)
	}

	switch token.Status(s.now()) {
	case model.TokenUsed:
		s.metrics.IncVerification("used")
		return res, ErrTokenUsed
	case model.TokenExpired:
		s.metrics.IncVerification("expired")
		return res, ErrTokenExpired
	}

	tx, err := s.repo.Begin(ctx)
	if err != nil {
		s.metrics.IncVerification("infra_error")
		return res, classifyBegin(err)
	}
	defer tx.Rollback(ctx)

	accountID, err := s.repo.ConsumeToken(ctx, tx, token.ID)
	if err != nil {
		if errors.Is(err, repository.ErrTokenConsumed) {
			// Lost the race: another caller consumed it after our pre-check.
			s.metrics.IncVerification("used")
			return res, ErrTokenUsed
		}
		s.metrics.IncVerification("infra_error")
		return res, fmt.Errorf("consume token: %w", err)
	}

	if err := s.repo.MarkEmailVerified(ctx, tx, accountID); err != nil {
		s.metrics.IncVerification("infra_error")
		return res, fmt.Errorf("mark email verified: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		s.metrics.IncVerification("infra_error")
		return res, fmt.Errorf("%w: %v", ErrTxCommit, err)
	}

	s.logger.Info("email verified",
		"account_id", accountID,
		"token_id", token.ID,
	)
	s.metrics.IncVerification("verified")

	res.AccountID = accountID
	res.TokenID = token.ID
	return res, nil
}

// classifyBegin separates pool exhaustion from a plain begin failure.
func classifyBegin(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrPoolExhausted, err)
	}
	return fmt.Errorf("%w: %v", ErrTxBegin, err)
}
