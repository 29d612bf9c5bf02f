package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/enrolld/enrolld/internal/auth"
	"github.com/enrolld/enrolld/internal/model"
)

// Common errors for account repository operations.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrEmailTaken      = errors.New("email already registered")
	ErrScreenNameTaken = errors.New("screen name already registered")
)

// Named unique constraints from the accounts migration.
const (
	constraintAccountsEmail      = "accounts_email_key"
	constraintAccountsScreenName = "accounts_screen_name_key"
)

const accountColumns = "id, screen_name, email, password_hash, created_at, updated_at, is_active, email_verified"

// AccountForm carries validated signup credentials into the insert.
type AccountForm struct {
	ScreenName string
	Email      string
	Password   string
}

// CreateAccount hashes the password and inserts a new account inside the
// caller's transaction, returning the persisted row. Timestamps are assigned
// server-side. A uniqueness violation on email or screen name surfaces as
// ErrEmailTaken or ErrScreenNameTaken, never as a generic storage failure.
func (r *Repository) CreateAccount(ctx context.Context, tx pgx.Tx, form AccountForm) (*model.Account, error) {
	hash, err := auth.HashPassword(form.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	query := `
		INSERT INTO accounts (id, screen_name, email, password_hash, created_at, updated_at, is_active, email_verified)
		VALUES ($1, $2, $3, $4, now(), now(), true, false)
		RETURNING ` + accountColumns

	row := tx.QueryRow(ctx, query, uuid.New(), form.ScreenName, form.Email, hash)
	account, err := scanAccount(row)
	if err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			return nil, classifyAccountConflict(constraint)
		}
		return nil, fmt.Errorf("failed to insert account: %w", err)
	}

	return account, nil
}

// classifyAccountConflict maps a violated constraint to the conflicting
// column. Unknown constraint names (e.g. after a manual rename) fall back to
// the email conflict rather than an infrastructure failure.
func classifyAccountConflict(constraint string) error {
	switch {
	case constraint == constraintAccountsScreenName:
		return ErrScreenNameTaken
	case constraint == constraintAccountsEmail:
		return ErrEmailTaken
	case strings.Contains(constraint, "screen_name"):
		return ErrScreenNameTaken
	default:
		return ErrEmailTaken
	}
}

// GetAccountByID retrieves an account by its ID.
func (r *Repository) GetAccountByID(ctx context.Context, id uuid.UUID) (*model.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	account, err := scanAccount(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account by ID: %w", err)
	}

	return account, nil
}

// GetAccountsByIDs retrieves accounts matching the given IDs. Missing IDs are
// skipped, not reported.
func (r *Repository) GetAccountsByIDs(ctx context.Context, ids []uuid.UUID) ([]*model.Account, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get accounts by IDs: %w", err)
	}
	defer rows.Close()

	accounts := make([]*model.Account, 0, len(ids))
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read account rows: %w", err)
	}

	return accounts, nil
}

// DeleteAccount removes an account row. Deleting a missing account is an
// error, not a silent no-op.
func (r *Repository) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// MarkEmailVerified flips the email_verified flag inside the caller's
// transaction, so it commits or rolls back together with the token
// consumption.
func (r *Repository) MarkEmailVerified(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	query := `
		UPDATE accounts
		SET email_verified = true, updated_at = now()
		WHERE id = $1
	`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark email verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}
	return nil
}

// scanAccount maps a row onto an Account.
func scanAccount(row pgx.Row) (*model.Account, error) {
	var acc model.Account
	err := row.Scan(
		&acc.ID,
		&acc.ScreenName,
		&acc.Email,
		&acc.PasswordHash,
		&acc.CreatedAt,
		&acc.UpdatedAt,
		&acc.IsActive,
		&acc.EmailVerified,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}
