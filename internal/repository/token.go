package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/enrolld/enrolld/internal/model"
)

// Common errors for token repository operations.
var (
	ErrTokenNotFound = errors.New("verification token not found")
	ErrTokenConsumed = errors.New("verification token already consumed")
)

const tokenColumns = "id, account_id, kind, created_at, expires_at, consumed"

// TokenForm carries the parameters for issuing a verification token.
type TokenForm struct {
	AccountID uuid.UUID
	Kind      string
	TTL       time.Duration
}

// CreateToken inserts a new verification token inside the caller's
// transaction. created_at and expires_at derive from the same
// statement-level now(), so expires_at - created_at always equals the TTL
// and both timestamps are assigned server-side. consumed starts false.
func (r *Repository) CreateToken(ctx context.Context, tx pgx.Tx, form TokenForm) (*model.VerificationToken, error) {
	query := `
		INSERT INTO verification_tokens (id, account_id, kind, created_at, expires_at, consumed)
		VALUES ($1, $2, $3, now(), now() + make_interval(secs => $4), false)
		RETURNING ` + tokenColumns

	row := tx.QueryRow(ctx, query, uuid.New(), form.AccountID, form.Kind, form.TTL.Seconds())
	token, err := scanToken(row)
	if err != nil {
		return nil, fmt.Errorf("failed to insert verification token: %w", err)
	}

	return token, nil
}

// GetTokenByID retrieves a verification token by its ID. Plain lookup, no
// transaction required.
func (r *Repository) GetTokenByID(ctx context.Context, id uuid.UUID) (*model.VerificationToken, error) {
	query := `SELECT ` + tokenColumns + ` FROM verification_tokens WHERE id = $1`

	token, err := scanToken(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token by ID: %w", err)
	}

	return token, nil
}

// ConsumeToken transitions a token to consumed and returns its owning
// account id. The compare-and-set lives in the WHERE clause: among any set
// of concurrent callers presenting the same id, exactly one update matches a
// row and everyone else gets ErrTokenConsumed. Never split this into a read
// followed by a write.
func (r *Repository) ConsumeToken(ctx context.Context, tx pgx.Tx, id uuid.UUID) (uuid.UUID, error) {
	query := `
		UPDATE verification_tokens
		SET consumed = true
		WHERE id = $1 AND NOT consumed
		RETURNING account_id
	`

	var accountID uuid.UUID
	err := tx.QueryRow(ctx, query, id).Scan(&accountID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, ErrTokenConsumed
		}
		return uuid.Nil, fmt.Errorf("failed to consume token: %w", err)
	}

	return accountID, nil
}

// DeleteToken removes a token row inside the caller's transaction. Deleting
// a missing token is an error, not a silent no-op.
func (r *Repository) DeleteToken(ctx context.Context, tx pgx.Tx, id uuid.UUID) error {
	tag, err := tx.Exec(ctx, `DELETE FROM verification_tokens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTokenNotFound
	}
	return nil
}

// scanToken maps a row onto a VerificationToken.
func scanToken(row pgx.Row) (*model.VerificationToken, error) {
	var tok model.VerificationToken
	err := row.Scan(
		&tok.ID,
		&tok.AccountID,
		&tok.Kind,
		&tok.CreatedAt,
		&tok.ExpiresAt,
		&tok.Consumed,
	)
	if err != nil {
		return nil, err
	}
	return &tok, nil
}
