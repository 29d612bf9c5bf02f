//go:build integration

package repository

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/enrolld/enrolld/internal/model"
	"github.com/enrolld/enrolld/internal/testutil"
)

// ============================================================================
// Verification Token Repository Integration Tests
// ============================================================================

func TestIntegrationTokenRepository_CreateToken(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	account := createTestAccount(t, ctx, repo, AccountForm{
		ScreenName: testutil.UniqueScreenName("tok"),
		Email:      testutil.UniqueEmail("tok"),
		Password:   "Aa1@secret",
	})

	ttl := 24 * time.Hour
	token := createTestToken(t, ctx, repo, TokenForm{
		AccountID: account.ID,
		Kind:      model.KindSignupEmailVerify,
		TTL:       ttl,
	})

	if token.ID == uuid.Nil {
		t.Error("ID should be set")
	}
	if token.AccountID != account.ID {
		t.Errorf("AccountID mismatch: got %s, want %s", token.AccountID, account.ID)
	}
	if token.Kind != model.KindSignupEmailVerify {
		t.Errorf("Kind mismatch: got %q", token.Kind)
	}
	if token.Consumed {
		t.Error("new tokens should start unconsumed")
	}

	// Both timestamps derive from the same statement-level now(), so the
	// window is exactly the TTL.
	if got := token.ExpiresAt.Sub(token.CreatedAt); got != ttl {
		t.Errorf("expiry window = %v, want %v", got, ttl)
	}
}

func TestIntegrationTokenRepository_GetByID_NotFound(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	_, err := repo.GetTokenByID(ctx, uuid.New())
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Expected ErrTokenNotFound, got: %v", err)
	}
}

func TestIntegrationTokenRepository_ConsumeToken(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	account := createTestAccount(t, ctx, repo, AccountForm{
		ScreenName: testutil.UniqueScreenName("consume"),
		Email:      testutil.UniqueEmail("consume"),
		Password:   "Aa1@secret",
	})
	token := createTestToken(t, ctx, repo, TokenForm{
		AccountID: account.ID,
		Kind:      model.KindSignupEmailVerify,
		TTL:       time.Hour,
	})

	tx, err := repo.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	accountID, err := repo.ConsumeToken(ctx, tx, token.ID)
	if err != nil {
		tx.Rollback(ctx)
		t.Fatalf("ConsumeToken failed: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	if accountID != account.ID {
		t.Errorf("account id mismatch: got %s, want %s", accountID, account.ID)
	}

	retrieved, err := repo.GetTokenByID(ctx, token.ID)
	if err != nil {
		t.Fatalf("GetTokenByID failed: %v", err)
	}
	if !retrieved.Consumed {
		t.Error("token should be consumed")
	}
}

func TestIntegrationTokenRepository_ConsumeToken_Twice(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	account := createTestAccount(t, ctx, repo, AccountForm{
		ScreenName: testutil.UniqueScreenName("twice"),
		Email:      testutil.UniqueEmail("twice"),
		Password:   "Aa1@secret",
	})
	token := createTestToken(t, ctx, repo, TokenForm{
		AccountID: account.ID,
		Kind:      model.KindSignupEmailVerify,
		TTL:       time.Hour,
	})

	for i, want := range []error{nil, ErrTokenConsumed} {
		tx, err := repo.Begin(ctx)
		if err != nil {
			t.Fatalf("Begin failed: %v", err)
		}
		_, err = repo.ConsumeToken(ctx, tx, token.ID)
		if want == nil {
			if err != nil {
				tx.Rollback(ctx)
				t.Fatalf("attempt %d: ConsumeToken failed: %v", i, err)
			}
			if err := tx.Commit(ctx); err != nil {
				t.Fatalf("Commit failed: %v", err)
			}
			continue
		}
		if !errors.Is(err, want) {
			t.Errorf("attempt %d: expected %v, got: %v", i, want, err)
		}
		tx.Rollback(ctx)
	}
}

func TestIntegrationTokenRepository_ConsumeToken_Concurrent(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	account := createTestAccount(t, ctx, repo, AccountForm{
		ScreenName: testutil.UniqueScreenName("race"),
		Email:      testutil.UniqueEmail("race"),
		Password:   "Aa1@secret",
	})
	token := createTestToken(t, ctx, repo, TokenForm{
		AccountID: account.ID,
		Kind:      model.KindSignupEmailVerify,
		TTL:       time.Hour,
	})

	const workers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		consumed  int
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			tx, err := repo.Begin(ctx)
			if err != nil {
				t.Errorf("Begin failed: %v", err)
				return
			}

			_, err = repo.ConsumeToken(ctx, tx, token.ID)
			switch {
			case err == nil:
				if err := tx.Commit(ctx); err != nil {
					t.Errorf("Commit failed: %v", err)
					return
				}
				mu.Lock()
				succeeded++
				mu.Unlock()
			case errors.Is(err, ErrTokenConsumed):
				tx.Rollback(ctx)
				mu.Lock()
				consumed++
				mu.Unlock()
			default:
				tx.Rollback(ctx)
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if succeeded != 1 {
		t.Errorf("expected exactly 1 successful consume, got %d", succeeded)
	}
	if consumed != workers-1 {
		t.Errorf("expected %d ErrTokenConsumed, got %d", workers-1, consumed)
	}
}

func TestIntegrationTokenRepository_DeleteToken(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	account := createTestAccount(t, ctx, repo, AccountForm{
		ScreenName: testutil.UniqueScreenName("deltok"),
		Email:      testutil.UniqueEmail("deltok"),
		Password:   "Aa1@secret",
	})
	token := createTestToken(t, ctx, repo, TokenForm{
		AccountID: account.ID,
		Kind:      model.KindSignupEmailVerify,
		TTL:       time.Hour,
	})

	tx, err := repo.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	if err := repo.DeleteToken(ctx, tx, token.ID); err != nil {
		tx.Rollback(ctx)
		t.Fatalf("DeleteToken failed: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	_, err = repo.GetTokenByID(ctx, token.ID)
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Expected ErrTokenNotFound after delete, got: %v", err)
	}
}

func TestIntegrationTokenRepository_DeleteToken_NotFound(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	tx, err := repo.Begin(ctx)
	if err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	defer tx.Rollback(ctx)

	err = repo.DeleteToken(ctx, tx, uuid.New())
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Expected ErrTokenNotFound, got: %v", err)
	}
}

func TestIntegrationTokenRepository_CascadeOnAccountDelete(t *testing.T) {
	ctx, repo := newRepoTestEnv(t)

	account := createTestAccount(t, ctx, repo, AccountForm{
		ScreenName: testutil.UniqueScreenName("cascade"),
		Email:      testutil.UniqueEmail("cascade"),
		Password:   "Aa1@secret",
	})
	token := createTestToken(t, ctx, repo, TokenForm{
		AccountID: account.ID,
		Kind:      model.KindSignupEmailVerify,
		TTL:       time.Hour,
	})

	if err := repo.DeleteAccount(ctx, account.ID); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}

	_, err := repo.GetTokenByID(ctx, token.ID)
	if !errors.Is(err, ErrTokenNotFound) {
		t.Errorf("Expected token to cascade with its account, got: %v", err)
	}
}
