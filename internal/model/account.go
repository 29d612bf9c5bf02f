// Package model defines domain entities for the application.
package model

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a registered user identity with credentials and
// verification status. The password hash never leaves the repository
// boundary; the json tag strips it from any serialized form as a second
// line of defense.
type Account struct {
	ID            uuid.UUID `json:"id"`
	ScreenName    string    `json:"screen_name"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	IsActive      bool      `json:"is_active"`
	EmailVerified bool      `json:"email_verified"`
}

// AccountView is the truncated projection returned to clients.
type AccountView struct {
	ID         uuid.UUID `json:"id"`
	ScreenName string    `json:"screen_name"`
	Email      string    `json:"email"`
	CreatedAt  time.Time `json:"created_at"`
}

// View returns the client-facing projection of the account.
func (a *Account) View() AccountView {
	return AccountView{
		ID:         a.ID,
		ScreenName: a.ScreenName,
		Email:      a.Email,
		CreatedAt:  a.CreatedAt,
	}
}
