package model

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestAccount_View(t *testing.T) {
	t.Parallel()

	acc := Account{
		ID:           uuid.New(),
		ScreenName:   "alice",
		Email:        "a@test.com",
		PasswordHash: "$argon2id$...",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
		IsActive:     true,
	}

	view := acc.View()
	if view.ID != acc.ID || view.ScreenName != acc.ScreenName || view.Email != acc.Email {
		t.Error("View should carry id, screen name and email")
	}
	if !view.CreatedAt.Equal(acc.CreatedAt) {
		t.Error("View should carry the creation timestamp")
	}
}

func TestAccount_PasswordHashNeverSerialized(t *testing.T) {
	t.Parallel()

	acc := Account{
		ID:           uuid.New(),
		ScreenName:   "alice",
		Email:        "a@test.com",
		PasswordHash: "supersecret-hash-material",
	}

	data, err := json.Marshal(acc)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if strings.Contains(string(data), "supersecret") {
		t.Errorf("serialized account leaks the password hash: %s", data)
	}

	viewData, err := json.Marshal(acc.View())
	if err != nil {
		t.Fatalf("Marshal view failed: %v", err)
	}
	if strings.Contains(string(viewData), "supersecret") {
		t.Errorf("serialized view leaks the password hash: %s", viewData)
	}
}
