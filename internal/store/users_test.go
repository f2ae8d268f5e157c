package store

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/rewear/internal/apperr"
	"github.com/erazemk/rewear/internal/db"
	"github.com/erazemk/rewear/internal/model"
)

func TestCreateAndGetUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "alice@example.com", "alice", "hash123", false)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.ID == "" {
		t.Error("expected generated ID")
	}
	if user.Points != model.StartingPoints {
		t.Errorf("expected %d points, got %d", model.StartingPoints, user.Points)
	}
	if user.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	got, err := GetUser(ctx, database, user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Email != "alice@example.com" || got.PasswordHash != "hash123" {
		t.Errorf("unexpected user: %+v", got)
	}
}

func TestGetUserByEmailAndUsername(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mustUser(t, database, "alice")

	byEmail, err := GetUserByEmail(ctx, database, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail == nil || byEmail.Username != "alice" {
		t.Fatalf("expected alice by email, got %+v", byEmail)
	}

	byName, err := GetUserByUsername(ctx, database, "alice")
	if err != nil {
		t.Fatalf("GetUserByUsername: %v", err)
	}
	if byName == nil || byName.ID != byEmail.ID {
		t.Fatalf("expected alice by username, got %+v", byName)
	}

	// Lookups are case-sensitive.
	missing, err := GetUserByEmail(ctx, database, "ALICE@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for differently cased email")
	}

	missing, err = GetUser(ctx, database, "nope")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing user")
	}
}

func TestCreateUserDuplicate(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	mustUser(t, database, "alice")

	tests := []struct {
		name     string
		email    string
		username string
	}{
		{"same email", "alice@example.com", "other"},
		{"same username", "other@example.com", "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CreateUser(ctx, database, tt.email, tt.username, "hash", false)
			if !errors.Is(err, apperr.ErrConflict) {
				t.Errorf("expected conflict, got %v", err)
			}
		})
	}
}

func TestUpdateUserPassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	alice := mustUser(t, database, "alice")

	if err := UpdateUserPassword(ctx, database, alice.ID, "newhash"); err != nil {
		t.Fatalf("UpdateUserPassword: %v", err)
	}
	got, _ := GetUser(ctx, database, alice.ID)
	if got.PasswordHash != "newhash" {
		t.Errorf("expected updated hash, got %q", got.PasswordHash)
	}

	if err := UpdateUserPassword(ctx, database, "nope", "x"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
}
