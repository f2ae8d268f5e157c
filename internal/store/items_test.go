package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/erazemk/rewear/internal/apperr"
	"github.com/erazemk/rewear/internal/db"
	"github.com/erazemk/rewear/internal/model"
)

func TestCreateAndGetItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "alice")

	item, err := CreateItem(ctx, database, owner.ID, NewItem{
		Title:       "Denim Jacket",
		Description: "Barely worn",
		Category:    model.CategoryOuterwear,
		Size:        "L",
		Condition:   model.ConditionExcellent,
		Tags:        []string{"denim", "vintage"},
		PricePoints: 70,
	})
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}
	if !item.Available || !item.IsApproved {
		t.Errorf("expected new item available and approved, got %+v", item)
	}
	if item.OwnerUsername != "alice" {
		t.Errorf("expected owner_username 'alice', got %q", item.OwnerUsername)
	}
	if len(item.Tags) != 2 || item.Tags[0] != "denim" || item.Tags[1] != "vintage" {
		t.Errorf("unexpected tags: %v", item.Tags)
	}
	if item.Images == nil || len(item.Images) != 0 {
		t.Errorf("expected empty image list, got %v", item.Images)
	}

	missing, err := GetItem(ctx, database, "nope")
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if missing != nil {
		t.Error("expected nil for missing item")
	}
}

func TestCreateItemNilTags(t *testing.T) {
	database := db.NewTestDB(t)
	owner := mustUser(t, database, "alice")

	item := mustItem(t, database, owner.ID, "Tee", 10)
	if item.Tags == nil || len(item.Tags) != 0 {
		t.Errorf("expected empty tag list, got %v", item.Tags)
	}
}

func TestListAvailableItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	owner := mustUser(t, database, "alice")

	var ids []string
	for i := range 5 {
		ids = append(ids, mustItem(t, database, owner.ID, fmt.Sprintf("Item %d", i), 10).ID)
	}

	// Retire one item and hide another from the listing.
	if _, err := database.Exec(`UPDATE items SET available = 0 WHERE id = ?`, ids[1]); err != nil {
		t.Fatal(err)
	}
	if _, err := database.Exec(`UPDATE items SET is_approved = 0 WHERE id = ?`, ids[3]); err != nil {
		t.Fatal(err)
	}

	items, err := ListAvailableItems(ctx, database, 0, 20)
	if err != nil {
		t.Fatalf("ListAvailableItems: %v", err)
	}
	want := []string{ids[0], ids[2], ids[4]}
	if len(items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(items))
	}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, items[i].ID)
		}
	}

	page, err := ListAvailableItems(ctx, database, 1, 1)
	if err != nil {
		t.Fatalf("ListAvailableItems: %v", err)
	}
	if len(page) != 1 || page[0].ID != ids[2] {
		t.Errorf("expected second available item, got %+v", page)
	}
}

func TestListItemsByOwner(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	alice := mustUser(t, database, "alice")
	bob := mustUser(t, database, "bob")

	a1 := mustItem(t, database, alice.ID, "A1", 10)
	mustItem(t, database, bob.ID, "B1", 10)
	a2 := mustItem(t, database, alice.ID, "A2", 10)

	if _, err := database.Exec(`UPDATE items SET available = 0 WHERE id = ?`, a1.ID); err != nil {
		t.Fatal(err)
	}

	items, err := ListItemsByOwner(ctx, database, alice.ID, 100)
	if err != nil {
		t.Fatalf("ListItemsByOwner: %v", err)
	}
	if len(items) != 2 || items[0].ID != a1.ID || items[1].ID != a2.ID {
		t.Errorf("unexpected owner items: %+v", items)
	}
}

func TestAddItemImage(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	alice := mustUser(t, database, "alice")
	bob := mustUser(t, database, "bob")
	item := mustItem(t, database, alice.ID, "Dress", 30)

	if err := AddItemImage(ctx, database, item.ID, alice.ID, "/uploads/one.png"); err != nil {
		t.Fatalf("AddItemImage: %v", err)
	}
	if err := AddItemImage(ctx, database, item.ID, alice.ID, "/uploads/two.png"); err != nil {
		t.Fatalf("AddItemImage: %v", err)
	}

	err := AddItemImage(ctx, database, item.ID, bob.ID, "/uploads/evil.png")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found for non-owner, got %v", err)
	}
	err = AddItemImage(ctx, database, "nope", alice.ID, "/uploads/x.png")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected not found for missing item, got %v", err)
	}

	got, err := GetItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if len(got.Images) != 2 || got.Images[0] != "/uploads/one.png" || got.Images[1] != "/uploads/two.png" {
		t.Errorf("unexpected images: %v", got.Images)
	}
}

func TestItemOwnerUnknown(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	alice := mustUser(t, database, "alice")
	item := mustItem(t, database, alice.ID, "Orphan", 10)

	// Users are never deleted by the application; simulate a dangling
	// reference directly.
	database.SetMaxOpenConns(1)
	if _, err := database.Exec(`PRAGMA foreign_keys = OFF`); err != nil {
		t.Fatal(err)
	}
	if _, err := database.Exec(`DELETE FROM users WHERE id = ?`, alice.ID); err != nil {
		t.Fatal(err)
	}

	got, err := GetItem(ctx, database, item.ID)
	if err != nil {
		t.Fatalf("GetItem: %v", err)
	}
	if got.OwnerUsername != model.UnknownLabel {
		t.Errorf("expected %q, got %q", model.UnknownLabel, got.OwnerUsername)
	}
}
