package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/erazemk/rewear/internal/model"
)

func mustUser(t *testing.T, database *sql.DB, name string) *model.User {
	t.Helper()
	u, err := CreateUser(context.Background(), database, name+"@example.com", name, "hash", false)
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", name, err)
	}
	return u
}

func mustItem(t *testing.T, database *sql.DB, ownerID, title string, price int) *model.Item {
	t.Helper()
	item, err := CreateItem(context.Background(), database, ownerID, NewItem{
		Title:       title,
		Category:    model.CategoryTops,
		Size:        "M",
		Condition:   model.ConditionGood,
		PricePoints: price,
	})
	if err != nil {
		t.Fatalf("CreateItem(%s): %v", title, err)
	}
	return item
}

func mustSwap(t *testing.T, database *sql.DB, in NewSwap) *model.SwapRequest {
	t.Helper()
	s, err := CreateSwap(context.Background(), database, in)
	if err != nil {
		t.Fatalf("CreateSwap: %v", err)
	}
	return s
}

func mustBalance(t *testing.T, database *sql.DB, userID string) int {
	t.Helper()
	u, err := GetUser(context.Background(), database, userID)
	if err != nil || u == nil {
		t.Fatalf("GetUser(%s): %v", userID, err)
	}
	return u.Points
}

