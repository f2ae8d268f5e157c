package market

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/erazemk/rewear/internal/blob"
	"github.com/erazemk/rewear/internal/db"
	"github.com/erazemk/rewear/internal/model"
	"github.com/erazemk/rewear/internal/store"
)

func newTestService(t *testing.T) (*Service, string) {
	t.Helper()

	database := db.NewTestDB(t)
	dir := t.TempDir()
	blobs, err := blob.NewLocalStore(dir)
	require.NoError(t, err)

	return &Service{
		DB:          database,
		Blobs:       blobs,
		Revocations: store.RevocationList{DB: database},
		JWTSecret:   "test-secret",
		BcryptCost:  4,
	}, dir
}

func register(t *testing.T, s *Service, name string) *model.User {
	t.Helper()
	sess, err := s.Register(context.Background(), name+"@example.com", name, "password123")
	require.NoError(t, err)
	return sess.User
}

func listItem(t *testing.T, s *Service, ownerID, title string, price int) *model.Item {
	t.Helper()
	item, err := s.CreateItem(context.Background(), ownerID, ItemInput{
		Title:       title,
		Category:    model.CategoryTops,
		Size:        "M",
		Condition:   model.ConditionGood,
		PricePoints: &price,
	})
	require.NoError(t, err)
	return item
}

func balance(t *testing.T, s *Service, userID string) int {
	t.Helper()
	u, err := store.GetUser(context.Background(), s.DB, userID)
	require.NoError(t, err)
	require.NotNil(t, u)
	return u.Points
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}
