package market

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/rewear/internal/apperr"
	"github.com/erazemk/rewear/internal/blob"
	"github.com/erazemk/rewear/internal/model"
)

func TestCreateItemRoundTrip(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := register(t, s, "alice")

	price := 35
	created, err := s.CreateItem(ctx, alice.ID, ItemInput{
		Title:       "Wool Coat",
		Category:    model.CategoryOuterwear,
		Size:        "S",
		Condition:   model.ConditionFair,
		Tags:        []string{"wool"},
		PricePoints: &price,
	})
	require.NoError(t, err)

	got, err := s.GetItem(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CategoryOuterwear, got.Category)
	assert.Equal(t, model.ConditionFair, got.Condition)
	assert.Equal(t, 35, got.PricePoints)
	assert.True(t, got.Available)
	assert.True(t, got.IsApproved)
	assert.Equal(t, "alice", got.OwnerUsername)
	assert.Equal(t, []string{"wool"}, got.Tags)
}

func TestCreateItemDefaultPrice(t *testing.T) {
	s, _ := newTestService(t)
	alice := register(t, s, "alice")

	item, err := s.CreateItem(context.Background(), alice.ID, ItemInput{
		Title: "Tee", Category: model.CategoryTops, Size: "M", Condition: model.ConditionGood,
	})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultPricePoints, item.PricePoints)
}

func TestCreateItemValidation(t *testing.T) {
	s, _ := newTestService(t)
	alice := register(t, s, "alice")
	negative := -1

	valid := ItemInput{Title: "Tee", Category: model.CategoryTops, Size: "M", Condition: model.ConditionGood}
	tests := []struct {
		name   string
		modify func(*ItemInput)
	}{
		{"empty title", func(in *ItemInput) { in.Title = " " }},
		{"empty size", func(in *ItemInput) { in.Size = "" }},
		{"bad category", func(in *ItemInput) { in.Category = "hats" }},
		{"bad condition", func(in *ItemInput) { in.Condition = "new" }},
		{"negative price", func(in *ItemInput) { in.PricePoints = &negative }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.modify(&in)
			_, err := s.CreateItem(context.Background(), alice.ID, in)
			assert.ErrorIs(t, err, apperr.ErrInvalidInput)
		})
	}
}

func TestGetItemNotFound(t *testing.T) {
	s, _ := newTestService(t)
	_, err := s.GetItem(context.Background(), "missing")
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestListAvailablePaging(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	alice := register(t, s, "alice")
	for i := range 25 {
		listItem(t, s, alice.ID, fmt.Sprintf("Item %02d", i), 10)
	}

	page, err := s.ListAvailable(ctx, 0, 0)
	require.NoError(t, err)
	assert.Len(t, page, DefaultPageSize)
	assert.Equal(t, "Item 00", page[0].Title)

	page, err = s.ListAvailable(ctx, 20, 0)
	require.NoError(t, err)
	assert.Len(t, page, 5)
	assert.Equal(t, "Item 20", page[0].Title)

	page, err = s.ListAvailable(ctx, 0, 1000)
	require.NoError(t, err)
	assert.Len(t, page, 25)

	_, err = s.ListAvailable(ctx, -1, 10)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = s.ListAvailable(ctx, 0, -5)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

func TestAttachImage(t *testing.T) {
	s, dir := newTestService(t)
	ctx := context.Background()
	alice := register(t, s, "alice")
	bob := register(t, s, "bob")
	item := listItem(t, s, alice.ID, "Dress", 30)

	url, err := s.AttachImage(ctx, item.ID, alice.ID, Upload{
		Filename: "photo.PNG", ContentType: "image/png", Data: pngBytes(t),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/"+item.ID+"_"), url)
	assert.True(t, strings.HasSuffix(url, ".png"), url)

	_, err = os.Stat(filepath.Join(dir, strings.TrimPrefix(url, "/uploads/")))
	assert.NoError(t, err)

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{url}, got.Images)

	_, err = s.AttachImage(ctx, item.ID, bob.ID, Upload{Filename: "x.png", ContentType: "image/png", Data: pngBytes(t)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = s.AttachImage(ctx, "missing", alice.ID, Upload{Filename: "x.png", ContentType: "image/png", Data: pngBytes(t)})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	_, err = s.AttachImage(ctx, item.ID, alice.ID, Upload{Filename: "notes.txt", ContentType: "text/plain", Data: []byte("hello")})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = s.AttachImage(ctx, item.ID, alice.ID, Upload{Filename: "fake.png", ContentType: "image/png", Data: []byte("not really a png")})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}

// handoffStore runs onPut after each successful Put.
type handoffStore struct {
	blob.Store
	onPut func()
}

func (h handoffStore) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	url, err := h.Store.Put(ctx, name, data, contentType)
	if err == nil {
		h.onPut()
	}
	return url, err
}

func TestAttachImageRemovesBlobWhenRecordFails(t *testing.T) {
	s, dir := newTestService(t)
	ctx := context.Background()
	alice := register(t, s, "alice")
	bob := register(t, s, "bob")
	item := listItem(t, s, alice.ID, "Dress", 30)

	s.Blobs = handoffStore{Store: s.Blobs, onPut: func() {
		_, err := s.DB.Exec(`UPDATE items SET owner_id = ? WHERE id = ?`, bob.ID, item.ID)
		require.NoError(t, err)
	}}

	_, err := s.AttachImage(ctx, item.ID, alice.ID, Upload{
		Filename: "photo.png", ContentType: "image/png", Data: pngBytes(t),
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "unrecorded blob should be removed")

	got, err := s.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Images)
}

func TestBlobName(t *testing.T) {
	tests := []struct {
		filename string
		format   string
		wantExt  string
	}{
		{"photo.jpg", "jpeg", ".jpg"},
		{"photo.JPEG", "jpeg", ".jpeg"},
		{"noext", "png", ".png"},
		{`C:\Users\me\pic.gif`, "gif", ".gif"},
		{"../../etc/passwd.webp", "webp", ".webp"},
	}

	for _, tt := range tests {
		name := blobName("item1", tt.filename, tt.format)
		if !strings.HasPrefix(name, "item1_") || !strings.HasSuffix(name, tt.wantExt) {
			t.Errorf("blobName(%q) = %q, want item1_*%s", tt.filename, name, tt.wantExt)
		}
		if strings.ContainsAny(name, `/\`) {
			t.Errorf("blobName(%q) = %q contains a path separator", tt.filename, name)
		}
	}
}
