package market

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/erazemk/rewear/internal/apperr"
	"github.com/erazemk/rewear/internal/imaging"
	"github.com/erazemk/rewear/internal/model"
	"github.com/erazemk/rewear/internal/store"
)

// Listing page bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// ItemInput holds the attributes of a new listing. A nil PricePoints uses
// model.DefaultPricePoints.
type ItemInput struct {
	Title       string
	Description string
	Category    string
	Size        string
	Condition   string
	Tags        []string
	PricePoints *int
}

// Upload is an image file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// CreateItem lists a new item owned by ownerID.
func (s *Service) CreateItem(ctx context.Context, ownerID string, in ItemInput) (*model.Item, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Size = strings.TrimSpace(in.Size)

	switch {
	case in.Title == "":
		return nil, apperr.InvalidInput("title required")
	case in.Size == "":
		return nil, apperr.InvalidInput("size required")
	case !model.ValidCategory(in.Category):
		return nil, apperr.InvalidInput(fmt.Sprintf("invalid category %q", in.Category))
	case !model.ValidCondition(in.Condition):
		return nil, apperr.InvalidInput(fmt.Sprintf("invalid condition %q", in.Condition))
	}

	price := model.DefaultPricePoints
	if in.PricePoints != nil {
		price = *in.PricePoints
	}
	if price < 0 {
		return nil, apperr.InvalidInput("price_points must not be negative")
	}

	return store.CreateItem(ctx, s.DB, ownerID, store.NewItem{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		Size:        in.Size,
		Condition:   in.Condition,
		Tags:        in.Tags,
		PricePoints: price,
	})
}

// GetItem returns a single item.
func (s *Service) GetItem(ctx context.Context, id string) (*model.Item, error) {
	item, err := store.GetItem(ctx, s.DB, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, apperr.NotFound("item not found")
	}
	return item, nil
}

// ListAvailable pages through available, approved items. A zero limit
// means DefaultPageSize; larger limits are clamped to MaxPageSize.
func (s *Service) ListAvailable(ctx context.Context, skip, limit int) ([]model.Item, error) {
	if skip < 0 || limit < 0 {
		return nil, apperr.InvalidInput("skip and limit must not be negative")
	}
	if limit == 0 {
		limit = DefaultPageSize
	}
	limit = min(limit, MaxPageSize)
	return store.ListAvailableItems(ctx, s.DB, skip, limit)
}

// ListByOwner returns up to MaxPageSize items of ownerID, available or not.
func (s *Service) ListByOwner(ctx context.Context, ownerID string) ([]model.Item, error) {
	return store.ListItemsByOwner(ctx, s.DB, ownerID, MaxPageSize)
}

// AttachImage stores an uploaded image and appends its URL to the item.
func (s *Service) AttachImage(ctx context.Context, itemID, ownerID string, up Upload) (string, error) {
	item, err := store.GetItem(ctx, s.DB, itemID)
	if err != nil {
		return "", err
	}
	if item == nil || item.OwnerID != ownerID {
		return "", apperr.NotFound("item not found or not owned by user")
	}

	if !imaging.IsImageMIME(up.ContentType) {
		return "", apperr.InvalidInput("file must be an image")
	}
	info, err := imaging.Inspect(up.Data)
	if err != nil {
		return "", apperr.InvalidInput("file is not a valid image")
	}

	name := blobName(itemID, up.Filename, info.Format)
	url, err := s.Blobs.Put(ctx, name, up.Data, info.MIME)
	if err != nil {
		return "", fmt.Errorf("storing image: %w", err)
	}

	if err := store.AddItemImage(ctx, s.DB, itemID, ownerID, url); err != nil {
		if derr := s.Blobs.Delete(context.WithoutCancel(ctx), name); derr != nil {
			slog.Warn("orphaned image upload", "item", itemID, "url", url, "error", derr)
		}
		return "", err
	}
	return url, nil
}

// blobName builds {item_id}_{random}.{ext}, taking the extension from the
// client file name and falling back to the decoded format.
func blobName(itemID, filename, format string) string {
	ext := strings.TrimPrefix(path.Ext(path.Base(strings.ReplaceAll(filename, `\`, "/"))), ".")
	if ext == "" || strings.ContainsAny(ext, " /") {
		ext = format
	}
	return fmt.Sprintf("%s_%s.%s", itemID, uuid.NewString(), strings.ToLower(ext))
}
