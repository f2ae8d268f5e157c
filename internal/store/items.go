package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/erazemk/rewear/internal/apperr"
	"github.com/erazemk/rewear/internal/model"
)

// NewItem holds the owner-supplied attributes of a listing.
type NewItem struct {
	Title       string
	Description string
	Category    string
	Size        string
	Condition   string
	Tags        []string
	PricePoints int
}

// unknown is model.UnknownLabel as an SQL string literal.
const unknown = `'` + model.UnknownLabel + `'`

// itemSelect joins the owner's username; a missing owner reads as unknown.
const itemSelect = `SELECT i.id, i.title, i.description, i.category, i.size, i.condition, i.tags,
        i.owner_id, i.price_points, i.available, i.is_approved, i.created_at,
        COALESCE(u.username, ` + unknown + `) AS owner_username
 FROM items i
 LEFT JOIN users u ON u.id = i.owner_id`

// CreateItem creates a listing. New listings are available and auto-approved.
func CreateItem(ctx context.Context, db *sql.DB, ownerID string, in NewItem) (*model.Item, error) {
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return nil, fmt.Errorf("encoding tags: %w", err)
	}

	id := uuid.NewString()
	_, err = db.ExecContext(ctx,
		`INSERT INTO items (id, title, description, category, size, condition, tags, owner_id, price_points, available, is_approved)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, 1)`,
		id, in.Title, in.Description, in.Category, in.Size, in.Condition, string(tagsJSON), ownerID, in.PricePoints,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID with its images, or nil if there is none.
func GetItem(ctx context.Context, db *sql.DB, id string) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx, itemSelect+` WHERE i.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}

	items := []model.Item{*item}
	if err := loadImages(ctx, db, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// ListAvailableItems returns available, approved items in creation order.
func ListAvailableItems(ctx context.Context, db *sql.DB, skip, limit int) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		itemSelect+` WHERE i.available = 1 AND i.is_approved = 1
		 ORDER BY i.rowid LIMIT ? OFFSET ?`, limit, skip,
	)
	if err != nil {
		return nil, fmt.Errorf("listing available items: %w", err)
	}
	defer rows.Close()

	return collectItems(ctx, db, rows)
}

// ListItemsByOwner returns an owner's items regardless of availability.
func ListItemsByOwner(ctx context.Context, db *sql.DB, ownerID string, limit int) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		itemSelect+` WHERE i.owner_id = ? ORDER BY i.rowid LIMIT ?`, ownerID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing owner items: %w", err)
	}
	defer rows.Close()

	return collectItems(ctx, db, rows)
}

// AddItemImage appends an image URL to an item owned by ownerID. The
// ownership check and the insert are a single statement.
func AddItemImage(ctx context.Context, db *sql.DB, itemID, ownerID, url string) error {
	n, err := rowsAffected(db.ExecContext(ctx,
		`INSERT INTO item_images (item_id, url)
		 SELECT id, ? FROM items WHERE id = ? AND owner_id = ?`,
		url, itemID, ownerID,
	))
	if err != nil {
		return fmt.Errorf("adding item image: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("item not found or not owned by user")
	}
	return nil
}

func collectItems(ctx context.Context, db *sql.DB, rows *sql.Rows) ([]model.Item, error) {
	items := []model.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := loadImages(ctx, db, items); err != nil {
		return nil, err
	}
	return items, nil
}

func scanItem(row scanner) (*model.Item, error) {
	item := &model.Item{}
	var tags string
	if err := row.Scan(&item.ID, &item.Title, &item.Description, &item.Category, &item.Size, &item.Condition, &tags,
		&item.OwnerID, &item.PricePoints, &item.Available, &item.IsApproved, &item.CreatedAt,
		&item.OwnerUsername); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &item.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags of item %s: %w", item.ID, err)
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	return item, nil
}

// loadImages fills Images for every item, in upload order.
func loadImages(ctx context.Context, db *sql.DB, items []model.Item) error {
	if len(items) == 0 {
		return nil
	}

	index := make(map[string]int, len(items))
	args := make([]any, len(items))
	for i := range items {
		items[i].Images = []string{}
		index[items[i].ID] = i
		args[i] = items[i].ID
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(items)), ",")
	rows, err := db.QueryContext(ctx,
		`SELECT item_id, url FROM item_images WHERE item_id IN (`+placeholders+`) ORDER BY id`, args...,
	)
	if err != nil {
		return fmt.Errorf("loading item images: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var itemID, url string
		if err := rows.Scan(&itemID, &url); err != nil {
			return fmt.Errorf("scanning item image: %w", err)
		}
		i := index[itemID]
		items[i].Images = append(items[i].Images, url)
	}
	return rows.Err()
}
