package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/erazemk/rewear/internal/model"
)

// NewSwap holds the attributes of a swap request being filed.
type NewSwap struct {
	RequesterID     string
	ItemID          string
	OwnerID         string
	OfferedItemID   *string
	IsPointsRequest bool
	Message         string
}

// swapSelect joins the titles and usernames shown in swap listings.
// References that no longer resolve read as unknown.
const swapSelect = `SELECT s.id, s.requester_id, s.item_id, s.owner_id, s.offered_item_id,
        s.is_points_request, s.status, s.message, s.created_at, s.updated_at,
        COALESCE(i.title, ` + unknown + `),
        COALESCE(r.username, ` + unknown + `),
        COALESCE(o.username, ` + unknown + `),
        CASE WHEN s.offered_item_id IS NULL THEN NULL ELSE COALESCE(oi.title, ` + unknown + `) END
 FROM swap_requests s
 LEFT JOIN items i  ON i.id = s.item_id
 LEFT JOIN users r  ON r.id = s.requester_id
 LEFT JOIN users o  ON o.id = s.owner_id
 LEFT JOIN items oi ON oi.id = s.offered_item_id`

// CreateSwap persists a pending swap request.
func CreateSwap(ctx context.Context, db *sql.DB, in NewSwap) (*model.SwapRequest, error) {
	id := uuid.NewString()

	var offered, message sql.NullString
	if in.OfferedItemID != nil {
		offered = sql.NullString{String: *in.OfferedItemID, Valid: true}
	}
	if in.Message != "" {
		message = sql.NullString{String: in.Message, Valid: true}
	}

	_, err := db.ExecContext(ctx,
		`INSERT INTO swap_requests (id, requester_id, item_id, owner_id, offered_item_id, is_points_request, status, message)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		id, in.RequesterID, in.ItemID, in.OwnerID, offered, in.IsPointsRequest, model.SwapStatusPending, message,
	)
	if err != nil {
		return nil, fmt.Errorf("creating swap request: %w", err)
	}

	return GetSwap(ctx, db, id)
}

// GetSwap returns a swap request by ID, or nil if there is none.
func GetSwap(ctx context.Context, db *sql.DB, id string) (*model.SwapRequest, error) {
	s, err := scanSwap(db.QueryRowContext(ctx, swapSelect+` WHERE s.id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting swap request: %w", err)
	}
	return s, nil
}

// ListSwapsByOwner returns requests received by ownerID, newest first.
func ListSwapsByOwner(ctx context.Context, db *sql.DB, ownerID string) ([]model.SwapRequest, error) {
	return listSwaps(ctx, db, "s.owner_id", ownerID)
}

// ListSwapsByRequester returns requests sent by requesterID, newest first.
func ListSwapsByRequester(ctx context.Context, db *sql.DB, requesterID string) ([]model.SwapRequest, error) {
	return listSwaps(ctx, db, "s.requester_id", requesterID)
}

func listSwaps(ctx context.Context, db *sql.DB, column, value string) ([]model.SwapRequest, error) {
	rows, err := db.QueryContext(ctx,
		swapSelect+` WHERE `+column+` = ? ORDER BY s.created_at DESC, s.rowid DESC`, value,
	)
	if err != nil {
		return nil, fmt.Errorf("listing swap requests: %w", err)
	}
	defer rows.Close()

	swaps := []model.SwapRequest{}
	for rows.Next() {
		s, err := scanSwap(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning swap request: %w", err)
		}
		swaps = append(swaps, *s)
	}
	return swaps, rows.Err()
}

func scanSwap(row scanner) (*model.SwapRequest, error) {
	s := &model.SwapRequest{}
	var offered, message, offeredTitle sql.NullString
	if err := row.Scan(&s.ID, &s.RequesterID, &s.ItemID, &s.OwnerID, &offered,
		&s.IsPointsRequest, &s.Status, &message, &s.CreatedAt, &s.UpdatedAt,
		&s.ItemTitle, &s.RequesterUsername, &s.OwnerUsername, &offeredTitle); err != nil {
		return nil, err
	}
	if offered.Valid {
		s.OfferedItemID = &offered.String
	}
	if offeredTitle.Valid {
		s.OfferedItemTitle = &offeredTitle.String
	}
	s.Message = message.String
	return s, nil
}
