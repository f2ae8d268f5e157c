package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/erazemk/rewear/internal/apperr"
	"github.com/erazemk/rewear/internal/model"
)

// AcceptSwap settles a pending swap owned by ownerID.
//
// Every effect runs in one transaction and every write is conditional on
// the state it expects, so two concurrent accepts of the same swap (or of
// two swaps sharing an item) commit at most once. Any failed condition
// rolls the whole settlement back and leaves the swap pending.
func AcceptSwap(ctx context.Context, db *sql.DB, swapID, ownerID string) (*model.SwapRequest, error) {
	swap, err := GetSwap(ctx, db, swapID)
	if err != nil {
		return nil, err
	}
	if swap == nil || swap.OwnerID != ownerID {
		return nil, apperr.NotFound("swap request not found")
	}
	if swap.Status != model.SwapStatusPending {
		return nil, apperr.InvalidState("swap request is not pending")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning settlement: %w", err)
	}
	defer tx.Rollback()

	n, err := rowsAffected(tx.ExecContext(ctx,
		`UPDATE swap_requests SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND owner_id = ? AND status = ?`,
		model.SwapStatusAccepted, swapID, ownerID, model.SwapStatusPending,
	))
	if err != nil {
		return nil, fmt.Errorf("claiming swap request: %w", err)
	}
	if n == 0 {
		return nil, apperr.InvalidState("swap request is not pending")
	}

	if swap.IsPointsRequest {
		if err := transferPoints(ctx, tx, swap); err != nil {
			return nil, err
		}
	}

	if err := retireItem(ctx, tx, swap.ItemID, "requested item is no longer available"); err != nil {
		return nil, err
	}
	if swap.OfferedItemID != nil {
		if err := retireItem(ctx, tx, *swap.OfferedItemID, "offered item is no longer available"); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing settlement: %w", err)
	}

	return GetSwap(ctx, db, swapID)
}

// transferPoints moves the item's current price from the requester to the
// owner and records the transfer.
func transferPoints(ctx context.Context, tx *sql.Tx, swap *model.SwapRequest) error {
	var price int
	err := tx.QueryRowContext(ctx,
		`SELECT price_points FROM items WHERE id = ?`, swap.ItemID,
	).Scan(&price)
	if err == sql.ErrNoRows {
		return apperr.NotFound("requested item not found")
	}
	if err != nil {
		return fmt.Errorf("reading item price: %w", err)
	}

	n, err := rowsAffected(tx.ExecContext(ctx,
		`UPDATE users SET points = points - ? WHERE id = ? AND points >= ?`,
		price, swap.RequesterID, price,
	))
	if err != nil {
		return fmt.Errorf("debiting requester: %w", err)
	}
	if n == 0 {
		return apperr.InsufficientFunds("requester no longer has enough points")
	}

	n, err = rowsAffected(tx.ExecContext(ctx,
		`UPDATE users SET points = points + ? WHERE id = ?`,
		price, swap.OwnerID,
	))
	if err != nil {
		return fmt.Errorf("crediting owner: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("item owner not found")
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO point_transfers (swap_id, from_user_id, to_user_id, amount) VALUES (?, ?, ?, ?)`,
		swap.ID, swap.RequesterID, swap.OwnerID, price,
	)
	if isUniqueViolation(err) {
		return apperr.InvalidState("swap already settled")
	}
	if err != nil {
		return fmt.Errorf("recording point transfer: %w", err)
	}
	return nil
}

// retireItem marks an available item unavailable.
func retireItem(ctx context.Context, tx *sql.Tx, itemID, unavailableMsg string) error {
	n, err := rowsAffected(tx.ExecContext(ctx,
		`UPDATE items SET available = 0 WHERE id = ? AND available = 1`, itemID,
	))
	if err != nil {
		return fmt.Errorf("retiring item: %w", err)
	}
	if n == 0 {
		return apperr.InvalidState(unavailableMsg)
	}
	return nil
}

// RejectSwap cancels a pending swap owned by ownerID. Balances and item
// availability are untouched.
func RejectSwap(ctx context.Context, db *sql.DB, swapID, ownerID string) (*model.SwapRequest, error) {
	swap, err := GetSwap(ctx, db, swapID)
	if err != nil {
		return nil, err
	}
	if swap == nil || swap.OwnerID != ownerID {
		return nil, apperr.NotFound("swap request not found")
	}

	n, err := rowsAffected(db.ExecContext(ctx,
		`UPDATE swap_requests SET status = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE id = ? AND owner_id = ? AND status = ?`,
		model.SwapStatusCancelled, swapID, ownerID, model.SwapStatusPending,
	))
	if err != nil {
		return nil, fmt.Errorf("rejecting swap request: %w", err)
	}
	if n == 0 {
		return nil, apperr.InvalidState("swap request is not pending")
	}

	return GetSwap(ctx, db, swapID)
}
