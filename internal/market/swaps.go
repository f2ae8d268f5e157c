package market

import (
	"context"
	"strings"

	"github.com/erazemk/rewear/internal/apperr"
	"github.com/erazemk/rewear/internal/model"
	"github.com/erazemk/rewear/internal/store"
)

// SwapInput holds the attributes of a swap request. Exactly one of
// IsPointsRequest and OfferedItemID must be set.
type SwapInput struct {
	ItemID          string
	OfferedItemID   *string
	IsPointsRequest bool
	Message         string
}

// FileSwap records a pending request by requesterID for another user's item.
// The balance check for points requests is advisory; AcceptSwap repeats it.
func (s *Service) FileSwap(ctx context.Context, requesterID string, in SwapInput) (*model.SwapRequest, error) {
	if in.OfferedItemID != nil && *in.OfferedItemID == "" {
		in.OfferedItemID = nil
	}
	switch {
	case in.IsPointsRequest && in.OfferedItemID != nil:
		return nil, apperr.InvalidInput("a points request cannot offer an item")
	case !in.IsPointsRequest && in.OfferedItemID == nil:
		return nil, apperr.InvalidInput("offer an item or request with points")
	}

	item, err := store.GetItem(ctx, s.DB, in.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil || !item.Available {
		return nil, apperr.NotFound("item not available")
	}
	if item.OwnerID == requesterID {
		return nil, apperr.InvalidInput("cannot request your own item")
	}

	if in.IsPointsRequest {
		requester, err := store.GetUser(ctx, s.DB, requesterID)
		if err != nil {
			return nil, err
		}
		if requester == nil {
			return nil, apperr.Unauthorized("user not found")
		}
		if requester.Points < item.PricePoints {
			return nil, apperr.InsufficientFunds("insufficient points")
		}
	}

	if in.OfferedItemID != nil {
		offered, err := store.GetItem(ctx, s.DB, *in.OfferedItemID)
		if err != nil {
			return nil, err
		}
		if offered == nil || offered.OwnerID != requesterID || !offered.Available {
			return nil, apperr.NotFound("offered item not found or not available")
		}
	}

	return store.CreateSwap(ctx, s.DB, store.NewSwap{
		RequesterID:     requesterID,
		ItemID:          item.ID,
		OwnerID:         item.OwnerID,
		OfferedItemID:   in.OfferedItemID,
		IsPointsRequest: in.IsPointsRequest,
		Message:         strings.TrimSpace(in.Message),
	})
}

// ReceivedSwaps lists requests for ownerID's items, newest first.
func (s *Service) ReceivedSwaps(ctx context.Context, ownerID string) ([]model.SwapRequest, error) {
	return store.ListSwapsByOwner(ctx, s.DB, ownerID)
}

// SentSwaps lists requests filed by requesterID, newest first.
func (s *Service) SentSwaps(ctx context.Context, requesterID string) ([]model.SwapRequest, error) {
	return store.ListSwapsByRequester(ctx, s.DB, requesterID)
}

// AcceptSwap settles a pending swap on behalf of its owner.
func (s *Service) AcceptSwap(ctx context.Context, swapID, ownerID string) (*model.SwapRequest, error) {
	return store.AcceptSwap(ctx, s.DB, swapID, ownerID)
}

// RejectSwap cancels a pending swap on behalf of its owner.
func (s *Service) RejectSwap(ctx context.Context, swapID, ownerID string) (*model.SwapRequest, error) {
	return store.RejectSwap(ctx, s.DB, swapID, ownerID)
}

// PointHistory lists the point transfers userID took part in.
func (s *Service) PointHistory(ctx context.Context, userID string) ([]model.PointTransfer, error) {
	return store.ListPointTransfers(ctx, s.DB, userID)
}
