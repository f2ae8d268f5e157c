package model

import "time"

// SwapRequest is a request to obtain another user's item, either for points
// or in exchange for one of the requester's own items.
//
// OwnerID is a snapshot of the item's owner taken when the request was filed.
// It is not kept in sync with the item afterwards.
type SwapRequest struct {
	ID              string    `json:"id"`
	RequesterID     string    `json:"requester_id"`
	ItemID          string    `json:"item_id"`
	OwnerID         string    `json:"owner_id"`
	OfferedItemID   *string   `json:"offered_item_id"`
	IsPointsRequest bool      `json:"is_points_request"`
	Status          string    `json:"status"`
	Message         string    `json:"message,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Joined fields (not always populated).
	ItemTitle         string  `json:"item_title,omitempty"`
	RequesterUsername string  `json:"requester_username,omitempty"`
	OwnerUsername     string  `json:"owner_username,omitempty"`
	OfferedItemTitle  *string `json:"offered_item_title,omitempty"`
}

// Swap statuses. SwapStatusCompleted exists in the schema but no transition
// assigns it.
const (
	SwapStatusPending   = "pending"
	SwapStatusAccepted  = "accepted"
	SwapStatusCompleted = "completed"
	SwapStatusCancelled = "cancelled"
)

// PointTransfer records points moved by an accepted points swap.
type PointTransfer struct {
	ID         int64     `json:"id"`
	SwapID     string    `json:"swap_id"`
	FromUserID string    `json:"from_user_id"`
	ToUserID   string    `json:"to_user_id"`
	Amount     int       `json:"amount"`
	CreatedAt  time.Time `json:"created_at"`

	// Joined fields (not always populated).
	ItemTitle    string `json:"item_title,omitempty"`
	FromUsername string `json:"from_username,omitempty"`
	ToUsername   string `json:"to_username,omitempty"`
}
