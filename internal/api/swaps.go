package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/rewear/internal/market"
	"github.com/erazemk/rewear/internal/model"
)

// SwapsHandler handles swap request endpoints.
type SwapsHandler struct {
	Market *market.Service
}

type createSwapRequest struct {
	ItemID          string  `json:"item_id"`
	OfferedItemID   *string `json:"offered_item_id"`
	IsPointsRequest bool    `json:"is_points_request"`
	Message         string  `json:"message"`
}

type settlementResponse struct {
	Message string             `json:"message"`
	Swap    *model.SwapRequest `json:"swap"`
}

// Create handles POST /api/swaps.
func (h *SwapsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUser(r.Context())

	var req createSwapRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ItemID == "" {
		jsonError(w, http.StatusBadRequest, "item_id required")
		return
	}

	swap, err := h.Market.FileSwap(r.Context(), user.ID, market.SwapInput{
		ItemID:          req.ItemID,
		OfferedItemID:   req.OfferedItemID,
		IsPointsRequest: req.IsPointsRequest,
		Message:         req.Message,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("swap filed", "swap", swap.ID, "item", swap.ItemID, "requester", user.Username, "points", swap.IsPointsRequest)
	jsonResponse(w, http.StatusOK, swap)
}

// Received handles GET /api/swaps/received.
func (h *SwapsHandler) Received(w http.ResponseWriter, r *http.Request) {
	swaps, err := h.Market.ReceivedSwaps(r.Context(), GetUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, swaps)
}

// Sent handles GET /api/swaps/sent.
func (h *SwapsHandler) Sent(w http.ResponseWriter, r *http.Request) {
	swaps, err := h.Market.SentSwaps(r.Context(), GetUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, swaps)
}

// Accept handles PUT /api/swaps/{id}/accept.
func (h *SwapsHandler) Accept(w http.ResponseWriter, r *http.Request) {
	user := GetUser(r.Context())

	swap, err := h.Market.AcceptSwap(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("swap accepted", "swap", swap.ID, "item", swap.ItemID, "owner", user.Username, "points", swap.IsPointsRequest)
	jsonResponse(w, http.StatusOK, settlementResponse{Message: "Swap accepted successfully", Swap: swap})
}

// Reject handles PUT /api/swaps/{id}/reject.
func (h *SwapsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	user := GetUser(r.Context())

	swap, err := h.Market.RejectSwap(r.Context(), r.PathValue("id"), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("swap rejected", "swap", swap.ID, "owner", user.Username)
	jsonResponse(w, http.StatusOK, settlementResponse{Message: "Swap rejected", Swap: swap})
}
