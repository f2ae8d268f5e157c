package api

import (
	"net/http"

	"github.com/erazemk/rewear/internal/market"
	"github.com/erazemk/rewear/internal/model"
)

// PointsHandler handles point balance endpoints.
type PointsHandler struct {
	Market *market.Service
}

type historyResponse struct {
	Balance   int                   `json:"balance"`
	Transfers []model.PointTransfer `json:"transfers"`
}

// History handles GET /api/points/history.
func (h *PointsHandler) History(w http.ResponseWriter, r *http.Request) {
	user := GetUser(r.Context())

	transfers, err := h.Market.PointHistory(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, historyResponse{Balance: user.Points, Transfers: transfers})
}
