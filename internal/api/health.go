package api

import (
	"database/sql"
	"net/http"
)

// HealthHandler reports liveness.
type HealthHandler struct {
	DB *sql.DB
}

// Root handles GET / and GET /api/.
func (h *HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, http.StatusOK, map[string]string{"message": "ReWear API"})
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.DB.PingContext(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
