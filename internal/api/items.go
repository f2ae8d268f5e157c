package api

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/erazemk/rewear/internal/market"
)

// ItemsHandler handles listing endpoints.
type ItemsHandler struct {
	Market         *market.Service
	MaxUploadBytes int64
}

type createItemRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Size        string   `json:"size"`
	Condition   string   `json:"condition"`
	Tags        []string `json:"tags"`
	PricePoints *int     `json:"price_points"`
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	skip, err := queryInt(r, "skip")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid skip")
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	items, err := h.Market.ListAvailable(r.Context(), skip, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Market.GetItem(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Create handles POST /api/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := GetUser(r.Context())

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.Market.CreateItem(r.Context(), user.ID, market.ItemInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Size:        req.Size,
		Condition:   req.Condition,
		Tags:        req.Tags,
		PricePoints: req.PricePoints,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("item created", "item", item.ID, "owner", user.Username, "price_points", item.PricePoints)
	jsonResponse(w, http.StatusOK, item)
}

// UploadImage handles POST /api/items/{id}/upload-image.
func (h *ItemsHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	user := GetUser(r.Context())
	id := r.PathValue("id")

	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)

	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			jsonError(w, http.StatusRequestEntityTooLarge, "file too large")
			return
		}
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "file required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to read file")
		return
	}

	url, err := h.Market.AttachImage(r.Context(), id, user.ID, market.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("image uploaded", "item", id, "user", user.Username, "url", url, "bytes", len(data))
	jsonResponse(w, http.StatusOK, map[string]string{"image_url": url})
}

// ListByUser handles GET /api/items/user/{user_id}.
func (h *ItemsHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	items, err := h.Market.ListByOwner(r.Context(), r.PathValue("user_id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// Mine handles GET /api/my-items.
func (h *ItemsHandler) Mine(w http.ResponseWriter, r *http.Request) {
	items, err := h.Market.ListByOwner(r.Context(), GetUser(r.Context()).ID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, items)
}

// queryInt parses an optional integer query parameter; absent means zero.
func queryInt(r *http.Request, key string) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
