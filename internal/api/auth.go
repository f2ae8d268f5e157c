package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/rewear/internal/apperr"
	"github.com/erazemk/rewear/internal/market"
	"github.com/erazemk/rewear/internal/model"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	Market *market.Service
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token string        `json:"token"`
	User  model.Profile `json:"user"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.Market.Register(r.Context(), req.Email, req.Username, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user registered", "user", sess.User.Username, "id", sess.User.ID)
	jsonResponse(w, http.StatusOK, sessionResponse{Token: sess.Token, User: sess.User.Profile()})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess, err := h.Market.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperr.ErrUnauthorized) {
			slog.Warn("login failed", "email", req.Email, "remote", r.RemoteAddr)
		}
		writeError(w, r, err)
		return
	}

	slog.Info("user logged in", "user", sess.User.Username)
	jsonResponse(w, http.StatusOK, sessionResponse{Token: sess.Token, User: sess.User.Profile()})
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := GetUser(r.Context())
	if user == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	jsonResponse(w, http.StatusOK, user.Profile())
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := h.Market.Logout(r.Context(), claims); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user logged out", "user", claims.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "logged out"})
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := GetUser(r.Context())
	if user == nil {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.CurrentPassword == "" || req.NewPassword == "" {
		jsonError(w, http.StatusBadRequest, "current and new password required")
		return
	}

	if err := h.Market.ChangePassword(r.Context(), user, req.CurrentPassword, req.NewPassword); err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user changed own password", "user", user.Username)
	jsonResponse(w, http.StatusOK, map[string]string{"message": "password updated"})
}
