package api

import (
	"net/http"
	"os"

	"github.com/erazemk/rewear/internal/market"
)

// Options configures the router.
type Options struct {
	// MaxUploadBytes bounds image upload request bodies.
	MaxUploadBytes int64
	// AuthLimiter throttles register and login. Nil disables throttling.
	AuthLimiter *RateLimiter
	// UploadDir, when set, is served under /uploads/.
	UploadDir string
}

// NewRouter creates the HTTP router with all endpoints registered.
func NewRouter(svc *market.Service, opts Options) http.Handler {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 10 << 20
	}

	mux := http.NewServeMux()

	authHandler := &AuthHandler{Market: svc}
	itemsHandler := &ItemsHandler{Market: svc, MaxUploadBytes: opts.MaxUploadBytes}
	swapsHandler := &SwapsHandler{Market: svc}
	pointsHandler := &PointsHandler{Market: svc}
	healthHandler := &HealthHandler{DB: svc.DB}

	authMW := AuthMiddleware(svc)
	throttle := func(h http.Handler) http.Handler { return h }
	if opts.AuthLimiter != nil {
		throttle = opts.AuthLimiter.Middleware
	}

	// Public.
	mux.HandleFunc("GET /{$}", healthHandler.Root)
	mux.HandleFunc("GET /api/{$}", healthHandler.Root)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.Handle("POST /api/auth/register", throttle(http.HandlerFunc(authHandler.Register)))
	mux.Handle("POST /api/auth/login", throttle(http.HandlerFunc(authHandler.Login)))
	mux.HandleFunc("GET /api/items", itemsHandler.List)
	mux.HandleFunc("GET /api/items/{id}", itemsHandler.Get)
	mux.HandleFunc("GET /api/items/user/{user_id}", itemsHandler.ListByUser)

	// Authenticated.
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	mux.Handle("POST /api/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("POST /api/items/{id}/upload-image", authMW(http.HandlerFunc(itemsHandler.UploadImage)))
	mux.Handle("GET /api/my-items", authMW(http.HandlerFunc(itemsHandler.Mine)))

	mux.Handle("POST /api/swaps", authMW(http.HandlerFunc(swapsHandler.Create)))
	mux.Handle("GET /api/swaps/received", authMW(http.HandlerFunc(swapsHandler.Received)))
	mux.Handle("GET /api/swaps/sent", authMW(http.HandlerFunc(swapsHandler.Sent)))
	mux.Handle("PUT /api/swaps/{id}/accept", authMW(http.HandlerFunc(swapsHandler.Accept)))
	mux.Handle("PUT /api/swaps/{id}/reject", authMW(http.HandlerFunc(swapsHandler.Reject)))

	mux.Handle("GET /api/points/history", authMW(http.HandlerFunc(pointsHandler.History)))

	if opts.UploadDir != "" {
		mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(noListing{http.Dir(opts.UploadDir)})))
	}

	return CORSMiddleware(mux)
}

// noListing hides directory indexes from the upload file server.
type noListing struct {
	root http.FileSystem
}

func (n noListing) Open(name string) (http.File, error) {
	f, err := n.root.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	if info.IsDir() {
		f.Close()
		return nil, os.ErrNotExist
	}
	return f, nil
}
