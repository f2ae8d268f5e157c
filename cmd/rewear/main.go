package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/erazemk/rewear/internal/api"
	"github.com/erazemk/rewear/internal/auth"
	"github.com/erazemk/rewear/internal/blob"
	"github.com/erazemk/rewear/internal/cache"
	"github.com/erazemk/rewear/internal/config"
	"github.com/erazemk/rewear/internal/db"
	"github.com/erazemk/rewear/internal/market"
	"github.com/erazemk/rewear/internal/store"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	min    slog.Level
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lr.min
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		min:    lr.min,
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		min:    lr.min,
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR goes
// to stderr. If cfg.Path is non-empty, all levels are also written to that file.
// Returns a cleanup function that closes the log file (if opened).
func setupLogger(cfg config.LoggingConfig) (func(), error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("parsing log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if cfg.Path != "" {
		f, err := os.OpenFile(cfg.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	newHandler := func(w io.Writer) slog.Handler {
		if cfg.Format == "json" {
			return slog.NewJSONHandler(w, opts)
		}
		return slog.NewTextHandler(w, opts)
	}

	handler := &levelRouter{
		min:    level,
		stdout: newHandler(stdoutW),
		stderr: newHandler(stderrW),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("rewear", flag.ContinueOnError)

	fs.StringVar(&cfg.Database.Path, "db", cfg.Database.Path, "")
	fs.StringVar(&cfg.Database.Path, "d", cfg.Database.Path, "")

	fs.StringVar(&cfg.Server.Addr, "addr", cfg.Server.Addr, "")
	fs.StringVar(&cfg.Server.Addr, "a", cfg.Server.Addr, "")

	var adminEmail string
	fs.StringVar(&adminEmail, "admin", "admin@rewear.local", "")
	fs.StringVar(&adminEmail, "u", "admin@rewear.local", "")

	fs.StringVar(&cfg.Logging.Path, "log", cfg.Logging.Path, "")
	fs.StringVar(&cfg.Logging.Path, "l", cfg.Logging.Path, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: rewear [flags]

Flags:
  -d, -db <path>          SQLite database path (default: $REWEAR_DB or rewear.sqlite3)
  -a, -addr <host:port>   listen address (default: $REWEAR_ADDR or :8080)
  -u, -admin <email>      admin email on first run (default: admin@rewear.local)
  -l, -log <path>         log file path (default: $REWEAR_LOG, else stdout/stderr only)
  -h, -help               show this help and exit

Other settings are read from the environment or a .env file.
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}

	closeLog, err := setupLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	if err := run(cfg, adminEmail); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, adminEmail string) error {
	_, statErr := os.Stat(cfg.Database.Path)
	firstRun := os.IsNotExist(statErr)

	database, err := db.Open(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.Migrate(database); err != nil {
		return err
	}
	slog.Info("database ready", "path", cfg.Database.Path)

	if firstRun {
		password, err := createAdmin(database, adminEmail)
		if err != nil {
			return err
		}
		printInitResult(cfg.Database.Path, adminEmail, password)
	}

	// JWT secret from the environment, or auto-generated and stored on first run.
	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret, err = store.GetJWTSecret(context.Background(), database)
		if err != nil {
			return err
		}
	}

	var blobs blob.Store
	uploadDir := ""
	if cfg.Cloudinary.Enabled() {
		blobs, err = blob.NewCloudinaryStore(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, cfg.Cloudinary.Folder)
		if err != nil {
			return err
		}
		slog.Info("storing uploads in cloudinary", "cloud", cfg.Cloudinary.CloudName, "folder", cfg.Cloudinary.Folder)
	} else {
		local, err := blob.NewLocalStore(cfg.Uploads.Dir)
		if err != nil {
			return err
		}
		blobs = local
		uploadDir = cfg.Uploads.Dir
		slog.Info("storing uploads locally", "dir", cfg.Uploads.Dir)
	}

	var revocations market.RevocationList = store.RevocationList{DB: database}
	if cfg.Redis.Enabled() {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := client.Ping(ctx).Err()
		cancel()
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}

		revocations, err = cache.NewRevocationList(client)
		if err != nil {
			return err
		}
		slog.Info("token revocations in redis", "addr", cfg.Redis.Addr)
	}

	svc := &market.Service{
		DB:          database,
		Blobs:       blobs,
		Revocations: revocations,
		JWTSecret:   jwtSecret,
	}

	router := api.NewRouter(svc, api.Options{
		MaxUploadBytes: cfg.Uploads.MaxBytes,
		AuthLimiter:    api.NewRateLimiter(cfg.Auth.RatePerSec, cfg.Auth.RateBurst),
		UploadDir:      uploadDir,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.LoggingMiddleware(router),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

// createAdmin creates the first-run admin account with a random password.
func createAdmin(database *sql.DB, email string) (string, error) {
	password, err := generatePassword(16)
	if err != nil {
		return "", fmt.Errorf("generating password: %w", err)
	}

	hash, err := auth.HashPassword(password, 0)
	if err != nil {
		return "", err
	}

	_, err = store.CreateUser(context.Background(), database, email, "admin", hash, true)
	if err != nil {
		return "", fmt.Errorf("creating admin user: %w", err)
	}

	return password, nil
}

// printInitResult prints the database initialization result to stdout.
func printInitResult(dbPath, email, password string) {
	fmt.Printf("Database created: %s\n", dbPath)
	fmt.Println()
	fmt.Println("Admin account created:")
	fmt.Printf("  Email:    %s\n", email)
	fmt.Printf("  Password: %s\n", password)
	fmt.Println()
	fmt.Println("Save this password, it cannot be recovered.")
	fmt.Println()
}

// generatePassword creates a random password of the given length.
func generatePassword(length int) (string, error) {
	const charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789!@#$%&*"
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(charset))))
		if err != nil {
			return "", err
		}
		result[i] = charset[n.Int64()]
	}
	return string(result), nil
}
