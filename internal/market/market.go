// Package market implements the marketplace operations on top of the store:
// accounts, listings, swap requests and their settlement.
package market

import (
	"context"
	"database/sql"
	"time"

	"github.com/erazemk/rewear/internal/blob"
)

// RevocationList records logged-out tokens until they expire.
type RevocationList interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Service holds the dependencies shared by all operations.
type Service struct {
	DB          *sql.DB
	Blobs       blob.Store
	Revocations RevocationList
	JWTSecret   string

	// BcryptCost of zero uses bcrypt's default.
	BcryptCost int
}
