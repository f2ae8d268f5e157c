package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/erazemk/rewear/internal/apperr"
	"github.com/erazemk/rewear/internal/model"
)

const userColumns = `id, email, username, password_hash, points, is_admin, created_at`

// CreateUser creates a new user with the starting points balance.
// A duplicate email or username yields an apperr conflict.
func CreateUser(ctx context.Context, db *sql.DB, email, username, passwordHash string, isAdmin bool) (*model.User, error) {
	id := uuid.NewString()
	_, err := db.ExecContext(ctx,
		`INSERT INTO users (id, email, username, password_hash, points, is_admin) VALUES (?, ?, ?, ?, ?, ?)`,
		id, email, username, passwordHash, model.StartingPoints, isAdmin,
	)
	if isUniqueViolation(err) {
		return nil, apperr.Conflict("email or username already taken")
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	return GetUser(ctx, db, id)
}

// GetUser returns a user by ID, or nil if there is none.
func GetUser(ctx context.Context, db *sql.DB, id string) (*model.User, error) {
	return getUserWhere(ctx, db, "id", id)
}

// GetUserByEmail returns a user by exact email, or nil if there is none.
func GetUserByEmail(ctx context.Context, db *sql.DB, email string) (*model.User, error) {
	return getUserWhere(ctx, db, "email", email)
}

// GetUserByUsername returns a user by exact username, or nil if there is none.
func GetUserByUsername(ctx context.Context, db *sql.DB, username string) (*model.User, error) {
	return getUserWhere(ctx, db, "username", username)
}

// getUserWhere looks a user up by a unique column. column is never user input.
func getUserWhere(ctx context.Context, db *sql.DB, column, value string) (*model.User, error) {
	u, err := scanUser(db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE `+column+` = ?`, value,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting user by %s: %w", column, err)
	}
	return u, nil
}

func scanUser(row scanner) (*model.User, error) {
	u := &model.User{}
	if err := row.Scan(&u.ID, &u.Email, &u.Username, &u.PasswordHash, &u.Points, &u.IsAdmin, &u.CreatedAt); err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUserPassword replaces a user's password hash.
func UpdateUserPassword(ctx context.Context, db *sql.DB, id, passwordHash string) error {
	n, err := rowsAffected(db.ExecContext(ctx,
		`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id,
	))
	if err != nil {
		return fmt.Errorf("updating user password: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("user not found")
	}
	return nil
}
