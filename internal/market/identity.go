package market

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/erazemk/rewear/internal/apperr"
	"github.com/erazemk/rewear/internal/auth"
	"github.com/erazemk/rewear/internal/model"
	"github.com/erazemk/rewear/internal/store"
)

// Session is an issued token together with the user it is bound to.
type Session struct {
	Token string
	User  *model.User
}

// Register creates an account with the starting balance and signs the new
// user in.
func (s *Service) Register(ctx context.Context, email, username, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	username = strings.TrimSpace(username)

	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, apperr.InvalidInput("invalid email address")
	}
	if username == "" {
		return nil, apperr.InvalidInput("username required")
	}
	if err := model.ValidatePassword(password); err != nil {
		return nil, apperr.InvalidInput(err.Error())
	}

	existing, err := store.GetUserByEmail(ctx, s.DB, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("email already registered")
	}
	existing, err = store.GetUserByUsername(ctx, s.DB, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("username already taken")
	}

	hash, err := auth.HashPassword(password, s.BcryptCost)
	if err != nil {
		return nil, err
	}

	// A concurrent registration can still win between the checks and the
	// insert; CreateUser reports that as a conflict too.
	user, err := store.CreateUser(ctx, s.DB, email, username, hash, false)
	if err != nil {
		return nil, err
	}

	return s.issue(user)
}

// Login checks credentials and issues a token.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := store.GetUserByEmail(ctx, s.DB, strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if user == nil || !auth.CheckPassword(user.PasswordHash, password) {
		return nil, apperr.Unauthorized("invalid credentials")
	}
	return s.issue(user)
}

// Resolve maps a bearer token to its user. The token must be well formed,
// unexpired, not revoked and bound to an existing user.
func (s *Service) Resolve(ctx context.Context, token string) (*model.User, *auth.Claims, error) {
	claims, err := auth.ValidateToken(s.JWTSecret, token)
	if err != nil {
		return nil, nil, apperr.Unauthorized("invalid token")
	}

	if s.Revocations != nil && claims.ID != "" {
		revoked, err := s.Revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, nil, err
		}
		if revoked {
			return nil, nil, apperr.Unauthorized("token has been revoked")
		}
	}

	user, err := store.GetUser(ctx, s.DB, claims.UserID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, apperr.Unauthorized("user not found")
	}
	return user, claims, nil
}

// Logout revokes the token described by claims until it would have expired.
func (s *Service) Logout(ctx context.Context, claims *auth.Claims) error {
	if s.Revocations == nil {
		return fmt.Errorf("no revocation list configured")
	}
	if claims.ID == "" || claims.ExpiresAt == nil {
		return apperr.InvalidInput("token cannot be revoked")
	}
	return s.Revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time)
}

// ChangePassword replaces the caller's password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, user *model.User, current, next string) error {
	if !auth.CheckPassword(user.PasswordHash, current) {
		return apperr.Unauthorized("current password is incorrect")
	}
	if err := model.ValidatePassword(next); err != nil {
		return apperr.InvalidInput(err.Error())
	}

	hash, err := auth.HashPassword(next, s.BcryptCost)
	if err != nil {
		return err
	}
	return store.UpdateUserPassword(ctx, s.DB, user.ID, hash)
}

func (s *Service) issue(user *model.User) (*Session, error) {
	token, err := auth.GenerateToken(s.JWTSecret, user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &Session{Token: token, User: user}, nil
}
