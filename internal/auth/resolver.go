package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/veyara-realtime/internal/domain/user"
	"github.com/example/veyara-realtime/internal/infrastructure/store"
)

var (
	ErrMissingToken       = errors.New("missing token")
	ErrUnknownSubject     = errors.New("token subject no longer exists")
	ErrAccountNotVerified = errors.New("account not verified")
)

// Resolver turns a bearer credential into a verified Actor
type Resolver struct {
	tokens *JWTService
	users  store.UserStore
}

func NewResolver(tokens *JWTService, users store.UserStore) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve verifies the token and loads its subject. The role and account status
// come from the user record, never from the token claims.
func (r *Resolver) Resolve(ctx context.Context, token string) (user.Actor, error) {
	if token == "" {
		return user.Actor{}, ErrMissingToken
	}

	claims, err := r.tokens.ValidateAccessToken(token)
	if err != nil {
		return user.Actor{}, err
	}

	subject := claims.SubjectID()
	if subject == "" {
		return user.Actor{}, ErrInvalidToken
	}

	u, err := r.users.GetUser(ctx, subject)
	if errors.Is(err, user.ErrUserNotFound) {
		return user.Actor{}, ErrUnknownSubject
	}
	if err != nil {
		return user.Actor{}, fmt.Errorf("failed to load user %s: %w", subject, err)
	}

	if u.Status != user.StatusVerified {
		return user.Actor{}, ErrAccountNotVerified
	}

	return u.Actor(), nil
}

// IsAuthError reports whether err is a credential rejection rather than an
// infrastructure failure
func IsAuthError(err error) bool {
	return errors.Is(err, ErrMissingToken) ||
		errors.Is(err, ErrInvalidToken) ||
		errors.Is(err, ErrExpiredToken) ||
		errors.Is(err, ErrUnknownSubject) ||
		errors.Is(err, ErrAccountNotVerified)
}
