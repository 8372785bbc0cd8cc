package auth

import (
	"context"

	"zomatify/storefront-svc/internal/domain"
)

// AuthClient is the remote identity platform.
type AuthClient interface {
	GetSession(ctx context.Context) (*domain.Session, error)
	SignInWithPassword(ctx context.Context, email, password string) (*domain.Session, error)
	SignUp(ctx context.Context, req domain.SignUpRequest) (*domain.Session, error)
	SignOut(ctx context.Context) error
	OnAuthStateChange(listener func(domain.AuthEvent)) (unsubscribe func())
}

// ProfileStore returns domain.ErrProfileNotFound when the user has no profile row.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	CreateProfile(ctx context.Context, profile domain.Profile) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, userID string, patch domain.ProfilePatch) (*domain.Profile, error)
}

// SessionSource is implemented by clients that can report their cached session
// without a network call. The manager uses it to drop events that a later
// change has already overtaken.
type SessionSource interface {
	CurrentSession() *domain.Session
}
