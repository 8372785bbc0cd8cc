package domain

import (
	"errors"
	"time"
)

const (
	EventInitialSession = "INITIAL_SESSION"
	EventSignedIn       = "SIGNED_IN"
	EventSignedOut      = "SIGNED_OUT"
	EventTokenRefreshed = "TOKEN_REFRESHED"
	EventUserUpdated    = "USER_UPDATED"
)

// ErrProfileNotFound is returned by profile stores when the user has no row yet.
var ErrProfileNotFound = errors.New("profile not found")

type User struct {
	ID       string                 `json:"id"`
	Email    string                 `json:"email"`
	Phone    string                 `json:"phone,omitempty"`
	Metadata map[string]interface{} `json:"user_metadata,omitempty"`
}

// MetaString reads a string field from the identity metadata.
func (u User) MetaString(key string) string {
	if u.Metadata == nil {
		return ""
	}
	if v, ok := u.Metadata[key].(string); ok {
		return v
	}
	return ""
}

type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         User      `json:"user"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ProfilePatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

func (p ProfilePatch) Empty() bool {
	return p.FirstName == nil && p.LastName == nil && p.Phone == nil
}

type SignUpRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role,omitempty"`
}

type AuthEvent struct {
	Type    string
	Session *Session
}

type AuthResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}
