// AngelaMos | 2026
// entity.go

package auth

import (
	"time"
)

type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// RefreshToken is the stored half of a refresh credential. Only the SHA-256
// of the issued token is persisted; at most one row exists per user and type.
type RefreshToken struct {
	TokenHash   string    `db:"token_hash"`
	UserID      string    `db:"user_id"`
	Type        TokenType `db:"type"`
	ExpiresAt   time.Time `db:"expires_at"`
	Blacklisted bool      `db:"blacklisted"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (t *RefreshToken) IsExpired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// IssuedToken is a signed token together with its expiry.
type IssuedToken struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type AuthTokens struct {
	Access  IssuedToken `json:"access"`
	Refresh IssuedToken `json:"refresh"`
}
