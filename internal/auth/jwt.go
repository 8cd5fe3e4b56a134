// AngelaMos | 2026
// jwt.go

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/rpg-backend/internal/core"
)

// Claims is the token payload: sub, iat, exp and jti from the registered
// set plus the token type.
type Claims struct {
	Type TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HS256 tokens with a single process-wide
// secret.
type TokenCodec struct {
	secret []byte
	issuer string
	parser *jwt.Parser
}

func NewTokenCodec(secret, issuer string) *TokenCodec {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	return &TokenCodec{
		secret: []byte(secret),
		issuer: issuer,
		parser: jwt.NewParser(opts...),
	}
}

func (c *TokenCodec) Issue(
	subject string,
	kind TokenType,
	expiresAt time.Time,
) (string, error) {
	now := time.Now()

	claims := Claims{
		Type: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).
		SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Verify checks signature, algorithm and expiry. Failures are reported as
// core.ErrTokenMalformed, core.ErrTokenExpired or core.ErrTokenInvalid.
func (c *TokenCodec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	_, err := c.parser.ParseWithClaims(
		tokenString,
		claims,
		func(*jwt.Token) (any, error) {
			return c.secret, nil
		},
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenMalformed)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		default:
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
		}
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	return claims, nil
}

func (c *TokenCodec) verifyType(
	tokenString string,
	kind TokenType,
) (*Claims, error) {
	claims, err := c.Verify(tokenString)
	if err != nil {
		return nil, err
	}

	if claims.Type != kind {
		return nil, fmt.Errorf(
			"verify token: expected %s token: %w",
			kind,
			core.ErrTokenInvalid,
		)
	}

	return claims, nil
}

// VerifyAccessToken returns the subject of a valid access token.
func (c *TokenCodec) VerifyAccessToken(tokenString string) (string, error) {
	claims, err := c.verifyType(tokenString, TokenTypeAccess)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
