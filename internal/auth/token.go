// AngelaMos | 2026
// token.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/rpg-backend/internal/core"
)

// TokenService issues access/refresh pairs and owns the refresh token
// lifecycle. A user holds at most one refresh token at a time.
type TokenService struct {
	repo       Repository
	codec      *TokenCodec
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(
	repo Repository,
	codec *TokenCodec,
	accessTTL, refreshTTL time.Duration,
) *TokenService {
	return &TokenService{
		repo:       repo,
		codec:      codec,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

func (s *TokenService) GenerateAuthTokens(
	ctx context.Context,
	userID string,
) (tokens *AuthTokens, err error) {
	ctx, span := core.StartSpan(ctx, "auth.GenerateAuthTokens",
		attribute.String("user.id", userID),
	)
	defer func() { core.EndSpan(span, err) }()

	now := s.now()
	accessExpires := now.Add(s.accessTTL)
	refreshExpires := now.Add(s.refreshTTL)

	accessToken, err := s.codec.Issue(userID, TokenTypeAccess, accessExpires)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	refreshToken, err := s.codec.Issue(userID, TokenTypeRefresh, refreshExpires)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	if err := s.repo.Rotate(ctx, &RefreshToken{
		TokenHash: core.HashToken(refreshToken),
		UserID:    userID,
		Type:      TokenTypeRefresh,
		ExpiresAt: refreshExpires,
	}); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthTokens{
		Access:  IssuedToken{Token: accessToken, Expires: accessExpires},
		Refresh: IssuedToken{Token: refreshToken, Expires: refreshExpires},
	}, nil
}

// VerifyToken checks a refresh token cryptographically and then against the
// store. A valid signature whose row has been rotated away or deleted yields
// core.ErrNotFound.
func (s *TokenService) VerifyToken(
	ctx context.Context,
	token string,
) (stored *RefreshToken, err error) {
	ctx, span := core.StartSpan(ctx, "auth.VerifyToken")
	defer func() { core.EndSpan(span, err) }()

	claims, err := s.codec.verifyType(token, TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	stored, err = s.repo.FindByTokenAndUser(
		ctx,
		core.HashToken(token),
		claims.Subject,
	)
	if err != nil {
		return nil, err
	}

	if stored.Blacklisted {
		return nil, fmt.Errorf("verify refresh token: %w", core.ErrTokenRevoked)
	}
	if stored.IsExpired(s.now()) {
		return nil, fmt.Errorf("verify refresh token: %w", core.ErrTokenExpired)
	}

	return stored, nil
}

// ConsumeToken deletes exactly the given row. Of two callers racing on the
// same token only one deletes it; the other gets core.ErrNotFound.
func (s *TokenService) ConsumeToken(
	ctx context.Context,
	stored *RefreshToken,
) error {
	if err := s.repo.DeleteByToken(ctx, stored.TokenHash); err != nil {
		return fmt.Errorf("consume refresh token: %w", err)
	}
	return nil
}

// DeleteRefreshToken removes the user's refresh token, if any.
func (s *TokenService) DeleteRefreshToken(
	ctx context.Context,
	userID string,
) error {
	stored, err := s.repo.FindByUserAndType(ctx, userID, TokenTypeRefresh)
	if errors.Is(err, core.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	err = s.repo.DeleteByToken(ctx, stored.TokenHash)
	if err != nil && !errors.Is(err, core.ErrNotFound) {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	return nil
}

func (s *TokenService) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx)
}

// RunJanitor purges expired refresh tokens every interval until ctx is done.
func RunJanitor(
	ctx context.Context,
	svc *TokenService,
	interval time.Duration,
	logger *slog.Logger,
) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := svc.PurgeExpired(ctx)
			if err != nil {
				logger.Error("purge expired refresh tokens", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("purged expired refresh tokens", "count", n)
			}
		}
	}
}
