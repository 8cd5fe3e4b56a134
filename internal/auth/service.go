// AngelaMos | 2026
// service.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/carterperez-dev/templates/rpg-backend/internal/core"
)

var (
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", core.ErrUnauthorized)
	ErrUserNotFound       = fmt.Errorf("user not found: %w", core.ErrNotFound)
	ErrUsernameTaken      = fmt.Errorf("username already taken: %w", core.ErrConflict)
	ErrEmailTaken         = fmt.Errorf("email already taken: %w", core.ErrConflict)
)

type UserInfo struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserProvider interface {
	GetByID(ctx context.Context, id string) (*UserInfo, error)
	GetByUsername(ctx context.Context, username string) (*UserInfo, error)
	GetByEmail(ctx context.Context, email string) (*UserInfo, error)
	Create(
		ctx context.Context,
		username, email, passwordHash string,
	) (*UserInfo, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UsernameExists(ctx context.Context, username string) (bool, error)
	EmailExists(ctx context.Context, email string) (bool, error)
}

type Service struct {
	users  UserProvider
	tokens *TokenService
}

func NewService(users UserProvider, tokens *TokenService) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
	}
}

func (s *Service) IsUsernameAvailable(
	ctx context.Context,
	username string,
) (bool, error) {
	exists, err := s.users.UsernameExists(ctx, username)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	return !exists, nil
}

func (s *Service) IsEmailAvailable(
	ctx context.Context,
	email string,
) (bool, error) {
	exists, err := s.users.EmailExists(ctx, strings.ToLower(email))
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return !exists, nil
}

// Register hashes the password and creates the account. A unique violation
// at insert time is reported even when an earlier availability check passed.
func (s *Service) Register(
	ctx context.Context,
	username, email, password string,
) (user *UserInfo, err error) {
	ctx, span := core.StartSpan(ctx, "auth.Register",
		attribute.String("user.username", username),
	)
	defer func() {
		core.EndSpan(span, err)
		recordAuthEvent("register", err)
	}()

	passwordHash, err := core.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err = s.users.Create(ctx, username, strings.ToLower(email), passwordHash)
	if err != nil {
		if field, ok := core.DuplicateField(err); ok {
			switch field {
			case "username":
				return nil, ErrUsernameTaken
			case "email":
				return nil, ErrEmailTaken
			}
		}
		if errors.Is(err, core.ErrDuplicateKey) {
			return nil, fmt.Errorf("create user: %w", core.ErrConflict)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// Login resolves log as a username first, then as an email. Accounts without
// a stored password never authenticate by password.
func (s *Service) Login(
	ctx context.Context,
	log, password string,
) (user *UserInfo, err error) {
	ctx, span := core.StartSpan(ctx, "auth.Login")
	defer func() {
		core.EndSpan(span, err)
		recordAuthEvent("login", err)
	}()

	user, err = s.lookup(ctx, log)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.VerifyPasswordTimingSafe(password, nil)
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !core.VerifyPasswordTimingSafe(password, &user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if core.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user, password)
	}

	return user, nil
}

// rehash upgrades a hash stored at an older cost. Failure leaves the old
// hash in place and does not fail the login.
func (s *Service) rehash(ctx context.Context, user *UserInfo, password string) {
	hash, err := core.HashPassword(password)
	if err == nil {
		err = s.users.UpdatePassword(ctx, user.ID, hash)
	}
	if err != nil {
		slog.WarnContext(ctx, "password rehash failed", "user_id", user.ID, "error", err)
		return
	}
	user.PasswordHash = hash
}

func (s *Service) lookup(ctx context.Context, log string) (*UserInfo, error) {
	user, err := s.users.GetByUsername(ctx, log)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	user, err = s.users.GetByEmail(ctx, strings.ToLower(log))
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return user, nil
}

// Refresh consumes a refresh token and issues a new pair. The presented row
// itself is deleted before the new one is stored, so it can be used once even
// under concurrent requests.
func (s *Service) Refresh(
	ctx context.Context,
	refreshToken string,
) (tokens *AuthTokens, err error) {
	ctx, span := core.StartSpan(ctx, "auth.Refresh")
	defer func() {
		core.EndSpan(span, err)
		recordAuthEvent("refresh", err)
	}()

	stored, err := s.tokens.VerifyToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("load token owner: %w", err)
	}

	if err := s.tokens.ConsumeToken(ctx, stored); err != nil {
		return nil, err
	}

	return s.tokens.GenerateAuthTokens(ctx, user.ID)
}

func (s *Service) Logout(ctx context.Context, userID string) (err error) {
	defer func() { recordAuthEvent("logout", err) }()
	return s.tokens.DeleteRefreshToken(ctx, userID)
}

func (s *Service) GenerateAuthTokens(
	ctx context.Context,
	userID string,
) (*AuthTokens, error) {
	return s.tokens.GenerateAuthTokens(ctx, userID)
}
