// AngelaMos | 2026
// fakes_test.go

package auth

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/carterperez-dev/templates/rpg-backend/internal/core"
	"github.com/carterperez-dev/templates/rpg-backend/internal/middleware"
)

const testSecret = "test-secret-with-enough-entropy-0123456789"

type memoryTokenRepo struct {
	mu     sync.Mutex
	tokens map[string]*RefreshToken
}

func newMemoryTokenRepo() *memoryTokenRepo {
	return &memoryTokenRepo{tokens: make(map[string]*RefreshToken)}
}

func (m *memoryTokenRepo) Rotate(_ context.Context, token *RefreshToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for hash, t := range m.tokens {
		if t.UserID == token.UserID && t.Type == token.Type {
			delete(m.tokens, hash)
		}
	}

	now := time.Now()
	stored := *token
	stored.Blacklisted = false
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.tokens[token.TokenHash] = &stored
	return nil
}

func (m *memoryTokenRepo) FindByTokenAndUser(
	_ context.Context,
	tokenHash, userID string,
) (*RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	t, ok := m.tokens[tokenHash]
	if !ok || t.UserID != userID {
		return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
	}
	cp := *t
	return &cp, nil
}

func (m *memoryTokenRepo) FindByUserAndType(
	_ context.Context,
	userID string,
	kind TokenType,
) (*RefreshToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tokens {
		if t.UserID == userID && t.Type == kind {
			cp := *t
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
}

func (m *memoryTokenRepo) DeleteByToken(_ context.Context, tokenHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tokens[tokenHash]; !ok {
		return fmt.Errorf("delete refresh token: %w", core.ErrNotFound)
	}
	delete(m.tokens, tokenHash)
	return nil
}

func (m *memoryTokenRepo) DeleteExpired(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	for hash, t := range m.tokens {
		if t.IsExpired(time.Now()) {
			delete(m.tokens, hash)
			n++
		}
	}
	return n, nil
}

func (m *memoryTokenRepo) countFor(userID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, t := range m.tokens {
		if t.UserID == userID {
			n++
		}
	}
	return n
}

func (m *memoryTokenRepo) blacklist(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.tokens {
		if t.UserID == userID {
			t.Blacklisted = true
		}
	}
}

// memoryUsers mimics the user store: usernames and emails are unique and
// collisions surface as core.DuplicateFieldError.
type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*UserInfo

	failPasswordUpdates bool
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]*UserInfo)}
}

func (m *memoryUsers) GetByID(_ context.Context, id string) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (m *memoryUsers) find(match func(*UserInfo) bool) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
}

func (m *memoryUsers) GetByUsername(_ context.Context, username string) (*UserInfo, error) {
	return m.find(func(u *UserInfo) bool { return u.Username == username })
}

func (m *memoryUsers) GetByEmail(_ context.Context, email string) (*UserInfo, error) {
	return m.find(func(u *UserInfo) bool { return u.Email == strings.ToLower(email) })
}

func (m *memoryUsers) Create(
	_ context.Context,
	username, email, passwordHash string,
) (*UserInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			return nil, fmt.Errorf("create user: %w", &core.DuplicateFieldError{Field: "username"})
		}
		if u.Email == email {
			return nil, fmt.Errorf("create user: %w", &core.DuplicateFieldError{Field: "email"})
		}
	}

	now := time.Now()
	u := &UserInfo{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         "user",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	m.users[u.ID] = u

	cp := *u
	return &cp, nil
}

func (m *memoryUsers) UpdatePassword(_ context.Context, id, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.failPasswordUpdates {
		return fmt.Errorf("update password: %w", core.ErrConflict)
	}
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("update password: %w", core.ErrNotFound)
	}
	u.PasswordHash = passwordHash
	return nil
}

func (m *memoryUsers) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := m.GetByUsername(ctx, username)
	return err == nil, nil
}

func (m *memoryUsers) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := m.GetByEmail(ctx, email)
	return err == nil, nil
}

func (m *memoryUsers) LoadPrincipal(ctx context.Context, id string) (*middleware.Principal, error) {
	u, err := m.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &middleware.Principal{ID: u.ID, Username: u.Username, Role: u.Role}, nil
}

func (m *memoryUsers) put(u *UserInfo) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

type testEnv struct {
	users  *memoryUsers
	repo   *memoryTokenRepo
	codec  *TokenCodec
	tokens *TokenService
	svc    *Service
}

func newTestEnv() *testEnv {
	users := newMemoryUsers()
	repo := newMemoryTokenRepo()
	codec := NewTokenCodec(testSecret, "rpg-backend")
	tokens := NewTokenService(repo, codec, 120*time.Minute, 24*time.Hour)

	return &testEnv{
		users:  users,
		repo:   repo,
		codec:  codec,
		tokens: tokens,
		svc:    NewService(users, tokens),
	}
}
