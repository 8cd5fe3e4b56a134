// AngelaMos | 2026
// repository.go

package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/templates/rpg-backend/internal/core"
)

type Repository interface {
	Rotate(ctx context.Context, token *RefreshToken) error
	FindByTokenAndUser(
		ctx context.Context,
		tokenHash, userID string,
	) (*RefreshToken, error)
	FindByUserAndType(
		ctx context.Context,
		userID string,
		kind TokenType,
	) (*RefreshToken, error)
	DeleteByToken(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const refreshTokenColumns = `
	token_hash, user_id, type, expires_at, blacklisted, created_at, updated_at`

// Rotate replaces the user's refresh token with token. The owning user row is
// locked first so concurrent rotations for one user run one after another.
func (r *repository) Rotate(ctx context.Context, token *RefreshToken) error {
	return core.InTx(ctx, r.db, func(tx *sqlx.Tx) error {
		var locked int
		err := tx.GetContext(ctx, &locked,
			`SELECT 1 FROM users WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`,
			token.UserID,
		)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("lock user: %w", core.ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("lock user: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`DELETE FROM refresh_tokens WHERE user_id = $1 AND type = $2`,
			token.UserID,
			token.Type,
		); err != nil {
			return fmt.Errorf("delete previous refresh token: %w", err)
		}

		query := `
			INSERT INTO refresh_tokens (
				token_hash, user_id, type, expires_at, blacklisted
			) VALUES (
				$1, $2, $3, $4, false
			)
			RETURNING created_at, updated_at`

		err = tx.QueryRowxContext(ctx, query,
			token.TokenHash,
			token.UserID,
			token.Type,
			token.ExpiresAt,
		).Scan(&token.CreatedAt, &token.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert refresh token: %w", err)
		}

		token.Blacklisted = false
		return nil
	})
}

func (r *repository) FindByTokenAndUser(
	ctx context.Context,
	tokenHash, userID string,
) (*RefreshToken, error) {
	query := `SELECT` + refreshTokenColumns + `
		FROM refresh_tokens
		WHERE token_hash = $1 AND user_id = $2`

	var token RefreshToken
	err := r.db.GetContext(ctx, &token, query, tokenHash, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	return &token, nil
}

func (r *repository) FindByUserAndType(
	ctx context.Context,
	userID string,
	kind TokenType,
) (*RefreshToken, error) {
	query := `SELECT` + refreshTokenColumns + `
		FROM refresh_tokens
		WHERE user_id = $1 AND type = $2`

	var token RefreshToken
	err := r.db.GetContext(ctx, &token, query, userID, kind)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find refresh token: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find refresh token: %w", err)
	}

	return &token, nil
}

func (r *repository) DeleteByToken(
	ctx context.Context,
	tokenHash string,
) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE token_hash = $1`,
		tokenHash,
	)
	if err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete refresh token: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) DeleteExpired(ctx context.Context) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at < NOW()`,
	)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}

	return rows, nil
}
