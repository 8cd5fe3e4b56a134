// AngelaMos | 2026
// repository_test.go

package auth

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/rpg-backend/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewRepository(sqlx.NewDb(db, "sqlmock")), mock
}

func TestRotateLocksUserAndReplacesToken(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()
	expires := now.Add(24 * time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE id = $1")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE user_id = $1 AND type = $2")).
		WithArgs("user-1", "refresh").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO refresh_tokens")).
		WithArgs("hash-1", "user-1", "refresh", expires).
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	mock.ExpectCommit()

	token := &RefreshToken{
		TokenHash: "hash-1",
		UserID:    "user-1",
		Type:      TokenTypeRefresh,
		ExpiresAt: expires,
	}
	require.NoError(t, repo.Rotate(context.Background(), token))
	assert.Equal(t, now, token.CreatedAt)
	assert.False(t, token.Blacklisted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRotateMissingUserRollsBack(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM users WHERE id = $1")).
		WithArgs("gone").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Rotate(context.Background(), &RefreshToken{
		TokenHash: "hash-1",
		UserID:    "gone",
		Type:      TokenTypeRefresh,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByTokenAndUserNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens")).
		WithArgs("hash-1", "user-1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByTokenAndUser(context.Background(), "hash-1", "user-1")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByUserAndType(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	rows := sqlmock.NewRows([]string{
		"token_hash", "user_id", "type", "expires_at", "blacklisted", "created_at", "updated_at",
	}).AddRow("hash-1", "user-1", "refresh", now.Add(time.Hour), false, now, now)

	mock.ExpectQuery(regexp.QuoteMeta("FROM refresh_tokens")).
		WithArgs("user-1", "refresh").
		WillReturnRows(rows)

	token, err := repo.FindByUserAndType(context.Background(), "user-1", TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, "hash-1", token.TokenHash)
	assert.Equal(t, TokenTypeRefresh, token.Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteByTokenMissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE token_hash = $1")).
		WithArgs("hash-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteByToken(context.Background(), "hash-1")
	assert.ErrorIs(t, err, core.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteExpired(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM refresh_tokens WHERE expires_at < NOW()")).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := repo.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
