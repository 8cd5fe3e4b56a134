// AngelaMos | 2026
// characterclass_test.go

package characterclass

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var classRows = []string{
	"id", "type", "strength", "agility", "charisma", "luck",
	"created_at", "updated_at",
}

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := NewRepository(sqlx.NewDb(db, "sqlmock"))
	return NewService(repo, time.Minute), mock
}

func seededRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows(classRows).
		AddRow(1, "warrior", 40, 25, 15, 20, now, now).
		AddRow(2, "thief", 15, 40, 20, 25, now, now).
		AddRow(3, "mage", 15, 20, 30, 35, now, now).
		AddRow(4, "archer", 20, 35, 25, 20, now, now)
}

func TestListIsCached(t *testing.T) {
	svc, mock := newTestService(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("FROM character_classes")).
		WillReturnRows(seededRows())

	first, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, first, 4)
	assert.Equal(t, "warrior", first[0].Type)

	first[0].Type = "mutated"

	second, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, "warrior", second[0].Type)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDMissing(t *testing.T) {
	svc, mock := newTestService(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows(classRows))

	_, err := svc.GetByID(context.Background(), 9)
	assert.Error(t, err)
}

func TestInvalidateRefetches(t *testing.T) {
	svc, mock := newTestService(t)
	ctx := context.Background()
	now := time.Now()

	for range 2 {
		mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
			WithArgs(3).
			WillReturnRows(sqlmock.NewRows(classRows).
				AddRow(3, "mage", 15, 20, 30, 35, now, now))
	}

	_, err := svc.GetByID(ctx, 3)
	require.NoError(t, err)
	_, err = svc.GetByID(ctx, 3)
	require.NoError(t, err)

	svc.Invalidate()

	class, err := svc.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, 35, class.Luck)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler(t *testing.T) {
	svc, mock := newTestService(t)
	now := time.Now()

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r)

	mock.ExpectQuery(regexp.QuoteMeta("FROM character_classes")).
		WillReturnRows(seededRows())
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs(2).
		WillReturnRows(sqlmock.NewRows(classRows).
			AddRow(2, "thief", 15, 40, 20, 25, now, now))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows(classRows))

	tests := []struct {
		path   string
		status int
	}{
		{"/character-classes", http.StatusOK},
		{"/character-classes/2", http.StatusOK},
		{"/character-classes/7", http.StatusNotFound},
		{"/character-classes/abc", http.StatusBadRequest},
	}

	for _, tt := range tests {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.status, rec.Code, tt.path)
	}

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/character-classes/2", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Data ClassResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "thief", body.Data.Type)
	assert.Equal(t, 40, body.Data.Agility)
	assert.NoError(t, mock.ExpectationsWereMet())
}
