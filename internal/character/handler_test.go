// AngelaMos | 2026
// handler_test.go

package character

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/rpg-backend/internal/middleware"
)

type tokenIsSubject struct{}

func (tokenIsSubject) VerifyAccessToken(token string) (string, error) {
	if token == "bad" {
		return "", errors.New("bad token")
	}
	return token, nil
}

type anyUser struct{}

func (anyUser) LoadPrincipal(_ context.Context, id string) (*middleware.Principal, error) {
	return &middleware.Principal{ID: id, Username: id, Role: "user"}, nil
}

func newTestRouter() http.Handler {
	gate := middleware.NewGate(tokenIsSubject{}, anyUser{})
	svc := NewService(newMemoryRepo(), catalog())

	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		NewHandler(svc).RegisterRoutes(r, gate.Authenticate(false))
	})
	return r
}

func send(
	t *testing.T,
	router http.Handler,
	method, path, user, body string,
) (*httptest.ResponseRecorder, CharacterResponse) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+user)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env struct {
		Data CharacterResponse `json:"data"`
	}
	if rec.Code == http.StatusOK || rec.Code == http.StatusCreated {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env.Data
}

const conan = `{"characterClassId":1,"name":"Conan","strength":40,"agility":25,"charisma":15,"luck":20}`

func TestCharacterLifecycle(t *testing.T) {
	router := newTestRouter()

	rec, created := send(t, router, http.MethodPost, "/v1/characters", "alice", conan)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "Conan", created.Name)
	assert.Equal(t, "warrior", created.CharacterClass.Type)

	rec, _ = send(t, router, http.MethodGet, "/v1/characters/1", "bob", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = send(t, router, http.MethodPatch, "/v1/characters/1", "bob", conan)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = send(t, router, http.MethodDelete, "/v1/characters/1", "bob", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec, updated := send(t, router, http.MethodPatch, "/v1/characters/1", "alice",
		`{"characterClassId":4,"name":"Robin","strength":20,"agility":35,"charisma":25,"luck":20}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "archer", updated.CharacterClass.Type)

	rec, _ = send(t, router, http.MethodDelete, "/v1/characters/1", "alice", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec, _ = send(t, router, http.MethodGet, "/v1/characters/1", "alice", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCharacterValidation(t *testing.T) {
	router := newTestRouter()

	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"stat above range", `{"characterClassId":1,"name":"X","strength":101}`, http.StatusBadRequest},
		{"negative stat", `{"characterClassId":1,"name":"X","luck":-1}`, http.StatusBadRequest},
		{"missing name", `{"characterClassId":1}`, http.StatusBadRequest},
		{"malformed", `{`, http.StatusBadRequest},
		{"unknown class", `{"characterClassId":9,"name":"X"}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := send(t, router, http.MethodPost, "/v1/characters", "alice", tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestCharactersRequireAuth(t *testing.T) {
	router := newTestRouter()

	rec, _ := send(t, router, http.MethodGet, "/v1/characters", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = send(t, router, http.MethodGet, "/v1/characters", "bad", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = send(t, router, http.MethodGet, "/v1/characters/abc", "alice", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
