// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/carterperez-dev/templates/rpg-backend/internal/core"
)

const (
	PrincipalKey contextKey = "principal"

	RoleAdmin = "admin"

	invalidTokenMessage = "invalid or expired token"
)

// Principal is the authenticated caller, loaded fresh from the user store on
// every request.
type Principal struct {
	ID       string
	Username string
	Role     string
}

func (p *Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

type TokenVerifier interface {
	VerifyAccessToken(token string) (string, error)
}

type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, id string) (*Principal, error)
}

// Gate authenticates bearer access tokens and optionally enforces the admin
// role.
type Gate struct {
	verifier TokenVerifier
	loader   PrincipalLoader
}

func NewGate(verifier TokenVerifier, loader PrincipalLoader) *Gate {
	return &Gate{
		verifier: verifier,
		loader:   loader,
	}
}

// Authenticate rejects missing, invalid or expired tokens and vanished
// subjects with one 401 message. Non-admins get 403 when requireAdmin is set.
func (g *Gate) Authenticate(requireAdmin bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				core.Unauthorized(w, invalidTokenMessage)
				return
			}

			subject, err := g.verifier.VerifyAccessToken(token)
			if err != nil {
				core.Unauthorized(w, invalidTokenMessage)
				return
			}

			principal, err := g.loader.LoadPrincipal(r.Context(), subject)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) {
					core.Unauthorized(w, invalidTokenMessage)
					return
				}
				core.InternalServerError(w, err)
				return
			}

			if requireAdmin && !principal.IsAdmin() {
				core.Forbidden(w, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), principal)))
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func GetPrincipal(ctx context.Context) *Principal {
	if p, ok := ctx.Value(PrincipalKey).(*Principal); ok {
		return p
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if p := GetPrincipal(ctx); p != nil {
		return p.ID
	}
	return ""
}

// WithPrincipal returns ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey, p)
}
