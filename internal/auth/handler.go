// AngelaMos | 2026
// handler.go

package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/rpg-backend/internal/core"
	"github.com/carterperez-dev/templates/rpg-backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterRoutes mounts /auth. Extra middlewares apply to every auth route.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	middlewares ...func(http.Handler) http.Handler,
) {
	r.Route("/auth", func(r chi.Router) {
		r.Use(middlewares...)

		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/refresh", h.Refresh)

		r.With(authenticator).Post("/logout", h.Logout)
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ctx := r.Context()

	available, err := h.service.IsUsernameAvailable(ctx, req.Username)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	if !available {
		core.JSONError(w, core.ConflictError("username already taken"))
		return
	}

	available, err = h.service.IsEmailAvailable(ctx, req.Email)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}
	if !available {
		core.JSONError(w, core.ConflictError("email already taken"))
		return
	}

	user, err := h.service.Register(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameTaken):
			core.JSONError(w, core.ConflictError("username already taken"))
		case errors.Is(err, ErrEmailTaken):
			core.JSONError(w, core.ConflictError("email already taken"))
		case errors.Is(err, core.ErrConflict):
			core.JSONError(w, core.ConflictError("account already exists"))
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "password is too long")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	tokens, err := h.service.GenerateAuthTokens(ctx, user.ID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, newAuthResponse(user, tokens))
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.Login(r.Context(), req.Log, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			core.NotFound(w, "user")
		case errors.Is(err, ErrInvalidCredentials):
			core.JSONError(w, core.UnauthorizedError("invalid credentials"))
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	tokens, err := h.service.GenerateAuthTokens(r.Context(), user.ID)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, newAuthResponse(user, tokens))
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	tokens, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrTokenExpired):
			core.JSONError(w, core.TokenExpiredError())
		case errors.Is(err, core.ErrTokenRevoked):
			core.JSONError(w, core.TokenRevokedError())
		case errors.Is(err, core.ErrTokenInvalid),
			errors.Is(err, core.ErrTokenMalformed),
			errors.Is(err, core.ErrNotFound):
			core.JSONError(w, core.TokenInvalidError())
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, tokens)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	if userID == "" {
		core.Unauthorized(w, "")
		return
	}

	if err := h.service.Logout(r.Context(), userID); err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, MessageResponse{Message: "Logout successful"})
}
