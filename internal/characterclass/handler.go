// AngelaMos | 2026
// handler.go

package characterclass

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/rpg-backend/internal/core"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes mounts the public catalog under /character-classes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/character-classes", func(r chi.Router) {
		r.Get("/", h.List)
		r.Get("/{classID}", h.Get)
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	classes, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToClassResponseList(classes))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "classID"))
	if err != nil {
		core.BadRequest(w, "invalid class id")
		return
	}

	class, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "character class")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToClassResponse(class))
}
