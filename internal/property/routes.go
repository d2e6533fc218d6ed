package property

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/imobiliaria/imoveis-api/internal/utils"
)

// PublicRoutes serves the public listing, mounted at /imoveis.
func PublicRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.NotFound(utils.NotFoundHandler)
	r.MethodNotAllowed(utils.NotFoundHandler)

	r.Get("/", utils.Handle(h.List))
	r.Get("/{id}", utils.Handle(h.Get))

	return r
}

// AdminRoutes serves listing management, mounted at /admin/imoveis behind
// the session and admin middleware.
func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.NotFound(utils.NotFoundHandler)
	r.MethodNotAllowed(utils.NotFoundHandler)

	r.Get("/", utils.Handle(h.AdminList))
	r.Post("/", utils.Handle(h.Create))
	r.Get("/{id}", utils.Handle(h.AdminGet))
	r.Put("/{id}", utils.Handle(h.Update))
	r.Delete("/{id}", utils.Handle(h.Delete))

	return r
}
