package contact

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/imobiliaria/imoveis-api/internal/utils"
)

// PublicRoutes serves the contact form, mounted at /contato. Any
// middlewares given (rate limiting) wrap the submission endpoint.
func PublicRoutes(h *Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.NotFound(utils.NotFoundHandler)
	r.MethodNotAllowed(utils.NotFoundHandler)

	r.With(middlewares...).Post("/", utils.Handle(h.Submit))

	return r
}

// AdminRoutes serves the inbox, mounted at /admin/contatos.
func AdminRoutes(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.NotFound(utils.NotFoundHandler)
	r.MethodNotAllowed(utils.NotFoundHandler)

	r.Get("/", utils.Handle(h.List))
	r.Delete("/{id}", utils.Handle(h.Delete))

	return r
}
