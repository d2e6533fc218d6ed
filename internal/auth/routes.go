package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/imobiliaria/imoveis-api/internal/middleware"
	"github.com/imobiliaria/imoveis-api/internal/utils"
)

// SetupRoutes serves /auth. loginLimits wrap the login endpoint only.
func SetupRoutes(h *Handler, loginLimits ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.NotFound(utils.NotFoundHandler)
	r.MethodNotAllowed(utils.NotFoundHandler)

	r.With(loginLimits...).Post("/login", utils.Handle(h.Login))

	r.Group(func(r chi.Router) {
		r.Use(middleware.SessionMiddleware(h.tokens))
		r.Post("/logout", utils.Handle(h.Logout))
		r.Get("/me", utils.Handle(h.Me))
	})

	return r
}
