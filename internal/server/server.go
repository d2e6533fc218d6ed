// Package server assembles the HTTP surface of the API.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/imobiliaria/imoveis-api/internal/auth"
	"github.com/imobiliaria/imoveis-api/internal/config"
	"github.com/imobiliaria/imoveis-api/internal/contact"
	"github.com/imobiliaria/imoveis-api/internal/middleware"
	"github.com/imobiliaria/imoveis-api/internal/property"
	"github.com/imobiliaria/imoveis-api/internal/utils"
)

const (
	janitorInterval = time.Hour
	limiterCleanup  = time.Minute
)

type Server struct {
	router         http.Handler
	tokens         *auth.TokenStore
	loginLimiter   *middleware.LimiterStore
	contactLimiter *middleware.LimiterStore
}

// New builds the route table and starts the background janitors. Call
// Close to stop them.
func New(cfg config.Config, deps Deps) *Server {
	s := &Server{
		tokens:         deps.Tokens,
		loginLimiter:   middleware.NewLimiterStore(cfg.LoginRate.PerMinute, cfg.LoginRate.Burst, limiterCleanup),
		contactLimiter: middleware.NewLimiterStore(cfg.ContactRate.PerMinute, cfg.ContactRate.Burst, limiterCleanup),
	}

	propertyHandler := property.NewHandler(deps.Properties, deps.Persistence, property.Options{
		DefaultPageSize: cfg.DefaultPageSize,
		MaxPageSize:     cfg.MaxPageSize,
		MaxBodyBytes:    cfg.MaxBodyBytes,
	})
	contactHandler := contact.NewHandler(deps.Contacts, deps.Persistence, cfg.MaxBodyBytes)
	authHandler := auth.NewHandler(deps.Users, deps.Tokens, cfg.MaxBodyBytes)

	mountAPI := func(r chi.Router) {
		r.NotFound(utils.NotFoundHandler)
		r.MethodNotAllowed(utils.NotFoundHandler)

		r.Mount("/imoveis", property.PublicRoutes(propertyHandler))
		r.Mount("/contato", contact.PublicRoutes(contactHandler, middleware.RateLimit(s.contactLimiter)))
		r.Mount("/auth", auth.SetupRoutes(authHandler, middleware.RateLimit(s.loginLimiter)))

		// Everything under /admin is gated, unknown paths included.
		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.SessionMiddleware(deps.Tokens))
			r.Use(middleware.AdminMiddleware(deps.Users))
			r.NotFound(utils.NotFoundHandler)
			r.MethodNotAllowed(utils.NotFoundHandler)

			r.Mount("/imoveis", property.AdminRoutes(propertyHandler))
			r.Mount("/contatos", contact.AdminRoutes(contactHandler))
		})
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.Get("/", utils.RootHandler)
	r.Route("/api", mountAPI)
	mountAPI(r)

	s.router = r
	deps.Tokens.StartJanitor(janitorInterval)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close stops the token janitor and the rate limiter cleanup loops.
func (s *Server) Close() {
	s.tokens.Stop()
	s.loginLimiter.Stop()
	s.contactLimiter.Stop()
}
