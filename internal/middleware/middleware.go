package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/imobiliaria/imoveis-api/internal/apperr"
	"github.com/imobiliaria/imoveis-api/internal/utils"
)

// SessionFetcher resolves a bearer token to its session. Unknown, revoked
// and expired tokens are errors; the fetcher owns the clock that decides
// expiry.
type SessionFetcher interface {
	FindSessionByToken(token string) (utils.SessionData, error)
}

// UserFinder reports the role of a user id.
type UserFinder interface {
	FindUserRole(id int) (string, error)
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func SessionMiddleware(fetcher SessionFetcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				utils.WriteError(w, http.StatusUnauthorized, "Token não fornecido")
				return
			}

			session, err := fetcher.FindSessionByToken(token)
			if err != nil {
				msg := "Token inválido ou expirado"
				if apperr.KindOf(err) == apperr.KindAuth {
					msg = apperr.PublicMessage(err)
				}
				utils.WriteError(w, http.StatusUnauthorized, msg)
				return
			}

			ctx := context.WithValue(r.Context(), utils.ContextUserIDKey, session.UserID)
			ctx = context.WithValue(ctx, utils.ContextTokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminMiddleware must run after SessionMiddleware.
func AdminMiddleware(finder UserFinder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.WriteError(w, http.StatusUnauthorized, "Token inválido ou expirado")
				return
			}

			role, err := finder.FindUserRole(userID)
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, "Usuário não encontrado")
				return
			}

			if role != "admin" {
				utils.WriteError(w, http.StatusForbidden, "Acesso restrito a administradores")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// CORSMiddleware allows any origin when allowedOrigins is empty. Otherwise
// only listed origins are echoed back. Preflight requests end here with 200.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if len(allowed) == 0 {
				h.Set("Access-Control-Allow-Origin", "*")
			} else {
				origin := r.Header.Get("Origin")
				if _, ok := allowed[origin]; ok {
					h.Set("Access-Control-Allow-Origin", origin)
				}
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			h.Set("Access-Control-Expose-Headers", "Retry-After")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
