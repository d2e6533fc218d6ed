package utils

import (
	"fmt"
	"log"
	"net/http"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/imobiliaria/imoveis-api/internal/apperr"
)

// HandlerFunc is an http.HandlerFunc that reports failure by returning an
// error instead of writing it. Successful handlers write their own response.
type HandlerFunc func(w http.ResponseWriter, r *http.Request) error

// Handle adapts fn to net/http. Returned errors are mapped to a status code
// by kind, and a panic is turned into a 500 for this request only. Once fn
// has started the response, failures are only logged.
func Handle(fn HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[api] panic on %s %s: %v", r.Method, r.URL.Path, rec)
				if ww.Status() == 0 {
					WriteError(ww, http.StatusInternalServerError, apperr.InternalMessage)
				}
			}
		}()

		if err := fn(ww, r); err != nil {
			if ww.Status() != 0 {
				log.Printf("[api] %s %s failed after writing status %d: %v", r.Method, r.URL.Path, ww.Status(), err)
				return
			}
			WriteAppError(ww, r, err)
		}
	}
}

// WriteAppError writes err as {"error": ...}. Internal errors are logged
// and replaced by a generic message.
func WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("[api] %s %s failed: %v", r.Method, r.URL.Path, err)
	}
	WriteError(w, status, apperr.PublicMessage(err))
}

// NotFoundHandler answers unmatched routes, including method mismatches.
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	WriteError(w, http.StatusNotFound, "Rota não encontrada")
}

// RootHandler is a plain-text liveness check.
func RootHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprintln(w, "Server is up!")
}
