package utils

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// IntParam reads a positive integer URL parameter captured by chi.
func IntParam(r *http.Request, name string) (int, bool) {
	n, err := strconv.Atoi(chi.URLParam(r, name))
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
