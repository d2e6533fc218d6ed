package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/imobiliaria/imoveis-api/internal/apperr"
	"github.com/imobiliaria/imoveis-api/internal/middleware"
	"github.com/imobiliaria/imoveis-api/internal/utils"
)

// mockFetcher implements middleware.SessionFetcher without any token store.
type mockFetcher struct {
	session utils.SessionData
	err     error
	gotTok  *string
}

func (m mockFetcher) FindSessionByToken(token string) (utils.SessionData, error) {
	if m.gotTok != nil {
		*m.gotTok = token
	}
	return m.session, m.err
}

// mockFinder implements middleware.UserFinder.
type mockFinder struct {
	role string
	err  error
}

func (m mockFinder) FindUserRole(id int) (string, error) {
	return m.role, m.err
}

var ok200 = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

// callWithAuth wraps a simple 200-OK inner handler in the provided middleware,
// optionally setting the Authorization header, and returns the recorded response.
func callWithAuth(t *testing.T, mw func(http.Handler) http.Handler, authorization string) *httptest.ResponseRecorder {
	t.Helper()

	handler := mw(ok200)
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestSessionMiddleware_MissingToken(t *testing.T) {
	mw := middleware.SessionMiddleware(mockFetcher{})

	for _, header := range []string{"", "Bearer", "Basic abc", "Bearer   "} {
		rec := callWithAuth(t, mw, header)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%q: expected 401, got %d", header, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), `"error"`) {
			t.Errorf("%q: expected JSON error body, got %q", header, rec.Body.String())
		}
	}
}

// TestSessionMiddleware_ExpiredSession verifies that the fetcher's expiry
// error reaches the client as a 401 containing "Sessão expirada".
func TestSessionMiddleware_ExpiredSession(t *testing.T) {
	fetcher := mockFetcher{err: apperr.Auth("Sessão expirada")}
	mw := middleware.SessionMiddleware(fetcher)

	rec := callWithAuth(t, mw, "Bearer expired-token")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Sessão expirada") {
		t.Errorf("expected body to contain %q, got: %q", "Sessão expirada", body)
	}
}

// TestSessionMiddleware_TrustsFetcherClock verifies that a session the
// fetcher accepts is not rejected again against the wall clock.
func TestSessionMiddleware_TrustsFetcherClock(t *testing.T) {
	fetcher := mockFetcher{
		session: utils.SessionData{
			UserID:    1,
			ExpiresAt: time.Date(2024, 1, 16, 9, 0, 0, 0, time.UTC),
		},
	}
	mw := middleware.SessionMiddleware(fetcher)

	rec := callWithAuth(t, mw, "Bearer token-from-a-fixed-clock")

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d; body: %s", rec.Code, rec.Body.String())
	}
}

func TestSessionMiddleware_FetcherError(t *testing.T) {
	fetcher := mockFetcher{err: errors.New("token not found")}
	mw := middleware.SessionMiddleware(fetcher)

	rec := callWithAuth(t, mw, "Bearer nonexistent-token")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
	if body := rec.Body.String(); !strings.Contains(body, "Token inválido ou expirado") {
		t.Errorf("expected generic token message, got: %q", body)
	}
}

// TestSessionMiddleware_ValidSession verifies that a valid token reaches the
// inner handler with the user id and token in the context.
func TestSessionMiddleware_ValidSession(t *testing.T) {
	const wantUserID = 7
	var seen string

	fetcher := mockFetcher{
		session: utils.SessionData{
			UserID:    wantUserID,
			ExpiresAt: time.Now().Add(1 * time.Hour),
		},
		gotTok: &seen,
	}

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, ok := utils.GetUserIDFromContext(r.Context())
		if !ok || gotUserID != wantUserID {
			http.Error(w, "wrong userID in context: "+strconv.Itoa(gotUserID), http.StatusInternalServerError)
			return
		}
		if tok, ok := utils.GetTokenFromContext(r.Context()); !ok || tok != "valid-token" {
			http.Error(w, "wrong token in context: "+tok, http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	handler := middleware.SessionMiddleware(fetcher)(inner)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("Authorization", "bearer valid-token")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d; body: %s", rec.Code, rec.Body.String())
	}
	if seen != "valid-token" {
		t.Errorf("expected fetcher to receive the bare token, got %q", seen)
	}
}

// TestAdminMiddleware_MissingUserID verifies that AdminMiddleware returns 401
// when SessionMiddleware did not run.
func TestAdminMiddleware_MissingUserID(t *testing.T) {
	mw := middleware.AdminMiddleware(mockFinder{role: "admin"})

	rec := callWithAuth(t, mw, "")

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestAdminMiddleware_Roles(t *testing.T) {
	session := mockFetcher{session: utils.SessionData{UserID: 1, ExpiresAt: time.Now().Add(time.Hour)}}

	cases := []struct {
		name   string
		finder mockFinder
		want   int
	}{
		{"admin", mockFinder{role: "admin"}, http.StatusOK},
		{"other role", mockFinder{role: "corretor"}, http.StatusForbidden},
		{"unknown user", mockFinder{err: errors.New("no such user")}, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chain := func(next http.Handler) http.Handler {
				return middleware.SessionMiddleware(session)(middleware.AdminMiddleware(tc.finder)(next))
			}
			rec := callWithAuth(t, chain, "Bearer token")
			if rec.Code != tc.want {
				t.Errorf("expected %d, got %d; body: %s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestCORSMiddleware_Wildcard(t *testing.T) {
	handler := middleware.CORSMiddleware(nil)(ok200)

	req := httptest.NewRequest(http.MethodOptions, "/admin/imoveis", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200 for preflight, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty preflight body, got %q", rec.Body.String())
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != "Content-Type, Authorization" {
		t.Errorf("unexpected allow-headers %q", got)
	}
}

func TestCORSMiddleware_AllowList(t *testing.T) {
	handler := middleware.CORSMiddleware([]string{"https://marceloalvesimoveis.com.br/"})(ok200)

	cases := map[string]string{
		"https://marceloalvesimoveis.com.br": "https://marceloalvesimoveis.com.br",
		"https://evil.example":               "",
	}
	for origin, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/imoveis", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != want {
			t.Errorf("%s: expected allow-origin %q, got %q", origin, want, got)
		}
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected request to pass through, got %d", origin, rec.Code)
		}
	}
}

func TestRateLimit_Blocks(t *testing.T) {
	store := middleware.NewLimiterStore(1, 2, time.Minute)
	defer store.Stop()
	handler := middleware.RateLimit(store)(ok200)

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	for i := 0; i < 2; i++ {
		if rec := send("10.0.0.1:1234"); rec.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, rec.Code)
		}
	}

	rec := send("10.0.0.1:5678")
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 once the burst is spent, got %d", rec.Code)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if !strings.Contains(rec.Body.String(), `"error"`) {
		t.Errorf("expected JSON error body, got %q", rec.Body.String())
	}

	if rec := send("10.0.0.2:1234"); rec.Code != http.StatusOK {
		t.Errorf("expected another client to be unaffected, got %d", rec.Code)
	}
}
