package utils_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/imobiliaria/imoveis-api/internal/apperr"
	"github.com/imobiliaria/imoveis-api/internal/utils"
)

type payload struct {
	Nome string `json:"nome"`
}

func decode(t *testing.T, body string, max int64) (payload, error) {
	t.Helper()
	var p payload
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	err := utils.DecodeJSON(rec, req, max, &p)
	return p, err
}

func TestDecodeJSON_EmptyBody(t *testing.T) {
	p, err := decode(t, "", 0)
	if err != nil {
		t.Fatalf("expected no error for empty body, got %v", err)
	}
	if p.Nome != "" {
		t.Errorf("expected zero value, got %+v", p)
	}
}

// TestDecodeJSON_Malformed verifies that malformed JSON is reported as a
// validation error (400), not an internal one.
func TestDecodeJSON_Malformed(t *testing.T) {
	_, err := decode(t, `{"nome":`, 0)
	if err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
	if apperr.Status(err) != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", apperr.Status(err))
	}
}

func TestDecodeJSON_TooLarge(t *testing.T) {
	_, err := decode(t, `{"nome":"`+strings.Repeat("a", 64)+`"}`, 16)
	if apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for oversized body, got %v", err)
	}
}

func TestDecodeJSON_Valid(t *testing.T) {
	p, err := decode(t, `{"nome":"Ana"}`, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Nome != "Ana" {
		t.Errorf("expected nome Ana, got %q", p.Nome)
	}
}

func serve(h http.HandlerFunc) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %s", rec.Body.String())
	}
	return body["error"]
}

func TestHandle_MapsErrorKinds(t *testing.T) {
	rec := serve(utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		return apperr.NotFound("Imóvel não encontrado")
	}))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if got := errorBody(t, rec); got != "Imóvel não encontrado" {
		t.Errorf("unexpected error message %q", got)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}
}

func TestHandle_InternalErrorIsGeneric(t *testing.T) {
	rec := serve(utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		return errors.New("secret detail")
	}))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := errorBody(t, rec); got != apperr.InternalMessage {
		t.Errorf("expected generic message, got %q", got)
	}
}

// TestHandle_RecoversPanic verifies that a panicking handler yields a 500
// instead of taking the process down.
func TestHandle_RecoversPanic(t *testing.T) {
	rec := serve(utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		panic("boom")
	}))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

// TestHandle_PanicAfterWrite verifies that a panic after the response has
// started does not append a second status or an error body.
func TestHandle_PanicAfterWrite(t *testing.T) {
	rec := serve(utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":1}`))
		panic("boom")
	}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected the original 201, got %d", rec.Code)
	}
	if got := rec.Body.String(); got != `{"id":1}` {
		t.Errorf("expected untouched body, got %q", got)
	}
}

func TestHandle_ErrorAfterWrite(t *testing.T) {
	rec := serve(utils.Handle(func(w http.ResponseWriter, r *http.Request) error {
		utils.WriteJSON(w, http.StatusOK, utils.Message{Message: "ok"})
		return apperr.NotFound("late")
	}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected the original 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "late") {
		t.Errorf("expected no error body appended, got %q", rec.Body.String())
	}
}

func TestNotFoundHandler(t *testing.T) {
	rec := serve(utils.NotFoundHandler)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	if errorBody(t, rec) == "" {
		t.Error("expected an error message")
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.WithValue(context.Background(), utils.ContextUserIDKey, 7)
	ctx = context.WithValue(ctx, utils.ContextTokenKey, "abc")

	if id, ok := utils.GetUserIDFromContext(ctx); !ok || id != 7 {
		t.Errorf("expected user 7, got %d (ok=%v)", id, ok)
	}
	if tok, ok := utils.GetTokenFromContext(ctx); !ok || tok != "abc" {
		t.Errorf("expected token abc, got %q (ok=%v)", tok, ok)
	}
	if _, ok := utils.GetUserIDFromContext(context.Background()); ok {
		t.Error("expected no user in empty context")
	}
}

func TestNormalizeCPF(t *testing.T) {
	cases := map[string]string{
		"123.456.789-01": "12345678901",
		"12345678901":    "12345678901",
		"":               "",
	}
	for in, want := range cases {
		if got := utils.NormalizeCPF(in); got != want {
			t.Errorf("NormalizeCPF(%q) = %q, want %q", in, got, want)
		}
	}
}
