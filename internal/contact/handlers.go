package contact

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/imobiliaria/imoveis-api/internal/apperr"
	"github.com/imobiliaria/imoveis-api/internal/utils"
)

// Repository receives a copy of every successful mutation.
type Repository interface {
	CreateContact(ctx context.Context, c Contact) error
	DeleteContact(ctx context.Context, id int) error
}

type Handler struct {
	store        *Store
	repo         Repository
	maxBodyBytes int64
}

// NewHandler wires the HTTP handlers to store. repo may be nil; a
// non-positive maxBodyBytes falls back to utils.DefaultMaxBodyBytes.
func NewHandler(store *Store, repo Repository, maxBodyBytes int64) *Handler {
	return &Handler{store: store, repo: repo, maxBodyBytes: maxBodyBytes}
}

type createResponse struct {
	Message string  `json:"message"`
	Contact Contact `json:"contato"`
}

// Submit handles POST /contato
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) error {
	var in Input
	if err := utils.DecodeJSON(w, r, h.maxBodyBytes, &in); err != nil {
		return err
	}

	c, err := h.store.Create(in)
	if err != nil {
		return err
	}
	log.Printf("[contato] received id=%d subject=%q", c.ID, c.Subject)

	if h.repo != nil {
		if err := h.repo.CreateContact(r.Context(), c); err != nil && !errors.Is(err, apperr.ErrNotInitialized) {
			log.Printf("[contato] persistence create id=%d failed: %v", c.ID, err)
		}
	}

	utils.WriteJSON(w, http.StatusCreated, createResponse{
		Message: "Contato enviado com sucesso!",
		Contact: c,
	})
	return nil
}

// List handles GET /admin/contatos
func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	utils.WriteJSON(w, http.StatusOK, h.store.ListAll())
	return nil
}

// Delete handles DELETE /admin/contatos/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	id, ok := utils.IntParam(r, "id")
	if !ok {
		return ErrNotFound
	}
	if err := h.store.Delete(id); err != nil {
		return err
	}
	log.Printf("[contato] deleted id=%d", id)

	if h.repo != nil {
		if err := h.repo.DeleteContact(r.Context(), id); err != nil && !errors.Is(err, apperr.ErrNotInitialized) {
			log.Printf("[contato] persistence delete id=%d failed: %v", id, err)
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.Message{Message: "Contato excluído com sucesso"})
	return nil
}
