package property

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/imobiliaria/imoveis-api/internal/apperr"
	"github.com/imobiliaria/imoveis-api/internal/utils"
)

// Repository receives a copy of every successful mutation. It may be an
// uninitialized collaborator that answers apperr.ErrNotInitialized.
type Repository interface {
	CreateProperty(ctx context.Context, p Property) error
	UpdateProperty(ctx context.Context, p Property) error
	DeleteProperty(ctx context.Context, id int) error
}

type Options struct {
	DefaultPageSize int
	MaxPageSize     int
	MaxBodyBytes    int64
}

type Handler struct {
	store *Store
	repo  Repository
	opts  Options
}

// NewHandler wires the HTTP handlers to store. repo may be nil.
func NewHandler(store *Store, repo Repository, opts Options) *Handler {
	return &Handler{store: store, repo: repo, opts: opts}
}

// List handles GET /imoveis
func (h *Handler) List(w http.ResponseWriter, r *http.Request) error {
	q := ParseQuery(r.URL.Query(), h.opts.DefaultPageSize, h.opts.MaxPageSize)
	page := h.store.ListPublic(q)

	log.Printf("[imoveis] page=%d limit=%d total=%d pages=%d",
		page.Pagination.CurrentPage, page.Pagination.ItemsPerPage,
		page.Pagination.TotalItems, page.Pagination.TotalPages)

	utils.WriteJSON(w, http.StatusOK, page)
	return nil
}

// Get handles GET /imoveis/{id}
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) error {
	id, ok := utils.IntParam(r, "id")
	if !ok {
		return ErrNotFound
	}
	p, err := h.store.GetPublic(id)
	if err != nil {
		return err
	}
	utils.WriteJSON(w, http.StatusOK, p)
	return nil
}

// AdminList handles GET /admin/imoveis
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) error {
	utils.WriteJSON(w, http.StatusOK, h.store.ListAll(ParseAdminFilter(r.URL.Query())))
	return nil
}

// AdminGet handles GET /admin/imoveis/{id}
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) error {
	id, ok := utils.IntParam(r, "id")
	if !ok {
		return ErrNotFound
	}
	p, err := h.store.Get(id)
	if err != nil {
		return err
	}
	utils.WriteJSON(w, http.StatusOK, p)
	return nil
}

// Create handles POST /admin/imoveis
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) error {
	var in Input
	if err := utils.DecodeJSON(w, r, h.opts.MaxBodyBytes, &in); err != nil {
		return err
	}

	p, err := h.store.Create(in)
	if err != nil {
		return err
	}
	log.Printf("[imoveis] created id=%d titulo=%q", p.ID, p.Title)

	if h.repo != nil {
		h.mirror("create", p.ID, h.repo.CreateProperty(r.Context(), p))
	}

	utils.WriteJSON(w, http.StatusCreated, p)
	return nil
}

// Update handles PUT /admin/imoveis/{id}
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) error {
	id, ok := utils.IntParam(r, "id")
	if !ok {
		return ErrNotFound
	}

	var in Input
	if err := utils.DecodeJSON(w, r, h.opts.MaxBodyBytes, &in); err != nil {
		return err
	}

	p, err := h.store.Update(id, in)
	if err != nil {
		return err
	}
	log.Printf("[imoveis] updated id=%d", p.ID)

	if h.repo != nil {
		h.mirror("update", p.ID, h.repo.UpdateProperty(r.Context(), p))
	}

	utils.WriteJSON(w, http.StatusOK, p)
	return nil
}

// Delete handles DELETE /admin/imoveis/{id}
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) error {
	id, ok := utils.IntParam(r, "id")
	if !ok {
		return ErrNotFound
	}
	if err := h.store.Delete(id); err != nil {
		return err
	}
	log.Printf("[imoveis] deleted id=%d", id)

	if h.repo != nil {
		h.mirror("delete", id, h.repo.DeleteProperty(r.Context(), id))
	}

	utils.WriteJSON(w, http.StatusOK, utils.Message{Message: "Imóvel excluído com sucesso"})
	return nil
}

// mirror logs persistence failures. They never fail the request, and an
// uninitialized collaborator is not worth a log line.
func (h *Handler) mirror(op string, id int, err error) {
	if err == nil || errors.Is(err, apperr.ErrNotInitialized) {
		return
	}
	log.Printf("[imoveis] persistence %s id=%d failed: %v", op, id, err)
}
