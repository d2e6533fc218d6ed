package property

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/imobiliaria/imoveis-api/internal/apperr"
)

var ErrNotFound = apperr.NotFound("Imóvel não encontrado")

// Store is the in-memory property collection. Ids come from a high-water
// mark so a deleted id is never handed out again.
type Store struct {
	mu     sync.RWMutex
	items  []Property
	lastID int
	now    func() time.Time
}

// NewStore returns a store holding a copy of seed.
func NewStore(seed []Property) (*Store, error) {
	s := &Store{now: func() time.Time { return time.Now().UTC() }}
	if err := s.Reset(seed); err != nil {
		return nil, err
	}
	return s, nil
}

// WithClock replaces the time source, for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

// Reset replaces the contents with seed and rewinds the id counter to the
// highest seed id.
func (s *Store) Reset(seed []Property) error {
	items := make([]Property, 0, len(seed))
	seen := make(map[int]struct{}, len(seed))
	lastID := 0
	for _, p := range seed {
		if p.ID <= 0 {
			return fmt.Errorf("seed property %q: id must be positive", p.Title)
		}
		if _, dup := seen[p.ID]; dup {
			return fmt.Errorf("seed property %q: duplicate id %d", p.Title, p.ID)
		}
		seen[p.ID] = struct{}{}
		lastID = max(lastID, p.ID)
		items = append(items, p.clone())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.lastID = lastID
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *Store) indexOf(id int) int {
	return slices.IndexFunc(s.items, func(p Property) bool { return p.ID == id })
}

// Get returns the property regardless of visibility.
func (s *Store) Get(id int) (Property, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return Property{}, ErrNotFound
	}
	return s.items[i].clone(), nil
}

// GetPublic is Get restricted to publicly visible properties. Hidden
// properties are reported as not found.
func (s *Store) GetPublic(id int) (Property, error) {
	p, err := s.Get(id)
	if err != nil || !p.Visible() {
		return Property{}, ErrNotFound
	}
	return p, nil
}

// Create validates in and appends a new property.
func (s *Store) Create(in Input) (Property, error) {
	if err := validateCreate(in); err != nil {
		return Property{}, err
	}

	p := Property{
		Title:       strings.TrimSpace(*in.Title),
		Type:        strings.TrimSpace(*in.Type),
		Purpose:     strings.TrimSpace(*in.Purpose),
		Price:       in.Price.Float(),
		Description: deref(in.Description),
		Bedrooms:    in.Bedrooms.Int(),
		Bathrooms:   in.Bathrooms.Int(),
		Area:        in.Area.Float(),
		Address:     deref(in.Address),
		Photos:      []string{},
		Status:      StatusAvailable,
		Enabled:     in.Enabled == nil || *in.Enabled,
	}
	if in.Photos != nil {
		p.Photos = append(p.Photos, *in.Photos...)
	}
	if in.Status != nil && strings.TrimSpace(*in.Status) != "" {
		p.Status = strings.TrimSpace(*in.Status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	s.lastID++
	p.ID = s.lastID
	p.PublishedAt = now
	p.CreatedAt = now
	p.UpdatedAt = now
	s.items = append(s.items, p)
	return p.clone(), nil
}

// Update merges the fields present in in over the stored property. The id
// and creation time never change; the update time always moves forward.
func (s *Store) Update(id int, in Input) (Property, error) {
	if err := validateUpdate(in); err != nil {
		return Property{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return Property{}, ErrNotFound
	}
	p := s.items[i].clone()

	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Type != nil {
		p.Type = strings.TrimSpace(*in.Type)
	}
	if in.Purpose != nil {
		p.Purpose = strings.TrimSpace(*in.Purpose)
	}
	if in.Price != nil {
		p.Price = in.Price.Float()
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Bedrooms != nil {
		p.Bedrooms = in.Bedrooms.Int()
	}
	if in.Bathrooms != nil {
		p.Bathrooms = in.Bathrooms.Int()
	}
	if in.Area != nil {
		p.Area = in.Area.Float()
	}
	if in.Address != nil {
		p.Address = *in.Address
	}
	if in.Photos != nil {
		p.Photos = append([]string{}, *in.Photos...)
	}
	if in.Status != nil {
		p.Status = strings.TrimSpace(*in.Status)
	}
	if in.Enabled != nil {
		p.Enabled = *in.Enabled
	}

	now := s.now()
	if !now.After(p.UpdatedAt) {
		now = p.UpdatedAt.Add(time.Nanosecond)
	}
	p.UpdatedAt = now

	s.items[i] = p
	return p.clone(), nil
}

func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

// snapshot copies the items matching keep, under the read lock.
func (s *Store) snapshot(keep func(Property) bool) []Property {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Property, 0, len(s.items))
	for _, p := range s.items {
		if keep(p) {
			out = append(out, p.clone())
		}
	}
	return out
}

func validateCreate(in Input) error {
	var missing []string
	if blank(in.Title) {
		missing = append(missing, "titulo")
	}
	if blank(in.Type) {
		missing = append(missing, "tipo")
	}
	if blank(in.Purpose) {
		missing = append(missing, "finalidade")
	}
	if in.Price == nil {
		missing = append(missing, "preco")
	}
	if len(missing) > 0 {
		return apperr.Validation("Dados obrigatórios não informados: " + strings.Join(missing, ", "))
	}
	if in.Price.Float() <= 0 {
		return apperr.Validation("Preço inválido")
	}
	return nil
}

func validateUpdate(in Input) error {
	for field, v := range map[string]*string{"titulo": in.Title, "tipo": in.Type, "finalidade": in.Purpose} {
		if v != nil && strings.TrimSpace(*v) == "" {
			return apperr.Validation("Campo obrigatório não pode ficar vazio: " + field)
		}
	}
	if in.Price != nil && in.Price.Float() <= 0 {
		return apperr.Validation("Preço inválido")
	}
	return nil
}

func blank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
