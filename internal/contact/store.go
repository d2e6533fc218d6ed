package contact

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/imobiliaria/imoveis-api/internal/apperr"
)

var (
	ErrNotFound      = apperr.NotFound("Contato não encontrado")
	ErrMissingFields = apperr.Validation("Nome, email e mensagem são obrigatórios")
)

// Store is the contact inbox. Entries are kept in arrival order and are
// never modified after creation.
type Store struct {
	mu     sync.Mutex
	items  []Contact
	lastID int
	now    func() time.Time
}

func NewStore() *Store {
	return &Store{now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the time source, for tests.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

// Load appends previously stored contacts, e.g. read back from the
// database, and advances the id counter past them.
func (s *Store) Load(items []Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range items {
		if c.ID <= 0 {
			return fmt.Errorf("contact from %q: id must be positive", c.Email)
		}
		if s.indexOf(c.ID) >= 0 {
			return fmt.Errorf("contact from %q: duplicate id %d", c.Email, c.ID)
		}
		s.items = append(s.items, c)
		s.lastID = max(s.lastID, c.ID)
	}
	return nil
}

// Create stores a new contact. nome, email and mensagem are required.
func (s *Store) Create(in Input) (Contact, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if in.Name == "" || in.Email == "" || strings.TrimSpace(in.Message) == "" {
		return Contact{}, ErrMissingFields
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	c := Contact{
		ID:         s.lastID,
		Name:       in.Name,
		Email:      in.Email,
		Phone:      strings.TrimSpace(in.Phone),
		Subject:    in.Subject,
		Message:    in.Message,
		ReceivedAt: s.now(),
	}
	s.items = append(s.items, c)
	return c, nil
}

// ListAll returns every contact in arrival order.
func (s *Store) ListAll() []Contact {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Contact, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Get(id int) (Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return Contact{}, ErrNotFound
	}
	return s.items[i], nil
}

func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) indexOf(id int) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}
