package auth

import (
	"errors"
	"fmt"
	"sync"

	"github.com/imobiliaria/imoveis-api/internal/apperr"
	"github.com/imobiliaria/imoveis-api/internal/utils"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = apperr.Auth("CPF ou senha inválidos")
	ErrUserNotFound       = apperr.Auth("Usuário não encontrado")
)

// NormalizeCPF strips everything but digits.
func NormalizeCPF(cpf string) string {
	return utils.NormalizeCPF(cpf)
}

// NewUser hashes password with bcrypt at the given cost.
func NewUser(id int, cpf, password, name, email, role string, cost int) (User, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return User{}, fmt.Errorf("hash password for user %d: %w", id, err)
	}
	return User{
		ID:           id,
		CPF:          NormalizeCPF(cpf),
		PasswordHash: string(hashed),
		Name:         name,
		Email:        email,
		Role:         role,
	}, nil
}

// UserStore is the read-only user directory.
type UserStore struct {
	mu    sync.RWMutex
	byID  map[int]User
	byCPF map[string]int
}

func NewUserStore(users ...User) (*UserStore, error) {
	s := &UserStore{
		byID:  make(map[int]User, len(users)),
		byCPF: make(map[string]int, len(users)),
	}
	for _, u := range users {
		if _, dup := s.byID[u.ID]; dup {
			return nil, fmt.Errorf("duplicate user id %d", u.ID)
		}
		if _, dup := s.byCPF[u.CPF]; dup {
			return nil, fmt.Errorf("duplicate user cpf for id %d", u.ID)
		}
		s.byID[u.ID] = u
		s.byCPF[u.CPF] = u.ID
	}
	return s, nil
}

func (s *UserStore) FindUserByID(id int) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return u, nil
}

// FindUserRole satisfies middleware.UserFinder.
func (s *UserStore) FindUserRole(id int) (string, error) {
	u, err := s.FindUserByID(id)
	if err != nil {
		return "", err
	}
	return u.Role, nil
}

// Authenticate checks a CPF and password pair. Unknown CPFs and wrong
// passwords both yield ErrInvalidCredentials.
func (s *UserStore) Authenticate(cpf, password string) (User, error) {
	s.mu.RLock()
	id, ok := s.byCPF[NormalizeCPF(cpf)]
	u := s.byID[id]
	s.mu.RUnlock()
	if !ok {
		return User{}, ErrInvalidCredentials
	}

	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, apperr.Internal(fmt.Errorf("compare password for user %d: %w", u.ID, err))
	}
	return u, nil
}
