package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/imobiliaria/imoveis-api/internal/apperr"
	"github.com/imobiliaria/imoveis-api/internal/utils"
)

const (
	DefaultTTL = 24 * time.Hour
	tokenBytes = 32
)

var (
	ErrInvalidToken = apperr.Auth("Token inválido ou expirado")
	ErrExpiredToken = apperr.Auth("Sessão expirada")
)

// TokenStore issues opaque bearer tokens and remembers which user each one
// belongs to. Sessions are keyed by the token's SHA-256.
type TokenStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// NewTokenStore returns a store whose tokens live for ttl. A non-positive
// ttl means DefaultTTL.
func NewTokenStore(ttl time.Duration) *TokenStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// WithClock replaces the time source, for tests.
func (s *TokenStore) WithClock(now func() time.Time) *TokenStore {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
	return s
}

func (s *TokenStore) TTL() time.Duration { return s.ttl }

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func newToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// Issue creates a session for userID and returns its token.
func (s *TokenStore) Issue(userID int) (string, error) {
	for attempt := 0; attempt < 3; attempt++ {
		token, err := newToken()
		if err != nil {
			return "", err
		}
		key := hashToken(token)

		s.mu.Lock()
		if _, taken := s.sessions[key]; taken {
			s.mu.Unlock()
			continue
		}
		now := s.now()
		session := Session{
			SessionID: uuid.New(),
			TokenHash: key,
			UserID:    userID,
			IssuedAt:  now,
			ExpiresAt: now.Add(s.ttl),
		}
		s.sessions[key] = session
		s.mu.Unlock()

		log.Printf("[auth] session %s issued for user %d", session.SessionID, userID)
		return token, nil
	}
	return "", fmt.Errorf("issue token: exhausted attempts")
}

func (s *TokenStore) lookup(token string) (Session, error) {
	if token == "" {
		return Session{}, ErrInvalidToken
	}
	s.mu.RLock()
	session, ok := s.sessions[hashToken(token)]
	now := s.now()
	s.mu.RUnlock()

	if !ok {
		return Session{}, ErrInvalidToken
	}
	if now.Sub(session.IssuedAt) > s.ttl {
		return Session{}, ErrExpiredToken
	}
	return session, nil
}

// Validate returns the user id the token was issued for.
func (s *TokenStore) Validate(token string) (int, error) {
	session, err := s.lookup(token)
	if err != nil {
		return 0, err
	}
	return session.UserID, nil
}

// Revoke forgets token. Revoking an unknown token is a no-op.
func (s *TokenStore) Revoke(token string) {
	key := hashToken(token)
	s.mu.Lock()
	session, ok := s.sessions[key]
	delete(s.sessions, key)
	s.mu.Unlock()

	if ok {
		log.Printf("[auth] session %s revoked", session.SessionID)
	}
}

// FindSessionByToken satisfies middleware.SessionFetcher.
func (s *TokenStore) FindSessionByToken(token string) (utils.SessionData, error) {
	session, err := s.lookup(token)
	if err != nil {
		return utils.SessionData{}, err
	}
	return utils.SessionData{
		SessionID: session.SessionID.String(),
		UserID:    session.UserID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// PurgeExpired drops expired sessions and returns how many were removed.
func (s *TokenStore) PurgeExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for key, session := range s.sessions {
		if now.Sub(session.IssuedAt) > s.ttl {
			delete(s.sessions, key)
			removed++
		}
	}
	return removed
}

// Len reports the number of stored sessions, expired ones included.
func (s *TokenStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StartJanitor purges expired sessions every interval until Stop.
func (s *TokenStore) StartJanitor(interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := s.PurgeExpired(); n > 0 {
					log.Printf("[auth] purged %d expired sessions", n)
				}
			case <-s.stopCh:
				return
			}
		}
	}()
}

// Stop ends the janitor and waits for it. Safe to call more than once.
func (s *TokenStore) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	s.wg.Wait()
}
