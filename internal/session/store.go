// Package session holds the authenticated identity for the lifetime of a
// login. The store is an explicit object wired through the bootstrap rather
// than ambient process state: sessions are created on login/signup, dropped on
// logout, and expire after the configured TTL.
package session

import (
	"sync"
	"time"

	"github.com/ZertGraf/scrumboard/internal/domain"
	"github.com/google/uuid"
)

type Session struct {
	Token     string      `json:"token"`
	UserID    string      `json:"user_id"`
	Name      string      `json:"name"`
	Role      domain.Role `json:"role"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type Store struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]*Session

	// now is swappable for expiry tests
	now func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:      ttl,
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
}

// Create issues a fresh token for the user and registers the session.
func (s *Store) Create(user *domain.User) *Session {
	sess := &Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		Name:      user.Name,
		Role:      user.Role,
		ExpiresAt: s.now().Add(s.ttl),
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	return sess
}

// Get resolves a token into its session. Expired sessions are removed on
// access and reported as absent.
func (s *Store) Get(token string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[token]
	if !ok {
		return nil, false
	}
	if s.now().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return nil, false
	}
	return sess, true
}

func (s *Store) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Len reports the number of live sessions, expired ones included until they
// are touched.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
