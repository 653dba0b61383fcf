package httpauth

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// ErrUserNotFound is returned by UserStore lookups for an unknown user.
var ErrUserNotFound = errors.New("httpauth: user not found")

// UserStore holds Basic-auth credentials and verifies a user/password
// pair against them.
type UserStore interface {
	Verify(user, pass string) bool
	Exists(user string) bool
	Add(user, pass string) error
	Update(user, pass string) error
	Remove(user string)
}

// MemoryUserStore is an in-memory UserStore hashing passwords with bcrypt
// rather than storing them in cleartext — the one previously-unused
// shockwave dependency this framework finally gives a real job.
type MemoryUserStore struct {
	mu    sync.RWMutex
	hash  map[string][]byte
	cost  int
}

// NewMemoryUserStore constructs an empty store using bcrypt's default
// cost factor.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{hash: make(map[string][]byte), cost: bcrypt.DefaultCost}
}

// Add registers a new user. Returns an error if the user already exists.
func (s *MemoryUserStore) Add(user, pass string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.hash[user]; exists {
		return errors.New("httpauth: user already exists")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pass), s.cost)
	if err != nil {
		return err
	}
	s.hash[user] = h
	return nil
}

// Update replaces an existing user's password. Returns ErrUserNotFound if
// the user is unknown.
func (s *MemoryUserStore) Update(user, pass string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.hash[user]; !exists {
		return ErrUserNotFound
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pass), s.cost)
	if err != nil {
		return err
	}
	s.hash[user] = h
	return nil
}

// Remove deletes a user, if present.
func (s *MemoryUserStore) Remove(user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.hash, user)
}

// Exists reports whether user is currently registered.
func (s *MemoryUserStore) Exists(user string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.hash[user]
	return ok
}

// Verify reports whether pass is the correct password for user.
func (s *MemoryUserStore) Verify(user, pass string) bool {
	s.mu.RLock()
	h, ok := s.hash[user]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword(h, []byte(pass)) == nil
}
