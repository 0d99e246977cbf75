package auth

import (
	"context"
	"sync"

	"ordr/pkg/platform/sentinel"
)

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, user *User) error
	ByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, user *User) error
}

// OptInStore persists pending confirmation keys.
type OptInStore interface {
	Create(ctx context.Context, optIn OptIn) error
	ByUsername(ctx context.Context, username string) (OptIn, error)
	Delete(ctx context.Context, username string) error
}

// In-memory stores keep the initial implementation lightweight and testable.
// They intentionally favor clarity over performance.
type InMemoryUserStore struct {
	mu    sync.RWMutex
	users map[string]User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{users: make(map[string]User)}
}

func (s *InMemoryUserStore) Create(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Username]; ok {
		return sentinel.ErrConflict
	}
	s.users[user.Username] = *user
	return nil
}

func (s *InMemoryUserStore) ByUsername(_ context.Context, username string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[username]; ok {
		return &user, nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemoryUserStore) Update(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.Username]; !ok {
		return sentinel.ErrNotFound
	}
	s.users[user.Username] = *user
	return nil
}

type InMemoryOptInStore struct {
	mu      sync.RWMutex
	pending map[string]OptIn
}

func NewInMemoryOptInStore() *InMemoryOptInStore {
	return &InMemoryOptInStore{pending: make(map[string]OptIn)}
}

func (s *InMemoryOptInStore) Create(_ context.Context, optIn OptIn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[optIn.Username] = optIn
	return nil
}

func (s *InMemoryOptInStore) ByUsername(_ context.Context, username string) (OptIn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if optIn, ok := s.pending[username]; ok {
		return optIn, nil
	}
	return OptIn{}, sentinel.ErrNotFound
}

func (s *InMemoryOptInStore) Delete(_ context.Context, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, username)
	return nil
}
