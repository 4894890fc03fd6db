package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. It suits development and
// tests; sessions are lost on restart and not shared between instances.
type MemoryStore struct {
	byToken map[string]*Session
	tokens  map[string]string // id -> token
	mu      sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byToken: make(map[string]*Session),
		tokens:  make(map[string]string),
	}
}

func (m *MemoryStore) Create(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(s)
	return nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.byToken[token]
	if !ok {
		return nil, ErrNotFound
	}
	if s.IsExpired() {
		return nil, ErrExpired
	}
	return s.Clone(), nil
}

func (m *MemoryStore) Update(_ context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	old, ok := m.tokens[s.ID]
	if !ok {
		return ErrNotFound
	}
	if old != s.Token {
		delete(m.byToken, old)
	}
	m.put(s)
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.byToken[token]; ok {
		delete(m.tokens, s.ID)
		delete(m.byToken, token)
	}
	return nil
}

func (m *MemoryStore) Touch(_ context.Context, token string, lastActiveAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.byToken[token]
	if !ok {
		return ErrNotFound
	}
	s.LastActiveAt = lastActiveAt
	return nil
}

func (m *MemoryStore) put(s *Session) {
	cp := s.Clone()
	cp.dirty, cp.isNew = false, false
	m.byToken[s.Token] = cp
	m.tokens[s.ID] = s.Token
}
