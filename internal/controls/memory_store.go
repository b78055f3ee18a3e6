package controls

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory session store for demo/development mode.
type MemoryStore struct {
	sessions map[string]*Session
	byBlock  map[string]string // block ID -> current session ID
	mu       sync.RWMutex
}

// NewMemoryStore creates a new in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
		byBlock:  make(map[string]string),
	}
}

func (m *MemoryStore) Create(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cp := *s
	m.sessions[s.ID] = &cp
	m.byBlock[s.BlockID] = s.ID
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) GetByBlock(ctx context.Context, blockID string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byBlock[blockID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	s, ok := m.sessions[id]
	if !ok || s.ExpiredAt != nil {
		return nil, ErrSessionNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemoryStore) Update(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[s.ID]; !ok {
		return ErrSessionNotFound
	}
	cp := *s
	m.sessions[s.ID] = &cp
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	if m.byBlock[s.BlockID] == id {
		delete(m.byBlock, s.BlockID)
	}
	return nil
}
