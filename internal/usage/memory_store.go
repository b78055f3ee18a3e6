package usage

import (
	"context"
	"sync"
	"time"

	"github.com/amprfi/block-kit-sdk/internal/amount"
)

// MemoryStore is an in-memory usage store for demo/development mode.
type MemoryStore struct {
	records map[string]*UsageRecord
	mu      sync.RWMutex
}

// NewMemoryStore creates a new in-memory usage store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]*UsageRecord)}
}

func (m *MemoryStore) Init(ctx context.Context, sessionID, assetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records[sessionID] = &UsageRecord{
		SessionID:       sessionID,
		AssetID:         assetID,
		CumulativeSpent: "0.00000000",
		UpdatedAt:       time.Now(),
	}
	return nil
}

func (m *MemoryStore) Get(ctx context.Context, sessionID string) (*UsageRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.records[sessionID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (m *MemoryStore) Add(ctx context.Context, sessionID, amt string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[sessionID]
	if !ok {
		rec = &UsageRecord{SessionID: sessionID, CumulativeSpent: "0.00000000"}
		m.records[sessionID] = rec
	}
	rec.CumulativeSpent = amount.Add(rec.CumulativeSpent, amt)
	rec.TransactionCount++
	rec.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) Reset(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[sessionID]
	if !ok {
		return nil
	}
	rec.CumulativeSpent = "0.00000000"
	rec.TransactionCount = 0
	rec.UpdatedAt = time.Now()
	return nil
}

func (m *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.records, sessionID)
	return nil
}
