package controls

import (
	"context"
	"fmt"
	"time"

	"github.com/amprfi/block-kit-sdk/internal/idgen"
	"github.com/amprfi/block-kit-sdk/internal/metrics"
	"github.com/amprfi/block-kit-sdk/internal/syncutil"
)

// UsageInitializer is the slice of the usage ledger the manager needs:
// a fresh zero record on activation and a reset on teardown.
type UsageInitializer interface {
	Init(ctx context.Context, sessionID, assetID string) error
	Reset(ctx context.Context, sessionID string) error
}

// Manager handles the control session lifecycle.
type Manager struct {
	store Store
	usage UsageInitializer
	locks syncutil.SessionLocks
}

// NewManager creates a new control session manager.
func NewManager(store Store, usage UsageInitializer) *Manager {
	return &Manager{store: store, usage: usage}
}

// Locks exposes the per-session mutexes. Teardown holds a session's
// lock while it stamps ExpiredAt and resets usage, and evaluation holds
// the same lock across its check-then-record sequence, so the two can
// never interleave.
func (m *Manager) Locks() *syncutil.SessionLocks {
	return &m.locks
}

// Activate validates the settings, supersedes any live session for the
// block, and opens a new session with a zero usage record. Failed
// validation creates no state at all.
func (m *Manager) Activate(ctx context.Context, blockID string, settings ControlSettings) (*Session, error) {
	if blockID == "" {
		return nil, &ValidationError{Code: "invalid_settings", Message: "blockId is required"}
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	// Supersede the previous session; its usage is discarded, never
	// merged into the new envelope. A storage fault here fails the
	// activation outright: creating a new session while the old one is
	// still live would leave two envelopes for the block.
	prev, err := m.store.GetByBlock(ctx, blockID)
	if err != nil && err != ErrSessionNotFound {
		return nil, fmt.Errorf("look up live session: %w", err)
	}
	if prev != nil {
		if err := m.expireSession(ctx, prev); err != nil {
			return nil, fmt.Errorf("supersede session %s: %w", prev.ID, err)
		}
	}

	s := &Session{
		ID:          idgen.WithPrefix("ses_"),
		BlockID:     blockID,
		Settings:    settings,
		ActivatedAt: time.Now(),
	}
	if err := m.store.Create(ctx, s); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	if err := m.usage.Init(ctx, s.ID, settings.AssetID); err != nil {
		// Roll back so a failed activation leaves no partial state.
		_ = m.store.Delete(ctx, s.ID)
		return nil, fmt.Errorf("init usage record: %w", err)
	}
	metrics.SessionsActivatedTotal.Inc()
	return s, nil
}

// Current returns the session if it is live, or nil when absent.
// Expiry is lazy: a session past its window reads as absent without an
// Expire call, and the stored row is left untouched.
func (m *Manager) Current(ctx context.Context, sessionID string) (*Session, error) {
	s, err := m.store.Get(ctx, sessionID)
	if err == ErrSessionNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !s.ActiveAt(time.Now()) {
		return nil, nil
	}
	return s, nil
}

// ActiveForBlock returns the block's live session, or nil when absent.
func (m *Manager) ActiveForBlock(ctx context.Context, blockID string) (*Session, error) {
	s, err := m.store.GetByBlock(ctx, blockID)
	if err == ErrSessionNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !s.ActiveAt(time.Now()) {
		return nil, nil
	}
	return s, nil
}

// Expire tears a session down explicitly (user revoked access) and
// clears its usage.
func (m *Manager) Expire(ctx context.Context, sessionID string) error {
	s, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	return m.expireSession(ctx, s)
}

func (m *Manager) expireSession(ctx context.Context, s *Session) error {
	// Serialize with any in-flight evaluation for this session so a
	// usage record cannot land after the reset.
	release := m.locks.Acquire(s.ID)
	defer release()

	now := time.Now()
	s.ExpiredAt = &now
	if err := m.store.Update(ctx, s); err != nil {
		return err
	}
	if err := m.usage.Reset(ctx, s.ID); err != nil {
		return err
	}
	metrics.SessionsExpiredTotal.Inc()
	return nil
}
