// Package usage tracks cumulative spend against a control session.
//
// One record exists per session, created at zero when the session
// activates. The record only ever grows while the session is live:
// Record is called exactly once per accepted proposal, strictly after
// the compliance evaluator has approved it, so rejected attempts never
// count. Reset clears the record when the owning session is superseded
// or torn down.
package usage

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/amprfi/block-kit-sdk/internal/amount"
)

// UsageRecord is the cumulative spend for one control session.
type UsageRecord struct {
	SessionID        string    `json:"sessionId"`
	AssetID          string    `json:"assetId"`
	CumulativeSpent  string    `json:"cumulativeSpent"` // decimal string, monotonic while live
	TransactionCount int       `json:"transactionCount"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Store persists usage records.
type Store interface {
	Init(ctx context.Context, sessionID, assetID string) error
	Get(ctx context.Context, sessionID string) (*UsageRecord, error)
	// Add atomically adds amount to the cumulative spend and bumps the
	// transaction count. The write commits fully or not at all; a
	// concurrent reader never observes a partial update.
	Add(ctx context.Context, sessionID, amount string) error
	Reset(ctx context.Context, sessionID string) error
	Delete(ctx context.Context, sessionID string) error
}

// Ledger is the usage ledger over a backing store.
type Ledger struct {
	store Store
}

// New creates a usage ledger.
func New(store Store) *Ledger {
	return &Ledger{store: store}
}

// Init creates a fresh zero record for a newly activated session.
func (l *Ledger) Init(ctx context.Context, sessionID, assetID string) error {
	done := observeOp("init")
	defer done()
	return l.store.Init(ctx, sessionID, assetID)
}

// Record adds an accepted proposal's amount to the session's
// cumulative spend. It is the sole mutator of the running total.
func (l *Ledger) Record(ctx context.Context, sessionID, amt string) error {
	done := observeOp("record")
	defer done()

	if _, ok := amount.ParsePositive(amt); !ok {
		return fmt.Errorf("usage: amount %q is not a positive decimal", amt)
	}
	return l.store.Add(ctx, sessionID, amt)
}

// Spent returns the session's cumulative spend as a big.Int in
// smallest asset units. A missing record reads as zero.
func (l *Ledger) Spent(ctx context.Context, sessionID string) (*big.Int, error) {
	done := observeOp("spent")
	defer done()

	rec, err := l.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return big.NewInt(0), nil
	}
	v, ok := amount.Parse(rec.CumulativeSpent)
	if !ok {
		return nil, fmt.Errorf("usage: stored spend %q is unparseable", rec.CumulativeSpent)
	}
	return v, nil
}

// Count returns the number of accepted proposals for the session.
func (l *Ledger) Count(ctx context.Context, sessionID string) (int, error) {
	rec, err := l.store.Get(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	if rec == nil {
		return 0, nil
	}
	return rec.TransactionCount, nil
}

// Get returns the full usage record, or nil if none exists.
func (l *Ledger) Get(ctx context.Context, sessionID string) (*UsageRecord, error) {
	return l.store.Get(ctx, sessionID)
}

// Reset clears usage to zero. Called only when the owning session is
// replaced or explicitly expired.
func (l *Ledger) Reset(ctx context.Context, sessionID string) error {
	done := observeOp("reset")
	defer done()
	return l.store.Reset(ctx, sessionID)
}
