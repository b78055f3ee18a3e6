package compliance

import (
	"context"
	"fmt"
	"math/big"

	"github.com/amprfi/block-kit-sdk/internal/amount"
	"github.com/amprfi/block-kit-sdk/internal/blocks"
	"github.com/amprfi/block-kit-sdk/internal/controls"
	"github.com/amprfi/block-kit-sdk/internal/syncutil"
	"github.com/amprfi/block-kit-sdk/internal/usage"
)

// Evaluator enforces control settings against transaction proposals.
//
// Checks run in a fixed order and short-circuit on the first failure:
// active authorization, asset match, per-transaction ceiling, then the
// cumulative ceiling. The first three are stateless preconditions; the
// cumulative check reads the mutable usage total and, on acceptance,
// triggers the sole ledger mutation, so it runs last and the whole
// check-then-record sequence holds the session's lock. The lock is the
// manager's, shared with explicit teardown. Rejections never touch the
// ledger.
type Evaluator struct {
	controls *controls.Manager
	ledger   *usage.Ledger
	locks    *syncutil.SessionLocks
}

// NewEvaluator creates a compliance evaluator.
func NewEvaluator(ctrl *controls.Manager, ledger *usage.Ledger) *Evaluator {
	return &Evaluator{controls: ctrl, ledger: ledger, locks: ctrl.Locks()}
}

// Evaluate decides one proposal against the session's envelope. The
// proposal is assumed structurally valid (the gateway checks that); a
// returned error is a storage fault, and the ledger is untouched when
// one occurs before the final record step.
func (e *Evaluator) Evaluate(ctx context.Context, p blocks.TransactionProposal, sessionID string) (Decision, error) {
	release := e.locks.Acquire(sessionID)
	defer release()

	// Re-resolve the session under the lock: expiry between a caller's
	// pre-check and this point must not open a window where an expired
	// session still accepts.
	ses, err := e.controls.Current(ctx, sessionID)
	if err != nil {
		return Decision{}, fmt.Errorf("resolve session: %w", err)
	}
	if ses == nil {
		return rejected(ReasonNoActiveAuth, "no active control settings for this session"), nil
	}

	if p.AssetID != ses.Settings.AssetID {
		return rejected(ReasonAssetNotAuthorized,
			fmt.Sprintf("proposal is for %q, authorization covers %q", p.AssetID, ses.Settings.AssetID)), nil
	}

	amt, ok := amount.ParsePositive(p.Amount)
	if !ok {
		return Decision{}, fmt.Errorf("proposal amount %q reached evaluator unvalidated", p.Amount)
	}

	maxPerTx, ok := amount.Parse(ses.Settings.MaxPerTransaction)
	if !ok {
		return Decision{}, fmt.Errorf("stored per-transaction limit %q is unparseable", ses.Settings.MaxPerTransaction)
	}
	if amt.Cmp(maxPerTx) > 0 {
		return rejected(ReasonExceedsPerTxLimit,
			fmt.Sprintf("amount %s exceeds per-transaction limit %s", p.Amount, ses.Settings.MaxPerTransaction)), nil
	}

	spent, err := e.ledger.Spent(ctx, sessionID)
	if err != nil {
		return Decision{}, fmt.Errorf("read usage: %w", err)
	}
	cumulativeMax, ok := amount.Parse(ses.Settings.CumulativeMax)
	if !ok {
		return Decision{}, fmt.Errorf("stored cumulative limit %q is unparseable", ses.Settings.CumulativeMax)
	}
	if new(big.Int).Add(spent, amt).Cmp(cumulativeMax) > 0 {
		return rejected(ReasonExceedsCumulative,
			fmt.Sprintf("amount %s plus %s already spent exceeds cumulative limit %s",
				p.Amount, amount.Format(spent), ses.Settings.CumulativeMax)), nil
	}

	// Accepted: record usage before the lock is released so no
	// concurrent evaluation can pass the cumulative check against a
	// stale total. A record failure fails the whole call all-or-nothing.
	if err := e.ledger.Record(ctx, sessionID, p.Amount); err != nil {
		return Decision{}, fmt.Errorf("record usage: %w", err)
	}
	return accepted(), nil
}
