// Package gateway is the boundary where block logic hands proposals to
// the compliance core. It validates structure, consults the evaluator,
// and forwards accepted proposals toward the wallet.
package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/trace"

	"github.com/amprfi/block-kit-sdk/internal/blocks"
	"github.com/amprfi/block-kit-sdk/internal/compliance"
	"github.com/amprfi/block-kit-sdk/internal/controls"
	"github.com/amprfi/block-kit-sdk/internal/traces"
)

// Forwarder delivers an accepted proposal to the wallet-facing
// transport. The gateway performs no network I/O itself.
type Forwarder interface {
	Forward(ctx context.Context, p blocks.TransactionProposal, d compliance.Decision)
}

// Gateway is the single logical submission entry point, regardless of
// which transport carried the proposal in.
type Gateway struct {
	controls  *controls.Manager
	evaluator *compliance.Evaluator
	forwarder Forwarder
	logger    *slog.Logger
}

// New creates a proposal gateway.
func New(ctrl *controls.Manager, eval *compliance.Evaluator, fwd Forwarder, logger *slog.Logger) *Gateway {
	return &Gateway{controls: ctrl, evaluator: eval, forwarder: fwd, logger: logger}
}

// Submit runs one proposal through structural validation and
// compliance evaluation. On acceptance the proposal is forwarded,
// unmodified, strictly after the usage ledger committed — which makes
// Submit non-idempotent: a retry after a crash between acceptance and
// forwarding double-counts usage. Callers must not retry blindly.
// A returned error is a storage fault; the ledger was not mutated.
func (g *Gateway) Submit(ctx context.Context, p blocks.TransactionProposal) (compliance.Decision, error) {
	ctx, span := traces.StartSpan(ctx, "gateway.submit",
		traces.BlockID(p.BlockID), traces.AssetID(p.AssetID), traces.Amount(p.Amount))
	defer span.End()

	if err := p.Validate(); err != nil {
		d := compliance.Decision{
			Status: compliance.StatusRejected,
			Reason: compliance.ReasonMalformedProposal,
			Detail: err.Error(),
		}
		g.observe(span, d)
		return d, nil
	}

	// Resolve the block's live session. The evaluator re-checks
	// liveness under the session lock; this lookup only picks the
	// handle to lock on.
	ses, err := g.controls.ActiveForBlock(ctx, p.BlockID)
	if err != nil {
		return compliance.Decision{}, fmt.Errorf("resolve active session: %w", err)
	}
	if ses == nil {
		d := compliance.Decision{
			Status: compliance.StatusRejected,
			Reason: compliance.ReasonNoActiveAuth,
			Detail: "no active control settings for block " + p.BlockID,
		}
		g.observe(span, d)
		return d, nil
	}
	span.SetAttributes(traces.SessionID(ses.ID))

	d, err := g.evaluator.Evaluate(ctx, p, ses.ID)
	if err != nil {
		return compliance.Decision{}, err
	}
	g.observe(span, d)

	if d.Accepted() {
		g.logger.Info("proposal accepted",
			"block_id", p.BlockID, "asset_id", p.AssetID, "amount", p.Amount, "session_id", ses.ID)
		// Forward strictly after the ledger mutation committed. The
		// decision stands even if delivery fails; re-submitting would
		// count usage again.
		if g.forwarder != nil {
			g.forwarder.Forward(ctx, p, d)
			ForwardsTotal.Inc()
		}
	} else {
		g.logger.Info("proposal rejected",
			"block_id", p.BlockID, "asset_id", p.AssetID, "amount", p.Amount, "reason", d.Reason)
	}

	return d, nil
}

func (g *Gateway) observe(span trace.Span, d compliance.Decision) {
	span.SetAttributes(traces.Decision(string(d.Status)))
	DecisionsTotal.WithLabelValues(string(d.Status), string(d.Reason)).Inc()
}
