package blocks

import (
	"context"
	"testing"
)

func TestNewAnalystBlock_RejectsWrongType(t *testing.T) {
	m := validManifest() // block type "action"
	_, err := NewAnalystBlock(m, func(ctx context.Context, in Input) (Output, error) {
		return Output{Insight: "flat market"}, nil
	})
	if err == nil {
		t.Error("expected error for action manifest on analyst block")
	}

	m.BlockType = TypeAnalyst
	b, err := NewAnalystBlock(m, func(ctx context.Context, in Input) (Output, error) {
		return Output{Insight: "flat market"}, nil
	})
	if err != nil {
		t.Fatalf("NewAnalystBlock failed: %v", err)
	}

	out, err := b.Produce(context.Background(), Input{Kind: "market_report"})
	if err != nil {
		t.Fatalf("Produce failed: %v", err)
	}
	if out.Insight != "flat market" {
		t.Errorf("Insight = %q", out.Insight)
	}
}

func TestNewActionBlock_StampsBlockID(t *testing.T) {
	m := validManifest()
	b, err := NewActionBlock("blk_momentum", m, func(ctx context.Context, in Input) (Output, error) {
		return Output{Proposal: &TransactionProposal{
			ActionType: "buy",
			AssetID:    "BTC",
			Amount:     "0.1",
			Currency:   "USD",
		}}, nil
	})
	if err != nil {
		t.Fatalf("NewActionBlock failed: %v", err)
	}

	out, err := b.Produce(context.Background(), Input{Kind: "tick"})
	if err != nil {
		t.Fatalf("Produce failed: %v", err)
	}
	if out.Proposal == nil {
		t.Fatal("expected a proposal")
	}
	if out.Proposal.BlockID != "blk_momentum" {
		t.Errorf("BlockID = %q, want blk_momentum", out.Proposal.BlockID)
	}
}

func TestNewActionBlock_RequiresID(t *testing.T) {
	m := validManifest()
	_, err := NewActionBlock("", m, func(ctx context.Context, in Input) (Output, error) {
		return Output{}, nil
	})
	if err == nil {
		t.Error("expected error for empty block id")
	}
}
