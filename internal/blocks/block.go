package blocks

import (
	"context"
	"encoding/json"
	"fmt"
)

// Input is the request a wallet (or the server on its behalf) hands to
// a block's Produce call. Payload shape is block-defined.
type Input struct {
	Kind    string          `json:"kind"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Output is what a block's Produce call returns. Analyst blocks fill
// Insight; action blocks fill Proposal, which the server routes through
// the proposal gateway before anything leaves the process.
type Output struct {
	Insight  string               `json:"insight,omitempty"`
	Proposal *TransactionProposal `json:"proposal,omitempty"`
}

// Block is the capability interface a block implementation plugs into
// the server. The two variants differ only in what Produce yields and
// in whether their output passes through compliance checking.
type Block interface {
	Manifest() Manifest
	Produce(ctx context.Context, in Input) (Output, error)
}

// ProduceFunc adapts a plain function to the Produce capability.
type ProduceFunc func(ctx context.Context, in Input) (Output, error)

// AnalystBlock wraps a developer-supplied produce function behind an
// analyst manifest. Its output is served directly to the wallet.
type AnalystBlock struct {
	manifest Manifest
	produce  ProduceFunc
}

// NewAnalystBlock builds an analyst block. The manifest must validate
// and carry block type "analyst".
func NewAnalystBlock(m Manifest, produce ProduceFunc) (*AnalystBlock, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.BlockType != TypeAnalyst {
		return nil, fmt.Errorf("manifest block type must be %q, got %q", TypeAnalyst, m.BlockType)
	}
	if produce == nil {
		return nil, fmt.Errorf("produce function is required")
	}
	return &AnalystBlock{manifest: m, produce: produce}, nil
}

func (b *AnalystBlock) Manifest() Manifest { return b.manifest }

func (b *AnalystBlock) Produce(ctx context.Context, in Input) (Output, error) {
	return b.produce(ctx, in)
}

// ActionBlock wraps a developer-supplied produce function behind an
// action manifest. Proposals it produces are stamped with the block's
// ID; the server submits them to the proposal gateway, never directly
// to the wallet.
type ActionBlock struct {
	id       string
	manifest Manifest
	produce  ProduceFunc
}

// NewActionBlock builds an action block. The manifest must validate
// and carry block type "action".
func NewActionBlock(id string, m Manifest, produce ProduceFunc) (*ActionBlock, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if m.BlockType != TypeAction {
		return nil, fmt.Errorf("manifest block type must be %q, got %q", TypeAction, m.BlockType)
	}
	if id == "" {
		return nil, fmt.Errorf("block id is required")
	}
	if produce == nil {
		return nil, fmt.Errorf("produce function is required")
	}
	return &ActionBlock{id: id, manifest: m, produce: produce}, nil
}

func (b *ActionBlock) ID() string         { return b.id }
func (b *ActionBlock) Manifest() Manifest { return b.manifest }

func (b *ActionBlock) Produce(ctx context.Context, in Input) (Output, error) {
	out, err := b.produce(ctx, in)
	if err != nil {
		return Output{}, err
	}
	if out.Proposal != nil {
		out.Proposal.BlockID = b.id
	}
	return out, nil
}
