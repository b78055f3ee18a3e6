package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/amprfi/block-kit-sdk/internal/blocks"
	"github.com/amprfi/block-kit-sdk/internal/controls"
	"github.com/amprfi/block-kit-sdk/internal/gateway"
	"github.com/amprfi/block-kit-sdk/internal/usage"
)

// Handlers holds the handler functions for each MCP tool.
type Handlers struct {
	gateway  *gateway.Gateway
	controls *controls.Manager
	ledger   *usage.Ledger
	manifest blocks.Manifest
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(gw *gateway.Gateway, ctrl *controls.Manager, ledger *usage.Ledger, manifest blocks.Manifest) *Handlers {
	return &Handlers{gateway: gw, controls: ctrl, ledger: ledger, manifest: manifest}
}

// HandleGetManifest returns the block's manifest.
func (h *Handlers) HandleGetManifest(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(formatJSON(h.manifest)), nil
}

// HandleActivateControls grants a block an operational envelope.
func (h *Handlers) HandleActivateControls(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID := req.GetString("block_id", "")
	if blockID == "" {
		return mcp.NewToolResultError("block_id is required"), nil
	}

	settings := controls.ControlSettings{
		AssetID:                req.GetString("asset_id", ""),
		AuthorizedDurationDays: req.GetInt("duration_days", 0),
		MaxPerTransaction:      req.GetString("max_per_transaction", ""),
		CumulativeMax:          req.GetString("cumulative_max", ""),
	}

	ses, err := h.controls.Activate(ctx, blockID, settings)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Activation failed: %v", err)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Controls activated for block %s.\n\n", blockID)
	fmt.Fprintf(&sb, "Session ID: %s\n", ses.ID)
	fmt.Fprintf(&sb, "Asset: %s\n", ses.Settings.AssetID)
	fmt.Fprintf(&sb, "Valid until: %s\n", ses.ExpiresAt().Format("2006-01-02 15:04 MST"))
	fmt.Fprintf(&sb, "Per-transaction cap: %s\n", ses.Settings.MaxPerTransaction)
	fmt.Fprintf(&sb, "Cumulative cap: %s\n", ses.Settings.CumulativeMax)
	sb.WriteString("\nAny previous authorization for this block has been superseded.")
	return mcp.NewToolResultText(sb.String()), nil
}

// HandleGetControls looks up a block's active settings.
func (h *Handlers) HandleGetControls(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	blockID := req.GetString("block_id", "")
	if blockID == "" {
		return mcp.NewToolResultError("block_id is required"), nil
	}

	ses, err := h.controls.ActiveForBlock(ctx, blockID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Lookup failed: %v", err)), nil
	}
	if ses == nil {
		return mcp.NewToolResultText(fmt.Sprintf("Block %s has no active authorization.", blockID)), nil
	}
	return mcp.NewToolResultText(formatJSON(ses)), nil
}

// HandleExpireSession revokes a session.
func (h *Handlers) HandleExpireSession(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	if err := h.controls.Expire(ctx, sessionID); err != nil {
		if err == controls.ErrSessionNotFound {
			return mcp.NewToolResultError(fmt.Sprintf("Session %s not found", sessionID)), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("Failed to expire session: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"Session %s expired. The block's authorization is revoked and its usage cleared.", sessionID)), nil
}

// HandleGetUsage reports cumulative spend for a session.
func (h *Handlers) HandleGetUsage(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required"), nil
	}

	rec, err := h.ledger.Get(ctx, sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Lookup failed: %v", err)), nil
	}
	if rec == nil {
		return mcp.NewToolResultText(fmt.Sprintf("No usage record for session %s.", sessionID)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Session: %s\n", rec.SessionID)
	fmt.Fprintf(&sb, "Asset: %s\n", rec.AssetID)
	fmt.Fprintf(&sb, "Cumulative spent: %s\n", rec.CumulativeSpent)
	fmt.Fprintf(&sb, "Transactions: %d\n", rec.TransactionCount)
	return mcp.NewToolResultText(sb.String()), nil
}

// HandleSubmitProposal runs a proposal through compliance evaluation.
func (h *Handlers) HandleSubmitProposal(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	p := blocks.TransactionProposal{
		BlockID:       req.GetString("block_id", ""),
		ActionType:    req.GetString("action_type", ""),
		AssetID:       req.GetString("asset_id", ""),
		Amount:        req.GetString("amount", ""),
		Currency:      req.GetString("currency", ""),
		Justification: req.GetString("justification", ""),
	}

	d, err := h.gateway.Submit(ctx, p)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Evaluation failed: %v", err)), nil
	}

	if d.Accepted() {
		return mcp.NewToolResultText(fmt.Sprintf(
			"Proposal ACCEPTED and forwarded to the wallet.\n\n"+
				"Block: %s\nAction: %s\nAsset: %s\nAmount: %s %s",
			p.BlockID, p.ActionType, p.AssetID, p.Amount, p.Currency)), nil
	}

	var sb strings.Builder
	sb.WriteString("Proposal REJECTED.\n\n")
	fmt.Fprintf(&sb, "Reason: %s\n", d.Reason)
	if d.Detail != "" {
		fmt.Fprintf(&sb, "Detail: %s\n", d.Detail)
	}
	sb.WriteString("\nThe block's usage ledger was not charged.")
	return mcp.NewToolResultText(sb.String()), nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
