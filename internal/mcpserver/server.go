// Package mcpserver exposes the block's compliance surface as MCP
// tools, so an LLM-driven wallet can manage control settings and
// submit proposals over stdio.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/amprfi/block-kit-sdk/internal/blocks"
	"github.com/amprfi/block-kit-sdk/internal/controls"
	"github.com/amprfi/block-kit-sdk/internal/gateway"
	"github.com/amprfi/block-kit-sdk/internal/usage"
)

// NewMCPServer creates a configured MCP server with all block kit tools registered.
func NewMCPServer(gw *gateway.Gateway, ctrl *controls.Manager, ledger *usage.Ledger, manifest blocks.Manifest) *server.MCPServer {
	s := server.NewMCPServer(manifest.Name, manifest.Version)
	h := NewHandlers(gw, ctrl, ledger, manifest)

	s.AddTool(ToolGetManifest, h.HandleGetManifest)
	s.AddTool(ToolActivateControls, h.HandleActivateControls)
	s.AddTool(ToolGetControls, h.HandleGetControls)
	s.AddTool(ToolExpireSession, h.HandleExpireSession)
	s.AddTool(ToolGetUsage, h.HandleGetUsage)
	s.AddTool(ToolSubmitProposal, h.HandleSubmitProposal)

	return s
}
