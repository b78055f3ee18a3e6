// Block kit MCP server - exposes the compliance surface as MCP tools for LLMs
package main

import (
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/amprfi/block-kit-sdk/internal/blocks"
	"github.com/amprfi/block-kit-sdk/internal/compliance"
	"github.com/amprfi/block-kit-sdk/internal/config"
	"github.com/amprfi/block-kit-sdk/internal/controls"
	"github.com/amprfi/block-kit-sdk/internal/gateway"
	"github.com/amprfi/block-kit-sdk/internal/logging"
	"github.com/amprfi/block-kit-sdk/internal/mcpserver"
	"github.com/amprfi/block-kit-sdk/internal/usage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	manifest := blocks.Manifest{
		Name:        cfg.BlockName,
		Version:     cfg.BlockVersion,
		BlockType:   blocks.BlockType(cfg.BlockType),
		Publisher:   cfg.BlockPublisher,
		Description: cfg.BlockDescription,
		License:     cfg.BlockLicense,
	}
	if err := manifest.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid block manifest: %v\n", err)
		os.Exit(1)
	}

	// Stdio transport owns stdout, so log errors only.
	logger := logging.New("error", "text")

	ledger := usage.New(usage.NewMemoryStore())
	ctrl := controls.NewManager(controls.NewMemoryStore(), ledger)
	eval := compliance.NewEvaluator(ctrl, ledger)
	gw := gateway.New(ctrl, eval, nil, logger)

	s := mcpserver.NewMCPServer(gw, ctrl, ledger, manifest)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}
