package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// Tool definitions for the block kit MCP server.
// Descriptions are what the LLM reads to decide which tool to use.

var ToolGetManifest = mcp.NewTool("get_manifest",
	mcp.WithDescription(
		"Get this block's manifest: name, version, publisher, block type, "+
			"and fee terms. Use this to learn what the block does before "+
			"granting it control settings."),
)

var ToolActivateControls = mcp.NewTool("activate_controls",
	mcp.WithDescription(
		"Grant a block an operational envelope: which asset it may trade, "+
			"for how many days, and the per-transaction and cumulative spend caps. "+
			"Activating replaces any existing envelope for the block and resets its usage."),
	mcp.WithString("block_id",
		mcp.Required(),
		mcp.Description("The block to authorize (e.g. 'blk_a1b2c3')")),
	mcp.WithString("asset_id",
		mcp.Required(),
		mcp.Description("Asset the block may transact in (ticker like 'BTC' or a 0x contract address)")),
	mcp.WithNumber("duration_days",
		mcp.Required(),
		mcp.Description("How many days the authorization lasts (must be positive)")),
	mcp.WithString("max_per_transaction",
		mcp.Required(),
		mcp.Description("Largest single transaction allowed, as a decimal string (e.g. '100')")),
	mcp.WithString("cumulative_max",
		mcp.Required(),
		mcp.Description("Total spend allowed across the whole authorization window (e.g. '250')")),
)

var ToolGetControls = mcp.NewTool("get_controls",
	mcp.WithDescription(
		"Look up the active control settings for a block. "+
			"Returns nothing if the block has no live authorization."),
	mcp.WithString("block_id",
		mcp.Required(),
		mcp.Description("The block to look up")),
)

var ToolExpireSession = mcp.NewTool("expire_session",
	mcp.WithDescription(
		"Revoke a control session immediately. The block loses its authorization "+
			"and its recorded usage is cleared."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("The session ID from a previous activate_controls result")),
)

var ToolGetUsage = mcp.NewTool("get_usage",
	mcp.WithDescription(
		"Check how much of its envelope a block has consumed: cumulative spend "+
			"and transaction count for a control session."),
	mcp.WithString("session_id",
		mcp.Required(),
		mcp.Description("The session to inspect")),
)

var ToolSubmitProposal = mcp.NewTool("submit_proposal",
	mcp.WithDescription(
		"Submit a transaction proposal for compliance evaluation. "+
			"The proposal is checked against the block's control settings and, "+
			"if accepted, its amount is charged against the cumulative envelope "+
			"and the proposal is forwarded to the wallet. Submissions are not "+
			"deduplicated: submitting twice spends twice."),
	mcp.WithString("block_id",
		mcp.Required(),
		mcp.Description("The proposing block")),
	mcp.WithString("action_type",
		mcp.Required(),
		mcp.Description("What the block wants to do (e.g. 'buy', 'sell', 'swap')")),
	mcp.WithString("asset_id",
		mcp.Required(),
		mcp.Description("Asset to transact in")),
	mcp.WithString("amount",
		mcp.Required(),
		mcp.Description("Transaction size as a decimal string (must be positive)")),
	mcp.WithString("currency",
		mcp.Required(),
		mcp.Description("Settlement currency (e.g. 'USDC')")),
	mcp.WithString("justification",
		mcp.Description("Optional rationale the block attaches for the wallet owner")),
)
