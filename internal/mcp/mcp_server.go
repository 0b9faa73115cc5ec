// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/botscan/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// platformEnum lists the accepted platform names for tool arguments.
var platformEnum = []string{"tiktok", "instagram", "snapchat", "twitter", "facebook", "youtube"}

// NewMCPServer initializes and configures the botscan MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Botscan Detection Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: evaluate_series ---
	s.AddTool(mcp.NewTool("evaluate_series",
		mcp.WithDescription("Evaluate engagement scan series for botting. Accepts one series object or an array of them."),
		mcp.WithString("series", mcp.Description(`JSON series: {"submission_id", "url", "platform", "scans": [{"collected_at", "views", "likes", "comments", "shares", "saves"}]}.`), mcp.Required()),
		mcp.WithString("platform", mcp.Description("Override the platform of every series."), mcp.Enum(platformEnum...)),
	), h.handleEvaluateSeries)

	// --- 2. Tool: evaluate_url ---
	s.AddTool(mcp.NewTool("evaluate_url",
		mcp.WithDescription("Evaluate stored submissions by URL or submission id using the configured scan store."),
		mcp.WithString("targets", mcp.Description("Submission URLs or ids, separated by commas or newlines."), mcp.Required()),
		mcp.WithString("platform", mcp.Description("Override the platform inferred from each URL."), mcp.Enum(platformEnum...)),
	), h.handleEvaluateURL)

	// --- 3. Tool: list_rules ---
	s.AddTool(mcp.NewTool("list_rules",
		mcp.WithDescription("List the detection rules with the platforms they apply to."),
		mcp.WithString("platform", mcp.Description("Only list rules that apply to this platform."), mcp.Enum(platformEnum...)),
	), h.handleListRules)

	return s
}

// StartMCPServer starts the botscan MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
