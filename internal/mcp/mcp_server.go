// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// weightOptions declares one optional number argument per criterion.
func weightOptions() []mcp.ToolOption {
	opts := make([]mcp.ToolOption, 0, len(schema.AllCriteria))
	for _, c := range schema.AllCriteria {
		opts = append(opts, mcp.WithNumber(string(c),
			mcp.Description("Weight for "+schema.CriterionLabel(c)+" (0-10). Defaults to the configured weight."),
			mcp.Min(schema.MinWeight),
			mcp.Max(schema.MaxWeight),
		))
	}
	return opts
}

// newTool builds a tool with the weight arguments followed by extra options.
func newTool(name, description string, extra ...mcp.ToolOption) mcp.Tool {
	opts := append([]mcp.ToolOption{mcp.WithDescription(description)}, weightOptions()...)
	return mcp.NewTool(name, append(opts, extra...)...)
}

// NewMCPServer initializes and configures the elcfinder MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"ELC Finder Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	limitOption := mcp.WithNumber("limit", mcp.Description("Limit the number of results returned."))

	// --- 1. Tool: rank_schools ---
	s.AddTool(newTool("rank_schools",
		"Rank schools and early learning centres by the weighted average of their ratings.",
		limitOption,
		mcp.WithString("tie_break", mcp.Description("Order for equal scores. Defaults to 'input'."), mcp.Enum("input", "pairwise", "name")),
	), h.handleRankSchools)

	// --- 2. Tool: get_insight ---
	s.AddTool(newTool("get_insight",
		"Describe the top-ranked school and the criteria that drive its ranking.",
	), h.handleGetInsight)

	// --- 3. Tool: get_chart ---
	s.AddTool(newTool("get_chart",
		"Return {name, score} pairs for a ranking bar chart.",
		limitOption,
	), h.handleGetChart)

	// --- 4. Tool: get_map ---
	s.AddTool(newTool("get_map",
		"Return map markers with coordinates and scores for the ranked schools.",
		limitOption,
	), h.handleGetMap)

	// --- 5. Tool: list_criteria ---
	s.AddTool(mcp.NewTool("list_criteria",
		mcp.WithDescription("List every rating criterion with its configured weight and the scoring formula."),
	), h.handleListCriteria)

	return s
}

// StartMCPServer starts the elcfinder MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
