package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/elcfinder/elcfinder/core"
	"github.com/elcfinder/elcfinder/core/algo"
	"github.com/elcfinder/elcfinder/internal/contract"
	"github.com/elcfinder/elcfinder/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// configFor clones the base config and applies the request's weights, limit and tie-break.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	args := request.GetArguments()

	overrides := schema.Weights{}
	for _, c := range schema.AllCriteria {
		if _, ok := args[string(c)]; !ok {
			continue
		}
		v, err := request.RequireFloat(string(c))
		if err != nil {
			return nil, fmt.Errorf("invalid weight for %s: %w", c, err)
		}
		if err := contract.ValidateWeight(c, v); err != nil {
			return nil, err
		}
		overrides[c] = v
	}
	cfg := h.baseCfg.CloneWithWeights(overrides)

	if _, ok := args["limit"]; ok {
		limit := request.GetInt("limit", 0)
		if limit < 1 || limit > contract.MaxResultLimit {
			return nil, fmt.Errorf("limit must be between 1 and %d", contract.MaxResultLimit)
		}
		cfg.ResultLimit = limit
	}

	if tb := strings.ToLower(request.GetString("tie_break", "")); tb != "" {
		if _, ok := schema.ValidTieBreaks[schema.TieBreak(tb)]; !ok {
			return nil, fmt.Errorf("invalid tie_break '%s', must be input, pairwise or name", tb)
		}
		cfg.TieBreak = schema.TieBreak(tb)
	}
	return cfg, nil
}

// rank ranks the configured source without recording history.
func (h *toolHandler) rank(ctx context.Context, request mcp.CallToolRequest) (*contract.Config, []schema.ScoredSchool, *mcp.CallToolResult) {
	cfg, err := h.configFor(request)
	if err != nil {
		return nil, nil, mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err))
	}
	return cfg, core.GetRankingResults(core.WithoutHistory(ctx), cfg, h.mgr), nil
}

// jsonResult renders v as an indented JSON text result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRankSchools(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, ranked, errResult := h.rank(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(schema.EnrichSchools(ranked))
}

func (h *toolHandler) handleGetInsight(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, ranked, errResult := h.rank(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(algo.BuildInsight(ranked, cfg.Weights, nil))
}

func (h *toolHandler) handleGetChart(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, ranked, errResult := h.rank(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(algo.ChartPoints(ranked))
}

func (h *toolHandler) handleGetMap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, ranked, errResult := h.rank(ctx, request)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(algo.MapMarkers(ranked))
}

func (h *toolHandler) handleListCriteria(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(algo.BuildCriteriaModel(h.baseCfg.Weights))
}
