package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/huangsam/botscan/core"
	"github.com/huangsam/botscan/internal/contract"
	"github.com/huangsam/botscan/internal/scanfile"
	"github.com/huangsam/botscan/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// configFor clones the base config and applies the optional platform argument.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("platform", ""); p != "" {
		platform, err := schema.ParsePlatform(p)
		if err != nil {
			return nil, err
		}
		cfg.Platform = platform
	}
	return cfg, nil
}

func jsonResult(data any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleEvaluateSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid platform: %v", err)), nil
	}
	raw := strings.TrimSpace(request.GetString("series", ""))
	if raw == "" {
		return mcp.NewToolResultError("series is required"), nil
	}

	var all []schema.RawSeries
	if cfg.Platform != "" {
		all, err = decodeWithPlatform(raw, cfg.Platform)
	} else {
		all, err = scanfile.DecodeJSON(strings.NewReader(raw))
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid series: %v", err)), nil
	}

	results := core.EvaluateSeries(core.WithSuppressHeader(ctx), cfg, h.mgr, all)
	return jsonResult(schema.EnrichResults(results))
}

// decodeWithPlatform decodes series with the platform filled into every one of them.
func decodeWithPlatform(raw string, platform schema.Platform) ([]schema.RawSeries, error) {
	var generic any
	if err := json.Unmarshal([]byte(raw), &generic); err != nil {
		return nil, err
	}
	switch v := generic.(type) {
	case map[string]any:
		v["platform"] = string(platform)
	case []any:
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				m["platform"] = string(platform)
			}
		}
	}
	patched, err := json.Marshal(generic)
	if err != nil {
		return nil, err
	}
	return scanfile.DecodeJSON(strings.NewReader(string(patched)))
}

func (h *toolHandler) handleEvaluateURL(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid platform: %v", err)), nil
	}
	targets := splitTargets(request.GetString("targets", ""))
	if len(targets) == 0 {
		return mcp.NewToolResultError("targets is required"), nil
	}
	if h.mgr == nil || h.mgr.GetScanStore() == nil {
		return mcp.NewToolResultError("no scan store configured"), nil
	}

	results := core.EvaluateTargets(core.WithSuppressHeader(ctx), cfg, h.mgr, targets)
	return jsonResult(schema.EnrichResults(results))
}

// splitTargets splits a comma or newline separated list, dropping blanks.
func splitTargets(s string) []string {
	var targets []string
	for _, field := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' }) {
		if t := strings.TrimSpace(field); t != "" {
			targets = append(targets, t)
		}
	}
	return targets
}

func (h *toolHandler) handleListRules(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid platform: %v", err)), nil
	}
	rules := core.RuleDefinitions()
	if cfg.Platform != "" {
		rules = slices.DeleteFunc(rules, func(r schema.RuleDefinition) bool {
			return !slices.Contains(r.Platforms, cfg.Platform)
		})
	}
	return jsonResult(rules)
}
