// Package tools implements the MCP tool handlers for the authoring
// orchestrator.
//
// Each tool is a struct that receives its dependencies at construction
// (DIP) and exposes a Definition for registration plus a Handle method
// compatible with mcp-go's CallToolRequest signature. One file per tool.
package tools

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rodhayl/specit/internal/orchestrator"
	"github.com/rodhayl/specit/internal/routing"
)

// paramKeys lists the request parameters forwarded from tool arguments
// into the routing request. prompt and command are carried separately.
var paramKeys = []string{
	"agent",
	"phase",
	"title",
	"documentType",
	routing.ParamConversationMode,
	routing.ParamDirectMode,
}

// buildRequest maps a tool call onto a routing request.
func buildRequest(req mcp.CallToolRequest) routing.Request {
	params := make(map[string]string)
	for _, key := range paramKeys {
		if v := req.GetString(key, ""); v != "" {
			params[key] = v
		}
	}
	return routing.Request{
		Prompt:     req.GetString("prompt", ""),
		Command:    req.GetString("command", ""),
		Parameters: params,
	}
}

// formatResponse renders an orchestrator response as the tool's text
// payload: content first, then proposed updates, then next steps.
func formatResponse(resp *orchestrator.Response) string {
	var sb strings.Builder
	sb.WriteString(resp.Content)

	if len(resp.DocumentUpdates) > 0 {
		sb.WriteString("\n\n## Proposed Updates\n\n")
		for _, u := range resp.DocumentUpdates {
			fmt.Fprintf(&sb, "- `%s` — %s section %q\n", u.TargetPath, u.Mode, u.Section)
		}
	}

	if len(resp.Followups) > 0 {
		sb.WriteString("\n\n## Next Steps\n\n")
		for _, f := range resp.Followups {
			sb.WriteString("- ")
			sb.WriteString(f)
			sb.WriteString("\n")
		}
	}

	return sb.String()
}
