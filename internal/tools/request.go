package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rodhayl/specit/internal/backend"
	"github.com/rodhayl/specit/internal/orchestrator"
)

// AvailabilityFunc reports the generation backend's availability at the
// moment a request is handled, so a backend that comes and goes is
// re-checked per call instead of once at startup.
type AvailabilityFunc func() backend.Availability

// RequestTool handles the author_request MCP tool: the single entry
// point for prompts and commands directed at the authoring agents.
type RequestTool struct {
	handler *orchestrator.Handler
	avail   AvailabilityFunc
}

// NewRequestTool creates a RequestTool.
func NewRequestTool(handler *orchestrator.Handler, avail AvailabilityFunc) *RequestTool {
	return &RequestTool{handler: handler, avail: avail}
}

// Definition returns the MCP tool definition for registration.
func (t *RequestTool) Definition() mcp.Tool {
	return mcp.NewTool("author_request",
		mcp.WithDescription(
			"Send a prompt or command to the document authoring agents. "+
				"With no command (or command `chat`) this drives a guided, "+
				"question-by-question conversation for the current phase. "+
				"Commands `new`, `template`, `help` and `status` also work "+
				"while the generation backend is offline.",
		),
		mcp.WithString("prompt",
			mcp.Description("Free-form request text, or the answer to the current conversation question."),
		),
		mcp.WithString("command",
			mcp.Description("Optional command: chat, new, template, help, status, review."),
		),
		mcp.WithString("agent",
			mcp.Description("Agent name or phase to address. Defaults to the workflow's current phase."),
		),
		mcp.WithString("title",
			mcp.Description("Document title used when scaffolding with `new` or `template`."),
		),
		mcp.WithString("documentType",
			mcp.Description("Document type override: prd, requirements, design, tasks."),
		),
		mcp.WithString("conversationMode",
			mcp.Description("Set to \"true\" to force conversation handling."),
		),
		mcp.WithString("directMode",
			mcp.Description("Set to \"true\" to force one-shot direct handling."),
		),
		mcp.WithString("offline",
			mcp.Description("Set to \"true\" to force offline handling even when the backend is available."),
		),
	)
}

// Handle processes the author_request tool call.
func (t *RequestTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	avail := t.avail()
	if req.GetString("offline", "") == "true" {
		avail = backend.Offline("offline handling forced by request")
	}

	resp, err := t.handler.Handle(ctx, buildRequest(req), avail)
	if err != nil {
		return nil, fmt.Errorf("handling request: %w", err)
	}

	return mcp.NewToolResultText(formatResponse(resp)), nil
}
