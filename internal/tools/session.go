package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rodhayl/specit/internal/orchestrator"
)

// SessionTool handles the author_session MCP tool: a read-only view of
// an agent's active conversation.
type SessionTool struct {
	handler *orchestrator.Handler
}

// NewSessionTool creates a SessionTool.
func NewSessionTool(handler *orchestrator.Handler) *SessionTool {
	return &SessionTool{handler: handler}
}

// Definition returns the MCP tool definition for registration.
func (t *SessionTool) Definition() mcp.Tool {
	return mcp.NewTool("author_session",
		mcp.WithDescription(
			"Inspect an agent's active conversation: session ID, progress, "+
				"answers collected so far and completion score.",
		),
		mcp.WithString("agent",
			mcp.Required(),
			mcp.Description("Agent name, e.g. prd-creator."),
		),
	)
}

// Handle processes the author_session tool call.
func (t *SessionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	agentName := req.GetString("agent", "")
	if agentName == "" {
		return mcp.NewToolResultError("agent is required."), nil
	}

	snap, ok := t.handler.ActiveSession(agentName)
	if !ok {
		return mcp.NewToolResultText(fmt.Sprintf(
			"No active conversation for %s. Send an author_request with no command to start one.",
			agentName,
		)), nil
	}

	var answers strings.Builder
	if len(snap.Answered) == 0 {
		answers.WriteString("No answers yet.\n")
	} else {
		for id, answer := range snap.Answered {
			fmt.Fprintf(&answers, "- **%s**: %s\n", id, answer)
		}
	}

	response := fmt.Sprintf(
		"# Active Conversation\n\n"+
			"**Session:** `%s`\n"+
			"**Agent:** %s\n"+
			"**Phase:** %s\n"+
			"**Progress:** question %d of %d\n"+
			"**Completion score:** %.2f\n"+
			"**Documents updated:** %d\n\n"+
			"## Answers\n\n%s",
		snap.ID, snap.OwnerAgent, snap.Phase,
		snap.CurrentQuestionIndex+1, snap.TotalQuestions,
		snap.CompletionScore, snap.DocumentsUpdated,
		answers.String(),
	)

	return mcp.NewToolResultText(response), nil
}
