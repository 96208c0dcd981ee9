package tools

import (
	"context"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rodhayl/specit/internal/conversation"
	"github.com/rodhayl/specit/internal/orchestrator"
)

// EndConversationTool handles the author_end_conversation MCP tool.
// Ending is always explicit: sessions never complete themselves.
type EndConversationTool struct {
	handler *orchestrator.Handler
}

// NewEndConversationTool creates an EndConversationTool.
func NewEndConversationTool(handler *orchestrator.Handler) *EndConversationTool {
	return &EndConversationTool{handler: handler}
}

// Definition returns the MCP tool definition for registration.
func (t *EndConversationTool) Definition() mcp.Tool {
	return mcp.NewTool("author_end_conversation",
		mcp.WithDescription(
			"End an active authoring conversation and get its summary: "+
				"questions asked and answered, documents updated, completion "+
				"score and duration. Use abandon=true to discard instead of "+
				"completing.",
		),
		mcp.WithString("session_id",
			mcp.Required(),
			mcp.Description("ID of the session to end."),
		),
		mcp.WithString("abandon",
			mcp.Description("Set to \"true\" to abandon the session instead of completing it."),
		),
	)
}

// Handle processes the author_end_conversation tool call.
func (t *EndConversationTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID := req.GetString("session_id", "")
	if sessionID == "" {
		return mcp.NewToolResultError("session_id is required."), nil
	}

	var (
		summary *conversation.Summary
		err     error
		verdict = "Completed"
	)
	if req.GetString("abandon", "") == "true" {
		summary, err = t.handler.AbandonConversation(ctx, sessionID)
		verdict = "Abandoned"
	} else {
		summary, err = t.handler.EndConversation(ctx, sessionID)
	}
	if err != nil {
		if errors.Is(err, conversation.ErrSessionNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("No active session %q.", sessionID)), nil
		}
		return nil, fmt.Errorf("ending session %s: %w", sessionID, err)
	}

	response := fmt.Sprintf(
		"# Conversation %s\n\n"+
			"**Session:** `%s`\n"+
			"**Agent:** %s\n"+
			"**Questions asked:** %d\n"+
			"**Questions answered:** %d\n"+
			"**Documents updated:** %d\n"+
			"**Completion score:** %.2f\n"+
			"**Duration:** %s\n",
		verdict, summary.SessionID, summary.AgentName,
		summary.QuestionsAsked, summary.QuestionsAnswered,
		summary.DocumentsUpdated, summary.CompletionScore,
		summary.Duration,
	)

	return mcp.NewToolResultText(response), nil
}
