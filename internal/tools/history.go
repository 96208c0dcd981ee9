package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rodhayl/specit/internal/history"
)

// HistoryTool handles the author_history MCP tool: the audit trail of
// ended and abandoned conversations.
type HistoryTool struct {
	store *history.Store // nil when the history subsystem is disabled
}

// NewHistoryTool creates a HistoryTool. store may be nil; the tool then
// reports that history is unavailable instead of failing registration.
func NewHistoryTool(store *history.Store) *HistoryTool {
	return &HistoryTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("author_history",
		mcp.WithDescription(
			"Browse past authoring conversations. Without arguments, lists "+
				"the most recent sessions. With session_id, shows one session "+
				"including its recorded answers.",
		),
		mcp.WithString("session_id",
			mcp.Description("Specific session to inspect. If omitted, lists recent sessions."),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum sessions to list. Defaults to 20."),
		),
	)
}

// Handle processes the author_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if t.store == nil {
		return mcp.NewToolResultError(
			"Session history is disabled: the audit database could not be opened at startup.",
		), nil
	}

	if sessionID := req.GetString("session_id", ""); sessionID != "" {
		return t.showSession(sessionID)
	}

	limit := int(req.GetFloat("limit", 0))
	records, err := t.store.List(limit)
	if err != nil {
		return nil, fmt.Errorf("listing session history: %w", err)
	}
	if len(records) == 0 {
		return mcp.NewToolResultText("No recorded sessions yet."), nil
	}

	var sb strings.Builder
	sb.WriteString("# Session History\n\n")
	sb.WriteString("| Session | Agent | Outcome | Answered | Score | Ended |\n")
	sb.WriteString("|---------|-------|---------|----------|-------|-------|\n")
	for _, r := range records {
		fmt.Fprintf(&sb, "| `%s` | %s | %s | %d/%d | %.2f | %s |\n",
			r.SessionID, r.AgentName, r.Outcome,
			r.QuestionsAnswered, r.QuestionsAsked,
			r.CompletionScore, r.EndedAt,
		)
	}

	return mcp.NewToolResultText(sb.String()), nil
}

func (t *HistoryTool) showSession(sessionID string) (*mcp.CallToolResult, error) {
	rec, err := t.store.Get(sessionID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Session %q not found in history.", sessionID)), nil
	}

	var answers strings.Builder
	if len(rec.Answers) == 0 {
		answers.WriteString("No answers recorded.\n")
	} else {
		for _, a := range rec.Answers {
			fmt.Fprintf(&answers, "%d. **%s**: %s\n", a.Position+1, a.QuestionID, a.Answer)
		}
	}

	response := fmt.Sprintf(
		"# Session `%s`\n\n"+
			"**Agent:** %s\n"+
			"**Phase:** %s\n"+
			"**Outcome:** %s\n"+
			"**Questions:** %d answered of %d asked\n"+
			"**Documents updated:** %d\n"+
			"**Completion score:** %.2f\n"+
			"**Created:** %s\n"+
			"**Ended:** %s\n\n"+
			"## Answers\n\n%s",
		rec.SessionID, rec.AgentName, rec.Phase, rec.Outcome,
		rec.QuestionsAnswered, rec.QuestionsAsked,
		rec.DocumentsUpdated, rec.CompletionScore,
		rec.CreatedAt, rec.EndedAt,
		answers.String(),
	)

	return mcp.NewToolResultText(response), nil
}
