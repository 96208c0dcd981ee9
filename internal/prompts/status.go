package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StatusPrompt handles the author-status MCP prompt.
// It instructs the AI to read and present the current workflow state.
type StatusPrompt struct{}

// NewStatusPrompt creates a StatusPrompt.
func NewStatusPrompt() *StatusPrompt {
	return &StatusPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StatusPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("author-status",
		mcp.WithPromptDescription(
			"Check the current authoring status: workflow phase, existing "+
				"documents, active conversations and what to do next.",
		),
	)
}

// Handle processes the author-status prompt request.
func (p *StatusPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Authoring Workflow Status",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please call `author_request` with command `status` to check my authoring workflow.\n\n" +
						"Then:\n" +
						"1. Show the current phase and the documents produced so far\n" +
						"2. If a conversation is active, show its progress with `author_session`\n" +
						"3. Tell me exactly what I should do next",
				),
			},
		},
	}, nil
}
