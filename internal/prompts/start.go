// Package prompts implements the MCP prompts that guide the host AI
// through the authoring workflow.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StartPrompt handles the author-start MCP prompt.
// It kicks off the guided authoring workflow from the PRD phase.
type StartPrompt struct{}

// NewStartPrompt creates a StartPrompt.
func NewStartPrompt() *StartPrompt {
	return &StartPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *StartPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("author-start",
		mcp.WithPromptDescription(
			"Start authoring project documents with guided agents. "+
				"Walks you phase by phase from a product idea to an "+
				"implementation plan: PRD, requirements, design, tasks.",
		),
	)
}

// Handle processes the author-start prompt request.
func (p *StartPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Start Guided Document Authoring",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"I want to author project documents with guided help.\n\n" +
						"Please:\n" +
						"1. Call `author_request` with command `status` to see which phase I'm in\n" +
						"2. Start a conversation for that phase by calling `author_request` with my idea as the prompt\n" +
						"3. Relay each question to me and send my answers back through `author_request`\n" +
						"4. When the questions are done, call `author_end_conversation` and show me the summary\n" +
						"5. Tell me which phase comes next",
				),
			},
		},
	}, nil
}
