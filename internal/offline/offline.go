// Package offline produces deterministic fallback content when the
// generation backend is unavailable. Output is assembled purely from
// embedded templates and fixed statements: no clock, no randomness, no
// network, so two identical calls yield byte-identical responses.
package offline

import (
	"fmt"
	"strings"

	"github.com/rodhayl/specit/internal/agent"
	"github.com/rodhayl/specit/internal/routing"
	"github.com/rodhayl/specit/internal/templates"
)

// Content is a fallback response: the body plus suggested follow-ups.
type Content struct {
	Body      string
	Followups []string
}

// Generator assembles fallback content from the template renderer and
// each agent's capability statements.
type Generator struct {
	renderer templates.Renderer
}

// New creates an offline generator.
func New(renderer templates.Renderer) *Generator {
	return &Generator{renderer: renderer}
}

// Generate builds the fallback response for an agent, document type and
// classified operation. The body always contains a skeleton or guidance
// block, a completion checklist, and the agent's capability statements.
func (g *Generator) Generate(a *agent.Agent, dt templates.DocType, op routing.Operation, req routing.Request) (Content, error) {
	if err := templates.ValidateDocType(dt); err != nil {
		return Content{}, err
	}

	checklist, err := g.renderer.Checklist(dt)
	if err != nil {
		return Content{}, err
	}

	var sb strings.Builder
	sb.WriteString("# Working Offline\n\n")
	sb.WriteString("The generation backend is unavailable, so this response was built from templates.\n\n")

	if a != nil && a.Offline != nil {
		sb.WriteString(a.Offline(op))
		sb.WriteString("\n\n")
	}

	switch op {
	case routing.OpDocumentCreation:
		skeleton, err := g.renderer.Skeleton(dt, TitleFrom(req))
		if err != nil {
			return Content{}, err
		}
		sb.WriteString("## Document Skeleton\n\n")
		sb.WriteString(skeleton)
		sb.WriteString("\n")
	case routing.OpDocumentReview:
		sb.WriteString("## Review Guidance\n\n")
		sb.WriteString("Walk the checklist below against your current ")
		sb.WriteString(string(dt))
		sb.WriteString(" document. Anything unchecked is a gap to close before the next phase.\n\n")
	default:
		sb.WriteString("## How to Continue\n\n")
		sb.WriteString("Conversations need the generation backend. Until it returns you can:\n\n")
		for _, cmd := range routing.OfflineCommands() {
			sb.WriteString(fmt.Sprintf("- `%s` — %s\n", cmd, commandHelp[cmd]))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("## Completion Checklist\n\n")
	sb.WriteString(checklist)

	return Content{
		Body:      sb.String(),
		Followups: followups(dt, op),
	}, nil
}

// RejectCommand builds the rejection response for a command outside the
// offline whitelist. It always names the allowed set.
func RejectCommand(cmd string) string {
	return fmt.Sprintf(
		"The `%s` command is not available while the generation backend is offline.\n\n"+
			"Commands that work offline: `%s`.",
		cmd, strings.Join(routing.OfflineCommands(), "`, `"),
	)
}

// commandHelp describes each whitelisted command in help and guidance
// output.
var commandHelp = map[string]string{
	"new":      "create a document skeleton to fill in manually",
	"template": "show the template for a document type",
	"help":     "list available commands and the workflow phases",
	"status":   "show the current workflow phase and documents",
}

// Help renders the offline help text.
func Help() string {
	var sb strings.Builder
	sb.WriteString("# Offline Commands\n\n")
	for _, cmd := range routing.OfflineCommands() {
		sb.WriteString(fmt.Sprintf("- `%s` — %s\n", cmd, commandHelp[cmd]))
	}
	sb.WriteString("\nWorkflow phases, in order: ")
	names := make([]string, 0, 4)
	for _, p := range agent.PhaseOrder() {
		names = append(names, string(p))
	}
	sb.WriteString(strings.Join(names, " → "))
	sb.WriteString(".\n")
	return sb.String()
}

// TitleFrom pulls a document title out of a request: an explicit title
// parameter wins, then the first double-quoted span in the prompt, then
// the trimmed prompt itself.
func TitleFrom(req routing.Request) string {
	if title := req.Param("title"); title != "" {
		return title
	}

	prompt := strings.TrimSpace(req.Prompt)
	if start := strings.Index(prompt, `"`); start >= 0 {
		if end := strings.Index(prompt[start+1:], `"`); end > 0 {
			return prompt[start+1 : start+1+end]
		}
	}
	return prompt
}

// followups suggests next actions. Never more than three; the
// orchestrator enforces the same cap for every path.
func followups(dt templates.DocType, op routing.Operation) []string {
	switch op {
	case routing.OpDocumentCreation:
		return []string{
			fmt.Sprintf("Fill in the %s skeleton section by section", dt),
			"Run `review` against the checklist when the backend returns",
			"Use `status` to see where this fits in the workflow",
		}
	case routing.OpDocumentReview:
		return []string{
			"Close the unchecked items before advancing a phase",
			"Use `template` to compare against the full skeleton",
		}
	default:
		return []string{
			"Use `new` to scaffold a document while offline",
			"Use `help` to see everything that works offline",
		}
	}
}
