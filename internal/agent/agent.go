package agent

import (
	"context"

	"github.com/rodhayl/specit/internal/backend"
	"github.com/rodhayl/specit/internal/routing"
	"github.com/rodhayl/specit/internal/templates"
)

// DirectHandler is an agent's one-shot handling hook: given a request and
// a working generator, produce a textual answer.
type DirectHandler func(ctx context.Context, gen backend.Generator, req routing.Request) (string, error)

// OfflineResponder returns the agent's capability and limitation
// statements for a classified operation. Must be deterministic.
type OfflineResponder func(op routing.Operation) string

// TemplateProvider returns the document type the agent's templates target.
type TemplateProvider func() templates.DocType

// Agent is a named capability bundle for one workflow phase. Instead of a
// subclass per phase, behavior differences live in the hook fields; the
// orchestrator only ever sees this one struct.
//
// Agents are immutable after construction. Build them once at startup and
// hand them to a Registry.
type Agent struct {
	// Name uniquely identifies the agent.
	Name string

	// SystemInstructions is opaque text guiding generation for this agent.
	SystemInstructions string

	// AllowedOperations is the set of tool names the agent may invoke.
	AllowedOperations []string

	// Phase is the workflow phase this agent owns.
	Phase Phase

	// Questions is the fixed elicitation sequence for conversations,
	// already sorted by priority.
	Questions []Question

	// Direct handles one-shot requests when the backend is available.
	Direct DirectHandler

	// Offline supplies capability statements for fallback responses.
	Offline OfflineResponder

	// Template names the document type this agent produces.
	Template TemplateProvider
}

// DocType returns the agent's target document type, falling back to the
// phase mapping when no template provider hook is set.
func (a *Agent) DocType() templates.DocType {
	if a.Template != nil {
		return a.Template()
	}
	return DocTypeFor(a.Phase)
}

// AllowsOperation reports whether the agent may invoke the named tool.
func (a *Agent) AllowsOperation(name string) bool {
	for _, op := range a.AllowedOperations {
		if op == name {
			return true
		}
	}
	return false
}
