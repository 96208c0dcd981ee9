package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/rodhayl/specit/internal/backend"
	"github.com/rodhayl/specit/internal/routing"
	"github.com/rodhayl/specit/internal/templates"
)

// Built-in agent names. One agent per workflow phase.
const (
	NamePRD            = "prd-creator"
	NameRequirements   = "requirements-gatherer"
	NameDesign         = "solution-architect"
	NameImplementation = "implementation-planner"
)

// DefaultRegistry builds a registry with the four built-in agents.
// overrides, usually loaded via LoadOverrides, replaces a phase's built-in
// question set; pass nil to keep the defaults.
func DefaultRegistry(overrides map[Phase][]Question) (*Registry, error) {
	reg := NewRegistry()
	for _, a := range Builtin(overrides) {
		if err := reg.Register(a); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Builtin returns the four built-in agents in phase order.
func Builtin(overrides map[Phase][]Question) []*Agent {
	specs := []struct {
		name         string
		phase        Phase
		instructions string
		capabilities string
	}{
		{
			name:  NamePRD,
			phase: PhasePRD,
			instructions: "You are a product manager. Turn the user's idea into a product " +
				"requirements document: problem statement, objectives, personas, features, " +
				"success metrics and explicit scope boundaries. Ask about outcomes, not features.",
			capabilities: "I can draft PRD sections, sharpen objectives into measurable " +
				"statements, and challenge scope. I cannot research your market or " +
				"validate personas against real users.",
		},
		{
			name:  NameRequirements,
			phase: PhaseRequirements,
			instructions: "You are a requirements analyst. Extract formal, individually " +
				"verifiable requirements from the PRD. Every requirement gets a unique ID, " +
				"one interpretation, and a concrete acceptance condition.",
			capabilities: "I can turn PRD features into numbered, testable requirements and " +
				"flag ambiguous wording. I cannot decide business priorities for you.",
		},
		{
			name:  NameDesign,
			phase: PhaseDesign,
			instructions: "You are a software architect. Produce a technical design that " +
				"addresses every requirement: components, data model, interfaces, error " +
				"handling, and the reasoning behind each decision.",
			capabilities: "I can propose architectures, map requirements to components, and " +
				"document trade-offs. I cannot benchmark technologies or verify vendor claims.",
		},
		{
			name:  NameImplementation,
			phase: PhaseImplementation,
			instructions: "You are an implementation planner. Break the design into atomic " +
				"tasks with IDs, dependencies and acceptance criteria, ordered so " +
				"independent work can run in parallel.",
			capabilities: "I can decompose a design into traceable tasks and order them by " +
				"dependency. I cannot estimate how long your team needs for each task.",
		},
	}

	agents := make([]*Agent, 0, len(specs))
	for _, s := range specs {
		questions := defaultQuestions[s.phase]
		if ov, ok := overrides[s.phase]; ok {
			questions = ov
		}

		phase := s.phase // capture for the hooks below
		capabilities := s.capabilities
		instructions := s.instructions

		agents = append(agents, &Agent{
			Name:               s.name,
			SystemInstructions: instructions,
			AllowedOperations:  []string{"readFile", "writeFile", "insertSection", "listFiles"},
			Phase:              phase,
			Questions:          SortQuestions(questions),
			Direct:             directHandler(instructions),
			Offline:            offlineResponder(capabilities),
			Template:           func() templates.DocType { return DocTypeFor(phase) },
		})
	}
	return agents
}

// directHandler builds the default one-shot handler: system instructions
// plus the user prompt, handed to the generator.
func directHandler(instructions string) DirectHandler {
	return func(ctx context.Context, gen backend.Generator, req routing.Request) (string, error) {
		if gen == nil {
			return "", backend.ErrUnavailable
		}
		prompt := req.Prompt
		if req.Command != "" {
			prompt = fmt.Sprintf("Command: %s\n\n%s", req.Command, req.Prompt)
		}
		return gen.Generate(ctx, prompt, instructions)
	}
}

// offlineResponder builds the default capability statement block. Output
// depends only on the inputs, as the offline contract requires.
func offlineResponder(capabilities string) OfflineResponder {
	return func(op routing.Operation) string {
		var sb strings.Builder
		sb.WriteString("**What I can do offline:** ")
		sb.WriteString(capabilities)
		sb.WriteString("\n\n")
		switch op {
		case routing.OpDocumentCreation:
			sb.WriteString("Offline, document creation produces a template skeleton for you to fill in.")
		case routing.OpDocumentReview:
			sb.WriteString("Offline, reviews are limited to the completion checklist below; content analysis needs the generation backend.")
		default:
			sb.WriteString("Offline, conversations are unavailable; the guidance below covers what you can do manually.")
		}
		return sb.String()
	}
}

// defaultQuestions holds the built-in elicitation sequence per phase.
var defaultQuestions = map[Phase][]Question{
	PhasePRD: {
		{
			ID:       "prd-problem",
			Text:     "What problem does this product solve, and for whom?",
			Examples: []string{"Checkout abandonment is 70% for first-time buyers on mobile"},
			Required: true,
			Category: "problem",
			Priority: 1,
		},
		{
			ID:       "prd-users",
			Text:     "Describe someone using this in their first week: role, frustration, goal.",
			Examples: []string{"A support lead who spends two hours a day triaging duplicate tickets"},
			Required: true,
			Category: "personas",
			Priority: 2,
		},
		{
			ID:       "prd-outcomes",
			Text:     "What measurable outcomes would make this a success?",
			Examples: []string{"Checkout completion up 15% within one quarter"},
			Required: true,
			Category: "objectives",
			Priority: 3,
		},
		{
			ID:       "prd-scope",
			Text:     "What is explicitly out of scope for the first version?",
			Examples: []string{"No native mobile apps; web only", "No multi-currency support"},
			Required: false,
			Category: "scope",
			Priority: 4,
		},
	},
	PhaseRequirements: {
		{
			ID:       "req-features",
			Text:     "Which PRD features must the system cover, in priority order?",
			Required: true,
			Category: "functional",
			Priority: 1,
		},
		{
			ID:       "req-data",
			Text:     "What data does the system manage? Name the entities and who owns them.",
			Examples: []string{"Orders, carts, payment intents; orders are immutable once placed"},
			Required: true,
			Category: "data",
			Priority: 2,
		},
		{
			ID:       "req-edge",
			Text:     "What failure scenarios and edge cases must be specified?",
			Examples: []string{"Payment provider timeout mid-checkout"},
			Required: true,
			Category: "edge-cases",
			Priority: 3,
		},
		{
			ID:       "req-nonfunctional",
			Text:     "What performance, security, or reliability numbers apply?",
			Examples: []string{"p99 under 300ms at 1k rps", "PCI DSS scope limited to the payment service"},
			Required: false,
			Category: "non-functional",
			Priority: 4,
		},
	},
	PhaseDesign: {
		{
			ID:       "design-constraints",
			Text:     "What technical constraints exist — stack, infrastructure, integrations?",
			Examples: []string{"Must run on the existing Postgres cluster"},
			Required: true,
			Category: "constraints",
			Priority: 1,
		},
		{
			ID:       "design-components",
			Text:     "Which components do you already envision, and what does each own?",
			Required: true,
			Category: "architecture",
			Priority: 2,
		},
		{
			ID:       "design-risks",
			Text:     "Where do you expect the design to be hardest or riskiest?",
			Examples: []string{"Idempotent retry of payment capture"},
			Required: false,
			Category: "risks",
			Priority: 3,
		},
	},
	PhaseImplementation: {
		{
			ID:       "impl-order",
			Text:     "Which parts of the design should be built first, and why?",
			Required: true,
			Category: "sequencing",
			Priority: 1,
		},
		{
			ID:       "impl-parallel",
			Text:     "How many people or agents will work in parallel?",
			Examples: []string{"Two developers plus one reviewer"},
			Required: false,
			Category: "resourcing",
			Priority: 2,
		},
		{
			ID:       "impl-done",
			Text:     "What does 'done' mean for a task — tests, review, deployment?",
			Required: true,
			Category: "acceptance",
			Priority: 3,
		},
	},
}
