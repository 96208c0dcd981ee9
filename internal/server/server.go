// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on
// abstractions. No business logic lives here, only wiring.
package server

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/rodhayl/specit/internal/agent"
	"github.com/rodhayl/specit/internal/backend"
	"github.com/rodhayl/specit/internal/conversation"
	"github.com/rodhayl/specit/internal/history"
	"github.com/rodhayl/specit/internal/offline"
	"github.com/rodhayl/specit/internal/orchestrator"
	"github.com/rodhayl/specit/internal/prompts"
	"github.com/rodhayl/specit/internal/resources"
	"github.com/rodhayl/specit/internal/templates"
	"github.com/rodhayl/specit/internal/tools"
	"github.com/rodhayl/specit/internal/updates"
	"github.com/rodhayl/specit/internal/workflow"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Config controls the server wiring. The zero value is usable: project
// root defaults to the working directory and the generator stays nil,
// which keeps every request on the offline paths.
type Config struct {
	// ProjectRoot anchors workflow state, drafts and history.
	ProjectRoot string

	// Generator is the text generation backend. nil means unavailable.
	Generator backend.Generator

	// Executor applies document updates. nil installs the default
	// filesystem executor.
	Executor orchestrator.ToolExecutor
}

// New creates and configures the MCP server with all tools, prompts and
// resources registered. This is the single place where all dependencies
// are resolved.
//
// The returned cleanup function closes the history store's database
// connection and must be called on shutdown (typically via defer). It is
// always non-nil and safe to call even if history init failed.
func New(cfg Config) (*server.MCPServer, func(), error) {
	root := cfg.ProjectRoot
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, noop, fmt.Errorf("getting working directory: %w", err)
		}
		root = wd
	}

	// --- Create shared dependencies ---

	overrides, err := agent.LoadOverrides(root)
	if err != nil {
		return nil, noop, fmt.Errorf("loading question overrides: %w", err)
	}

	registry, err := agent.DefaultRegistry(overrides)
	if err != nil {
		return nil, noop, fmt.Errorf("building agent registry: %w", err)
	}

	renderer, err := templates.NewRenderer()
	if err != nil {
		return nil, noop, fmt.Errorf("creating template renderer: %w", err)
	}

	// History is an independent subsystem: if it fails to initialize,
	// the authoring tools continue working without an audit trail. We
	// log a warning and skip the sink — the server stays functional.

	cleanup := noop
	var sink conversation.AuditSink

	histStore, histErr := history.New(history.Config{
		Path: filepath.Join(root, ".specit", "history.db"),
	})
	if histErr != nil {
		log.Printf("WARNING: session history disabled: %v", histErr)
		histStore = nil
	} else {
		sink = histStore
		cleanup = func() {
			if err := histStore.Close(); err != nil {
				log.Printf("WARNING: history store close: %v", err)
			}
		}
	}

	engine := conversation.NewEngine(conversation.NewStore(), sink)
	workflowStore := workflow.NewFileStore()

	executor := cfg.Executor
	if executor == nil {
		executor = NewFileExecutor()
	}

	handler, err := orchestrator.New(orchestrator.Config{
		Registry:    registry,
		Offline:     offline.New(renderer),
		Workflow:    workflowStore,
		ProjectRoot: root,
		Engine:      engine,
		Extractor:   updates.NewAnswerExtractor(filepath.Join(root, ".specit", "drafts")),
		Generator:   cfg.Generator,
		Executor:    executor,
	})
	if err != nil {
		return nil, cleanup, fmt.Errorf("building orchestrator: %w", err)
	}

	availability := func() backend.Availability {
		return backend.From(cfg.Generator)
	}

	// --- Create the MCP server ---

	s := server.NewMCPServer(
		"specit",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register tools ---

	requestTool := tools.NewRequestTool(handler, availability)
	s.AddTool(requestTool.Definition(), requestTool.Handle)

	endTool := tools.NewEndConversationTool(handler)
	s.AddTool(endTool.Definition(), endTool.Handle)

	sessionTool := tools.NewSessionTool(handler)
	s.AddTool(sessionTool.Definition(), sessionTool.Handle)

	historyTool := tools.NewHistoryTool(histStore)
	s.AddTool(historyTool.Definition(), historyTool.Handle)

	// --- Register prompts ---

	startPrompt := prompts.NewStartPrompt()
	s.AddPrompt(startPrompt.Definition(), startPrompt.Handle)

	statusPrompt := prompts.NewStatusPrompt()
	s.AddPrompt(statusPrompt.Definition(), statusPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(workflowStore, root)
	s.AddResource(resourceHandler.WorkflowResource(), resourceHandler.HandleWorkflow)

	return s, cleanup, nil
}

// noop is the default cleanup when history is disabled or hasn't been
// initialized.
func noop() {}

// serverInstructions returns the system instructions that tell the host
// AI how to use the authoring tools effectively.
func serverInstructions() string {
	return `You have access to specit, a guided document authoring MCP server.

specit walks a project from a vague idea to an implementation plan
through four phases, each owned by one agent:

1. prd (prd-creator) — product requirements document
2. requirements (requirements-gatherer) — formal, testable requirements
3. design (solution-architect) — technical design
4. implementation (implementation-planner) — task breakdown

Each phase needs the previous phase's document before it can start.

## Tools

- author_request — the single entry point. A prompt with no command (or
  command "chat") drives a guided conversation: the agent asks one
  question at a time, and every answer is folded into the phase's
  working document. Commands:
  - new: scaffold the phase's document from a template
  - template: show the template for a document type
  - review: check a document against its completion checklist
  - help / status: orientation
- author_end_conversation — end (or abandon) a conversation and get the
  summary. Ending is always explicit; never assume a session closed itself.
- author_session — inspect an agent's active conversation.
- author_history — browse past sessions from the audit trail.

## How to drive a conversation

1. Send the user's idea via author_request (no command)
2. Relay the returned question to the user verbatim, with its examples
3. Send the user's answer as the next author_request prompt
4. Repeat until the response says all questions are covered
5. Call author_end_conversation and present the summary

One conversation per agent at a time. If a start is rejected because a
session is already active, continue or end that session first — never
assume the old one was discarded.

## Offline behavior

When no generation backend is configured, specit still works: new,
template, help and status produce deterministic template-based output,
and other requests return structured guidance instead of failing. Treat
offline responses as real results, not errors.`
}
