// Package orchestrator composes the routing, conversation, derivation and
// offline layers into the single request entry point. It is the only
// place that decides which layer handles a request; the layers themselves
// never call each other.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/rodhayl/specit/internal/agent"
	"github.com/rodhayl/specit/internal/backend"
	"github.com/rodhayl/specit/internal/conversation"
	"github.com/rodhayl/specit/internal/offline"
	"github.com/rodhayl/specit/internal/routing"
	"github.com/rodhayl/specit/internal/templates"
	"github.com/rodhayl/specit/internal/updates"
	"github.com/rodhayl/specit/internal/workflow"
)

// MaxFollowups caps the follow-up suggestions on every response.
const MaxFollowups = 3

// Response is what a handled request produces: textual content, the
// document edits to realize, and follow-up suggestions.
type Response struct {
	Content         string                   `json:"content"`
	DocumentUpdates []updates.DocumentUpdate `json:"document_updates,omitempty"`
	Followups       []string                 `json:"followups,omitempty"`
}

// ToolExecutor realizes document updates. Its absence is a normal,
// testable branch: updates are then returned in the Response for the
// caller to apply.
type ToolExecutor interface {
	Execute(ctx context.Context, tool string, params map[string]any) error
}

// Config wires a Handler. Registry, Offline and Workflow are required;
// everything else degrades gracefully when absent.
type Config struct {
	Registry    *agent.Registry
	Offline     *offline.Generator
	Workflow    workflow.Store
	ProjectRoot string

	Engine    *conversation.Engine // nil disables conversation mode
	Extractor updates.Extractor    // nil disables update derivation
	Generator backend.Generator    // nil means no generation backend
	Executor  ToolExecutor         // nil means updates are proposed, not applied
	Logger    *log.Logger          // nil uses the default logger
}

// Handler is the agent request handler: one Handle call per request.
type Handler struct {
	registry    *agent.Registry
	engine      *conversation.Engine
	offline     *offline.Generator
	extractor   updates.Extractor
	generator   backend.Generator
	executor    ToolExecutor
	workflow    workflow.Store
	projectRoot string
	logf        func(format string, v ...any)
}

// New validates the config and builds a Handler.
func New(cfg Config) (*Handler, error) {
	if cfg.Registry == nil {
		return nil, fmt.Errorf("orchestrator: registry is required")
	}
	if cfg.Offline == nil {
		return nil, fmt.Errorf("orchestrator: offline generator is required")
	}
	if cfg.Workflow == nil {
		return nil, fmt.Errorf("orchestrator: workflow store is required")
	}

	logf := log.Printf
	if cfg.Logger != nil {
		logf = cfg.Logger.Printf
	}

	return &Handler{
		registry:    cfg.Registry,
		engine:      cfg.Engine,
		offline:     cfg.Offline,
		extractor:   cfg.Extractor,
		generator:   cfg.Generator,
		executor:    cfg.Executor,
		workflow:    cfg.Workflow,
		projectRoot: cfg.ProjectRoot,
		logf:        logf,
	}, nil
}

// Handle processes one request under the given backend availability.
// Every path returns a response with non-empty content; errors inside
// the conversation and offline paths degrade to direct handling instead
// of surfacing raw failures.
func (h *Handler) Handle(ctx context.Context, req routing.Request, avail backend.Availability) (*Response, error) {
	state := h.loadState()

	a, err := h.resolveAgent(req, state)
	if err != nil {
		return h.cap(&Response{
			Content: fmt.Sprintf(
				"I don't know the agent or phase %q. Available agents: %s.",
				requestedAgent(req, state), strings.Join(h.registry.Names(), ", ")),
			Followups: []string{"Pick one of the listed agents", "Use `status` to see the current phase"},
		}), nil
	}

	mode := routing.SelectMode(req, avail.Available, h.engine != nil, routing.OverridesFrom(req))

	resp, err := h.dispatch(ctx, mode, a, state, req)
	if err != nil {
		if isDomainErr(err) {
			return h.cap(domainErrResponse(err)), nil
		}
		// Conversation and offline handling are enhancements. Anything
		// unexpected degrades to plain direct handling.
		h.logf("WARNING: %s handling failed for agent %s: %v; falling back to direct", mode, a.Name, err)
		return h.cap(h.handleDirectSafe(ctx, a, req)), nil
	}
	return h.cap(resp), nil
}

// dispatch routes one request to the layer the mode names.
func (h *Handler) dispatch(ctx context.Context, mode routing.Mode, a *agent.Agent, state *workflow.State, req routing.Request) (*Response, error) {
	switch mode {
	case routing.ModeOfflineCommand:
		return h.handleOfflineCommand(a, state, req)
	case routing.ModeOfflineGuidance:
		return h.handleOfflineGuidance(a, req)
	case routing.ModeOnlineConversation:
		return h.handleConversation(ctx, a, state, req)
	default:
		return h.handleDirect(ctx, a, req)
	}
}

// --- Offline paths ---

func (h *Handler) handleOfflineCommand(a *agent.Agent, state *workflow.State, req routing.Request) (*Response, error) {
	switch req.Command {
	case "help":
		return &Response{
			Content:   offline.Help(),
			Followups: []string{"Use `new` to scaffold the current phase's document"},
		}, nil
	case "status":
		return &Response{
			Content:   h.statusText(state),
			Followups: []string{"Use `new` to scaffold the current phase's document"},
		}, nil
	default: // new, template
		dt, err := h.docTypeFor(a, req)
		if err != nil {
			return invalidDocTypeResponse(err), nil
		}
		content, err := h.offline.Generate(a, dt, routing.OpDocumentCreation, req)
		if err != nil {
			return nil, err
		}
		return &Response{Content: content.Body, Followups: content.Followups}, nil
	}
}

func (h *Handler) handleOfflineGuidance(a *agent.Agent, req routing.Request) (*Response, error) {
	if req.Command != "" && req.Command != routing.ChatCommand {
		// Unknown command while offline: reject, never a silent no-op.
		return &Response{
			Content:   offline.RejectCommand(req.Command),
			Followups: []string{"Use `help` to see what works offline"},
		}, nil
	}

	dt, err := h.docTypeFor(a, req)
	if err != nil {
		return invalidDocTypeResponse(err), nil
	}

	op := routing.ClassifyOperation(req.Prompt, req.Command)
	content, err := h.offline.Generate(a, dt, op, req)
	if err != nil {
		return nil, err
	}
	return &Response{Content: content.Body, Followups: content.Followups}, nil
}

// invalidDocTypeResponse answers a request whose explicit documentType is
// not recognized. This is user input, not an internal failure, so it
// never takes the fallback path.
func invalidDocTypeResponse(err error) *Response {
	return &Response{
		Content:   err.Error(),
		Followups: []string{"Retry with one of the listed document types"},
	}
}

// --- Conversation path ---

func (h *Handler) handleConversation(ctx context.Context, a *agent.Agent, state *workflow.State, req routing.Request) (*Response, error) {
	if h.engine == nil {
		return h.handleDirect(ctx, a, req)
	}

	if err := workflow.CheckPrerequisite(state, a.Phase); err != nil {
		return &Response{
			Content:   err.Error(),
			Followups: []string{"Create the missing document, then start again"},
		}, nil
	}

	active, ok := h.engine.ActiveSession(a.Name)
	if !ok {
		turn, err := h.engine.Start(ctx, a)
		if err != nil {
			return nil, err
		}
		return &Response{
			Content:   turnText(turn, "Let's work through this together."),
			Followups: turnFollowups(turn),
		}, nil
	}

	turn, err := h.engine.Continue(ctx, active.ID, req.Prompt)
	if err != nil {
		return nil, err
	}

	// Attribution comes from the turn itself: the engine reports which
	// question the answer was committed under, so concurrent turns for
	// the same session can never cross-attribute their updates.
	applied := h.deriveAndApply(ctx, a, req.Prompt, turn)

	if turn.Completed {
		h.recordDocument(a, state, applied)
	}

	return &Response{
		Content:         turnText(turn, "Answer recorded."),
		DocumentUpdates: applied,
		Followups:       turnFollowups(turn),
	}, nil
}

// deriveAndApply runs update extraction and derivation for the question
// the turn recorded its answer against, applies the results through the
// tool executor when one is attached, and reports the count back to the
// session. Derivation warnings are logged and never abort the turn.
func (h *Handler) deriveAndApply(ctx context.Context, a *agent.Agent, answer string, turn *conversation.Turn) []updates.DocumentUpdate {
	if h.extractor == nil || turn.Answered == nil {
		return nil
	}

	hints := h.extractor.Extract(a.Phase, turn.Answered, answer)
	derived, warnings := updates.Derive(hints)
	for _, w := range warnings {
		h.logf("WARNING: update derivation for session %s: %v", turn.SessionID, w)
	}
	if len(derived) == 0 {
		return nil
	}

	if h.executor != nil && a.AllowsOperation("insertSection") {
		for _, u := range derived {
			err := h.executor.Execute(ctx, "insertSection", map[string]any{
				"path":    u.TargetPath,
				"section": u.Section,
				"content": u.Content,
				"mode":    string(u.Mode),
			})
			if err != nil {
				h.logf("WARNING: applying update to %s: %v", u.TargetPath, err)
			}
		}
	}

	if err := h.engine.NoteDocumentsUpdated(turn.SessionID, len(derived)); err != nil {
		h.logf("WARNING: counting updates for session %s: %v", turn.SessionID, err)
	}
	return derived
}

// recordDocument notes the produced draft in the workflow state once a
// conversation completes.
func (h *Handler) recordDocument(a *agent.Agent, state *workflow.State, applied []updates.DocumentUpdate) {
	if len(applied) == 0 {
		return
	}
	state.SetDocument(a.DocType(), applied[0].TargetPath)
	state.ActiveAgent = a.Name
	if err := h.workflow.Save(h.projectRoot, state); err != nil {
		h.logf("WARNING: saving workflow state: %v", err)
	}
}

// --- Direct path ---

func (h *Handler) handleDirect(ctx context.Context, a *agent.Agent, req routing.Request) (*Response, error) {
	// "No tool context" is checked here, once, for every agent.
	if h.generator == nil || a.Direct == nil {
		return h.handleOfflineGuidance(a, req)
	}

	content, err := a.Direct(ctx, h.generator, req)
	if err != nil {
		if errors.Is(err, backend.ErrUnavailable) {
			return h.handleOfflineGuidance(a, req)
		}
		return nil, err
	}

	return &Response{
		Content: content,
		Followups: []string{
			"Start a conversation for a guided version of this phase",
			"Use `review` once you've applied the suggestions",
		},
	}, nil
}

// handleDirectSafe is the last-resort path: it must always produce a
// response, even when direct handling itself fails.
func (h *Handler) handleDirectSafe(ctx context.Context, a *agent.Agent, req routing.Request) *Response {
	resp, err := h.handleDirect(ctx, a, req)
	if err == nil && resp != nil && resp.Content != "" {
		return resp
	}
	if err != nil {
		h.logf("WARNING: direct fallback failed for agent %s: %v", a.Name, err)
	}
	return &Response{
		Content: "I hit an error while handling that. Here is a plain response instead: " +
			"try rephrasing the request, or use `help` to see available commands.",
	}
}

// --- Introspection and session control ---

// ActiveSession returns the active session snapshot for an agent.
func (h *Handler) ActiveSession(agentName string) (conversation.Snapshot, bool) {
	if h.engine == nil {
		return conversation.Snapshot{}, false
	}
	return h.engine.ActiveSnapshot(agentName)
}

// EndConversation ends a session and returns its summary.
func (h *Handler) EndConversation(ctx context.Context, sessionID string) (*conversation.Summary, error) {
	if h.engine == nil {
		return nil, fmt.Errorf("no conversation engine attached: %w", conversation.ErrSessionNotFound)
	}
	return h.engine.End(ctx, sessionID)
}

// AbandonConversation abandons a session.
func (h *Handler) AbandonConversation(ctx context.Context, sessionID string) (*conversation.Summary, error) {
	if h.engine == nil {
		return nil, fmt.Errorf("no conversation engine attached: %w", conversation.ErrSessionNotFound)
	}
	return h.engine.Abandon(ctx, sessionID)
}

// --- Helpers ---

func (h *Handler) loadState() *workflow.State {
	state, err := h.workflow.Load(h.projectRoot)
	if err != nil {
		h.logf("WARNING: loading workflow state: %v; starting fresh", err)
		return workflow.NewState()
	}
	return state
}

// resolveAgent picks the owning agent: an explicit agent/phase parameter
// wins, otherwise the workflow's current phase.
func (h *Handler) resolveAgent(req routing.Request, state *workflow.State) (*agent.Agent, error) {
	return h.registry.Resolve(requestedAgent(req, state))
}

func requestedAgent(req routing.Request, state *workflow.State) string {
	if name := req.Param("agent"); name != "" {
		return name
	}
	if phase := req.Param("phase"); phase != "" {
		return phase
	}
	return string(state.CurrentPhase)
}

// docTypeFor honors an explicit documentType parameter, defaulting to
// the agent's own document type. An explicit but unrecognized type is an
// error naming the valid set.
func (h *Handler) docTypeFor(a *agent.Agent, req routing.Request) (templates.DocType, error) {
	if dt := req.Param("documentType"); dt != "" {
		parsed := templates.DocType(dt)
		if err := templates.ValidateDocType(parsed); err != nil {
			return "", err
		}
		return parsed, nil
	}
	return a.DocType(), nil
}

func (h *Handler) statusText(state *workflow.State) string {
	var sb strings.Builder
	sb.WriteString("# Workflow Status\n\n")
	sb.WriteString(fmt.Sprintf("Current phase: **%s**\n\n", state.CurrentPhase))

	if len(state.Documents) == 0 {
		sb.WriteString("No documents yet.\n")
	} else {
		sb.WriteString("Documents:\n\n")
		for _, p := range agent.PhaseOrder() {
			dt := agent.DocTypeFor(p)
			if path := state.DocumentPath(dt); path != "" {
				sb.WriteString(fmt.Sprintf("- %s: %s\n", dt, path))
			}
		}
	}

	if h.engine != nil {
		for _, name := range h.registry.Names() {
			if snap, ok := h.engine.ActiveSnapshot(name); ok {
				// An exhausted set keeps the index at the count; never
				// report a question past the last one.
				num := snap.CurrentQuestionIndex + 1
				if num > snap.TotalQuestions {
					num = snap.TotalQuestions
				}
				sb.WriteString(fmt.Sprintf(
					"\nActive conversation with %s: question %d of %d (score %.2f).\n",
					name, num, snap.TotalQuestions, snap.CompletionScore))
			}
		}
	}
	return sb.String()
}

// cap enforces the follow-up limit and the non-empty-content guarantee.
func (h *Handler) cap(resp *Response) *Response {
	if resp == nil {
		resp = &Response{}
	}
	if len(resp.Followups) > MaxFollowups {
		resp.Followups = resp.Followups[:MaxFollowups]
	}
	if strings.TrimSpace(resp.Content) == "" {
		resp.Content = "Nothing to report. Use `help` to see available commands."
	}
	return resp
}

// isDomainErr reports whether an error is an expected domain condition
// with a user-facing explanation, as opposed to an internal failure.
func isDomainErr(err error) bool {
	var missing *workflow.MissingPrerequisiteError
	return errors.Is(err, conversation.ErrSessionActive) ||
		errors.Is(err, conversation.ErrSessionNotFound) ||
		errors.Is(err, agent.ErrAgentNotFound) ||
		errors.As(err, &missing)
}

// domainErrResponse turns a domain error into a helpful response.
func domainErrResponse(err error) *Response {
	switch {
	case errors.Is(err, conversation.ErrSessionActive):
		return &Response{
			Content: "This agent already has a conversation in progress. " +
				"Continue answering, or end it before starting a new one.",
			Followups: []string{"End the active conversation to start over"},
		}
	case errors.Is(err, conversation.ErrSessionNotFound):
		return &Response{
			Content:   "That conversation no longer exists. Start a new one to continue.",
			Followups: []string{"Send a chat message to start a conversation"},
		}
	default:
		return &Response{Content: err.Error()}
	}
}

// turnText formats a turn as user-facing content.
func turnText(turn *conversation.Turn, lead string) string {
	var sb strings.Builder

	if turn.Completed {
		sb.WriteString(fmt.Sprintf(
			"That covers everything — %d of %d questions answered (score %.2f).\n\n",
			turn.AnsweredCount, turn.TotalQuestions, turn.CompletionScore))
		sb.WriteString("End the conversation to get a summary, or keep refining your answers.")
		return sb.String()
	}

	sb.WriteString(lead)
	sb.WriteString(fmt.Sprintf("\n\n**Question %d of %d:** %s\n",
		turn.QuestionNumber, turn.TotalQuestions, turn.Question.Text))

	if len(turn.Question.Examples) > 0 {
		sb.WriteString("\nFor example:\n")
		for _, ex := range turn.Question.Examples {
			sb.WriteString("- ")
			sb.WriteString(ex)
			sb.WriteString("\n")
		}
	}
	if !turn.Question.Required {
		sb.WriteString("\n_Optional — answer \"skip\" to move on._\n")
	}
	return sb.String()
}

func turnFollowups(turn *conversation.Turn) []string {
	if turn.Completed {
		return []string{"End the conversation to get a summary"}
	}
	return []string{"Answer the question above", "End the conversation at any time"}
}
