package orchestrator

import (
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/rodhayl/specit/internal/agent"
	"github.com/rodhayl/specit/internal/backend"
	"github.com/rodhayl/specit/internal/conversation"
	"github.com/rodhayl/specit/internal/offline"
	"github.com/rodhayl/specit/internal/routing"
	"github.com/rodhayl/specit/internal/templates"
	"github.com/rodhayl/specit/internal/updates"
	"github.com/rodhayl/specit/internal/workflow"
)

// memStore is an in-memory workflow.Store.
type memStore struct {
	state *workflow.State
	saves int
}

func (m *memStore) Load(string) (*workflow.State, error) {
	if m.state == nil {
		return workflow.NewState(), nil
	}
	return m.state, nil
}

func (m *memStore) Save(_ string, s *workflow.State) error {
	m.state = s
	m.saves++
	return nil
}

type execCall struct {
	tool   string
	params map[string]any
}

type recordingExecutor struct {
	calls []execCall
	err   error
}

func (e *recordingExecutor) Execute(_ context.Context, tool string, params map[string]any) error {
	e.calls = append(e.calls, execCall{tool: tool, params: params})
	return e.err
}

type fixture struct {
	handler *Handler
	gen     *backend.ScriptedGenerator
	exec    *recordingExecutor
	store   *memStore
}

func newFixture(t *testing.T, responses ...backend.MockResponse) *fixture {
	t.Helper()

	reg, err := agent.DefaultRegistry(nil)
	if err != nil {
		t.Fatalf("DefaultRegistry: %v", err)
	}
	renderer, err := templates.NewRenderer()
	if err != nil {
		t.Fatalf("NewRenderer: %v", err)
	}

	gen := backend.NewScriptedGenerator(responses...)
	exec := &recordingExecutor{}
	store := &memStore{}

	h, err := New(Config{
		Registry:  reg,
		Offline:   offline.New(renderer),
		Workflow:  store,
		Engine:    conversation.NewEngine(conversation.NewStore(), nil),
		Extractor: updates.NewAnswerExtractor(".specit/drafts"),
		Generator: gen,
		Executor:  exec,
		Logger:    log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	return &fixture{handler: h, gen: gen, exec: exec, store: store}
}

func prdRequest(prompt, command string, params map[string]string) routing.Request {
	if params == nil {
		params = map[string]string{}
	}
	params["agent"] = "prd-creator"
	return routing.Request{Prompt: prompt, Command: command, Parameters: params}
}

func TestHandle_OfflineNewCommand(t *testing.T) {
	f := newFixture(t)

	resp, err := f.handler.Handle(context.Background(),
		prdRequest(`create a PRD for "Checkout Flow"`, "new", nil),
		backend.Offline("no backend configured"))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	for _, want := range []string{"# Working Offline", "Checkout Flow", "## Document Skeleton", "## Completion Checklist"} {
		if !strings.Contains(resp.Content, want) {
			t.Errorf("content missing %q", want)
		}
	}
	if len(resp.Followups) == 0 || len(resp.Followups) > MaxFollowups {
		t.Errorf("followups = %d, want 1..%d", len(resp.Followups), MaxFollowups)
	}
}

func TestHandle_OfflineUnknownCommandRejected(t *testing.T) {
	f := newFixture(t)

	resp, err := f.handler.Handle(context.Background(),
		prdRequest("ship it", "deploy", nil),
		backend.Offline("no backend configured"))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if !strings.Contains(resp.Content, "`deploy`") {
		t.Errorf("rejection does not name the command: %q", resp.Content)
	}
	for _, cmd := range routing.OfflineCommands() {
		if !strings.Contains(resp.Content, cmd) {
			t.Errorf("rejection does not name allowed command %q", cmd)
		}
	}
}

func TestHandle_OfflineHelpAndStatus(t *testing.T) {
	f := newFixture(t)
	off := backend.Offline("no backend configured")

	resp, err := f.handler.Handle(context.Background(), prdRequest("", "help", nil), off)
	if err != nil {
		t.Fatalf("Handle(help): %v", err)
	}
	if !strings.Contains(resp.Content, "# Offline Commands") {
		t.Errorf("help content = %q", resp.Content)
	}

	resp, err = f.handler.Handle(context.Background(), prdRequest("", "status", nil), off)
	if err != nil {
		t.Fatalf("Handle(status): %v", err)
	}
	if !strings.Contains(resp.Content, "# Workflow Status") || !strings.Contains(resp.Content, "prd") {
		t.Errorf("status content = %q", resp.Content)
	}
}

func TestHandle_OfflineNewRejectsUnknownDocumentType(t *testing.T) {
	f := newFixture(t)

	resp, err := f.handler.Handle(context.Background(),
		prdRequest("scaffold it", "new", map[string]string{"documentType": "novel"}),
		backend.Offline("no backend configured"))
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if !strings.Contains(resp.Content, `"novel"`) {
		t.Errorf("response does not name the bad type: %q", resp.Content)
	}
	for _, want := range []string{"prd", "requirements", "design", "tasks"} {
		if !strings.Contains(resp.Content, want) {
			t.Errorf("response does not list valid type %q: %q", want, resp.Content)
		}
	}
	// `new` is a valid offline command; only the document type is wrong.
	if strings.Contains(resp.Content, "not available while the generation backend is offline") {
		t.Errorf("valid command was rejected as unavailable: %q", resp.Content)
	}
}

func TestHandle_StatusCapsQuestionNumberWhenSetExhausted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	online := backend.Online()

	// Answer every question but keep the session active.
	for _, prompt := range []string{"start", "a1", "a2", "a3", "a4"} {
		if _, err := f.handler.Handle(ctx, prdRequest(prompt, "", nil), online); err != nil {
			t.Fatalf("Handle(%q): %v", prompt, err)
		}
	}

	resp, err := f.handler.Handle(ctx, prdRequest("", "status", nil),
		backend.Offline("no backend configured"))
	if err != nil {
		t.Fatalf("Handle(status): %v", err)
	}

	if !strings.Contains(resp.Content, "question 4 of 4") {
		t.Errorf("status content = %q, want question 4 of 4", resp.Content)
	}
	if strings.Contains(resp.Content, "5 of 4") {
		t.Errorf("status reports a question past the last one: %q", resp.Content)
	}
}

func TestHandle_ConversationFlow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	online := backend.Online()

	// No command and an engine attached: conversation starts.
	resp, err := f.handler.Handle(ctx, prdRequest("I want to build a checkout flow", "", nil), online)
	if err != nil {
		t.Fatalf("Handle(start): %v", err)
	}
	if !strings.Contains(resp.Content, "Question 1 of 4") {
		t.Errorf("start content = %q", resp.Content)
	}
	if !strings.Contains(resp.Content, "What problem") {
		t.Errorf("first question should be the priority-1 problem question: %q", resp.Content)
	}

	// The next prompt answers the open question.
	resp, err = f.handler.Handle(ctx, prdRequest("Cart abandonment is 70% on mobile", "", nil), online)
	if err != nil {
		t.Fatalf("Handle(answer): %v", err)
	}
	if !strings.Contains(resp.Content, "Question 2 of 4") {
		t.Errorf("answer content = %q", resp.Content)
	}

	if len(resp.DocumentUpdates) != 1 {
		t.Fatalf("DocumentUpdates = %d, want 1", len(resp.DocumentUpdates))
	}
	u := resp.DocumentUpdates[0]
	if u.TargetPath != ".specit/drafts/prd.md" || u.Section != "problem" {
		t.Errorf("update = %+v", u)
	}

	if len(f.exec.calls) != 1 || f.exec.calls[0].tool != "insertSection" {
		t.Fatalf("executor calls = %+v", f.exec.calls)
	}
	if f.exec.calls[0].params["section"] != "problem" {
		t.Errorf("executor params = %+v", f.exec.calls[0].params)
	}
}

func TestHandle_UpdateAttributionFollowsRecordedQuestion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	online := backend.Online()

	if _, err := f.handler.Handle(ctx, prdRequest("start", "", nil), online); err != nil {
		t.Fatalf("Handle(start): %v", err)
	}

	// Each answer's update must land in the section of the question the
	// engine committed it under, across successive turns.
	wantSections := []string{"problem", "personas"}
	for i, answer := range []string{"cart abandonment", "a support lead"} {
		resp, err := f.handler.Handle(ctx, prdRequest(answer, "", nil), online)
		if err != nil {
			t.Fatalf("Handle(answer %d): %v", i+1, err)
		}
		if len(resp.DocumentUpdates) != 1 {
			t.Fatalf("answer %d: DocumentUpdates = %d, want 1", i+1, len(resp.DocumentUpdates))
		}
		u := resp.DocumentUpdates[0]
		if u.Section != wantSections[i] {
			t.Errorf("answer %d landed in section %q, want %q", i+1, u.Section, wantSections[i])
		}
		if !strings.Contains(u.Content, answer) {
			t.Errorf("answer %d: update content = %q, missing %q", i+1, u.Content, answer)
		}
	}
}

func TestHandle_ConversationCompletionAndSummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	online := backend.Online()

	answers := []string{
		"start the conversation",
		"cart abandonment on mobile",
		"a support lead triaging tickets",
		"checkout completion up 15%",
		"no native apps in v1",
	}
	var last *Response
	for _, prompt := range answers {
		resp, err := f.handler.Handle(ctx, prdRequest(prompt, "", nil), online)
		if err != nil {
			t.Fatalf("Handle(%q): %v", prompt, err)
		}
		last = resp
	}

	if !strings.Contains(last.Content, "4 of 4") {
		t.Errorf("completion content = %q", last.Content)
	}

	// Completion records the draft in the workflow state.
	if f.store.saves != 1 {
		t.Errorf("workflow saves = %d, want 1", f.store.saves)
	}
	if got := f.store.state.DocumentPath(templates.DocPRD); got != ".specit/drafts/prd.md" {
		t.Errorf("recorded document path = %q", got)
	}

	snap, ok := f.handler.ActiveSession("prd-creator")
	if !ok {
		t.Fatal("session should stay active until explicitly ended")
	}

	summary, err := f.handler.EndConversation(ctx, snap.ID)
	if err != nil {
		t.Fatalf("EndConversation: %v", err)
	}
	if summary.QuestionsAnswered != 4 {
		t.Errorf("QuestionsAnswered = %d, want 4", summary.QuestionsAnswered)
	}
	if summary.DocumentsUpdated != 4 {
		t.Errorf("DocumentsUpdated = %d, want 4", summary.DocumentsUpdated)
	}
	if summary.CompletionScore != 1.0 {
		t.Errorf("CompletionScore = %v, want 1.0", summary.CompletionScore)
	}

	if _, ok := f.handler.ActiveSession("prd-creator"); ok {
		t.Error("agent should be free after End")
	}
}

func TestHandle_PrerequisiteBlocksConversation(t *testing.T) {
	f := newFixture(t)

	resp, err := f.handler.Handle(context.Background(),
		routing.Request{
			Prompt:     "let's design the system",
			Parameters: map[string]string{"agent": "solution-architect"},
		},
		backend.Online())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if !strings.Contains(resp.Content, "requirements") {
		t.Errorf("content should name the missing document: %q", resp.Content)
	}
	if _, ok := f.handler.ActiveSession("solution-architect"); ok {
		t.Error("no session should start when the prerequisite is missing")
	}
}

func TestHandle_DirectMode(t *testing.T) {
	f := newFixture(t, backend.MockResponse{Content: "Here is your PRD outline."})

	resp, err := f.handler.Handle(context.Background(),
		prdRequest("draft a PRD outline", "", map[string]string{"directMode": "true"}),
		backend.Online())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if resp.Content != "Here is your PRD outline." {
		t.Errorf("content = %q", resp.Content)
	}
	if _, ok := f.handler.ActiveSession("prd-creator"); ok {
		t.Error("direct mode must not start a session")
	}
}

func TestHandle_DirectFallsBackOfflineWhenGeneratorUnavailable(t *testing.T) {
	f := newFixture(t, backend.MockResponse{Err: backend.ErrUnavailable})

	resp, err := f.handler.Handle(context.Background(),
		prdRequest("draft a PRD outline", "", map[string]string{"directMode": "true"}),
		backend.Online())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	if !strings.Contains(resp.Content, "# Working Offline") {
		t.Errorf("content = %q", resp.Content)
	}
}

func TestHandle_ConversationErrorFallsBackToDirect(t *testing.T) {
	f := newFixture(t, backend.MockResponse{Content: "direct answer"})
	online := backend.Online()

	if _, err := f.handler.Handle(context.Background(),
		prdRequest("start", "", nil), online); err != nil {
		t.Fatalf("Handle(start): %v", err)
	}

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	resp, err := f.handler.Handle(cancelled, prdRequest("an answer", "", nil), online)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp.Content != "direct answer" {
		t.Errorf("content = %q, want direct fallback", resp.Content)
	}

	// The failed turn must not have advanced the session.
	snap, ok := f.handler.ActiveSession("prd-creator")
	if !ok {
		t.Fatal("session should still be active")
	}
	if snap.CurrentQuestionIndex != 0 {
		t.Errorf("CurrentQuestionIndex = %d, want 0", snap.CurrentQuestionIndex)
	}
}

func TestHandle_UnknownAgent(t *testing.T) {
	f := newFixture(t)

	resp, err := f.handler.Handle(context.Background(),
		routing.Request{Prompt: "hello", Parameters: map[string]string{"agent": "nope"}},
		backend.Online())
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}

	for _, name := range []string{"prd-creator", "requirements-gatherer", "solution-architect", "implementation-planner"} {
		if !strings.Contains(resp.Content, name) {
			t.Errorf("content does not list agent %q: %q", name, resp.Content)
		}
	}
}

func TestCap_LimitsFollowupsAndGuaranteesContent(t *testing.T) {
	f := newFixture(t)

	resp := f.handler.cap(&Response{
		Content:   "x",
		Followups: []string{"a", "b", "c", "d", "e"},
	})
	if len(resp.Followups) != MaxFollowups {
		t.Errorf("followups = %d, want %d", len(resp.Followups), MaxFollowups)
	}

	resp = f.handler.cap(&Response{Content: "   "})
	if strings.TrimSpace(resp.Content) == "" {
		t.Error("cap must guarantee non-empty content")
	}
}

func TestIsDomainErr(t *testing.T) {
	cases := []struct {
		err  error
		want bool
	}{
		{conversation.ErrSessionActive, true},
		{conversation.ErrSessionNotFound, true},
		{agent.ErrAgentNotFound, true},
		{&workflow.MissingPrerequisiteError{}, true},
		{errors.New("disk on fire"), false},
		{context.Canceled, false},
	}
	for _, c := range cases {
		if got := isDomainErr(c.err); got != c.want {
			t.Errorf("isDomainErr(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}
