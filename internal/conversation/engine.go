package conversation

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/rodhayl/specit/internal/agent"
)

// Turn is the payload produced by starting or continuing a conversation:
// either the next question or a completion signal.
type Turn struct {
	SessionID       string          `json:"session_id"`
	AgentName       string          `json:"agent_name"`
	Completed       bool            `json:"completed"`
	Question        *agent.Question `json:"question,omitempty"`
	Answered        *agent.Question `json:"answered,omitempty"` // question this turn's answer was recorded against
	QuestionNumber  int             `json:"question_number,omitempty"` // 1-based
	TotalQuestions  int             `json:"total_questions"`
	AnsweredCount   int             `json:"answered_count"`
	CompletionScore float64         `json:"completion_score"`
}

// Summary describes a session at the moment it was explicitly ended.
type Summary struct {
	SessionID         string        `json:"session_id"`
	AgentName         string        `json:"agent_name"`
	QuestionsAsked    int           `json:"questions_asked"`
	QuestionsAnswered int           `json:"questions_answered"`
	DocumentsUpdated  int           `json:"documents_updated"`
	CompletionScore   float64       `json:"completion_score"`
	Duration          time.Duration `json:"duration"`
}

// Engine advances conversation sessions through their state machine.
// All mutation goes through Start, Continue, End and Abandon.
type Engine struct {
	store *Store
	sink  AuditSink // optional; nil disables the audit trail
}

// NewEngine creates an engine over a session store. sink may be nil.
func NewEngine(store *Store, sink AuditSink) *Engine {
	return &Engine{store: store, sink: sink}
}

// Start allocates a new session for an agent and returns the first
// question. Fails with ErrSessionActive when the agent already owns an
// active session; the caller must End or Abandon that one first.
func (e *Engine) Start(ctx context.Context, a *agent.Agent) (*Turn, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s := newSession(uuid.NewString(), a)
	if err := e.store.Track(s); err != nil {
		return nil, err
	}

	return s.turnLocked(), nil
}

// Continue records the answer to the session's current question and
// advances it. The whole transition commits atomically under the session
// lock: a cancelled context before the commit leaves the session
// untouched, never half-advanced. The returned turn names the question
// the answer was recorded against; callers attributing the answer to a
// question must use that, not a pre-call snapshot, because another turn
// may commit between their read and this one.
func (e *Engine) Continue(ctx context.Context, sessionID, answer string) (*Turn, error) {
	s, err := e.activeSession(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.active {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var recorded *agent.Question
	if s.currentIndex < len(s.Questions) {
		q := s.Questions[s.currentIndex]
		s.answered[q.ID] = answer
		s.currentIndex++
		s.completionScore = score(len(s.answered), len(s.Questions))
		s.lastActivity = timeNow().UTC()
		recorded = &q
	}

	t := s.turn()
	t.Answered = recorded
	return t, nil
}

// End deactivates a session and returns its summary. The audit write
// happens after the session lock is released.
func (e *Engine) End(ctx context.Context, sessionID string) (*Summary, error) {
	return e.finish(ctx, sessionID, OutcomeCompleted)
}

// Abandon deactivates a session without treating it as completed.
func (e *Engine) Abandon(ctx context.Context, sessionID string) (*Summary, error) {
	return e.finish(ctx, sessionID, OutcomeAbandoned)
}

// ActiveSnapshot returns the state of an agent's active session, if any.
func (e *Engine) ActiveSnapshot(agentName string) (Snapshot, bool) {
	s, ok := e.store.ActiveFor(agentName)
	if !ok {
		return Snapshot{}, false
	}
	return s.Snapshot(), true
}

// ActiveSession returns the live session object for an agent, if any.
func (e *Engine) ActiveSession(agentName string) (*Session, bool) {
	return e.store.ActiveFor(agentName)
}

// NoteDocumentsUpdated adds to a session's count of realized document
// updates, which feeds the end-of-session summary.
func (e *Engine) NoteDocumentsUpdated(sessionID string, n int) error {
	s, err := e.activeSession(sessionID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.active {
		return fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}
	s.documentsUpdated += n
	return nil
}

// finish performs the shared End/Abandon transition: deactivate under the
// session lock, then record the audit trail outside it.
func (e *Engine) finish(ctx context.Context, sessionID string, outcome Outcome) (*Summary, error) {
	s, err := e.activeSession(sessionID)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	if !s.active {
		s.mu.Unlock()
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}
	s.active = false

	summary := &Summary{
		SessionID:         s.ID,
		AgentName:         s.OwnerAgent,
		QuestionsAsked:    asked(s.currentIndex, len(s.Questions)),
		QuestionsAnswered: len(s.answered),
		DocumentsUpdated:  s.documentsUpdated,
		CompletionScore:   s.completionScore,
		Duration:          s.lastActivity.Sub(s.CreatedAt),
	}

	rec := AuditRecord{
		SessionID:         s.ID,
		AgentName:         s.OwnerAgent,
		Phase:             s.Phase,
		Outcome:           outcome,
		QuestionsAsked:    summary.QuestionsAsked,
		QuestionsAnswered: summary.QuestionsAnswered,
		DocumentsUpdated:  summary.DocumentsUpdated,
		CompletionScore:   summary.CompletionScore,
		CreatedAt:         s.CreatedAt,
		EndedAt:           s.lastActivity,
	}
	for i, q := range s.Questions {
		if answer, ok := s.answered[q.ID]; ok {
			rec.Answers = append(rec.Answers, AnsweredQuestion{
				QuestionID: q.ID,
				Answer:     answer,
				Position:   i,
			})
		}
	}
	s.mu.Unlock()

	e.store.Release(s)

	if e.sink != nil {
		if err := e.sink.RecordSession(rec); err != nil {
			log.Printf("WARNING: session audit for %s failed: %v", s.ID, err)
		}
	}

	return summary, nil
}

// activeSession looks up a session by id and rejects unknown ids without
// side effects.
func (e *Engine) activeSession(sessionID string) (*Session, error) {
	s, ok := e.store.Get(sessionID)
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrSessionNotFound)
	}
	return s, nil
}

// turn builds the turn payload. Caller must hold s.mu.
func (s *Session) turn() *Turn {
	t := &Turn{
		SessionID:       s.ID,
		AgentName:       s.OwnerAgent,
		TotalQuestions:  len(s.Questions),
		AnsweredCount:   len(s.answered),
		CompletionScore: s.completionScore,
	}

	if s.currentIndex >= len(s.Questions) {
		t.Completed = true
		return t
	}

	q := s.Questions[s.currentIndex]
	t.Question = &q
	t.QuestionNumber = s.currentIndex + 1
	return t
}

// turnLocked is turn with the lock taken, for callers outside a transition.
func (s *Session) turnLocked() *Turn {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turn()
}

// score computes answeredCount / max(1, total). Monotone while active,
// because answers are only ever added.
func score(answeredCount, total int) float64 {
	if total < 1 {
		total = 1
	}
	return float64(answeredCount) / float64(total)
}

// asked is how many questions were actually presented: every question
// before the index, plus the one currently on screen if any remain.
func asked(currentIndex, total int) int {
	if currentIndex >= total {
		return total
	}
	return currentIndex + 1
}
