// Package conversation implements the multi-turn session state machine:
// per-agent sessions, question progression, completion scoring, and the
// audit trail hook for ended sessions.
//
// State machine per agent: NoSession → Active → Completed, with
// Active → Abandoned as the other exit. A session only leaves the Active
// state through an explicit End or Abandon; nothing deactivates it
// silently.
package conversation

import (
	"sync"
	"time"

	"github.com/rodhayl/specit/internal/agent"
)

// Session is the stateful record of one in-progress conversation. All
// mutable fields are guarded by mu; turns for the same session are
// serialized because the question-index advance is not commutative.
type Session struct {
	// Immutable after creation.
	ID         string
	OwnerAgent string
	Phase      agent.Phase
	Questions  []agent.Question
	CreatedAt  time.Time

	mu               sync.Mutex
	currentIndex     int
	answered         map[string]string
	completionScore  float64
	active           bool
	lastActivity     time.Time
	documentsUpdated int
}

// newSession allocates an Active session bound to an agent's question set.
func newSession(id string, a *agent.Agent) *Session {
	now := timeNow().UTC()
	return &Session{
		ID:           id,
		OwnerAgent:   a.Name,
		Phase:        a.Phase,
		Questions:    agent.SortQuestions(a.Questions),
		CreatedAt:    now,
		answered:     make(map[string]string),
		active:       true,
		lastActivity: now,
	}
}

// Snapshot is a consistent, lock-free view of a session's mutable state.
type Snapshot struct {
	ID                   string            `json:"session_id"`
	OwnerAgent           string            `json:"owner_agent"`
	Phase                agent.Phase       `json:"phase"`
	CurrentQuestionIndex int               `json:"current_question_index"`
	TotalQuestions       int               `json:"total_questions"`
	Answered             map[string]string `json:"answered"`
	CompletionScore      float64           `json:"completion_score"`
	Active               bool              `json:"active"`
	CreatedAt            time.Time         `json:"created_at"`
	LastActivity         time.Time         `json:"last_activity"`
	DocumentsUpdated     int               `json:"documents_updated"`
}

// Snapshot copies the session state under its lock.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	answered := make(map[string]string, len(s.answered))
	for k, v := range s.answered {
		answered[k] = v
	}

	return Snapshot{
		ID:                   s.ID,
		OwnerAgent:           s.OwnerAgent,
		Phase:                s.Phase,
		CurrentQuestionIndex: s.currentIndex,
		TotalQuestions:       len(s.Questions),
		Answered:             answered,
		CompletionScore:      s.completionScore,
		Active:               s.active,
		CreatedAt:            s.CreatedAt,
		LastActivity:         s.lastActivity,
		DocumentsUpdated:     s.documentsUpdated,
	}
}

// Answers returns a copy of the accumulated answers.
func (s *Session) Answers() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]string, len(s.answered))
	for k, v := range s.answered {
		out[k] = v
	}
	return out
}

// IsActive reports whether the session is still active.
func (s *Session) IsActive() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}
