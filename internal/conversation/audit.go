package conversation

import (
	"time"

	"github.com/rodhayl/specit/internal/agent"
)

// Outcome is how a session left the Active state.
type Outcome string

const (
	OutcomeCompleted Outcome = "completed"
	OutcomeAbandoned Outcome = "abandoned"
)

// AnsweredQuestion is one recorded answer in an audit record, with the
// position the question held in the session's ordered set.
type AnsweredQuestion struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
	Position   int    `json:"position"`
}

// AuditRecord is the durable trace of a deactivated session.
type AuditRecord struct {
	SessionID         string             `json:"session_id"`
	AgentName         string             `json:"agent_name"`
	Phase             agent.Phase        `json:"phase"`
	Outcome           Outcome            `json:"outcome"`
	QuestionsAsked    int                `json:"questions_asked"`
	QuestionsAnswered int                `json:"questions_answered"`
	DocumentsUpdated  int                `json:"documents_updated"`
	CompletionScore   float64            `json:"completion_score"`
	CreatedAt         time.Time          `json:"created_at"`
	EndedAt           time.Time          `json:"ended_at"`
	Answers           []AnsweredQuestion `json:"answers,omitempty"`
}

// AuditSink receives records for sessions that ended or were abandoned.
// The engine treats sink failures as non-fatal: they are logged, never
// propagated into the conversation result.
type AuditSink interface {
	RecordSession(rec AuditRecord) error
}
