// Package history persists the audit trail of ended and abandoned
// conversation sessions in SQLite. Active sessions live in memory; once
// a session is deactivated its record lands here and survives restarts.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rodhayl/specit/internal/conversation"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// Config holds store settings.
type Config struct {
	// Path is the SQLite database file. The parent directory is
	// created if needed.
	Path string
}

// DefaultConfig stores history under the project's .specit directory.
func DefaultConfig() Config {
	return Config{Path: filepath.Join(".specit", "history.db")}
}

// Record is one archived session row with its answers.
type Record struct {
	SessionID         string                          `json:"session_id"`
	AgentName         string                          `json:"agent_name"`
	Phase             string                          `json:"phase"`
	Outcome           string                          `json:"outcome"`
	QuestionsAsked    int                             `json:"questions_asked"`
	QuestionsAnswered int                             `json:"questions_answered"`
	DocumentsUpdated  int                             `json:"documents_updated"`
	CompletionScore   float64                         `json:"completion_score"`
	CreatedAt         string                          `json:"created_at"`
	EndedAt           string                          `json:"ended_at"`
	Answers           []conversation.AnsweredQuestion `json:"answers,omitempty"`
}

// Store is the SQLite-backed audit store. It implements
// conversation.AuditSink.
type Store struct {
	db *sql.DB
}

// schema creates the tables on first open. Answers are kept in their own
// table so a session row stays small and answers keep their positions.
const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	session_id         TEXT PRIMARY KEY,
	agent_name         TEXT NOT NULL,
	phase              TEXT NOT NULL,
	outcome            TEXT NOT NULL,
	questions_asked    INTEGER NOT NULL,
	questions_answered INTEGER NOT NULL,
	documents_updated  INTEGER NOT NULL,
	completion_score   REAL NOT NULL,
	created_at         TEXT NOT NULL,
	ended_at           TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS session_answers (
	session_id  TEXT NOT NULL REFERENCES sessions(session_id),
	question_id TEXT NOT NULL,
	answer      TEXT NOT NULL,
	position    INTEGER NOT NULL,
	PRIMARY KEY (session_id, question_id)
);

CREATE INDEX IF NOT EXISTS idx_sessions_agent ON sessions(agent_name, ended_at);
`

// New opens (or creates) the audit database and applies the schema.
func New(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("history: database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := openDB("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying history schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordSession archives a deactivated session and its answers in one
// transaction.
func (s *Store) RecordSession(rec conversation.AuditRecord) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning history transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO sessions (session_id, agent_name, phase, outcome,
			questions_asked, questions_answered, documents_updated,
			completion_score, created_at, ended_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.AgentName, string(rec.Phase), string(rec.Outcome),
		rec.QuestionsAsked, rec.QuestionsAnswered, rec.DocumentsUpdated,
		rec.CompletionScore,
		rec.CreatedAt.UTC().Format(time.RFC3339),
		rec.EndedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting session %s: %w", rec.SessionID, err)
	}

	for _, a := range rec.Answers {
		if _, err := tx.Exec(
			`INSERT INTO session_answers (session_id, question_id, answer, position)
			 VALUES (?, ?, ?, ?)`,
			rec.SessionID, a.QuestionID, a.Answer, a.Position,
		); err != nil {
			return fmt.Errorf("inserting answer %s/%s: %w", rec.SessionID, a.QuestionID, err)
		}
	}

	return tx.Commit()
}

// List returns the most recently ended sessions, newest first, without
// their answers. limit <= 0 means a default of 20.
func (s *Store) List(limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT session_id, agent_name, phase, outcome, questions_asked,
			questions_answered, documents_updated, completion_score,
			created_at, ended_at
		 FROM sessions ORDER BY ended_at DESC, session_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(
			&r.SessionID, &r.AgentName, &r.Phase, &r.Outcome,
			&r.QuestionsAsked, &r.QuestionsAnswered, &r.DocumentsUpdated,
			&r.CompletionScore, &r.CreatedAt, &r.EndedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning session row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get returns one archived session with its answers in position order.
func (s *Store) Get(sessionID string) (*Record, error) {
	row := s.db.QueryRow(
		`SELECT session_id, agent_name, phase, outcome, questions_asked,
			questions_answered, documents_updated, completion_score,
			created_at, ended_at
		 FROM sessions WHERE session_id = ?`, sessionID)

	var r Record
	if err := row.Scan(
		&r.SessionID, &r.AgentName, &r.Phase, &r.Outcome,
		&r.QuestionsAsked, &r.QuestionsAnswered, &r.DocumentsUpdated,
		&r.CompletionScore, &r.CreatedAt, &r.EndedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session %q not found in history", sessionID)
		}
		return nil, fmt.Errorf("reading session %q: %w", sessionID, err)
	}

	rows, err := s.db.Query(
		`SELECT question_id, answer, position FROM session_answers
		 WHERE session_id = ? ORDER BY position`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("reading answers for %q: %w", sessionID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var a conversation.AnsweredQuestion
		if err := rows.Scan(&a.QuestionID, &a.Answer, &a.Position); err != nil {
			return nil, fmt.Errorf("scanning answer row: %w", err)
		}
		r.Answers = append(r.Answers, a)
	}
	return &r, rows.Err()
}
