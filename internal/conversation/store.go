package conversation

import (
	"fmt"
	"sync"
)

// Store owns session lifecycles, keyed by agent name. It is the only
// mutable shared structure in the orchestration core. Deactivated
// sessions stay reachable by ID for introspection; only the one-active-
// session-per-agent index is maintained strictly.
type Store struct {
	mu     sync.RWMutex
	active map[string]*Session // agent name → active session
	byID   map[string]*Session // session id → session (active or not)
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{
		active: make(map[string]*Session),
		byID:   make(map[string]*Session),
	}
}

// Track registers a newly started session. Fails with ErrSessionActive if
// the owning agent already has one; the existing session is untouched.
func (st *Store) Track(s *Session) error {
	st.mu.Lock()
	defer st.mu.Unlock()

	if existing, ok := st.active[s.OwnerAgent]; ok {
		return fmt.Errorf("agent %q has active session %s: %w",
			s.OwnerAgent, existing.ID, ErrSessionActive)
	}

	st.active[s.OwnerAgent] = s
	st.byID[s.ID] = s
	return nil
}

// Get returns the session with the given id, if it is known.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.byID[id]
	return s, ok
}

// ActiveFor returns the active session for an agent, if any.
func (st *Store) ActiveFor(agentName string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.active[agentName]
	return s, ok
}

// Release drops the active index entry for a session. The session stays
// reachable by ID. Safe to call more than once.
func (st *Store) Release(s *Session) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if st.active[s.OwnerAgent] == s {
		delete(st.active, s.OwnerAgent)
	}
}
