package conversation

import "errors"

var (
	// ErrSessionActive is returned when starting a conversation for an
	// agent that already has an active session. The caller must end or
	// abandon the existing session first; it is never silently replaced.
	ErrSessionActive = errors.New("agent already has an active session")

	// ErrSessionNotFound is returned when an operation names a session
	// that does not exist or is no longer active. The operation never
	// creates a session as a side effect.
	ErrSessionNotFound = errors.New("session not found or not active")
)
