// Package routing contains the pure decision functions that pick how an
// incoming authoring request is handled: which mode it runs in and which
// document operation it implies.
//
// Everything in this package is side-effect free. Given the same inputs the
// same answer comes back, which is what makes the routing layer testable
// without a backend, a session store, or a transport.
package routing

// Request is an inbound unit of work from the transport layer.
type Request struct {
	// Prompt is the free-form text the user typed.
	Prompt string `json:"prompt"`

	// Command is an optional short verb ("new", "review", "help", ...).
	// Empty means the user just chatted.
	Command string `json:"command,omitempty"`

	// Parameters carries string key/value options, including the explicit
	// mode overrides (see ParamConversationMode / ParamDirectMode).
	Parameters map[string]string `json:"parameters,omitempty"`

	// Transport is the originating transport object. It is passed through
	// unexamined so the core stays transport-agnostic.
	Transport any `json:"-"`
}

// Param returns a parameter value, or "" when the key is absent.
func (r Request) Param(key string) string {
	if r.Parameters == nil {
		return ""
	}
	return r.Parameters[key]
}
