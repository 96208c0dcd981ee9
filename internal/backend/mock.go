package backend

import (
	"context"
	"sync"
)

// MockResponse configures a single response from the scripted generator.
type MockResponse struct {
	Content string
	Err     error
}

// ScriptedGenerator is a configurable Generator for tests. Responses are
// returned in order; when exhausted, the last one repeats.
type ScriptedGenerator struct {
	mu        sync.Mutex
	responses []MockResponse
	callIndex int
	prompts   []string
}

// NewScriptedGenerator creates a generator with a fixed response sequence.
func NewScriptedGenerator(responses ...MockResponse) *ScriptedGenerator {
	return &ScriptedGenerator{responses: responses}
}

// Generate returns the next configured response and records the prompt.
func (g *ScriptedGenerator) Generate(_ context.Context, prompt, _ string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.prompts = append(g.prompts, prompt)

	if len(g.responses) == 0 {
		return "", ErrUnavailable
	}

	idx := g.callIndex
	if idx >= len(g.responses) {
		idx = len(g.responses) - 1
	} else {
		g.callIndex++
	}

	resp := g.responses[idx]
	if resp.Err != nil {
		return "", resp.Err
	}
	return resp.Content, nil
}

// Prompts returns a copy of every prompt seen so far.
func (g *ScriptedGenerator) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]string, len(g.prompts))
	copy(out, g.prompts)
	return out
}
