package agent

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// Registry resolution errors. Registration failures indicate a
// configuration defect and are fatal at startup; they are never swallowed.
var (
	// ErrDuplicateAgent is returned when registering a name or phase that
	// is already taken.
	ErrDuplicateAgent = errors.New("agent already registered")

	// ErrAgentNotFound is returned when no agent matches a name or phase.
	ErrAgentNotFound = errors.New("agent not found")
)

// Registry maps agent names and workflow phases to agents. Writes happen
// once at startup; afterwards it is read-only and safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	byName  map[string]*Agent
	byPhase map[Phase]*Agent
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byName:  make(map[string]*Agent),
		byPhase: make(map[Phase]*Agent),
	}
}

// Register adds an agent. It fails if the name is empty, the phase is
// unknown, or either the name or the phase is already taken.
func (r *Registry) Register(a *Agent) error {
	if a == nil || a.Name == "" {
		return fmt.Errorf("registering agent: name is required")
	}
	if err := ValidatePhase(a.Phase); err != nil {
		return fmt.Errorf("registering agent %q: %w", a.Name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byName[a.Name]; ok {
		return fmt.Errorf("registering agent %q: %w", a.Name, ErrDuplicateAgent)
	}
	if existing, ok := r.byPhase[a.Phase]; ok {
		return fmt.Errorf("registering agent %q: phase %q is owned by %q: %w",
			a.Name, a.Phase, existing.Name, ErrDuplicateAgent)
	}

	r.byName[a.Name] = a
	r.byPhase[a.Phase] = a
	return nil
}

// Resolve finds an agent by name first, then by phase name.
func (r *Registry) Resolve(nameOrPhase string) (*Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if a, ok := r.byName[nameOrPhase]; ok {
		return a, nil
	}
	if a, ok := r.byPhase[Phase(nameOrPhase)]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("resolving %q: %w", nameOrPhase, ErrAgentNotFound)
}

// ByPhase finds the agent owning a workflow phase.
func (r *Registry) ByPhase(p Phase) (*Agent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if a, ok := r.byPhase[p]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("resolving phase %q: %w", p, ErrAgentNotFound)
}

// Names returns all registered agent names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
