// Package workflow tracks cross-phase authoring state: which phase is
// current, which documents exist, and which agent is active. The
// orchestration core reads this state and proposes mutations; the files
// themselves belong to the tool executor.
package workflow

import (
	"fmt"

	"github.com/rodhayl/specit/internal/agent"
	"github.com/rodhayl/specit/internal/templates"
)

// State is the persisted workflow record for one project.
type State struct {
	CurrentPhase agent.Phase       `json:"current_phase"`
	ActiveAgent  string            `json:"active_agent,omitempty"`
	Documents    map[string]string `json:"documents"` // document type → path
	UpdatedAt    string            `json:"updated_at"`
}

// NewState returns the initial workflow state: PRD phase, no documents.
func NewState() *State {
	return &State{
		CurrentPhase: agent.PhasePRD,
		Documents:    make(map[string]string),
	}
}

// DocumentPath returns the recorded path for a document type, or "".
func (s *State) DocumentPath(dt templates.DocType) string {
	if s.Documents == nil {
		return ""
	}
	return s.Documents[string(dt)]
}

// SetDocument records the path of a produced document.
func (s *State) SetDocument(dt templates.DocType, path string) {
	if s.Documents == nil {
		s.Documents = make(map[string]string)
	}
	s.Documents[string(dt)] = path
}

// phasePrereqs names the document each phase needs from the one before.
// The PRD phase has no prerequisite.
var phasePrereqs = map[agent.Phase]templates.DocType{
	agent.PhaseRequirements:   templates.DocPRD,
	agent.PhaseDesign:         templates.DocRequirements,
	agent.PhaseImplementation: templates.DocDesign,
}

// MissingPrerequisiteError reports that a phase cannot proceed and names
// both the missing document and the command that produces it, so the
// failure is actionable rather than silent.
type MissingPrerequisiteError struct {
	Phase   agent.Phase
	Missing templates.DocType
	Satisfy string
}

func (e *MissingPrerequisiteError) Error() string {
	return fmt.Sprintf(
		"the %s phase needs a %s document first; run %s to create one",
		e.Phase, e.Missing, e.Satisfy,
	)
}

// CheckPrerequisite verifies the state carries the document a phase
// depends on. Returns nil for phases without prerequisites.
func CheckPrerequisite(s *State, phase agent.Phase) error {
	dt, ok := phasePrereqs[phase]
	if !ok {
		return nil
	}
	if s != nil && s.DocumentPath(dt) != "" {
		return nil
	}
	return &MissingPrerequisiteError{
		Phase:   phase,
		Missing: dt,
		Satisfy: fmt.Sprintf("`new` with documentType=%s", dt),
	}
}
