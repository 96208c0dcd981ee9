// Package agent defines the named capability bundles that own each phase
// of the document workflow, and the registry that resolves them.
package agent

import (
	"fmt"

	"github.com/rodhayl/specit/internal/templates"
)

// Phase is one stage of the document workflow. The set is closed: each
// phase is owned by exactly one registered agent.
type Phase string

const (
	PhasePRD            Phase = "prd"
	PhaseRequirements   Phase = "requirements"
	PhaseDesign         Phase = "design"
	PhaseImplementation Phase = "implementation"
)

// validPhases is the set of allowed workflow phases.
var validPhases = map[Phase]bool{
	PhasePRD:            true,
	PhaseRequirements:   true,
	PhaseDesign:         true,
	PhaseImplementation: true,
}

// ValidatePhase returns an error if the phase is not recognized.
func ValidatePhase(p Phase) error {
	if !validPhases[p] {
		return fmt.Errorf("invalid workflow phase %q: must be one of: prd, requirements, design, implementation", p)
	}
	return nil
}

// PhaseOrder returns the workflow phases in their canonical sequence.
func PhaseOrder() []Phase {
	return []Phase{PhasePRD, PhaseRequirements, PhaseDesign, PhaseImplementation}
}

// phaseDocTypes maps each phase to the document type it produces.
var phaseDocTypes = map[Phase]templates.DocType{
	PhasePRD:            templates.DocPRD,
	PhaseRequirements:   templates.DocRequirements,
	PhaseDesign:         templates.DocDesign,
	PhaseImplementation: templates.DocTasks,
}

// DocTypeFor returns the document type a phase produces.
func DocTypeFor(p Phase) templates.DocType {
	return phaseDocTypes[p]
}
