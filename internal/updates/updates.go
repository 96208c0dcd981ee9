// Package updates turns a conversation turn's structured output into
// document edit instructions. Derivation is a pure mapping: hints in,
// updates out, order preserved.
package updates

import "fmt"

// EditMode says how content is applied at the target section.
type EditMode string

const (
	ModeAppend  EditMode = "append"
	ModeReplace EditMode = "replace"
	ModePrepend EditMode = "prepend"
)

// validEditModes is the set of allowed edit modes.
var validEditModes = map[EditMode]bool{
	ModeAppend:  true,
	ModeReplace: true,
	ModePrepend: true,
}

// DefaultSection is used when a hint does not name a section.
const DefaultSection = "content"

// Hint is one update suggestion carried in a turn's structured output.
// Section and Mode are optional; TargetPath and Content are required.
type Hint struct {
	TargetPath string `json:"target_path"`
	Section    string `json:"section,omitempty"`
	Content    string `json:"content"`
	Mode       string `json:"mode,omitempty"`
}

// DocumentUpdate is a concrete edit instruction for the tool executor.
// The executor accepts this shape verbatim; the core does not retain it.
type DocumentUpdate struct {
	TargetPath string   `json:"target_path"`
	Section    string   `json:"section"`
	Content    string   `json:"content"`
	Mode       EditMode `json:"mode"`
}

// Derive maps hints 1:1 to document updates, in input order. A malformed
// hint is skipped and reported in the returned warnings; the remaining
// hints are still derived, so one bad answer never aborts a whole turn.
func Derive(hints []Hint) ([]DocumentUpdate, []error) {
	var (
		out      []DocumentUpdate
		warnings []error
	)

	for i, h := range hints {
		upd, err := deriveOne(h)
		if err != nil {
			warnings = append(warnings, fmt.Errorf("hint %d: %w", i, err))
			continue
		}
		out = append(out, upd)
	}

	return out, warnings
}

// deriveOne validates a single hint and fills in the defaults.
func deriveOne(h Hint) (DocumentUpdate, error) {
	if h.TargetPath == "" {
		return DocumentUpdate{}, fmt.Errorf("missing target path")
	}
	if h.Content == "" {
		return DocumentUpdate{}, fmt.Errorf("missing content for %q", h.TargetPath)
	}

	section := h.Section
	if section == "" {
		section = DefaultSection
	}

	mode := EditMode(h.Mode)
	if h.Mode == "" {
		mode = ModeAppend
	}
	if !validEditModes[mode] {
		return DocumentUpdate{}, fmt.Errorf("invalid edit mode %q for %q", h.Mode, h.TargetPath)
	}

	return DocumentUpdate{
		TargetPath: h.TargetPath,
		Section:    section,
		Content:    h.Content,
		Mode:       mode,
	}, nil
}
