package agent

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Question is one item in an agent's fixed elicitation sequence.
// Immutable once the question set is bound to a session.
type Question struct {
	ID       string   `json:"id" yaml:"id"`
	Text     string   `json:"text" yaml:"text"`
	Examples []string `json:"examples,omitempty" yaml:"examples,omitempty"`
	Required bool     `json:"required" yaml:"required"`
	Category string   `json:"category,omitempty" yaml:"category,omitempty"`
	Priority int      `json:"priority" yaml:"priority"`
}

// SortQuestions orders questions by priority (lower first), keeping the
// original order for equal priorities. Returns a copy; the input is not
// mutated.
func SortQuestions(qs []Question) []Question {
	out := make([]Question, len(qs))
	copy(out, qs)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority < out[j].Priority
	})
	return out
}

// OverridesFile is the per-project file that replaces built-in question
// sets, relative to the project root.
const OverridesFile = ".specit/questions.yaml"

// overridesDoc is the on-disk shape of the overrides file: a mapping from
// phase name to a question list.
type overridesDoc map[string][]Question

// LoadOverrides reads question set overrides for a project. A missing
// file is not an error: it returns an empty map. A present but invalid
// file is an error, because silently ignoring a typo would be worse than
// failing startup.
func LoadOverrides(projectRoot string) (map[Phase][]Question, error) {
	path := filepath.Join(projectRoot, filepath.FromSlash(OverridesFile))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[Phase][]Question{}, nil
		}
		return nil, fmt.Errorf("reading question overrides: %w", err)
	}

	var doc overridesDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", OverridesFile, err)
	}

	out := make(map[Phase][]Question, len(doc))
	for name, qs := range doc {
		phase := Phase(name)
		if err := ValidatePhase(phase); err != nil {
			return nil, fmt.Errorf("%s: %w", OverridesFile, err)
		}
		if len(qs) == 0 {
			return nil, fmt.Errorf("%s: phase %q has an empty question list", OverridesFile, name)
		}
		for i, q := range qs {
			if q.ID == "" || q.Text == "" {
				return nil, fmt.Errorf("%s: phase %q question %d: id and text are required", OverridesFile, name, i)
			}
		}
		out[phase] = SortQuestions(qs)
	}
	return out, nil
}
