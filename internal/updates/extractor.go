package updates

import (
	"fmt"
	"path"
	"sort"

	"github.com/rodhayl/specit/internal/agent"
	"github.com/rodhayl/specit/internal/templates"
)

// Extractor produces update hints from a turn. Semantic parsing of
// natural-language answers is deliberately pluggable: swap this for a
// smarter implementation without touching the conversation engine or the
// orchestrator.
type Extractor interface {
	// Extract returns the hints implied by the latest answer. Returning
	// no hints is valid, not an error.
	Extract(phase agent.Phase, question *agent.Question, answer string) []Hint
}

// AnswerExtractor is the default extractor: each answered question is
// appended to the phase's working document under the question's
// category section. Deterministic and content-agnostic.
type AnswerExtractor struct {
	// DocsDir is the directory the working documents live in,
	// e.g. ".specit/drafts".
	DocsDir string
}

// NewAnswerExtractor creates the default extractor rooted at docsDir.
func NewAnswerExtractor(docsDir string) *AnswerExtractor {
	return &AnswerExtractor{DocsDir: docsDir}
}

// Extract maps one answered question to one append hint.
func (x *AnswerExtractor) Extract(phase agent.Phase, question *agent.Question, answer string) []Hint {
	if question == nil || answer == "" {
		return nil
	}

	section := question.Category
	if section == "" {
		section = DefaultSection
	}

	return []Hint{{
		TargetPath: path.Join(x.DocsDir, templates.Filename(agent.DocTypeFor(phase))),
		Section:    section,
		Content:    fmt.Sprintf("**%s**\n\n%s\n", question.Text, answer),
		Mode:       string(ModeAppend),
	}}
}

// ExtractAll replays every accumulated answer against the question set,
// in question order. Used when a caller wants the full document rebuilt
// rather than the latest increment.
func (x *AnswerExtractor) ExtractAll(phase agent.Phase, questions []agent.Question, answers map[string]string) []Hint {
	ordered := make([]agent.Question, len(questions))
	copy(ordered, questions)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority < ordered[j].Priority })

	var hints []Hint
	for i := range ordered {
		answer, ok := answers[ordered[i].ID]
		if !ok {
			continue
		}
		hints = append(hints, x.Extract(phase, &ordered[i], answer)...)
	}
	return hints
}
