package routing

import "strings"

// Operation classifies what a request is asking for. The classification is
// a fixed heuristic over command and prompt text, kept as an independent
// pure function so a real intent classifier can replace it later without
// touching the orchestration logic.
type Operation string

const (
	OpDocumentCreation Operation = "document-creation"
	OpDocumentReview   Operation = "document-review"
	OpConversation     Operation = "conversation"
)

// creationVerbs and reviewVerbs are matched case-insensitively against the
// prompt text when the command alone doesn't decide.
var (
	creationVerbs = []string{"create", "new"}
	reviewVerbs   = []string{"review", "check"}
)

// ClassifyOperation maps (promptText, command) to an Operation.
// Precedence: command first, then prompt verbs, then conversation.
func ClassifyOperation(promptText, command string) Operation {
	switch command {
	case "new":
		return OpDocumentCreation
	case "review":
		return OpDocumentReview
	}

	lower := strings.ToLower(promptText)
	for _, v := range creationVerbs {
		if strings.Contains(lower, v) {
			return OpDocumentCreation
		}
	}
	for _, v := range reviewVerbs {
		if strings.Contains(lower, v) {
			return OpDocumentReview
		}
	}

	return OpConversation
}
