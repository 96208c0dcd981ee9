package routing

import "testing"

func TestClassifyOperation(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		command string
		want    Operation
	}{
		{"new command", "whatever", "new", OpDocumentCreation},
		{"review command", "whatever", "review", OpDocumentReview},
		{"create verb in prompt", "please Create a PRD", "", OpDocumentCreation},
		{"new verb in prompt", "start a NEW design doc", "", OpDocumentCreation},
		{"review verb in prompt", "can you review this?", "", OpDocumentReview},
		{"check verb in prompt", "Check the requirements", "", OpDocumentReview},
		{"creation beats review in prompt", "create then review", "", OpDocumentCreation},
		{"command beats prompt verbs", "create something", "review", OpDocumentReview},
		{"plain chat", "what should we do next?", "", OpConversation},
		{"unknown command falls through to prompt", "just talking", "status", OpConversation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyOperation(tt.prompt, tt.command); got != tt.want {
				t.Errorf("ClassifyOperation(%q, %q) = %s, want %s", tt.prompt, tt.command, got, tt.want)
			}
		})
	}
}
