package agent

import (
	"os"
	"path/filepath"
	"testing"
)

func writeOverrides(t *testing.T, content string) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, ".specit")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "questions.yaml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return root
}

func TestLoadOverrides_Missing(t *testing.T) {
	got, err := LoadOverrides(t.TempDir())
	if err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("overrides = %v, want empty", got)
	}
}

func TestLoadOverrides_Valid(t *testing.T) {
	root := writeOverrides(t, `
design:
  - id: d1
    text: "What are the constraints?"
    required: true
    priority: 2
  - id: d2
    text: "What components exist?"
    priority: 1
`)
	got, err := LoadOverrides(root)
	if err != nil {
		t.Fatalf("LoadOverrides: %v", err)
	}

	qs, ok := got[PhaseDesign]
	if !ok || len(qs) != 2 {
		t.Fatalf("design overrides = %v, want 2 questions", qs)
	}
	// Sorted by priority on load.
	if qs[0].ID != "d2" || qs[1].ID != "d1" {
		t.Errorf("overrides not priority-sorted: %v", qs)
	}
	if !qs[1].Required {
		t.Error("required flag lost in parsing")
	}
}

func TestLoadOverrides_UnknownPhase(t *testing.T) {
	root := writeOverrides(t, `
deployment:
  - id: x
    text: "nope"
`)
	if _, err := LoadOverrides(root); err == nil {
		t.Error("expected error for unknown phase")
	}
}

func TestLoadOverrides_MissingFields(t *testing.T) {
	root := writeOverrides(t, `
prd:
  - text: "missing id"
`)
	if _, err := LoadOverrides(root); err == nil {
		t.Error("expected error for question without id")
	}
}

func TestLoadOverrides_EmptyList(t *testing.T) {
	root := writeOverrides(t, "prd: []\n")
	if _, err := LoadOverrides(root); err == nil {
		t.Error("expected error for empty question list")
	}
}

func TestSortQuestions_StableCopy(t *testing.T) {
	in := []Question{
		{ID: "b", Priority: 2},
		{ID: "a", Priority: 1},
		{ID: "c", Priority: 2},
	}
	out := SortQuestions(in)

	if out[0].ID != "a" || out[1].ID != "b" || out[2].ID != "c" {
		t.Errorf("SortQuestions order = %v", out)
	}
	if in[0].ID != "b" {
		t.Error("SortQuestions mutated its input")
	}
}
