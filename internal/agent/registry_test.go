package agent

import (
	"errors"
	"testing"
)

func testAgent(name string, phase Phase) *Agent {
	return &Agent{Name: name, Phase: phase}
}

func TestRegister_Duplicate(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(testAgent("a", PhasePRD)); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	err := reg.Register(testAgent("a", PhaseDesign))
	if !errors.Is(err, ErrDuplicateAgent) {
		t.Errorf("duplicate name: err = %v, want ErrDuplicateAgent", err)
	}
}

func TestRegister_DuplicatePhase(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(testAgent("a", PhasePRD)); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	err := reg.Register(testAgent("b", PhasePRD))
	if !errors.Is(err, ErrDuplicateAgent) {
		t.Errorf("duplicate phase: err = %v, want ErrDuplicateAgent", err)
	}
}

func TestRegister_InvalidPhase(t *testing.T) {
	reg := NewRegistry()
	if err := reg.Register(testAgent("a", Phase("testing"))); err == nil {
		t.Error("expected error for unknown phase")
	}
}

func TestResolve_ByNameAndPhase(t *testing.T) {
	reg := NewRegistry()
	a := testAgent("writer", PhaseDesign)
	if err := reg.Register(a); err != nil {
		t.Fatalf("Register: %v", err)
	}

	byName, err := reg.Resolve("writer")
	if err != nil || byName != a {
		t.Errorf("Resolve(name) = %v, %v", byName, err)
	}

	byPhase, err := reg.Resolve("design")
	if err != nil || byPhase != a {
		t.Errorf("Resolve(phase) = %v, %v", byPhase, err)
	}
}

func TestResolve_NotFound(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.Resolve("nobody")
	if !errors.Is(err, ErrAgentNotFound) {
		t.Errorf("Resolve = %v, want ErrAgentNotFound", err)
	}
}

func TestByPhase_NotFound(t *testing.T) {
	reg := NewRegistry()
	_, err := reg.ByPhase(PhaseImplementation)
	if !errors.Is(err, ErrAgentNotFound) {
		t.Errorf("ByPhase = %v, want ErrAgentNotFound", err)
	}
}

func TestDefaultRegistry_CoversAllPhases(t *testing.T) {
	reg, err := DefaultRegistry(nil)
	if err != nil {
		t.Fatalf("DefaultRegistry: %v", err)
	}

	for _, phase := range PhaseOrder() {
		a, err := reg.ByPhase(phase)
		if err != nil {
			t.Fatalf("ByPhase(%s): %v", phase, err)
		}
		if len(a.Questions) == 0 {
			t.Errorf("agent %q has no questions", a.Name)
		}
		if a.Direct == nil || a.Offline == nil || a.Template == nil {
			t.Errorf("agent %q is missing a behavior hook", a.Name)
		}
		if a.DocType() != DocTypeFor(phase) {
			t.Errorf("agent %q DocType = %s, want %s", a.Name, a.DocType(), DocTypeFor(phase))
		}
	}

	if got := len(reg.Names()); got != 4 {
		t.Errorf("Names() has %d entries, want 4", got)
	}
}

func TestBuiltin_QuestionsSortedByPriority(t *testing.T) {
	for _, a := range Builtin(nil) {
		for i := 1; i < len(a.Questions); i++ {
			if a.Questions[i-1].Priority > a.Questions[i].Priority {
				t.Errorf("agent %q questions out of priority order at %d", a.Name, i)
			}
		}
	}
}

func TestBuiltin_Overrides(t *testing.T) {
	custom := []Question{{ID: "q1", Text: "Only question", Priority: 1}}
	agents := Builtin(map[Phase][]Question{PhaseDesign: custom})

	for _, a := range agents {
		if a.Phase == PhaseDesign {
			if len(a.Questions) != 1 || a.Questions[0].ID != "q1" {
				t.Errorf("design agent questions = %+v, want the override", a.Questions)
			}
		} else if len(a.Questions) == 0 {
			t.Errorf("agent %q lost its default questions", a.Name)
		}
	}
}

func TestAllowsOperation(t *testing.T) {
	a := &Agent{Name: "x", AllowedOperations: []string{"writeFile"}}
	if !a.AllowsOperation("writeFile") {
		t.Error("AllowsOperation(writeFile) = false, want true")
	}
	if a.AllowsOperation("deleteFile") {
		t.Error("AllowsOperation(deleteFile) = true, want false")
	}
}
