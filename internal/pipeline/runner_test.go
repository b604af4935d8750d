package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeGenerator struct {
	prompts []string
	steps   []string
	outputs []string
	failAt  int // 1-based step index that fails, 0 = never
}

func (f *fakeGenerator) Generate(_ context.Context, step Step, prompt string) (string, error) {
	f.steps = append(f.steps, step.Name)
	f.prompts = append(f.prompts, prompt)
	call := len(f.steps)
	if f.failAt == call {
		return "", errors.New("model unavailable")
	}
	return f.outputs[call-1], nil
}

func TestRunExecutesStepsInOrder(t *testing.T) {
	gen := &fakeGenerator{outputs: []string{"analysis", "matches", "roadmaps"}}
	r := NewRunner(gen, nil)

	out, err := r.Run(context.Background(), map[string]any{"skills": "Go, SQL"})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if out != "roadmaps" {
		t.Errorf("output = %q, want final step output", out)
	}

	want := []string{"profile_analyzer", "career_matcher", "roadmap_creator"}
	if len(gen.steps) != len(want) {
		t.Fatalf("ran %d steps, want %d", len(gen.steps), len(want))
	}
	for i, name := range want {
		if gen.steps[i] != name {
			t.Errorf("step %d = %q, want %q", i, gen.steps[i], name)
		}
	}
}

func TestRunThreadsContextBetweenSteps(t *testing.T) {
	gen := &fakeGenerator{outputs: []string{"analysis-output", "match-output", "final"}}
	r := NewRunner(gen, nil)

	if _, err := r.Run(context.Background(), map[string]any{}); err != nil {
		t.Fatalf("run: %v", err)
	}

	if strings.Contains(gen.prompts[0], "Context from the previous step") {
		t.Error("first step received upstream context")
	}
	if !strings.Contains(gen.prompts[1], "analysis-output") {
		t.Errorf("career matcher prompt missing step 1 output:\n%s", gen.prompts[1])
	}
	if !strings.Contains(gen.prompts[2], "match-output") {
		t.Errorf("roadmap creator prompt missing step 2 output:\n%s", gen.prompts[2])
	}
}

func TestRunAbortsOnStepFailure(t *testing.T) {
	gen := &fakeGenerator{outputs: []string{"analysis", "", ""}, failAt: 2}
	r := NewRunner(gen, nil)

	_, err := r.Run(context.Background(), map[string]any{})
	if err == nil {
		t.Fatal("run succeeded, want error")
	}
	if !strings.Contains(err.Error(), "career_matcher") {
		t.Errorf("error %q does not name the failing step", err)
	}
	if len(gen.steps) != 2 {
		t.Errorf("ran %d steps after failure, want 2", len(gen.steps))
	}
}

func TestStepsRenderProfileFields(t *testing.T) {
	profile := map[string]any{
		"skills":    "Python, Go",
		"interests": "distributed systems",
	}
	steps := Steps(profile)
	if len(steps) != 3 {
		t.Fatalf("got %d steps, want 3", len(steps))
	}

	desc := steps[0].Description
	if !strings.Contains(desc, "Skills: Python, Go") {
		t.Errorf("analysis prompt missing skills:\n%s", desc)
	}
	if !strings.Contains(desc, "Strengths: Not specified") {
		t.Errorf("absent field not defaulted:\n%s", desc)
	}
	if !strings.Contains(desc, "Past Projects: No past projects specified") {
		t.Errorf("past projects default wrong:\n%s", desc)
	}
}

func TestStepInstructionCarriesPersona(t *testing.T) {
	step := Steps(nil)[1]
	instruction := step.Instruction()
	for _, part := range []string{step.Role, step.Goal, step.ExpectedOutput} {
		if !strings.Contains(instruction, part) {
			t.Errorf("instruction missing %q", part)
		}
	}
}
