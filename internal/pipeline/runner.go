// Package pipeline executes the three dependent generation steps behind a
// career recommendation: profile analysis, career matching, roadmap
// creation. Steps run strictly in order; step N+1 only begins once step N's
// output is available, and any failure aborts the remainder.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
)

// Generator performs a single generation call for one step. The production
// implementation talks to Gemini through adk; tests substitute a fake.
type Generator interface {
	Generate(ctx context.Context, step Step, prompt string) (string, error)
}

// Runner chains the pipeline steps over a Generator.
type Runner struct {
	gen    Generator
	logger *slog.Logger
}

// NewRunner constructs a Runner.
func NewRunner(gen Generator, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{gen: gen, logger: logger}
}

// Run executes the pipeline for one profile and returns the raw output of
// the final step. No retries and no partial-result recovery: the first
// failing step surfaces its error to the caller.
func (r *Runner) Run(ctx context.Context, profile map[string]any) (string, error) {
	var output string
	for i, step := range Steps(profile) {
		prompt := step.Description
		if output != "" {
			prompt = fmt.Sprintf("%s\n\nContext from the previous step:\n%s", step.Description, output)
		}

		r.logger.Info("running pipeline step",
			slog.Int("step", i+1),
			slog.String("name", step.Name),
		)

		result, err := r.gen.Generate(ctx, step, prompt)
		if err != nil {
			return "", fmt.Errorf("step %s: %w", step.Name, err)
		}
		output = result
	}
	return output, nil
}
