package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"

	"careerhelper/internal/config"
)

// GeminiGenerator runs pipeline steps as adk LLM agents against Gemini.
type GeminiGenerator struct {
	cfg      config.GeminiConfig
	sessions session.Service
}

// NewGeminiGenerator constructs a generator from an explicit configuration
// object. The API key is validated here, once, at process start.
func NewGeminiGenerator(cfg config.GeminiConfig) (*GeminiGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is not configured")
	}
	return &GeminiGenerator{
		cfg:      cfg,
		sessions: session.InMemoryService(),
	}, nil
}

func (g *GeminiGenerator) newAgent(ctx context.Context, step Step) (agent.Agent, error) {
	model, err := gemini.NewModel(ctx, g.cfg.Model, &genai.ClientConfig{
		APIKey: g.cfg.APIKey,
	})
	if err != nil {
		return nil, fmt.Errorf("create model: %w", err)
	}

	stepAgent, err := llmagent.New(llmagent.Config{
		Name:        step.Name,
		Model:       model,
		Description: step.Goal,
		Instruction: step.Instruction(),
	})
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}
	return stepAgent, nil
}

// Generate runs one step to completion and returns the final response text.
func (g *GeminiGenerator) Generate(ctx context.Context, step Step, prompt string) (string, error) {
	stepAgent, err := g.newAgent(ctx, step)
	if err != nil {
		return "", err
	}

	r, err := runner.New(runner.Config{
		AppName:        stepAgent.Name(),
		Agent:          stepAgent,
		SessionService: g.sessions,
	})
	if err != nil {
		return "", fmt.Errorf("create runner: %w", err)
	}

	userID := uuid.NewString()
	sessionID := uuid.NewString()
	agentSession, err := g.sessions.Create(ctx, &session.CreateRequest{
		AppName:   stepAgent.Name(),
		UserID:    userID,
		SessionID: sessionID,
	})
	if err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	defer func() {
		_ = g.sessions.Delete(ctx, &session.DeleteRequest{
			AppName:   agentSession.Session.AppName(),
			UserID:    agentSession.Session.UserID(),
			SessionID: agentSession.Session.ID(),
		})
	}()

	stream := r.Run(ctx, agentSession.Session.UserID(), agentSession.Session.ID(), &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}, agent.RunConfig{})

	var output string
	for event, err := range stream {
		if err != nil {
			return "", fmt.Errorf("agent stream: %w", err)
		}
		if event != nil && event.IsFinalResponse() && len(event.Content.Parts) > 0 {
			output = event.Content.Parts[0].Text
		}
	}
	if output == "" {
		return "", fmt.Errorf("empty agent response")
	}
	return output, nil
}
