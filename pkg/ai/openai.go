package ai

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/johnquangdev/keynotes/internal/domain/entities"
	"github.com/johnquangdev/keynotes/pkg/config"
)

// ChatGenerator generates notes through an OpenAI-compatible chat completions
// API. It serves both OpenAI and Groq.
type ChatGenerator struct {
	name        string
	model       string
	maxTokens   int
	topP        float32
	temperature float32
	client      *openai.Client
}

// NewChatGenerator creates a generator for the named OpenAI-compatible backend
func NewChatGenerator(name string, cfg *config.OpenAIConfig, gen config.GenerationConfig) (*ChatGenerator, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, fmt.Errorf("%s: api key is required", name)
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &ChatGenerator{
		name:        name,
		model:       cfg.Model,
		maxTokens:   gen.MaxNewTokens,
		topP:        float32(gen.TopP),
		temperature: float32(gen.Temperature),
		client:      openai.NewClientWithConfig(clientCfg),
	}, nil
}

// Name implements Generator
func (g *ChatGenerator) Name() string { return g.name }

// ModelID implements Generator
func (g *ChatGenerator) ModelID() string { return g.model }

// Generate sends the prompt as a single user message and returns the first
// choice
func (g *ChatGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   g.maxTokens,
		TopP:        g.topP,
		Temperature: g.temperature,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", entities.Errorf(entities.KindInference, "%s: %w", g.name, err)
	}
	if len(resp.Choices) == 0 {
		return "", entities.Errorf(entities.KindInvalidResponse, "%s: no choices returned", g.name)
	}
	return resp.Choices[0].Message.Content, nil
}
