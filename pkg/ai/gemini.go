package ai

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/johnquangdev/keynotes/internal/domain/entities"
	"github.com/johnquangdev/keynotes/pkg/config"
)

// GeminiGenerator generates notes with the Gemini API
type GeminiGenerator struct {
	model  string
	client *genai.Client
	params *genai.GenerateContentConfig
}

// NewGeminiGenerator creates a Gemini client. No network call is made here.
func NewGeminiGenerator(ctx context.Context, cfg *config.GeminiConfig, gen config.GenerationConfig) (*GeminiGenerator, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiGenerator{
		model:  cfg.Model,
		client: client,
		params: geminiParams(gen),
	}, nil
}

func geminiParams(gen config.GenerationConfig) *genai.GenerateContentConfig {
	params := &genai.GenerateContentConfig{
		TopP:            genai.Ptr(float32(gen.TopP)),
		Temperature:     genai.Ptr(float32(gen.Temperature)),
		MaxOutputTokens: int32(gen.MaxNewTokens),
	}
	if gen.DecodingMethod == "greedy" {
		params.Temperature = genai.Ptr(float32(0))
	}
	return params
}

// Name implements Generator
func (g *GeminiGenerator) Name() string { return config.InferenceProviderGemini }

// ModelID implements Generator
func (g *GeminiGenerator) ModelID() string { return g.model }

// Generate returns the text parts of the first candidate
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), g.params)
	if err != nil {
		return "", entities.Errorf(entities.KindInference, "gemini: %w", err)
	}
	return geminiText(result)
}

func geminiText(result *genai.GenerateContentResponse) (string, error) {
	if result == nil || len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return "", entities.Errorf(entities.KindInvalidResponse, "gemini: empty response")
	}

	var sb strings.Builder
	for _, part := range result.Candidates[0].Content.Parts {
		if part != nil && part.Text != "" {
			sb.WriteString(part.Text)
		}
	}
	if sb.Len() == 0 {
		return "", entities.Errorf(entities.KindInvalidResponse, "gemini: no text parts")
	}
	return sb.String(), nil
}
