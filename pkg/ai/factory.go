package ai

import (
	"context"
	"fmt"

	"github.com/johnquangdev/keynotes/pkg/config"
)

// NewRecognizer builds the speech recognizer selected by STT_PROVIDER
func NewRecognizer(cfg *config.Config) (Recognizer, error) {
	switch cfg.Providers.STT {
	case config.STTProviderWatson:
		if cfg.WatsonSTT.APIKey == "" {
			return nil, fmt.Errorf("SPEECH_TO_TEXT_API_KEY is required")
		}
		client := NewIAMHTTPClient(cfg.IAM.URL, cfg.WatsonSTT.APIKey, cfg.WatsonSTT.Timeout)
		return NewWatsonSTTClient(&cfg.WatsonSTT, client)
	case config.STTProviderAssemblyAI:
		return NewAssemblyAIRecognizer(&cfg.AssemblyAI)
	default:
		return nil, fmt.Errorf("unknown STT provider %q", cfg.Providers.STT)
	}
}

// NewGenerator builds the text generator selected by INFERENCE_PROVIDER
func NewGenerator(ctx context.Context, cfg *config.Config) (Generator, error) {
	switch cfg.Providers.Inference {
	case config.InferenceProviderWatsonx:
		if cfg.Watsonx.APIKey == "" {
			return nil, fmt.Errorf("WATSONX_API_KEY is required")
		}
		client := NewIAMHTTPClient(cfg.IAM.URL, cfg.Watsonx.APIKey, cfg.Watsonx.Timeout)
		return NewWatsonxClient(&cfg.Watsonx, cfg.Generation, client), nil
	case config.InferenceProviderOpenAI:
		return NewChatGenerator(config.InferenceProviderOpenAI, &cfg.OpenAI, cfg.Generation)
	case config.InferenceProviderGroq:
		return NewChatGenerator(config.InferenceProviderGroq, &cfg.Groq, cfg.Generation)
	case config.InferenceProviderGemini:
		return NewGeminiGenerator(ctx, &cfg.Gemini, cfg.Generation)
	default:
		return nil, fmt.Errorf("unknown inference provider %q", cfg.Providers.Inference)
	}
}
