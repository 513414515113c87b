package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/johnquangdev/keynotes/internal/domain/entities"
	"github.com/johnquangdev/keynotes/pkg/config"
)

// WatsonxClient is a minimal client for the watsonx.ai text generation API
type WatsonxClient struct {
	baseURL    string
	apiVersion string
	projectID  string
	modelID    string
	params     GenerationParameters
	client     *http.Client
}

// GenerationParameters are the decoding options sent with each request
type GenerationParameters struct {
	DecodingMethod string  `json:"decoding_method,omitempty"`
	MinNewTokens   int     `json:"min_new_tokens"`
	MaxNewTokens   int     `json:"max_new_tokens"`
	TopP           float64 `json:"top_p"`
	Temperature    float64 `json:"temperature"`
}

// GenerationRequest is the body of /ml/v1/text/generation
type GenerationRequest struct {
	Input      string               `json:"input"`
	ModelID    string               `json:"model_id"`
	ProjectID  string               `json:"project_id"`
	Parameters GenerationParameters `json:"parameters"`
}

// GenerationResponse is the response envelope. GeneratedText is a pointer so
// a missing field can be told apart from an empty generation.
type GenerationResponse struct {
	ModelID string `json:"model_id"`
	Results []struct {
		GeneratedText       *string `json:"generated_text"`
		GeneratedTokenCount int     `json:"generated_token_count"`
		InputTokenCount     int     `json:"input_token_count"`
		StopReason          string  `json:"stop_reason"`
	} `json:"results"`
}

// NewGenerationParameters converts the shared generation config
func NewGenerationParameters(cfg config.GenerationConfig) GenerationParameters {
	return GenerationParameters{
		DecodingMethod: cfg.DecodingMethod,
		MinNewTokens:   cfg.MinNewTokens,
		MaxNewTokens:   cfg.MaxNewTokens,
		TopP:           cfg.TopP,
		Temperature:    cfg.Temperature,
	}
}

// NewWatsonxClient creates a watsonx client. The http.Client is expected to
// carry IAM authentication (see NewIAMHTTPClient).
func NewWatsonxClient(cfg *config.WatsonxConfig, gen config.GenerationConfig, client *http.Client) *WatsonxClient {
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &WatsonxClient{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiVersion: cfg.APIVersion,
		projectID:  cfg.ProjectID,
		modelID:    cfg.ModelID,
		params:     NewGenerationParameters(gen),
		client:     client,
	}
}

// Name implements Generator
func (c *WatsonxClient) Name() string { return config.InferenceProviderWatsonx }

// ModelID implements Generator
func (c *WatsonxClient) ModelID() string { return c.modelID }

// Generate sends the prompt and returns results[0].generated_text. A single
// attempt is made.
func (c *WatsonxClient) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := GenerationRequest{
		Input:      prompt,
		ModelID:    c.modelID,
		ProjectID:  c.projectID,
		Parameters: c.params,
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", entities.Errorf(entities.KindInference, "watsonx: encode request: %w", err)
	}

	endpoint := c.baseURL + "/ml/v1/text/generation?" + url.Values{"version": {c.apiVersion}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return "", entities.Errorf(entities.KindInference, "watsonx: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", entities.Errorf(entities.KindInference, "watsonx: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", entities.NewStageError(entities.KindInference, statusError("watsonx", resp))
	}

	var gr GenerationResponse
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return "", entities.Errorf(entities.KindInference, "watsonx: decode response: %w", err)
	}
	if len(gr.Results) == 0 {
		return "", entities.Errorf(entities.KindInvalidResponse, "watsonx: empty results")
	}
	if gr.Results[0].GeneratedText == nil {
		return "", entities.Errorf(entities.KindInvalidResponse, "watsonx: results[0] has no generated_text")
	}
	return *gr.Results[0].GeneratedText, nil
}
