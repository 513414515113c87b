package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/johnquangdev/keynotes/internal/domain/entities"
	"github.com/johnquangdev/keynotes/pkg/config"
)

// WatsonSTTClient is a minimal client for the Watson Speech to Text recognize API
type WatsonSTTClient struct {
	baseURL string
	model   string
	client  *http.Client
}

// watsonRecognizeResponse is the subset of the recognize response we read.
// Watson reports speaker labels for the whole response rather than per result.
type watsonRecognizeResponse struct {
	Results       []entities.Utterance    `json:"results"`
	ResultIndex   int                     `json:"result_index"`
	SpeakerLabels []entities.SpeakerLabel `json:"speaker_labels"`
}

// NewWatsonSTTClient creates a Watson STT client. The http.Client is expected
// to carry IAM authentication (see NewIAMHTTPClient).
func NewWatsonSTTClient(cfg *config.WatsonSTTConfig, client *http.Client) (*WatsonSTTClient, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, fmt.Errorf("SPEECH_TO_TEXT_URL is required")
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &WatsonSTTClient{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		model:   cfg.Model,
		client:  client,
	}, nil
}

// Name implements Recognizer
func (w *WatsonSTTClient) Name() string { return config.STTProviderWatson }

// Recognize sends the audio to /v1/recognize and returns the results with
// speaker labels attached to the utterances they fall in
func (w *WatsonSTTClient) Recognize(ctx context.Context, audio Audio, identifySpeakers bool) (*entities.RecognitionResult, error) {
	q := url.Values{}
	if w.model != "" {
		q.Set("model", w.model)
	}
	q.Set("speaker_labels", strconv.FormatBool(identifySpeakers))
	endpoint := w.baseURL + "/v1/recognize?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, audio.Body)
	if err != nil {
		return nil, entities.Errorf(entities.KindTranscription, "watson: build request: %w", err)
	}
	req.Header.Set("Content-Type", AudioContentType(audio.ContentType, audio.Filename))
	req.Header.Set("Accept", "application/json")
	if audio.Size > 0 {
		req.ContentLength = audio.Size
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return nil, entities.Errorf(entities.KindTranscription, "watson: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, entities.NewStageError(entities.KindTranscription, statusError("watson speech to text", resp))
	}

	var wr watsonRecognizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&wr); err != nil {
		return nil, entities.Errorf(entities.KindFormat, "watson: decode recognize response: %w", err)
	}

	result := &entities.RecognitionResult{Results: wr.Results}
	if identifySpeakers {
		attachSpeakerLabels(result.Results, wr.SpeakerLabels)
	}
	return result, nil
}

// attachSpeakerLabels assigns each response-level label to the utterance whose
// word span contains the label's start time. Utterances that already carry
// labels are left alone.
func attachSpeakerLabels(utts []entities.Utterance, labels []entities.SpeakerLabel) {
	if len(labels) == 0 {
		return
	}

	type span struct {
		idx        int
		start, end float64
	}
	spans := make([]span, 0, len(utts))
	for i, u := range utts {
		if u.SpeakerLabels != nil {
			continue
		}
		if start, end, ok := u.Span(); ok {
			spans = append(spans, span{idx: i, start: start, end: end})
		}
	}

	if len(spans) == 0 {
		return
	}

	// labels arrive ordered by start time, so a single forward scan is enough
	j := 0
	for _, label := range labels {
		for j+1 < len(spans) && label.From >= spans[j+1].start {
			j++
		}
		if label.From >= spans[j].start && label.From <= spans[j].end {
			u := &utts[spans[j].idx]
			u.SpeakerLabels = append(u.SpeakerLabels, label)
		}
	}
}
