package ai

import (
	"context"
	"fmt"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/keynotes/internal/domain/entities"
	"github.com/johnquangdev/keynotes/pkg/config"
)

// AssemblyAIRecognizer transcribes audio with the official AssemblyAI SDK
type AssemblyAIRecognizer struct {
	client *aai.Client
}

// NewAssemblyAIRecognizer creates a recognizer from the provided config
func NewAssemblyAIRecognizer(cfg *config.AssemblyAIConfig) (*AssemblyAIRecognizer, error) {
	if cfg == nil || cfg.APIKey == "" {
		return nil, fmt.Errorf("ASSEMBLYAI_API_KEY is required")
	}
	return &AssemblyAIRecognizer{client: aai.NewClient(cfg.APIKey)}, nil
}

// Name implements Recognizer
func (a *AssemblyAIRecognizer) Name() string { return config.STTProviderAssemblyAI }

// Recognize uploads the audio and waits for the transcript to complete
func (a *AssemblyAIRecognizer) Recognize(ctx context.Context, audio Audio, identifySpeakers bool) (*entities.RecognitionResult, error) {
	params := &aai.TranscriptOptionalParams{
		SpeakerLabels: aai.Bool(identifySpeakers),
	}

	transcript, err := a.client.Transcripts.TranscribeFromReader(ctx, audio.Body, params)
	if err != nil {
		return nil, entities.Errorf(entities.KindTranscription, "assemblyai: %w", err)
	}
	return fromAssemblyAITranscript(transcript, identifySpeakers)
}

// fromAssemblyAITranscript maps an AssemblyAI transcript into a recognition
// result: one utterance per speaker turn when diarization ran, otherwise a
// single utterance holding the full text
func fromAssemblyAITranscript(t aai.Transcript, identifySpeakers bool) (*entities.RecognitionResult, error) {
	switch t.Status {
	case aai.TranscriptStatusCompleted:
	case aai.TranscriptStatusError:
		msg := "transcription failed"
		if t.Error != nil {
			msg = *t.Error
		}
		return nil, entities.Errorf(entities.KindTranscription, "assemblyai: %s", msg)
	default:
		return nil, entities.Errorf(entities.KindTranscription, "assemblyai: unexpected status %q", t.Status)
	}

	result := &entities.RecognitionResult{Results: []entities.Utterance{}}

	if identifySpeakers && len(t.Utterances) > 0 {
		for _, utt := range t.Utterances {
			if utt.Text == nil {
				return nil, entities.Errorf(entities.KindFormat, "assemblyai: utterance without text")
			}
			u := entities.Utterance{
				Alternatives: []entities.Alternative{{Transcript: utt.Text, Confidence: utt.Confidence}},
				Final:        true,
			}
			if utt.Speaker != nil {
				label := entities.SpeakerLabel{Speaker: entities.SpeakerID(*utt.Speaker), Final: true}
				if utt.Start != nil {
					label.From = float64(*utt.Start) / 1000.0 // ms to seconds
				}
				if utt.End != nil {
					label.To = float64(*utt.End) / 1000.0
				}
				u.SpeakerLabels = []entities.SpeakerLabel{label}
			}
			result.Results = append(result.Results, u)
		}
		return result, nil
	}

	if t.Text != nil && *t.Text != "" {
		result.Results = append(result.Results, entities.Utterance{
			Alternatives: []entities.Alternative{{Transcript: t.Text, Confidence: t.Confidence}},
			Final:        true,
		})
	}
	return result, nil
}
