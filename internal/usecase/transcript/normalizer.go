package transcript

import (
	"fmt"
	"strings"

	"github.com/johnquangdev/keynotes/internal/domain/entities"
)

// SpeakerMarker formats the text emitted when the active speaker changes
func SpeakerMarker(id entities.SpeakerID) string {
	return fmt.Sprintf("\nSpeaker %s:", id)
}

// Normalize flattens a recognition result into a single transcript string.
//
// Without speaker identification the top alternative of each utterance is
// space-joined in order. With it, a speaker marker is emitted whenever the
// first speaker label of an utterance differs from the previous one; any
// further labels on the same utterance are ignored.
//
// A malformed result yields a KindFormat StageError and no transcript.
func Normalize(result *entities.RecognitionResult, identifySpeakers bool) (string, error) {
	if err := validate(result); err != nil {
		return "", err
	}

	var (
		parts   = make([]string, 0, len(result.Results)*2)
		current entities.SpeakerID
		started bool
	)

	for _, utt := range result.Results {
		if identifySpeakers && utt.SpeakerLabels != nil {
			speaker := utt.SpeakerLabels[0].Speaker
			if !started || speaker != current {
				current = speaker
				started = true
				parts = append(parts, SpeakerMarker(speaker))
			}
		}
		if len(utt.Alternatives) > 0 {
			parts = append(parts, *utt.Alternatives[0].Transcript)
		}
	}

	return strings.Join(parts, " "), nil
}

func validate(result *entities.RecognitionResult) error {
	if result == nil {
		return entities.Errorf(entities.KindFormat, "recognition result is nil")
	}
	if result.Results == nil {
		return entities.Errorf(entities.KindFormat, "missing results")
	}
	for i, utt := range result.Results {
		if utt.SpeakerLabels != nil && len(utt.SpeakerLabels) == 0 {
			return entities.Errorf(entities.KindFormat, "results[%d]: speaker_labels present but empty", i)
		}
		if len(utt.Alternatives) > 0 && utt.Alternatives[0].Transcript == nil {
			return entities.Errorf(entities.KindFormat, "results[%d].alternatives[0]: missing transcript", i)
		}
	}
	return nil
}
