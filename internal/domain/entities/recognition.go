package entities

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RecognitionResult is the output of a speech-recognition call
// Results is nil when the backend response carried no "results" field.
type RecognitionResult struct {
	Results []Utterance `json:"results"`
}

// Utterance is one recognized speech segment
type Utterance struct {
	// SpeakerLabels is nil when the segment was not labelled at all
	SpeakerLabels []SpeakerLabel `json:"speaker_labels,omitempty"`
	// Alternatives are ranked, best first
	Alternatives []Alternative `json:"alternatives"`
	Final        bool          `json:"final,omitempty"`
}

// Alternative is one ranked transcription of an utterance
type Alternative struct {
	Transcript *string         `json:"transcript"`
	Confidence *float64        `json:"confidence,omitempty"`
	Timestamps []WordTimestamp `json:"timestamps,omitempty"`
}

// SpeakerLabel assigns a speaker to a sub-span of audio, in seconds
type SpeakerLabel struct {
	Speaker    SpeakerID `json:"speaker"`
	From       float64   `json:"from,omitempty"`
	To         float64   `json:"to,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	Final      bool      `json:"final,omitempty"`
}

// SpeakerID is a backend speaker identifier. Watson sends integers,
// AssemblyAI sends letters; both decode into the same string form.
type SpeakerID string

// UnmarshalJSON accepts either a JSON number or a JSON string
func (s *SpeakerID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = SpeakerID(str)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("speaker id must be a string or number: %w", err)
	}
	*s = SpeakerID(num.String())
	return nil
}

// WordTimestamp is a single word with its start and end offsets.
// On the wire it is a 3-tuple: ["word", start, end].
type WordTimestamp struct {
	Word  string
	Start float64
	End   float64
}

// UnmarshalJSON decodes the tuple form
func (w *WordTimestamp) UnmarshalJSON(data []byte) error {
	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}
	if len(tuple) != 3 {
		return fmt.Errorf("word timestamp: expected 3 elements, got %d", len(tuple))
	}
	if err := json.Unmarshal(tuple[0], &w.Word); err != nil {
		return fmt.Errorf("word timestamp word: %w", err)
	}
	if err := json.Unmarshal(tuple[1], &w.Start); err != nil {
		return fmt.Errorf("word timestamp start: %w", err)
	}
	if err := json.Unmarshal(tuple[2], &w.End); err != nil {
		return fmt.Errorf("word timestamp end: %w", err)
	}
	return nil
}

// MarshalJSON encodes the tuple form
func (w WordTimestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal([]interface{}{w.Word, w.Start, w.End})
}

// Span returns the time range covered by the top alternative's words
func (u Utterance) Span() (start, end float64, ok bool) {
	if len(u.Alternatives) == 0 || len(u.Alternatives[0].Timestamps) == 0 {
		return 0, 0, false
	}
	ts := u.Alternatives[0].Timestamps
	return ts[0].Start, ts[len(ts)-1].End, true
}

