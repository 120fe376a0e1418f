package inference

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidResponse is returned when the service response cannot be
// coerced into a Result.
var ErrInvalidResponse = errors.New("inference: invalid response")

// Result is the speaker identification and transcription for one recording.
// Every field is optional.
type Result struct {
	PredictedSpeaker *string
	Confidence       *float64 // percent, 0 to 100
	Transcription    *string
}

// UnmarshalJSON validates and coerces the loosely typed service response.
// Unknown fields are ignored; null counts as absent.
func (r *Result) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil || raw == nil {
		return fmt.Errorf("%w: body is not a JSON object", ErrInvalidResponse)
	}

	var out Result
	var err error
	if out.PredictedSpeaker, err = coerceString(raw["predicted_speaker"]); err != nil {
		return fmt.Errorf("%w: predicted_speaker: %w", ErrInvalidResponse, err)
	}
	if out.Confidence, err = coerceNumber(raw["confidence"]); err != nil {
		return fmt.Errorf("%w: confidence: %w", ErrInvalidResponse, err)
	}
	if out.Transcription, err = coerceString(raw["transcription"]); err != nil {
		return fmt.Errorf("%w: transcription: %w", ErrInvalidResponse, err)
	}

	*r = out
	return nil
}

// MarshalJSON writes the wire shape, omitting absent fields.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		PredictedSpeaker *string  `json:"predicted_speaker,omitempty"`
		Confidence       *float64 `json:"confidence,omitempty"`
		Transcription    *string  `json:"transcription,omitempty"`
	}{r.PredictedSpeaker, r.Confidence, r.Transcription})
}

// Lines renders the result for display: the speaker line always, the
// confidence line when present, the transcription line when non-empty.
func (r Result) Lines() []string {
	var speaker string
	if r.PredictedSpeaker != nil {
		speaker = *r.PredictedSpeaker
	}
	lines := []string{"Predicted Speaker: " + speaker}

	if r.Confidence != nil {
		lines = append(lines, fmt.Sprintf("Confidence: %.2f%%", *r.Confidence))
	}
	if r.Transcription != nil && *r.Transcription != "" {
		lines = append(lines, "Transcription: "+*r.Transcription)
	}
	return lines
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// coerceString accepts a JSON string or number.
func coerceString(raw json.RawMessage) (*string, error) {
	if isNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return &s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		s = n.String()
		return &s, nil
	}
	return nil, fmt.Errorf("want string, got %s", raw)
}

// coerceNumber accepts a JSON number or a numeric string and rejects
// non-finite values.
func coerceNumber(raw json.RawMessage) (*float64, error) {
	if isNull(raw) {
		return nil, nil
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if json.Unmarshal(raw, &s) != nil {
			return nil, fmt.Errorf("want number, got %s", raw)
		}
		f, err = strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(s), "%"), 64)
		if err != nil {
			return nil, fmt.Errorf("want number, got %q", s)
		}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("not a finite number")
	}
	return &f, nil
}
