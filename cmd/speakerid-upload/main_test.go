package main

import (
	"bytes"
	"testing"

	"github.com/chaz8081/speakerid/internal/inference"
)

func TestWriteResult(t *testing.T) {
	speaker := "Alice"
	confidence := 87.5
	res := inference.Result{PredictedSpeaker: &speaker, Confidence: &confidence}

	tests := []struct {
		name   string
		asJSON bool
		want   string
	}{
		{
			name: "lines",
			want: "Predicted Speaker: Alice\nConfidence: 87.50%\n",
		},
		{
			name:   "json omits absent fields",
			asJSON: true,
			want:   `{"predicted_speaker":"Alice","confidence":87.5}` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := writeResult(&buf, res, tt.asJSON); err != nil {
				t.Fatalf("writeResult() error = %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("writeResult() = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}
