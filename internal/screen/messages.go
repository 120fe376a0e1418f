package screen

import (
	"github.com/chaz8081/speakerid/internal/inference"
	"github.com/chaz8081/speakerid/internal/locator"
)

// HotkeyMsg is forwarded from the global hotkey listener.
type HotkeyMsg struct {
	Start bool
}

// RecordingStartedMsg carries the outcome of a start request.
type RecordingStartedMsg struct {
	Err error
}

// RecordingStoppedMsg carries the outcome of a stop request. The locator
// itself arrives separately as a RecordedMsg.
type RecordingStoppedMsg struct {
	Err error
}

// RecordedMsg announces a finished recording.
type RecordedMsg struct {
	Locator locator.Locator
}

// UploadDoneMsg carries a successful inference result.
type UploadDoneMsg struct {
	Locator locator.Locator
	Result  inference.Result
}

// UploadFailedMsg reports a failed upload.
type UploadFailedMsg struct {
	Locator locator.Locator
	Err     error
}

// PlaybackStartedMsg carries the outcome of a play request.
type PlaybackStartedMsg struct {
	Locator locator.Locator
	Err     error
}

// PlaybackStoppedMsg carries the outcome of a stop-playback request.
type PlaybackStoppedMsg struct {
	Err error
}

// InjectFailedMsg reports that a transcription could not be delivered.
type InjectFailedMsg struct {
	Err error
}

// playbackTickMsg reports whether the clip started by play generation gen
// has finished.
type playbackTickMsg struct {
	gen  int
	done bool
}
