// Package recording owns the recording session lifecycle: permissions,
// audio configuration, capture, and storing the result as a locator.
package recording

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chaz8081/speakerid/internal/audio"
	"github.com/chaz8081/speakerid/internal/locator"
	"github.com/chaz8081/speakerid/internal/permission"
)

var (
	// ErrPermissionDenied is returned by Start when a required permission is missing.
	ErrPermissionDenied = errors.New("recording: permission denied")
	// ErrSessionActive is returned by Start while a recording is in progress.
	ErrSessionActive = errors.New("recording: already recording")
	// ErrNoActiveSession is returned by Stop when nothing is being recorded.
	ErrNoActiveSession = errors.New("recording: no recording in progress")
)

// Capturer is the capture device a Recorder drives. *audio.Capture satisfies it.
type Capturer interface {
	Start() error
	Stop() []float32
	SampleRate() uint32
	Channels() uint32
}

// Configurer applies the process-wide audio mode. It must be idempotent.
// *audio.Session satisfies it.
type Configurer interface {
	Configure() error
}

// Recorder runs at most one recording session at a time and emits the
// locator of every finished recording to its subscribers.
type Recorder struct {
	perms   permission.Checker
	mode    Configurer
	capture Capturer
	store   *Store

	mu      sync.Mutex
	started time.Time // zero when idle
	subs    []func(locator.Locator)
}

// New creates a Recorder.
func New(perms permission.Checker, mode Configurer, capture Capturer, store *Store) *Recorder {
	return &Recorder{
		perms:   perms,
		mode:    mode,
		capture: capture,
		store:   store,
	}
}

// Subscribe registers fn to receive each finished recording's locator.
// Subscribers are called synchronously from Stop, after the session is cleared.
func (r *Recorder) Subscribe(fn func(locator.Locator)) {
	r.mu.Lock()
	r.subs = append(r.subs, fn)
	r.mu.Unlock()
}

// IsRecording reports whether a session is active.
func (r *Recorder) IsRecording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return !r.started.IsZero()
}

// Start requests permissions, configures audio and begins a new session.
// Every failure is logged and returned; no session exists afterwards.
func (r *Recorder) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started.IsZero() {
		slog.Warn("[recorder] start ignored, recording already in progress")
		return ErrSessionActive
	}

	granted, err := r.perms.Request(ctx, permission.Microphone, permission.StorageWrite)
	if err != nil {
		slog.Error("[recorder] permission request failed", "error", err)
		return fmt.Errorf("%w: %w", ErrPermissionDenied, err)
	}
	if !granted {
		slog.Error("[recorder] permission to access microphone was denied")
		return ErrPermissionDenied
	}

	if err := r.mode.Configure(); err != nil {
		slog.Error("[recorder] failed to configure audio", "error", err)
		return fmt.Errorf("recording: configure audio: %w", err)
	}

	if err := r.capture.Start(); err != nil {
		slog.Error("[recorder] failed to start recording", "error", err)
		return fmt.Errorf("recording: start capture: %w", err)
	}

	r.started = time.Now()
	slog.Info("[recorder] recording started",
		"sample_rate", r.capture.SampleRate(), "channels", r.capture.Channels())
	return nil
}

// Stop finalizes the active session, stores the captured audio and emits its
// locator to subscribers exactly once. Without an active session it logs a
// warning and returns ErrNoActiveSession.
func (r *Recorder) Stop(_ context.Context) (locator.Locator, error) {
	r.mu.Lock()

	if r.started.IsZero() {
		r.mu.Unlock()
		slog.Warn("[recorder] no recording in progress")
		return "", ErrNoActiveSession
	}

	samples := r.capture.Stop()
	elapsed := time.Since(r.started)
	r.started = time.Time{}

	clip := audio.Clip{
		Samples:    samples,
		SampleRate: r.capture.SampleRate(),
		Channels:   r.capture.Channels(),
	}
	loc, err := r.store.Save(clip)
	if err != nil {
		r.mu.Unlock()
		slog.Error("[recorder] failed to stop recording", "error", err)
		return "", fmt.Errorf("recording: store: %w", err)
	}

	subs := make([]func(locator.Locator), len(r.subs))
	copy(subs, r.subs)
	r.mu.Unlock()

	slog.Info("[recorder] recording stopped and stored",
		"locator", loc.String(), "audio", clip.Duration().Round(time.Millisecond),
		"elapsed", elapsed.Round(time.Millisecond))

	for _, fn := range subs {
		fn(loc)
	}
	return loc, nil
}
