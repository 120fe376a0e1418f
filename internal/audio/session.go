// Package audio captures from and plays to the default audio devices via
// miniaudio (malgo), and reads and writes 16-bit PCM WAV clips.
package audio

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gen2brain/malgo"
)

// Session owns the process-wide audio context shared by capture and playback.
// It is configured lazily by Configure and released by Close.
type Session struct {
	mu  sync.Mutex
	ctx *malgo.AllocatedContext
}

// NewSession returns an unconfigured Session.
func NewSession() *Session {
	return &Session{}
}

// Configure prepares the audio context for recording while allowing playback.
// It is idempotent: only the first successful call initializes the context,
// later calls return nil without touching it. A failed call may be retried.
func (s *Session) Configure() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx != nil {
		return nil
	}

	ctx, err := malgo.InitContext(nil, malgo.ContextConfig{}, func(message string) {
		slog.Debug("[audio] miniaudio", "message", message)
	})
	if err != nil {
		return fmt.Errorf("initializing audio context: %w", err)
	}
	s.ctx = ctx
	slog.Debug("[audio] context initialized")
	return nil
}

// context returns the configured malgo context, or an error when Configure
// has not succeeded yet.
func (s *Session) context() (malgo.Context, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx == nil {
		var zero malgo.Context
		return zero, fmt.Errorf("audio context not configured")
	}
	return s.ctx.Context, nil
}

// CaptureDevices lists the names of the available capture devices.
// It configures the session if needed.
func (s *Session) CaptureDevices() ([]string, error) {
	if err := s.Configure(); err != nil {
		return nil, err
	}
	ctx, err := s.context()
	if err != nil {
		return nil, err
	}

	infos, err := ctx.Devices(malgo.Capture)
	if err != nil {
		return nil, fmt.Errorf("listing capture devices: %w", err)
	}

	names := make([]string, 0, len(infos))
	for _, info := range infos {
		names = append(names, info.Name())
	}
	return names, nil
}

// Close releases the audio context. The session may be configured again afterwards.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ctx == nil {
		return nil
	}
	if err := s.ctx.Uninit(); err != nil {
		return fmt.Errorf("uninitializing audio context: %w", err)
	}
	s.ctx.Free()
	s.ctx = nil
	return nil
}
