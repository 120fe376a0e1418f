// Package permission probes the device permissions a recording needs.
//
// Desktop platforms do not expose a prompt API to a terminal program, so a
// permission is considered granted when the resource can actually be used:
// a capture device is visible, and the recordings directory is writable.
package permission

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Kind names a permission.
type Kind string

const (
	Microphone   Kind = "microphone"
	StorageWrite Kind = "storage_write"
)

// Checker requests permissions before a recording starts.
type Checker interface {
	// Request reports whether every kind is granted. A non-nil error means
	// the probe itself failed; callers treat it as a denial.
	Request(ctx context.Context, kinds ...Kind) (bool, error)
}

// Probe checks a single permission. It returns false with a nil error for a
// clean denial.
type Probe func(ctx context.Context) (bool, error)

// System checks permissions with probes and caches grants. A grant is
// remembered for the lifetime of the System; a denial is probed again on the
// next request.
type System struct {
	probes map[Kind]Probe

	mu      sync.Mutex
	granted map[Kind]bool
}

// NewSystem returns a System using the given probes. Kinds without a probe
// are granted.
func NewSystem(probes map[Kind]Probe) *System {
	return &System{
		probes:  probes,
		granted: make(map[Kind]bool),
	}
}

// Request probes each kind not yet granted.
func (s *System) Request(ctx context.Context, kinds ...Kind) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range kinds {
		if s.granted[k] {
			continue
		}
		probe, ok := s.probes[k]
		if !ok {
			s.granted[k] = true
			continue
		}
		if err := ctx.Err(); err != nil {
			return false, err
		}
		ok, err := probe(ctx)
		if err != nil {
			return false, fmt.Errorf("permission: probe %s: %w", k, err)
		}
		if !ok {
			slog.Warn("[permission] denied", "kind", string(k))
			return false, nil
		}
		s.granted[k] = true
		slog.Debug("[permission] granted", "kind", string(k))
	}
	return true, nil
}

// DeviceLister lists capture devices. *audio.Session satisfies it.
type DeviceLister interface {
	CaptureDevices() ([]string, error)
}

// MicrophoneProbe grants the microphone when at least one capture device is visible.
func MicrophoneProbe(l DeviceLister) Probe {
	return func(context.Context) (bool, error) {
		devices, err := l.CaptureDevices()
		if err != nil {
			return false, err
		}
		return len(devices) > 0, nil
	}
}

// StorageProbe grants storage writes when dir can be created and a file
// written inside it.
func StorageProbe(dir string) Probe {
	return func(context.Context) (bool, error) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			slog.Debug("[permission] storage mkdir failed", "dir", dir, "error", err)
			return false, nil
		}
		f, err := os.CreateTemp(dir, ".probe-*")
		if err != nil {
			slog.Debug("[permission] storage write failed", "dir", dir, "error", err)
			return false, nil
		}
		name := f.Name()
		f.Close()
		os.Remove(name)
		return true, nil
	}
}
