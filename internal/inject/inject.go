// Package inject delivers a finished transcription to the active application
// using robotgo keystroke simulation or the clipboard.
package inject

import (
	"fmt"
	"runtime"

	"github.com/go-vgo/robotgo"
)

// backend is the subset of robotgo the injector uses.
type backend interface {
	Type(text string)
	ReadClipboard() (string, error)
	WriteClipboard(text string) error
	Paste() error
}

// Injector sends transcriptions to the focused application.
type Injector struct {
	method string // "none", "type", "paste" or "clipboard"
	out    backend
}

// NewInjector creates an Injector with the given method.
func NewInjector(method string) *Injector {
	return &Injector{method: method, out: robotgoBackend{}}
}

// Enabled reports whether Inject does anything.
func (inj *Injector) Enabled() bool {
	return inj.method != "" && inj.method != "none"
}

// Inject delivers text using the configured method. Empty text is ignored.
func (inj *Injector) Inject(text string) error {
	if text == "" || !inj.Enabled() {
		return nil
	}

	switch inj.method {
	case "paste":
		return inj.paste(text)
	case "clipboard":
		if err := inj.out.WriteClipboard(text); err != nil {
			return fmt.Errorf("inject: write to clipboard: %w", err)
		}
		return nil
	default: // "type"
		inj.out.Type(text)
		return nil
	}
}

// paste copies text to the clipboard, pastes it, then restores the previous
// clipboard contents on a best-effort basis.
func (inj *Injector) paste(text string) error {
	prev, _ := inj.out.ReadClipboard()

	if err := inj.out.WriteClipboard(text); err != nil {
		return fmt.Errorf("inject: write to clipboard: %w", err)
	}
	if err := inj.out.Paste(); err != nil {
		return fmt.Errorf("inject: paste: %w", err)
	}

	_ = inj.out.WriteClipboard(prev)
	return nil
}

type robotgoBackend struct{}

func (robotgoBackend) Type(text string)                 { robotgo.TypeStr(text) }
func (robotgoBackend) ReadClipboard() (string, error)   { return robotgo.ReadAll() }
func (robotgoBackend) WriteClipboard(text string) error { return robotgo.WriteAll(text) }
func (robotgoBackend) Paste() error                     { return robotgo.KeyTap("v", pasteModifier()) }

func pasteModifier() string {
	if runtime.GOOS == "darwin" {
		return "cmd"
	}
	return "ctrl"
}
