// Package locator names captured audio resources.
// A Locator is an opaque URI string usable for both upload and playback.
package locator

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Locator identifies an audio resource, e.g. "file:///home/me/rec/abc.wav".
type Locator string

// FromPath returns a file:// locator for a filesystem path.
func FromPath(path string) (Locator, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("locator: resolve %q: %w", path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return Locator(u.String()), nil
}

// String implements fmt.Stringer.
func (l Locator) String() string {
	return string(l)
}

// Scheme returns the URI scheme, or "file" for bare paths.
func (l Locator) Scheme() string {
	u, err := url.Parse(string(l))
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 { // "C:" is a drive, not a scheme
		return "file"
	}
	return strings.ToLower(u.Scheme)
}

// IsRemote reports whether the locator must be fetched over HTTP.
func (l Locator) IsRemote() bool {
	s := l.Scheme()
	return s == "http" || s == "https"
}

// Path returns the local filesystem path for file locators and bare paths.
func (l Locator) Path() (string, error) {
	if l == "" {
		return "", fmt.Errorf("locator: empty")
	}
	if l.Scheme() != "file" {
		return "", fmt.Errorf("locator: %q is not a local file", string(l))
	}
	if !strings.HasPrefix(string(l), "file:") {
		return string(l), nil
	}
	u, err := url.Parse(string(l))
	if err != nil {
		return "", fmt.Errorf("locator: parse %q: %w", string(l), err)
	}
	return filepath.FromSlash(u.Path), nil
}

// Ext returns the lowercased file extension including the dot.
func (l Locator) Ext() string {
	s := string(l)
	if u, err := url.Parse(s); err == nil && u.Path != "" {
		s = u.Path
	}
	return strings.ToLower(filepath.Ext(s))
}

// Base returns the final path element, used as a display label.
func (l Locator) Base() string {
	s := string(l)
	if u, err := url.Parse(s); err == nil && u.Path != "" {
		s = u.Path
	}
	return filepath.Base(filepath.FromSlash(s))
}
