// Package hotkey turns a global key combination into recording start/stop
// events using gohook. In "hold" mode the combination records while held;
// in "toggle" mode each press flips between recording and idle.
package hotkey

import (
	"sync"

	hook "github.com/robotn/gohook"
)

// Event asks the screen to start (Start true) or stop recording.
type Event struct {
	Start bool
}

// Listener watches a global key combination and emits Events.
type Listener struct {
	keys []string
	mode string // "hold" or "toggle"
	ch   chan Event
	done chan struct{}
	once sync.Once

	mu   sync.Mutex
	held bool // hold mode: combination down; toggle mode: recording
}

// NewListener creates a Listener for the given key combo and mode.
// keys should be lowercase key names (e.g., ["ctrl", "shift", "r"]).
func NewListener(keys []string, mode string) *Listener {
	return &Listener{
		keys: keys,
		mode: mode,
		ch:   make(chan Event, 16),
		done: make(chan struct{}),
	}
}

// Events returns the channel that receives hotkey events.
// The channel is closed when Run returns.
func (l *Listener) Events() <-chan Event {
	return l.ch
}

// Run installs the global hook and blocks until Stop is called.
func (l *Listener) Run() {
	hook.Register(hook.KeyDown, l.keys, func(hook.Event) { l.keyDown() })
	if l.mode != "toggle" {
		hook.Register(hook.KeyUp, l.keys, func(hook.Event) { l.keyUp() })
	}

	evChan := hook.Start()
	go func() {
		<-l.done
		hook.End()
	}()
	<-hook.Process(evChan)
	close(l.ch)
}

// Stop terminates the listener. It is safe to call multiple times.
func (l *Listener) Stop() {
	l.once.Do(func() {
		close(l.done)
	})
}

// keyDown handles a press of the combination. Auto-repeat presses while the
// combination is held are ignored in hold mode.
func (l *Listener) keyDown() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.mode == "toggle" {
		l.held = !l.held
		l.emit(Event{Start: l.held})
		return
	}
	if l.held {
		return
	}
	l.held = true
	l.emit(Event{Start: true})
}

// keyUp handles a release of the combination in hold mode.
func (l *Listener) keyUp() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.held {
		return
	}
	l.held = false
	l.emit(Event{Start: false})
}

func (l *Listener) emit(ev Event) {
	select {
	case l.ch <- ev:
	default: // don't block the hook thread if nobody is reading
	}
}
