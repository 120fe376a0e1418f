package audio

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/chaz8081/speakerid/internal/locator"
	"github.com/gen2brain/malgo"
)

// outputDevice is the part of *malgo.Device the player drives.
type outputDevice interface {
	Start() error
	Stop() error
	Uninit()
}

// openFunc opens a playback device for clip that pulls frames from fill.
type openFunc func(clip Clip, fill malgo.DataProc) (outputDevice, error)

// Player plays one clip at a time. It holds at most one device: Play
// releases the held device before acquiring a new one.
type Player struct {
	session *Session
	open    openFunc

	mu      sync.Mutex
	current *playback
}

// NewPlayer creates a player that opens playback devices on session.
func NewPlayer(session *Session) *Player {
	p := &Player{session: session}
	p.open = p.openDevice
	return p
}

// Play decodes the WAV at loc and starts playing it immediately,
// replacing whatever was playing before.
func (p *Player) Play(loc locator.Locator) error {
	path, err := loc.Path()
	if err != nil {
		return fmt.Errorf("play: %w", err)
	}
	clip, err := ReadWAVFile(path)
	if err != nil {
		return fmt.Errorf("play %s: %w", loc.Base(), err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.releaseLocked(); err != nil {
		slog.Debug("[audio] releasing previous playback failed", "error", err)
	}

	pb := &playback{loc: loc, clip: clip}
	device, err := p.open(clip, pb.onData)
	if err != nil {
		return fmt.Errorf("play %s: %w", loc.Base(), err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		return fmt.Errorf("play %s: starting playback device: %w", loc.Base(), err)
	}

	pb.device = device
	p.current = pb
	slog.Debug("[audio] playback started", "locator", loc.String(), "duration", clip.Duration())
	return nil
}

// Stop stops and releases the held device. It is a no-op when nothing is held.
func (p *Player) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.releaseLocked()
}

// Current returns the locator of the held clip, if any.
func (p *Player) Current() (locator.Locator, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return "", false
	}
	return p.current.loc, true
}

// Playing reports whether the held clip still has frames left to play.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current != nil && !p.current.done()
}

// Close releases any held device.
func (p *Player) Close() error {
	return p.Stop()
}

func (p *Player) releaseLocked() error {
	if p.current == nil {
		return nil
	}
	pb := p.current
	p.current = nil

	err := pb.device.Stop()
	pb.device.Uninit()
	if err != nil {
		return fmt.Errorf("stopping playback device: %w", err)
	}
	slog.Debug("[audio] playback released", "locator", pb.loc.String())
	return nil
}

func (p *Player) openDevice(clip Clip, fill malgo.DataProc) (outputDevice, error) {
	if err := p.session.Configure(); err != nil {
		return nil, err
	}
	ctx, err := p.session.context()
	if err != nil {
		return nil, err
	}

	deviceCfg := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceCfg.Playback.Format = malgo.FormatF32
	deviceCfg.Playback.Channels = clip.Channels
	deviceCfg.SampleRate = clip.SampleRate

	device, err := malgo.InitDevice(ctx, deviceCfg, malgo.DeviceCallbacks{
		Data: fill,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing playback device: %w", err)
	}
	return device, nil
}

// playback is a clip being fed to a device.
type playback struct {
	loc    locator.Locator
	clip   Clip
	device outputDevice

	mu  sync.Mutex
	pos int
}

// onData is the malgo callback that fills the output buffer. Once the clip
// is exhausted it writes silence until the device is released.
func (pb *playback) onData(pOutput, _ []byte, frameCount uint32) {
	pb.mu.Lock()
	defer pb.mu.Unlock()

	want := int(frameCount * pb.clip.Channels)
	end := min(pb.pos+want, len(pb.clip.Samples))
	n := float32ToBytes(pOutput, pb.clip.Samples[pb.pos:end])
	pb.pos += n

	for i := n * 4; i < len(pOutput); i++ {
		pOutput[i] = 0
	}
}

func (pb *playback) done() bool {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	return pb.pos >= len(pb.clip.Samples)
}
