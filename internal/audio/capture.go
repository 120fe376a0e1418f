package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/gen2brain/malgo"
)

// ErrAlreadyCapturing is returned by Start while a capture is in progress.
var ErrAlreadyCapturing = errors.New("audio: already capturing")

// Capture records from the default microphone into a float32 buffer.
// The session must be configured before Start.
type Capture struct {
	session    *Session
	sampleRate uint32
	channels   uint32

	mu        sync.Mutex
	device    *malgo.Device
	buf       []float32
	capturing bool
}

// NewCapture creates a capture bound to session. No device is opened until Start.
func NewCapture(session *Session, sampleRate, channels uint32) *Capture {
	return &Capture{
		session:    session,
		sampleRate: sampleRate,
		channels:   channels,
	}
}

// SampleRate returns the configured capture sample rate in Hz.
func (c *Capture) SampleRate() uint32 { return c.sampleRate }

// Channels returns the configured number of capture channels.
func (c *Capture) Channels() uint32 { return c.channels }

// Start opens the default capture device and begins accumulating samples.
func (c *Capture) Start() error {
	c.mu.Lock()
	if c.capturing {
		c.mu.Unlock()
		return ErrAlreadyCapturing
	}
	c.buf = c.buf[:0] // reset buffer but keep capacity
	c.capturing = true
	c.mu.Unlock()

	ctx, err := c.session.context()
	if err != nil {
		c.abort()
		return err
	}

	deviceCfg := malgo.DefaultDeviceConfig(malgo.Capture)
	deviceCfg.Capture.Format = malgo.FormatF32
	deviceCfg.Capture.Channels = c.channels
	deviceCfg.SampleRate = c.sampleRate

	device, err := malgo.InitDevice(ctx, deviceCfg, malgo.DeviceCallbacks{
		Data: c.onData,
	})
	if err != nil {
		c.abort()
		return fmt.Errorf("initializing capture device: %w", err)
	}

	if err := device.Start(); err != nil {
		device.Uninit()
		c.abort()
		return fmt.Errorf("starting capture device: %w", err)
	}

	c.mu.Lock()
	c.device = device
	c.mu.Unlock()

	return nil
}

func (c *Capture) abort() {
	c.mu.Lock()
	c.capturing = false
	c.mu.Unlock()
}

// Stop releases the capture device and returns a copy of the captured samples.
// It returns nil when no capture is in progress.
func (c *Capture) Stop() []float32 {
	c.mu.Lock()
	if !c.capturing {
		c.mu.Unlock()
		return nil
	}
	device := c.device
	c.device = nil
	c.mu.Unlock()

	// Uninit waits for the data callback, which takes c.mu.
	if device != nil {
		device.Uninit()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.capturing = false

	result := make([]float32, len(c.buf))
	copy(result, c.buf)

	return result
}

// IsCapturing reports whether a capture is in progress.
func (c *Capture) IsCapturing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.capturing
}

// onData is the malgo callback invoked when captured frames are available.
// pSample holds interleaved little-endian float32 frames.
func (c *Capture) onData(_, pSample []byte, frameCount uint32) {
	samples := bytesToFloat32(pSample, frameCount*c.channels)

	c.mu.Lock()
	c.buf = append(c.buf, samples...)
	c.mu.Unlock()
}

// bytesToFloat32 converts raw bytes (little-endian float32) to a float32 slice.
func bytesToFloat32(data []byte, sampleCount uint32) []float32 {
	samples := make([]float32, 0, sampleCount)
	for i := uint32(0); i < sampleCount; i++ {
		offset := i * 4
		if offset+4 > uint32(len(data)) {
			break
		}
		bits := binary.LittleEndian.Uint32(data[offset : offset+4])
		samples = append(samples, math.Float32frombits(bits))
	}
	return samples
}

// float32ToBytes writes samples into dst as little-endian float32 and returns
// the number of samples written.
func float32ToBytes(dst []byte, samples []float32) int {
	n := 0
	for _, s := range samples {
		offset := n * 4
		if offset+4 > len(dst) {
			break
		}
		binary.LittleEndian.PutUint32(dst[offset:offset+4], math.Float32bits(s))
		n++
	}
	return n
}
