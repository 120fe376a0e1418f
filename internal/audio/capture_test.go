package audio

import (
	"errors"
	"testing"
)

func TestNewCapture(t *testing.T) {
	c := NewCapture(NewSession(), 16000, 1)

	if c.SampleRate() != 16000 {
		t.Errorf("SampleRate() = %d, want 16000", c.SampleRate())
	}
	if c.Channels() != 1 {
		t.Errorf("Channels() = %d, want 1", c.Channels())
	}
	if c.IsCapturing() {
		t.Error("IsCapturing() should be false after creation")
	}
}

func TestStopWithoutStart(t *testing.T) {
	c := NewCapture(NewSession(), 16000, 1)

	samples := c.Stop()
	if samples != nil {
		t.Errorf("Stop() without Start() should return nil, got %d samples", len(samples))
	}
}

func TestStartRequiresConfiguredSession(t *testing.T) {
	c := NewCapture(NewSession(), 16000, 1)

	if err := c.Start(); err == nil {
		t.Fatal("Start() on an unconfigured session should fail")
	}
	if c.IsCapturing() {
		t.Error("IsCapturing() should be false after a failed Start()")
	}
}

func TestStartWhileCapturing(t *testing.T) {
	c := NewCapture(NewSession(), 16000, 1)
	c.capturing = true

	if err := c.Start(); !errors.Is(err, ErrAlreadyCapturing) {
		t.Errorf("Start() error = %v, want ErrAlreadyCapturing", err)
	}
}

func TestOnDataAccumulates(t *testing.T) {
	c := NewCapture(NewSession(), 16000, 2)
	c.capturing = true

	frame := []byte{
		0x00, 0x00, 0x80, 0x3F, // 1.0
		0x00, 0x00, 0x80, 0xBF, // -1.0
	}
	c.onData(nil, frame, 1)
	c.onData(nil, frame, 1)

	samples := c.Stop()
	if len(samples) != 4 {
		t.Fatalf("Stop() returned %d samples, want 4", len(samples))
	}
	if samples[0] != 1.0 || samples[1] != -1.0 {
		t.Errorf("samples = %v, want [1 -1 1 -1]", samples)
	}
}

func TestBytesToFloat32(t *testing.T) {
	// Test with known float32 value: 1.0 = 0x3F800000
	data := []byte{0x00, 0x00, 0x80, 0x3F} // 1.0 in little-endian float32
	samples := bytesToFloat32(data, 1)

	if len(samples) != 1 {
		t.Fatalf("bytesToFloat32() returned %d samples, want 1", len(samples))
	}
	if samples[0] != 1.0 {
		t.Errorf("bytesToFloat32() = %f, want 1.0", samples[0])
	}
}

func TestBytesToFloat32Short(t *testing.T) {
	samples := bytesToFloat32([]byte{0x00, 0x00}, 1)
	if len(samples) != 0 {
		t.Errorf("bytesToFloat32() on a short buffer returned %d samples, want 0", len(samples))
	}
}

func TestFloat32ToBytesRoundTrip(t *testing.T) {
	in := []float32{0.0, 0.5, -1.0}
	buf := make([]byte, 12)

	if n := float32ToBytes(buf, in); n != 3 {
		t.Fatalf("float32ToBytes() wrote %d samples, want 3", n)
	}

	out := bytesToFloat32(buf, 3)
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d = %f, want %f", i, out[i], in[i])
		}
	}
}

func TestFloat32ToBytesTruncates(t *testing.T) {
	buf := make([]byte, 6)
	if n := float32ToBytes(buf, []float32{1, 2}); n != 1 {
		t.Errorf("float32ToBytes() wrote %d samples, want 1", n)
	}
}
