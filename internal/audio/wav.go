package audio

import (
	"fmt"
	"io"
	"os"
	"time"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

const (
	wavBitDepth  = 16
	wavFormatPCM = 1
)

// Clip is a block of interleaved float32 samples in [-1.0, 1.0].
type Clip struct {
	Samples    []float32
	SampleRate uint32
	Channels   uint32
}

// Duration returns the playing time of the clip.
func (c Clip) Duration() time.Duration {
	if c.SampleRate == 0 || c.Channels == 0 {
		return 0
	}
	frames := len(c.Samples) / int(c.Channels)
	return time.Duration(frames) * time.Second / time.Duration(c.SampleRate)
}

// WriteWAV encodes clip as 16-bit PCM WAV.
func WriteWAV(w io.WriteSeeker, clip Clip) error {
	if clip.SampleRate == 0 || clip.Channels == 0 {
		return fmt.Errorf("write wav: invalid format %dHz %dch", clip.SampleRate, clip.Channels)
	}

	data := make([]int, len(clip.Samples))
	for i, s := range clip.Samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		data[i] = int(s * 32767)
	}

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: int(clip.Channels),
			SampleRate:  int(clip.SampleRate),
		},
		Data:           data,
		SourceBitDepth: wavBitDepth,
	}

	enc := wav.NewEncoder(w, int(clip.SampleRate), wavBitDepth, int(clip.Channels), wavFormatPCM)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("close wav encoder: %w", err)
	}
	return nil
}

// ReadWAV decodes a PCM WAV stream into a clip normalized to [-1.0, 1.0].
func ReadWAV(r io.ReadSeeker) (Clip, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return Clip{}, fmt.Errorf("read wav: not a valid WAV file")
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return Clip{}, fmt.Errorf("read wav: unsupported audio format %d", dec.WavAudioFormat)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return Clip{}, fmt.Errorf("read wav: %w", err)
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth <= 0 {
		bitDepth = wavBitDepth
	}
	scale := float32(int(1) << (bitDepth - 1))

	samples := make([]float32, len(buf.Data))
	for i, s := range buf.Data {
		samples[i] = float32(s) / scale
	}

	return Clip{
		Samples:    samples,
		SampleRate: dec.SampleRate,
		Channels:   uint32(dec.NumChans),
	}, nil
}

// WriteWAVFile writes clip to path, creating or truncating the file.
func WriteWAVFile(path string, clip Clip) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating wav file: %w", err)
	}
	if err := WriteWAV(f, clip); err != nil {
		f.Close()
		os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing wav file: %w", err)
	}
	return nil
}

// ReadWAVFile reads and decodes the WAV file at path.
func ReadWAVFile(path string) (Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return Clip{}, fmt.Errorf("opening wav file: %w", err)
	}
	defer f.Close()
	return ReadWAV(f)
}
