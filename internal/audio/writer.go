// Package audio exports rendered output as PCM WAV files using go-audio
package audio

import (
	"errors"
	"fmt"
	"math"
	"os"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrNoChannels is returned when there is nothing to write.
var ErrNoChannels = errors.New("no output channels to export")

// wavFormatPCM is the WAVE_FORMAT_PCM audio format tag.
const wavFormatPCM = 1

// Source is per-channel float sample storage, as produced by a render.
type Source interface {
	Channels() int
	Len() int
	Channel(ch int) []float32
}

// Metadata describes a written audio file
type Metadata struct {
	Duration   float64 // seconds
	SampleRate int
	Channels   int
	Frames     int
	BitDepth   int
	Clipped    int // Samples outside [-1, 1] or non-finite, clamped on export
}

// WriteWAV writes src as interleaved integer PCM at the given bit depth
// (16 or 24). Samples are clamped to [-1, 1]; NaN is written as 0.
func WriteWAV(path string, src Source, sampleRate, bitDepth int) (*Metadata, error) {
	if src.Channels() == 0 {
		return nil, ErrNoChannels
	}
	if bitDepth != 16 && bitDepth != 24 {
		return nil, fmt.Errorf("unsupported bit depth %d (use 16 or 24)", bitDepth)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("invalid sample rate %d", sampleRate)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	channels := src.Channels()
	frames := src.Len()
	scale := math.Pow(2, float64(bitDepth-1)) - 1

	buf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, frames*channels),
		SourceBitDepth: bitDepth,
	}

	meta := &Metadata{
		Duration:   float64(frames) / float64(sampleRate),
		SampleRate: sampleRate,
		Channels:   channels,
		Frames:     frames,
		BitDepth:   bitDepth,
	}

	for c := 0; c < channels; c++ {
		samples := src.Channel(c)
		for i := 0; i < frames; i++ {
			v, clipped := clampSample(float64(samples[i]))
			if clipped {
				meta.Clipped++
			}
			buf.Data[i*channels+c] = int(math.Round(v * scale))
		}
	}

	enc := wav.NewEncoder(f, sampleRate, bitDepth, channels, wavFormatPCM)
	if err := enc.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write samples: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to finalise WAV header: %w", err)
	}

	return meta, nil
}

// clampSample limits v to [-1, 1] and reports whether it had to.
func clampSample(v float64) (float64, bool) {
	switch {
	case math.IsNaN(v):
		return 0, true
	case v > 1:
		return 1, true
	case v < -1:
		return -1, true
	}
	return v, false
}
