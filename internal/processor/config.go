package processor

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/pion/logging"
)

// ErrInvalidConfig is wrapped by every RenderConfig validation failure.
var ErrInvalidConfig = errors.New("invalid render configuration")

// RenderConfig holds everything the pipeline needs besides the unit itself.
type RenderConfig struct {
	// Render
	SampleRate int     // Hz, passed to Unit.Init (default: 44100)
	Duration   float64 // Seconds to render (default: 2.0)
	BlockSize  int     // Frames per Compute call (default: 256)

	// Waveform summary
	WaveformWidth  int // Glyphs per waveform string (default: 60)
	WaveformHeight int // Reserved for multi-row rendering; not used by glyph selection (default: 10)

	// Params overrides unit parameters after BuildInterface, keyed by
	// parameter label or full path
	Params map[string]float64

	// Logger receives pipeline diagnostics; nil disables logging
	Logger logging.LeveledLogger
}

// DefaultRenderConfig returns the stock configuration: two seconds at
// 44.1 kHz in 256-frame blocks, summarised into 60-glyph waveforms.
func DefaultRenderConfig() *RenderConfig {
	return &RenderConfig{
		SampleRate:     44100,
		Duration:       2.0,
		BlockSize:      256,
		WaveformWidth:  60,
		WaveformHeight: 10,
	}
}

// TotalSamples is the number of frames rendered per channel.
func (cfg *RenderConfig) TotalSamples() int {
	return int(math.Round(float64(cfg.SampleRate) * cfg.Duration))
}

// Validate rejects configurations the pipeline cannot render.
func (cfg *RenderConfig) Validate() error {
	switch {
	case cfg.SampleRate <= 0:
		return fmt.Errorf("%w: sample rate must be positive, got %d", ErrInvalidConfig, cfg.SampleRate)
	case !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0):
		return fmt.Errorf("%w: duration must be positive, got %v", ErrInvalidConfig, cfg.Duration)
	case cfg.TotalSamples() <= 0:
		return fmt.Errorf("%w: %vs at %d Hz renders no samples", ErrInvalidConfig, cfg.Duration, cfg.SampleRate)
	case cfg.BlockSize <= 0:
		return fmt.Errorf("%w: block size must be positive, got %d", ErrInvalidConfig, cfg.BlockSize)
	case cfg.WaveformWidth <= 0:
		return fmt.Errorf("%w: waveform width must be positive, got %d", ErrInvalidConfig, cfg.WaveformWidth)
	case cfg.WaveformHeight < 0:
		return fmt.Errorf("%w: waveform height must not be negative, got %d", ErrInvalidConfig, cfg.WaveformHeight)
	}
	return nil
}

// logger returns cfg.Logger or a logger that drops everything.
func (cfg *RenderConfig) logger() logging.LeveledLogger {
	if cfg.Logger != nil {
		return cfg.Logger
	}
	return DiscardLoggerFactory().NewLogger("processor")
}

// DiscardLoggerFactory returns a logger factory with logging disabled.
func DiscardLoggerFactory() *logging.DefaultLoggerFactory {
	return &logging.DefaultLoggerFactory{
		Writer:          io.Discard,
		DefaultLogLevel: logging.LogLevelDisabled,
	}
}

// DbToLinear converts a decibel value to linear amplitude.
func DbToLinear(db float64) float64 {
	return math.Pow(10, db/20.0)
}

// LinearToDb converts linear amplitude to decibels, floored at -120 dB.
func LinearToDb(linear float64) float64 {
	if linear <= 0 {
		return -120.0 // Practical floor for audio
	}
	return 20.0 * math.Log10(linear)
}
