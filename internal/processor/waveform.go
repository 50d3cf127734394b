package processor

import "strings"

// Waveform glyphs, one per bucket.
const (
	GlyphSilence = '_' // Bucket stays within ±0.01
	GlyphLoud    = '#' // Bucket maximum above 0.5
	GlyphMedium  = '=' // Bucket maximum above 0.2
	GlyphQuiet   = '-' // Anything else, including empty buckets
)

// Waveform compresses history into exactly width glyphs.
//
// The history is split into width buckets of len(history)/width samples;
// samples past width*step are not scanned. Each bucket's local maximum and
// minimum pick the glyph. When the history is shorter than width the step is
// zero and every bucket is empty; an empty bucket is always GlyphQuiet.
//
// height is accepted for a multi-row rendering mode and does not affect the
// result.
func Waveform(history []float32, width, height int) string {
	if width <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.Grow(width)

	step := len(history) / width
	for i := 0; i < width; i++ {
		maxVal := float32(-1.0)
		minVal := float32(1.0)
		scanned := 0
		for j := 0; j < step && i*step+j < len(history); j++ {
			v := history[i*step+j]
			if v > maxVal {
				maxVal = v
			}
			if v < minVal {
				minVal = v
			}
			scanned++
		}
		if scanned == 0 {
			sb.WriteByte(GlyphQuiet)
			continue
		}
		sb.WriteByte(glyphFor(float64(maxVal), float64(minVal)))
	}
	return sb.String()
}

func glyphFor(maxVal, minVal float64) byte {
	switch {
	case maxVal < 0.01 && minVal > -0.01:
		return GlyphSilence
	case maxVal > 0.5:
		return GlyphLoud
	case maxVal > 0.2:
		return GlyphMedium
	default:
		return GlyphQuiet
	}
}
