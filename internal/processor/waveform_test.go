package processor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func repeat(v float32, n int) []float32 {
	s := make([]float32, n)
	for i := range s {
		s[i] = v
	}
	return s
}

func TestWaveformGlyphs(t *testing.T) {
	tests := []struct {
		name    string
		history []float32
		width   int
		want    string
	}{
		{"silence", repeat(0, 8), 4, "____"},
		{"loud", repeat(0.75, 8), 4, "####"},
		{"medium", repeat(0.3, 8), 4, "===="},
		{"quiet", repeat(0.1, 8), 4, "----"},
		{"just inside silence band", repeat(0.0099, 4), 2, "__"},
		{"negative only", repeat(-0.8, 4), 2, "--"},
		{"exactly 0.5 is medium", repeat(0.5, 4), 2, "=="},
		{"just under 0.2 is quiet", repeat(0.19, 4), 2, "--"},
		{"mixed buckets", []float32{0, 0, 0.6, 0.1, 0.3, 0.3, 0.05, 0.02}, 4, "_#=-"},
		// Negative excursion breaks silence even with max near zero
		{"negative swing", []float32{0, -0.3}, 1, "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Waveform(tt.history, tt.width, 10))
		})
	}
}

func TestWaveformLength(t *testing.T) {
	history := repeat(0.4, 1000)
	for _, width := range []int{1, 7, 60, 999, 1000, 1500} {
		assert.Len(t, Waveform(history, width, 10), width, "width %d", width)
	}
}

func TestWaveformShortHistory(t *testing.T) {
	// Step is zero so no bucket scans a sample
	got := Waveform(repeat(0.9, 10), 60, 10)
	assert.Equal(t, strings.Repeat("-", 60), got)

	assert.Equal(t, strings.Repeat("-", 5), Waveform(nil, 5, 10))
	assert.Equal(t, strings.Repeat("-", 60), Waveform(repeat(0, 59), 60, 10))
}

func TestWaveformIgnoresRemainder(t *testing.T) {
	// step = 10/3 = 3, sample 9 is never scanned
	history := append(repeat(0, 9), 0.9)
	assert.Equal(t, "___", Waveform(history, 3, 10))
}

func TestWaveformHeightDoesNotAffectResult(t *testing.T) {
	history := []float32{0, 0.6, 0.3, 0.1}
	want := Waveform(history, 4, 10)
	for _, h := range []int{0, 1, 10, 100} {
		assert.Equal(t, want, Waveform(history, 4, h))
	}
}

func TestWaveformNonPositiveWidth(t *testing.T) {
	assert.Equal(t, "", Waveform(repeat(1, 10), 0, 10))
	assert.Equal(t, "", Waveform(repeat(1, 10), -3, 10))
}
