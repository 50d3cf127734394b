package processor

import "math"

// SilenceThreshold is the peak amplitude below which a channel counts as silent.
const SilenceThreshold = 0.0001

// ChannelMetrics holds the running statistics of one channel or the mono mix.
type ChannelMetrics struct {
	Peak       float32   // Largest |sample| seen so far
	SumSquares float32   // Running sum of sample²
	Sum        float32   // Running sum of samples, for DC offset
	History    []float32 // Every sample, in render order
}

func newChannelMetrics(capacity int) ChannelMetrics {
	return ChannelMetrics{History: make([]float32, 0, capacity)}
}

func (m *ChannelMetrics) add(v float32) {
	a := float32(math.Abs(float64(v)))
	if a > m.Peak {
		m.Peak = a
	}
	m.SumSquares += v * v
	m.Sum += v
	m.History = append(m.History, v)
}

// RMS is the root-mean-square over total samples. total is the configured
// render length, not len(History).
func (m *ChannelMetrics) RMS(total int) float32 {
	return float32(math.Sqrt(float64(m.SumSquares / float32(total))))
}

// Mean is the average sample value over total samples.
func (m *ChannelMetrics) Mean(total int) float32 {
	return m.Sum / float32(total)
}

// Silent reports whether the peak stayed under SilenceThreshold. The peak is
// widened to float64 before the comparison, so float32(SilenceThreshold)
// itself counts as silent.
func (m *ChannelMetrics) Silent() bool {
	return float64(m.Peak) < SilenceThreshold
}

// Accumulator gathers per-channel and mono-mix metrics block by block.
type Accumulator struct {
	Channels []ChannelMetrics
	Mono     ChannelMetrics
}

// NewAccumulator prepares metrics for channels outputs, reserving capacity
// sample slots in every history.
func NewAccumulator(channels, capacity int) *Accumulator {
	a := &Accumulator{
		Channels: make([]ChannelMetrics, channels),
		Mono:     newChannelMetrics(capacity),
	}
	for c := range a.Channels {
		a.Channels[c] = newChannelMetrics(capacity)
	}
	return a
}

// AddBlock folds n frames of block into the running metrics. The mono value
// of a frame is the mean of its channels, or 0 with no channels.
func (a *Accumulator) AddBlock(n int, block [][]float32) {
	channels := len(a.Channels)
	for i := 0; i < n; i++ {
		var mono float32
		for c := 0; c < channels; c++ {
			v := block[c][i]
			a.Channels[c].add(v)
			mono += v
		}
		if channels > 0 {
			mono /= float32(channels)
		}
		a.Mono.add(mono)
	}
}

// Observe adapts AddBlock to a BlockFunc.
func (a *Accumulator) Observe(_, n int, outputs [][]float32) {
	a.AddBlock(n, outputs)
}
