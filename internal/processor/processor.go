// Package processor renders a unit offline and measures its output: the block
// render loop, per-channel and mono-mix metric accumulation, waveform glyph
// compression and a dominant-frequency estimate.
package processor

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/linuxmatters/unitprobe/internal/unit"
)

// ProgressFunc receives render progress (0.0 to 1.0) and the peak level of
// the latest block in dBFS.
type ProgressFunc func(progress float64, levelDB float64)

// ChannelResult is the final measurement of one output channel or the mono mix.
type ChannelResult struct {
	Index    int // Output channel index; -1 for the mono mix
	Peak     float32
	RMS      float32
	Mean     float32 // DC offset
	Silent   bool
	Waveform string
}

// PeakDB returns the peak in dBFS.
func (r ChannelResult) PeakDB() float64 {
	return LinearToDb(float64(r.Peak))
}

// RMSDB returns the RMS level in dBFS.
func (r ChannelResult) RMSDB() float64 {
	return LinearToDb(float64(r.RMS))
}

// ProcessingResult contains everything measured during one render.
type ProcessingResult struct {
	SampleRate     int
	TotalSamples   int
	BlockSize      int
	Blocks         int
	NumInputs      int
	NumOutputs     int
	WaveformWidth  int
	WaveformHeight int

	Mono     ChannelResult
	Channels []ChannelResult

	// Dominant frequency of the mono mix in Hz; 0 when silent or undetermined
	DominantHz float64

	// Params lists the unit's controls with the values used for the render
	Params []unit.Param

	// Output holds the rendered samples
	Output *Buffers

	RenderTime time.Duration
}

// Duration returns the rendered length in seconds.
func (r *ProcessingResult) Duration() float64 {
	return float64(r.TotalSamples) / float64(r.SampleRate)
}

// ProcessUnit runs the complete pipeline on u:
// - Init at the configured sample rate, query channel counts, build the
//   interface and apply parameter overrides
// - Render silent input through u block by block, accumulating metrics
//   after every block
// - Derive RMS, silence flags, waveform glyphs and the dominant frequency
//
// If progressCallback is not nil it is called as rendering advances.
func ProcessUnit(u unit.Unit, config *RenderConfig, progressCallback ProgressFunc) (*ProcessingResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	log := config.logger()
	total := config.TotalSamples()

	u.Init(config.SampleRate)
	numInputs, numOutputs := u.NumInputs(), u.NumOutputs()
	if numInputs < 0 || numOutputs < 0 {
		return nil, fmt.Errorf("unit reports negative channel count (inputs=%d, outputs=%d)", numInputs, numOutputs)
	}
	log.Debugf("unit initialised at %d Hz: %d inputs, %d outputs", config.SampleRate, numInputs, numOutputs)

	ui := unit.NewMapUI()
	u.BuildInterface(ui)
	if err := applyParams(ui, config.Params); err != nil {
		return nil, err
	}
	for _, p := range ui.Params() {
		log.Debugf("param %s = %g", p.Path, p.Value())
	}

	inputs := NewBuffers(numInputs, total)
	outputs := NewBuffers(numOutputs, total)
	acc := NewAccumulator(numOutputs, total)
	progress := newProgressReporter(progressCallback, total)

	log.Infof("rendering %d samples in blocks of %d", total, config.BlockSize)
	progress.start()
	renderStart := time.Now()
	blocks := Render(u, inputs, outputs, config.BlockSize, func(start, n int, block [][]float32) {
		acc.AddBlock(n, block)
		progress.block(start+n, block, n)
	})
	renderTime := time.Since(renderStart)
	log.Infof("rendered %d blocks in %s", blocks, renderTime)

	if f, ok := u.(unit.Faulter); ok {
		if err := f.Err(); err != nil {
			return nil, fmt.Errorf("unit failed during render: %w", err)
		}
	}

	result := &ProcessingResult{
		SampleRate:     config.SampleRate,
		TotalSamples:   total,
		BlockSize:      config.BlockSize,
		Blocks:         blocks,
		NumInputs:      numInputs,
		NumOutputs:     numOutputs,
		WaveformWidth:  config.WaveformWidth,
		WaveformHeight: config.WaveformHeight,
		Mono:           summarise(-1, &acc.Mono, total, config),
		Channels:       make([]ChannelResult, numOutputs),
		Params:         ui.Params(),
		Output:         outputs,
		RenderTime:     renderTime,
	}
	for c := range acc.Channels {
		result.Channels[c] = summarise(c, &acc.Channels[c], total, config)
	}

	if !result.Mono.Silent {
		dominant, err := DominantFrequency(acc.Mono.History, config.SampleRate)
		if err != nil {
			log.Warnf("dominant frequency unavailable: %v", err)
		}
		result.DominantHz = dominant
	}

	progress.done()
	return result, nil
}

// applyParams writes overrides in name order so failures are deterministic.
func applyParams(ui *unit.MapUI, params map[string]float64) error {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ui.SetValue(name, float32(params[name])); err != nil {
			return fmt.Errorf("failed to set parameter: %w", err)
		}
	}
	return nil
}

func summarise(index int, m *ChannelMetrics, total int, config *RenderConfig) ChannelResult {
	return ChannelResult{
		Index:    index,
		Peak:     m.Peak,
		RMS:      m.RMS(total),
		Mean:     m.Mean(total),
		Silent:   m.Silent(),
		Waveform: Waveform(m.History, config.WaveformWidth, config.WaveformHeight),
	}
}

// progressReporter forwards render progress in steps of at least 1% so tiny
// block sizes do not flood the callback.
type progressReporter struct {
	callback ProgressFunc
	total    int
	next     int
	step     int
}

func newProgressReporter(callback ProgressFunc, total int) *progressReporter {
	step := total / 100
	if step < 1 {
		step = 1
	}
	return &progressReporter{callback: callback, total: total, step: step}
}

func (p *progressReporter) start() {
	if p.callback != nil {
		p.callback(0.0, LinearToDb(0))
	}
}

func (p *progressReporter) block(rendered int, block [][]float32, n int) {
	if p.callback == nil || rendered < p.next {
		return
	}
	p.next = rendered + p.step

	var peak float64
	for _, ch := range block {
		for _, v := range ch[:n] {
			peak = math.Max(peak, math.Abs(float64(v)))
		}
	}
	p.callback(float64(rendered)/float64(p.total), LinearToDb(peak))
}

func (p *progressReporter) done() {
	if p.callback != nil {
		p.callback(1.0, LinearToDb(0))
	}
}
