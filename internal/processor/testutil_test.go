package processor

import (
	"errors"
	"math"

	"github.com/linuxmatters/unitprobe/internal/unit"
)

// constUnit writes the same value on every output sample.
type constUnit struct {
	value   float32
	outputs int
}

func (u *constUnit) Init(int)                  {}
func (u *constUnit) NumInputs() int            { return 0 }
func (u *constUnit) NumOutputs() int           { return u.outputs }
func (u *constUnit) BuildInterface(ui unit.UI) {}

func (u *constUnit) Compute(frames int, _, outputs [][]float32) {
	for _, out := range outputs {
		for i := 0; i < frames; i++ {
			out[i] = u.value
		}
	}
}

// toneUnit is a sine generator with a fixed amplitude and frequency per
// channel. A zero frequency channel stays silent.
type toneUnit struct {
	amplitude  float64
	freqs      []float64
	sampleRate int
	frame      int
}

func (u *toneUnit) Init(sampleRate int) {
	u.sampleRate = sampleRate
	u.frame = 0
}

func (u *toneUnit) NumInputs() int            { return 0 }
func (u *toneUnit) NumOutputs() int           { return len(u.freqs) }
func (u *toneUnit) BuildInterface(ui unit.UI) {}

func (u *toneUnit) Compute(frames int, _, outputs [][]float32) {
	for i := 0; i < frames; i++ {
		t := float64(u.frame+i) / float64(u.sampleRate)
		for c, f := range u.freqs {
			outputs[c][i] = float32(u.amplitude * math.Sin(2*math.Pi*f*t))
		}
	}
	u.frame += frames
}

// recordingUnit has one input and one output, copies input to output and
// records every frame count it was asked to compute.
type recordingUnit struct {
	calls    []int
	inputsOK bool
	gain     float32
}

func (u *recordingUnit) Init(int) {
	u.calls = nil
	u.inputsOK = true
	u.gain = 1
}

func (u *recordingUnit) NumInputs() int  { return 1 }
func (u *recordingUnit) NumOutputs() int { return 1 }

func (u *recordingUnit) BuildInterface(ui unit.UI) {
	ui.OpenBox("recorder")
	ui.AddSlider("gain", &u.gain, 1, 0, 2, 0.1)
	ui.CloseBox()
}

func (u *recordingUnit) Compute(frames int, inputs, outputs [][]float32) {
	u.calls = append(u.calls, frames)
	if len(inputs[0]) != frames || len(outputs[0]) != frames {
		u.inputsOK = false
	}
	for i := 0; i < frames; i++ {
		if inputs[0][i] != 0 {
			u.inputsOK = false
		}
		outputs[0][i] = inputs[0][i] + u.gain
	}
}

// nullUnit has no channels at all.
type nullUnit struct {
	calls int
}

func (u *nullUnit) Init(int)                       {}
func (u *nullUnit) NumInputs() int                 { return 0 }
func (u *nullUnit) NumOutputs() int                { return 0 }
func (u *nullUnit) BuildInterface(unit.UI)         {}
func (u *nullUnit) Compute(_ int, _, _ [][]float32) { u.calls++ }

// faultyUnit reports a failure after rendering.
type faultyUnit struct {
	constUnit
}

func (u *faultyUnit) Err() error { return errors.New("synthetic fault") }

// newTestConfig returns an isolated configuration so tests do not depend on
// application defaults.
func newTestConfig() *RenderConfig {
	return &RenderConfig{
		SampleRate:     44100,
		Duration:       2.0,
		BlockSize:      256,
		WaveformWidth:  60,
		WaveformHeight: 10,
	}
}

func allGlyphs(s string, glyph byte) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != glyph {
			return false
		}
	}
	return true
}
