package unit

import (
	"fmt"
	"math"
	"sort"

	"github.com/linuxmatters/unitprobe/internal/mains"
)

// builtin pairs a constructor with a one-line description for --list.
type builtin struct {
	description string
	create      func() Unit
}

var registry = map[string]builtin{
	"silence": {"Two silent output channels", func() Unit { return &Silence{Outputs: 2} }},
	"sine":    {"Sine oscillator (freq, gain)", func() Unit { return NewSine() }},
	"stereo":  {"Two sine oscillators, one per channel (left, right, gain)", func() Unit { return NewStereo() }},
	"noise":   {"Deterministic white noise (gain)", func() Unit { return NewNoise() }},
	"dc":      {"Constant output (value)", func() Unit { return NewDC() }},
	"hum":     {"Mains hum at the local grid frequency with 2nd/3rd harmonics (freq, gain)", func() Unit { return NewHum() }},
	"gain":    {"One-in one-out gain stage, driven by silent input (gain)", func() Unit { return NewGain() }},
}

// New creates a fresh built-in unit by name.
func New(name string) (Unit, error) {
	b, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownUnit, name)
	}
	return b.create(), nil
}

// Names lists the built-in unit names in sorted order.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the one-line description of a built-in unit.
func Describe(name string) string {
	return registry[name].description
}

// Silence outputs zeros on a fixed number of channels.
type Silence struct {
	Outputs int
}

func (s *Silence) Init(int) {}
func (s *Silence) NumInputs() int { return 0 }
func (s *Silence) NumOutputs() int { return s.Outputs }
func (s *Silence) BuildInterface(ui UI) {}

func (s *Silence) Compute(frames int, _, outputs [][]float32) {
	for _, out := range outputs {
		clear(out[:frames])
	}
}

// oscillator is a phase accumulator shared by the tonal units.
type oscillator struct {
	phase float64
}

func (o *oscillator) next(freq float32, sampleRate int) float64 {
	v := math.Sin(o.phase)
	o.phase += 2 * math.Pi * float64(freq) / float64(sampleRate)
	if o.phase >= 2*math.Pi {
		o.phase -= 2 * math.Pi
	}
	return v
}

// Sine is a single-channel sine oscillator.
type Sine struct {
	Freq float32
	Gain float32

	sampleRate int
	osc        oscillator
}

// NewSine returns a 440 Hz oscillator at 0.3 peak amplitude.
func NewSine() *Sine {
	return &Sine{Freq: 440, Gain: 0.3}
}

func (s *Sine) Init(sampleRate int) {
	s.sampleRate = sampleRate
	s.osc = oscillator{}
}

func (s *Sine) NumInputs() int { return 0 }
func (s *Sine) NumOutputs() int { return 1 }

func (s *Sine) BuildInterface(ui UI) {
	ui.OpenBox("sine")
	ui.AddSlider("freq", &s.Freq, 440, 1, 20000, 1)
	ui.AddSlider("gain", &s.Gain, 0.3, 0, 2, 0.01)
	ui.CloseBox()
}

func (s *Sine) Compute(frames int, _, outputs [][]float32) {
	out := outputs[0]
	for i := 0; i < frames; i++ {
		out[i] = float32(float64(s.Gain) * s.osc.next(s.Freq, s.sampleRate))
	}
}

// Stereo runs an independent oscillator on each of two channels.
type Stereo struct {
	Left  float32
	Right float32
	Gain  float32

	sampleRate int
	l, r       oscillator
}

// NewStereo returns a 440/660 Hz pair at 0.3 peak amplitude.
func NewStereo() *Stereo {
	return &Stereo{Left: 440, Right: 660, Gain: 0.3}
}

func (s *Stereo) Init(sampleRate int) {
	s.sampleRate = sampleRate
	s.l, s.r = oscillator{}, oscillator{}
}

func (s *Stereo) NumInputs() int { return 0 }
func (s *Stereo) NumOutputs() int { return 2 }

func (s *Stereo) BuildInterface(ui UI) {
	ui.OpenBox("stereo")
	ui.AddSlider("left", &s.Left, 440, 1, 20000, 1)
	ui.AddSlider("right", &s.Right, 660, 1, 20000, 1)
	ui.AddSlider("gain", &s.Gain, 0.3, 0, 2, 0.01)
	ui.CloseBox()
}

func (s *Stereo) Compute(frames int, _, outputs [][]float32) {
	left, right := outputs[0], outputs[1]
	for i := 0; i < frames; i++ {
		left[i] = float32(float64(s.Gain) * s.l.next(s.Left, s.sampleRate))
		right[i] = float32(float64(s.Gain) * s.r.next(s.Right, s.sampleRate))
	}
}

// Noise produces white noise from a fixed-seed LCG so renders are repeatable.
type Noise struct {
	Gain float32

	state uint32
}

const noiseSeed = 12345

// NewNoise returns a noise source at 0.1 peak amplitude.
func NewNoise() *Noise {
	return &Noise{Gain: 0.1, state: noiseSeed}
}

func (n *Noise) Init(int) { n.state = noiseSeed }
func (n *Noise) NumInputs() int { return 0 }
func (n *Noise) NumOutputs() int { return 1 }

func (n *Noise) BuildInterface(ui UI) {
	ui.OpenBox("noise")
	ui.AddSlider("gain", &n.Gain, 0.1, 0, 2, 0.01)
	ui.CloseBox()
}

func (n *Noise) Compute(frames int, _, outputs [][]float32) {
	out := outputs[0]
	for i := 0; i < frames; i++ {
		// Numerical Recipes LCG constants
		n.state = n.state*1664525 + 1013904223
		r := (float64(n.state)/float64(math.MaxUint32))*2.0 - 1.0
		out[i] = float32(float64(n.Gain) * r)
	}
}

// DC outputs a constant value.
type DC struct {
	Value float32
}

// NewDC returns a constant source at 0.75.
func NewDC() *DC {
	return &DC{Value: 0.75}
}

func (d *DC) Init(int) {}
func (d *DC) NumInputs() int { return 0 }
func (d *DC) NumOutputs() int { return 1 }

func (d *DC) BuildInterface(ui UI) {
	ui.OpenBox("dc")
	ui.AddSlider("value", &d.Value, 0.75, -2, 2, 0.01)
	ui.CloseBox()
}

func (d *DC) Compute(frames int, _, outputs [][]float32) {
	out := outputs[0]
	for i := 0; i < frames; i++ {
		out[i] = d.Value
	}
}

// Hum models electrical interference: a fundamental at the mains frequency
// plus weaker 2nd and 3rd harmonics.
type Hum struct {
	Freq float32
	Gain float32

	sampleRate int
	h1, h2, h3 oscillator
}

// NewHum returns a hum source tuned to the local mains frequency.
func NewHum() *Hum {
	return &Hum{Freq: float32(mains.Frequency()), Gain: 0.05}
}

func (h *Hum) Init(sampleRate int) {
	h.sampleRate = sampleRate
	h.h1, h.h2, h.h3 = oscillator{}, oscillator{}, oscillator{}
}

func (h *Hum) NumInputs() int { return 0 }
func (h *Hum) NumOutputs() int { return 1 }

func (h *Hum) BuildInterface(ui UI) {
	ui.OpenBox("hum")
	ui.AddSlider("freq", &h.Freq, h.Freq, 40, 70, 0.1)
	ui.AddSlider("gain", &h.Gain, 0.05, 0, 1, 0.01)
	ui.CloseBox()
}

func (h *Hum) Compute(frames int, _, outputs [][]float32) {
	out := outputs[0]
	for i := 0; i < frames; i++ {
		v := h.h1.next(h.Freq, h.sampleRate) +
			0.5*h.h2.next(2*h.Freq, h.sampleRate) +
			0.25*h.h3.next(3*h.Freq, h.sampleRate)
		out[i] = float32(float64(h.Gain) * v)
	}
}

// Gain scales its single input.
type Gain struct {
	Gain float32
}

// NewGain returns a unity gain stage.
func NewGain() *Gain {
	return &Gain{Gain: 1}
}

func (g *Gain) Init(int) {}
func (g *Gain) NumInputs() int { return 1 }
func (g *Gain) NumOutputs() int { return 1 }

func (g *Gain) BuildInterface(ui UI) {
	ui.OpenBox("gain")
	ui.AddSlider("gain", &g.Gain, 1, 0, 4, 0.01)
	ui.CloseBox()
}

func (g *Gain) Compute(frames int, inputs, outputs [][]float32) {
	in, out := inputs[0], outputs[0]
	for i := 0; i < frames; i++ {
		out[i] = in[i] * g.Gain
	}
}
