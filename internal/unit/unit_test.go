package unit

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// renderUnit drives u for frames samples in one block with silent inputs.
func renderUnit(t *testing.T, u Unit, sampleRate, frames int) [][]float32 {
	t.Helper()
	u.Init(sampleRate)
	u.BuildInterface(NewMapUI())

	inputs := make([][]float32, u.NumInputs())
	for i := range inputs {
		inputs[i] = make([]float32, frames)
	}
	outputs := make([][]float32, u.NumOutputs())
	for i := range outputs {
		outputs[i] = make([]float32, frames)
	}
	u.Compute(frames, inputs, outputs)
	return outputs
}

func peakOf(samples []float32) float64 {
	peak := 0.0
	for _, v := range samples {
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	return peak
}

func TestMapUIPaths(t *testing.T) {
	ui := NewMapUI()
	var a, b, c float32

	ui.OpenBox("outer")
	ui.AddSlider("freq", &a, 440, 20, 20000, 1)
	ui.OpenBox("inner")
	ui.AddSlider("freq", &b, 880, 20, 20000, 1)
	ui.CloseBox()
	ui.AddButton("gate", &c)
	ui.CloseBox()

	params := ui.Params()
	require.Len(t, params, 3)
	assert.Equal(t, "/outer/freq", params[0].Path)
	assert.Equal(t, "/outer/gate", params[1].Path)
	assert.Equal(t, "/outer/inner/freq", params[2].Path)

	// Label lookup resolves to the first registration
	require.NoError(t, ui.SetValue("freq", 100))
	assert.Equal(t, float32(100), a)
	assert.Equal(t, float32(0), b)

	require.NoError(t, ui.SetValue("/outer/inner/freq", 200))
	assert.Equal(t, float32(200), b)

	v, ok := ui.Value("gate")
	assert.True(t, ok)
	assert.Equal(t, float32(0), v)
}

func TestMapUISetValueClamps(t *testing.T) {
	ui := NewMapUI()
	var gain, free float32
	ui.AddSlider("gain", &gain, 0.5, 0, 1, 0.01)
	ui.AddSlider("free", &free, 0, 0, 0, 0.01)

	require.NoError(t, ui.SetValue("gain", 3))
	assert.Equal(t, float32(1), gain)
	require.NoError(t, ui.SetValue("gain", -3))
	assert.Equal(t, float32(0), gain)

	// An empty range leaves the value unclamped
	require.NoError(t, ui.SetValue("free", 42))
	assert.Equal(t, float32(42), free)

	err := ui.SetValue("missing", 1)
	assert.True(t, errors.Is(err, ErrUnknownParam))
}

func TestNewUnknown(t *testing.T) {
	_, err := New("theremin")
	assert.ErrorIs(t, err, ErrUnknownUnit)
}

func TestBuiltinsRender(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			u, err := New(name)
			require.NoError(t, err)
			assert.NotEmpty(t, Describe(name))

			outputs := renderUnit(t, u, 44100, 4410)
			require.Len(t, outputs, u.NumOutputs())
			for _, out := range outputs {
				assert.Len(t, out, 4410)
			}
		})
	}
}

func TestSineAmplitude(t *testing.T) {
	out := renderUnit(t, NewSine(), 44100, 44100)
	assert.InDelta(t, 0.3, peakOf(out[0]), 1e-4)
	assert.Equal(t, float32(0), out[0][0])
}

func TestStereoChannels(t *testing.T) {
	out := renderUnit(t, NewStereo(), 48000, 4800)
	require.Len(t, out, 2)
	assert.NotEqual(t, out[0][10], out[1][10])
	assert.InDelta(t, 0.3, peakOf(out[0]), 1e-3)
	assert.InDelta(t, 0.3, peakOf(out[1]), 1e-3)
}

func TestNoiseRepeatable(t *testing.T) {
	n := NewNoise()
	first := renderUnit(t, n, 44100, 1000)[0]
	second := renderUnit(t, n, 44100, 1000)[0]
	assert.Equal(t, first, second, "Init must reseed the generator")
	assert.LessOrEqual(t, peakOf(first), 0.1+1e-6)
	assert.Greater(t, peakOf(first), 0.05)
}

func TestDCAndSilence(t *testing.T) {
	dc := renderUnit(t, NewDC(), 44100, 100)[0]
	for _, v := range dc {
		assert.Equal(t, float32(0.75), v)
	}

	silence := renderUnit(t, &Silence{Outputs: 2}, 44100, 100)
	require.Len(t, silence, 2)
	assert.Zero(t, peakOf(silence[0]))
	assert.Zero(t, peakOf(silence[1]))
}

func TestGainScalesInput(t *testing.T) {
	g := NewGain()
	g.Gain = 2
	in := [][]float32{{0.1, -0.2, 0.3}}
	out := [][]float32{make([]float32, 3)}
	g.Compute(3, in, out)
	assert.Equal(t, []float32{0.2, -0.4, 0.6}, out[0])
}

func TestHumFollowsParameter(t *testing.T) {
	h := NewHum()
	ui := NewMapUI()
	h.Init(8000)
	h.BuildInterface(ui)
	require.NoError(t, ui.SetValue("freq", 60))
	assert.Equal(t, float32(60), h.Freq)

	out := make([][]float32, 1)
	out[0] = make([]float32, 8000)
	h.Compute(8000, nil, out)
	// Fundamental plus half and quarter harmonics never exceed 1.75 * gain
	assert.LessOrEqual(t, peakOf(out[0]), 1.75*0.05+1e-6)
}
