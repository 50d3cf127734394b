package unit

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const toneScript = `
outputs = 2
params = { gain = { init = 0.5, min = 0, max = 1 }, offset = 0 }

local n = 0
function init(sr)
  n = 0
end

function compute()
  n = n + 1
  return params.gain, params.offset + n
end
`

func TestScriptComputesFrames(t *testing.T) {
	s, err := NewScriptString("tone", toneScript)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, 0, s.NumInputs())
	assert.Equal(t, 2, s.NumOutputs())

	out := renderUnit(t, s, 44100, 4)
	assert.Equal(t, []float32{0.5, 0.5, 0.5, 0.5}, out[0])
	assert.Equal(t, []float32{1, 2, 3, 4}, out[1])
	assert.NoError(t, s.Err())
}

func TestScriptParamsOverride(t *testing.T) {
	s, err := NewScriptString("tone", toneScript)
	require.NoError(t, err)
	defer s.Close()

	ui := NewMapUI()
	s.Init(48000)
	s.BuildInterface(ui)

	params := ui.Params()
	require.Len(t, params, 2)
	assert.Equal(t, "/tone/gain", params[0].Path)
	assert.Equal(t, "/tone/offset", params[1].Path)

	require.NoError(t, ui.SetValue("gain", 0.25))
	require.NoError(t, ui.SetValue("offset", 10))

	out := [][]float32{make([]float32, 2), make([]float32, 2)}
	s.Compute(2, nil, out)
	assert.Equal(t, []float32{0.25, 0.25}, out[0])
	assert.Equal(t, []float32{11, 12}, out[1])
}

func TestScriptInputsAndMissingReturns(t *testing.T) {
	s, err := NewScriptString("pass", `
inputs = 2
outputs = 2
function compute(a, b)
  return a + b
end
`)
	require.NoError(t, err)
	defer s.Close()

	in := [][]float32{{1, 2}, {10, 20}}
	out := [][]float32{{9, 9}, {9, 9}}
	s.Compute(2, in, out)
	assert.Equal(t, []float32{11, 22}, out[0])
	assert.Equal(t, []float32{0, 0}, out[1])
}

func TestScriptRuntimeErrorLatches(t *testing.T) {
	s, err := NewScriptString("broken", `
local n = 0
function compute()
  n = n + 1
  if n > 2 then error("boom") end
  return 1
end
`)
	require.NoError(t, err)
	defer s.Close()

	out := [][]float32{make([]float32, 5)}
	s.Compute(5, nil, out)
	assert.Equal(t, []float32{1, 1, 0, 0, 0}, out[0])
	require.Error(t, s.Err())
	assert.Contains(t, s.Err().Error(), "boom")

	var f Faulter = s
	assert.Error(t, f.Err())
}

func TestScriptLoadErrors(t *testing.T) {
	_, err := NewScriptString("nocompute", `outputs = 1`)
	assert.ErrorContains(t, err, "compute function not defined")

	_, err = NewScriptString("syntax", `function compute( return 1 end`)
	assert.ErrorContains(t, err, "failed to load script")

	_, err = NewScriptString("negative", "outputs = -1\nfunction compute() end")
	assert.ErrorContains(t, err, "negative channel count")
}

func TestNewScriptFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ramp.lua")
	require.NoError(t, os.WriteFile(path, []byte(`
function compute()
  return sample_rate / 1000
end
`), 0o644))

	s, err := NewScript(path)
	require.NoError(t, err)
	defer s.Close()

	out := renderUnit(t, s, 8000, 1)
	assert.Equal(t, float32(8), out[0][0])

	ui := NewMapUI()
	s.BuildInterface(ui)
	assert.Empty(t, ui.Params())
}
