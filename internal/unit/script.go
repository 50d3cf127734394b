package unit

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	lua "github.com/yuin/gopher-lua"
)

// Script is a unit whose per-frame computation is a Lua function.
//
// The script sets the globals `inputs` and `outputs` (channel counts,
// defaulting to 0 and 1), an optional `params` table whose entries are either
// a number (the initial value) or a table {init=, min=, max=, step=}, an
// optional `init(sample_rate)` and a required `compute(...)`. compute is
// called once per frame with one argument per input channel and returns one
// number per output channel; missing returns read as 0.
type Script struct {
	name    string
	state   *lua.LState
	compute *lua.LFunction
	init    *lua.LFunction

	inputs  int
	outputs int

	params     []*scriptParam
	paramTable *lua.LTable

	args []lua.LValue
	err  error
}

type scriptParam struct {
	name                 string
	value                float32
	init, min, max, step float32
}

// NewScript loads a Lua unit from a file. The box label of its parameters is
// the file name without extension.
func NewScript(path string) (*Script, error) {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return loadScript(name, func(L *lua.LState) error { return L.DoFile(path) })
}

// NewScriptString loads a Lua unit from source.
func NewScriptString(name, source string) (*Script, error) {
	return loadScript(name, func(L *lua.LState) error { return L.DoString(source) })
}

func loadScript(name string, load func(*lua.LState) error) (*Script, error) {
	L := lua.NewState()
	if err := load(L); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to load script %s: %w", name, err)
	}

	s := &Script{
		name:    name,
		state:   L,
		inputs:  globalInt(L, "inputs", 0),
		outputs: globalInt(L, "outputs", 1),
	}

	fn, ok := L.GetGlobal("compute").(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, fmt.Errorf("script %s: compute function not defined", name)
	}
	s.compute = fn

	if fn, ok := L.GetGlobal("init").(*lua.LFunction); ok {
		s.init = fn
	}

	if s.inputs < 0 || s.outputs < 0 {
		L.Close()
		return nil, fmt.Errorf("script %s: negative channel count (inputs=%d, outputs=%d)", name, s.inputs, s.outputs)
	}

	s.paramTable, s.params = readParams(L)
	s.args = make([]lua.LValue, s.inputs)
	return s, nil
}

func globalInt(L *lua.LState, name string, fallback int) int {
	if n, ok := L.GetGlobal(name).(lua.LNumber); ok {
		return int(n)
	}
	return fallback
}

func readParams(L *lua.LState) (*lua.LTable, []*scriptParam) {
	tbl, ok := L.GetGlobal("params").(*lua.LTable)
	if !ok {
		tbl = L.NewTable()
		L.SetGlobal("params", tbl)
		return tbl, nil
	}

	var params []*scriptParam
	tbl.ForEach(func(k, v lua.LValue) {
		p := &scriptParam{name: k.String(), step: 0.01}
		switch v := v.(type) {
		case lua.LNumber:
			p.init = float32(v)
		case *lua.LTable:
			p.init = float32(lua.LVAsNumber(v.RawGetString("init")))
			p.min = float32(lua.LVAsNumber(v.RawGetString("min")))
			p.max = float32(lua.LVAsNumber(v.RawGetString("max")))
			if step := float32(lua.LVAsNumber(v.RawGetString("step"))); step > 0 {
				p.step = step
			}
		default:
			return
		}
		p.value = p.init
		params = append(params, p)
	})
	sort.Slice(params, func(i, j int) bool {
		return params[i].name < params[j].name
	})
	return tbl, params
}

// Close releases the Lua state.
func (s *Script) Close() error {
	s.state.Close()
	return nil
}

// Err returns the first Lua error raised by init or compute.
func (s *Script) Err() error {
	return s.err
}

func (s *Script) fail(err error) {
	if s.err == nil {
		var apiErr *lua.ApiError
		if errors.As(err, &apiErr) {
			err = fmt.Errorf("script %s: %s", s.name, apiErr.Object.String())
		} else {
			err = fmt.Errorf("script %s: %w", s.name, err)
		}
		s.err = err
	}
}

func (s *Script) Init(sampleRate int) {
	for _, p := range s.params {
		p.value = p.init
	}
	s.state.SetGlobal("sample_rate", lua.LNumber(sampleRate))
	if s.init == nil {
		return
	}
	s.syncParams()
	err := s.state.CallByParam(lua.P{Fn: s.init, NRet: 0, Protect: true}, lua.LNumber(sampleRate))
	if err != nil {
		s.fail(err)
	}
}

func (s *Script) NumInputs() int  { return s.inputs }
func (s *Script) NumOutputs() int { return s.outputs }

func (s *Script) BuildInterface(ui UI) {
	ui.OpenBox(s.name)
	for _, p := range s.params {
		ui.AddSlider(p.name, &p.value, p.init, p.min, p.max, p.step)
	}
	ui.CloseBox()
}

func (s *Script) syncParams() {
	for _, p := range s.params {
		s.paramTable.RawSetString(p.name, lua.LNumber(p.value))
	}
}

func (s *Script) Compute(frames int, inputs, outputs [][]float32) {
	if s.err != nil {
		zeroFrom(outputs, 0, frames)
		return
	}
	s.syncParams()

	L := s.state
	for i := 0; i < frames; i++ {
		for c := range s.args {
			s.args[c] = lua.LNumber(inputs[c][i])
		}
		if err := L.CallByParam(lua.P{Fn: s.compute, NRet: s.outputs, Protect: true}, s.args...); err != nil {
			s.fail(err)
			zeroFrom(outputs, i, frames)
			return
		}
		for c := 0; c < s.outputs; c++ {
			outputs[c][i] = float32(lua.LVAsNumber(L.Get(c - s.outputs)))
		}
		L.Pop(s.outputs)
	}
}

func zeroFrom(outputs [][]float32, start, frames int) {
	for _, out := range outputs {
		clear(out[start:frames])
	}
}
