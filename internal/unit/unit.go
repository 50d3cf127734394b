// Package unit defines the signal-processing unit contract the harness drives,
// the parameter sink units describe themselves to, and a set of built-in units.
package unit

import "errors"

var (
	// ErrUnknownUnit is returned by New for names missing from the registry.
	ErrUnknownUnit = errors.New("unknown unit")

	// ErrUnknownParam is returned by MapUI.SetValue for unregistered names.
	ErrUnknownParam = errors.New("unknown parameter")
)

// Unit is an opaque block-based signal source or effect.
//
// Compute receives one slice view per channel. Every view holds at least
// frames samples; the unit writes exactly frames samples into each output view
// and must not retain the slices after returning.
type Unit interface {
	Init(sampleRate int)
	NumInputs() int
	NumOutputs() int
	Compute(frames int, inputs, outputs [][]float32)
	BuildInterface(ui UI)
}

// UI receives a unit's controllable parameters. Zones are owned by the unit;
// a sink may write to them between Compute calls.
type UI interface {
	OpenBox(label string)
	CloseBox()
	AddSlider(label string, zone *float32, init, min, max, step float32)
	AddButton(label string, zone *float32)
}

// Faulter is implemented by units whose computation can fail at runtime.
// Err reports the first failure, or nil.
type Faulter interface {
	Err() error
}
