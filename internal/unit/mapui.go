package unit

import (
	"fmt"
	"sort"
	"strings"
)

// Param describes one registered control.
type Param struct {
	Path  string // Full path, e.g. "/sine/freq"
	Label string // Short label, e.g. "freq"
	Init  float32
	Min   float32
	Max   float32
	Step  float32
	zone  *float32
}

// Value returns the control's current value.
func (p Param) Value() float32 {
	return *p.zone
}

// MapUI is a UI that indexes every zone by full path and by short label.
type MapUI struct {
	boxes  []string
	params map[string]*Param // keyed by path
	labels map[string]*Param // keyed by label; first registration wins
}

// NewMapUI creates an empty parameter map.
func NewMapUI() *MapUI {
	return &MapUI{
		params: make(map[string]*Param),
		labels: make(map[string]*Param),
	}
}

// OpenBox pushes a group label onto the current path.
func (m *MapUI) OpenBox(label string) {
	m.boxes = append(m.boxes, label)
}

// CloseBox pops the innermost group label.
func (m *MapUI) CloseBox() {
	if len(m.boxes) > 0 {
		m.boxes = m.boxes[:len(m.boxes)-1]
	}
}

// AddSlider registers a continuous control.
func (m *MapUI) AddSlider(label string, zone *float32, init, min, max, step float32) {
	m.add(&Param{Label: label, Init: init, Min: min, Max: max, Step: step, zone: zone})
}

// AddButton registers a momentary 0/1 control.
func (m *MapUI) AddButton(label string, zone *float32) {
	m.add(&Param{Label: label, Init: 0, Min: 0, Max: 1, Step: 1, zone: zone})
}

func (m *MapUI) add(p *Param) {
	p.Path = m.path(p.Label)
	m.params[p.Path] = p
	if _, taken := m.labels[p.Label]; !taken {
		m.labels[p.Label] = p
	}
}

func (m *MapUI) path(label string) string {
	parts := make([]string, 0, len(m.boxes)+1)
	for _, b := range m.boxes {
		if b != "" {
			parts = append(parts, b)
		}
	}
	parts = append(parts, label)
	return "/" + strings.Join(parts, "/")
}

func (m *MapUI) lookup(name string) (*Param, bool) {
	if p, ok := m.params[name]; ok {
		return p, true
	}
	p, ok := m.labels[name]
	return p, ok
}

// SetValue writes v into the zone named by path or label, clamped to the
// registered range.
func (m *MapUI) SetValue(name string, v float32) error {
	p, ok := m.lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	if p.Max > p.Min {
		if v < p.Min {
			v = p.Min
		} else if v > p.Max {
			v = p.Max
		}
	}
	*p.zone = v
	return nil
}

// Value reads the zone named by path or label.
func (m *MapUI) Value(name string) (float32, bool) {
	p, ok := m.lookup(name)
	if !ok {
		return 0, false
	}
	return *p.zone, true
}

// Params returns all registered controls sorted by path.
func (m *MapUI) Params() []Param {
	out := make([]Param, 0, len(m.params))
	for _, p := range m.params {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Path < out[j].Path
	})
	return out
}
