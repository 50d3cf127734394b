package ui

import (
	"github.com/linuxmatters/unitprobe/internal/processor"
)

// RenderStartMsg indicates the render has started
type RenderStartMsg struct {
	UnitName     string
	SampleRate   int
	TotalSamples int
}

// ProgressMsg represents a progress update from the processor
type ProgressMsg struct {
	Progress float64 // 0.0 to 1.0
	Level    float64 // Peak level of the latest block in dBFS
}

// RenderCompleteMsg indicates the render has finished
type RenderCompleteMsg struct {
	Result *processor.ProcessingResult
	Error  error
}

// tickMsg is sent for spinner/timer animation
type tickMsg struct{}
