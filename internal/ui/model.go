// Package ui provides the Bubbletea terminal user interface for unitprobe
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pion/logging"

	"github.com/linuxmatters/unitprobe/internal/processor"
)

// Spinner frames for indeterminate progress
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// RenderStatus represents the state of the render
type RenderStatus int

const (
	StatusWaiting RenderStatus = iota
	StatusRendering
	StatusComplete
	StatusError
)

// Model is the Bubbletea model for the render progress view
type Model struct {
	UnitName     string
	SampleRate   int
	TotalSamples int
	Status       RenderStatus

	// Progress tracking
	Progress     float64 // 0.0 to 1.0
	CurrentLevel float64 // Latest block level in dBFS
	PeakLevel    float64 // Highest block level seen so far
	StartTime    time.Time
	ElapsedTime  time.Duration

	// Spinner state
	spinnerIndex int

	// Results (populated when complete)
	Result *processor.ProcessingResult
	Error  error
	Done   bool

	// Channel for receiving progress updates from the render goroutine
	ProgressChan chan tea.Msg

	// Terminal dimensions
	Width  int
	Height int

	log logging.LeveledLogger
}

// NewModel creates a new UI model. log may be nil.
func NewModel(unitName string, log logging.LeveledLogger) Model {
	if log == nil {
		log = processor.DiscardLoggerFactory().NewLogger("ui")
	}
	return Model{
		UnitName:     unitName,
		PeakLevel:    processor.LinearToDb(0),
		StartTime:    time.Now(),
		ProgressChan: make(chan tea.Msg, 100), // Buffered channel
		log:          log,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForProgress(m.ProgressChan), tickCmd())
}

// tickCmd returns a command that sends a tick message every 100ms
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.log.Tracef("window size: %dx%d", m.Width, m.Height)

	case tickMsg:
		if m.Done {
			return m, nil
		}
		m.spinnerIndex = (m.spinnerIndex + 1) % len(spinnerFrames)
		if m.Status == StatusRendering {
			m.ElapsedTime = time.Since(m.StartTime)
		}
		return m, tickCmd()

	case RenderStartMsg:
		m.log.Debugf("render started: %s", msg.UnitName)
		m.UnitName = msg.UnitName
		m.SampleRate = msg.SampleRate
		m.TotalSamples = msg.TotalSamples
		m.Status = StatusRendering
		m.StartTime = time.Now()
		return m, waitForProgress(m.ProgressChan)

	case ProgressMsg:
		m = m.applyProgress(msg)
		return m, waitForProgress(m.ProgressChan)

	case RenderCompleteMsg:
		m.log.Debugf("render complete, error=%v", msg.Error)
		m.Result = msg.Result
		m.Error = msg.Error
		m.Status = StatusComplete
		if msg.Error != nil {
			m.Status = StatusError
		}
		m.Progress = 1.0
		m.ElapsedTime = time.Since(m.StartTime)
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the UI
func (m Model) View() string {
	if m.Done {
		return renderCompletion(m)
	}
	return renderRenderView(m)
}

// applyProgress folds a ProgressMsg into the model
func (m Model) applyProgress(msg ProgressMsg) Model {
	if msg.Progress > 0 && m.Status == StatusWaiting {
		m.Status = StatusRendering
	}
	m.Progress = msg.Progress
	m.ElapsedTime = time.Since(m.StartTime)

	m.CurrentLevel = msg.Level
	if msg.Level > m.PeakLevel {
		m.log.Tracef("peak updated: %.1f -> %.1f dB", m.PeakLevel, msg.Level)
		m.PeakLevel = msg.Level
	}
	return m
}

// waitForProgress creates a command that waits for progress messages
func waitForProgress(progressChan chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-progressChan
	}
}
