package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/pion/logging"
	"golang.org/x/term"

	"github.com/linuxmatters/unitprobe/internal/audio"
	"github.com/linuxmatters/unitprobe/internal/cli"
	reportlog "github.com/linuxmatters/unitprobe/internal/logging"
	"github.com/linuxmatters/unitprobe/internal/mains"
	"github.com/linuxmatters/unitprobe/internal/processor"
	"github.com/linuxmatters/unitprobe/internal/report"
	"github.com/linuxmatters/unitprobe/internal/ui"
	"github.com/linuxmatters/unitprobe/internal/unit"
)

var (
	version = "0.0.1"
)

const (
	debugLogPath = "unitprobe-debug.log"
	userConfig   = "~/.config/unitprobe/config.json"
)

// CLI defines the command-line interface
type CLI struct {
	Version bool            `short:"v" help:"Show version information"`
	Config  kong.ConfigFlag `short:"c" help:"Load flag defaults from a JSON config file"`
	List    bool            `short:"l" help:"List built-in units and exit"`
	Script  string          `short:"s" type:"existingfile" help:"Render a Lua script unit instead of a built-in"`

	SampleRate int                `default:"44100" help:"Sample rate in Hz"`
	Duration   float64            `short:"d" default:"2" help:"Seconds to render"`
	BlockSize  int                `short:"b" default:"256" help:"Frames per compute call"`
	Width      int                `short:"w" default:"60" help:"Waveform glyphs per channel"`
	Height     int                `default:"10" help:"Waveform height (reserved)"`
	Set        map[string]float64 `short:"p" help:"Override a unit parameter by label or path (name=value)"`

	WAV      string `name:"wav" type:"path" help:"Export the rendered output as a WAV file"`
	BitDepth int    `default:"16" enum:"16,24" help:"WAV bit depth (16 or 24)"`

	Summary  bool `help:"Print a human-readable analysis to stderr"`
	Logs     bool `help:"Save a detailed analysis log"`
	Progress bool `help:"Show a progress view on stderr when it is a terminal"`
	Debug    bool `help:"Write debug logging to unitprobe-debug.log"`

	Unit string `arg:"" optional:"" default:"sine" help:"Built-in unit to render"`
}

func main() {
	cliArgs := &CLI{}
	kong.Parse(cliArgs,
		kong.Name("unitprobe"),
		kong.Description("Offline render and analysis harness for audio units"),
		kong.UsageOnError(),
		kong.Vars{
			"version": version,
		},
		kong.Configuration(kong.JSON, userConfig),
		kong.Help(cli.StyledHelpPrinter(kong.HelpOptions{Compact: true}, unitsSection())),
	)

	// Handle version flag
	if cliArgs.Version {
		cli.PrintVersion(version)
		os.Exit(0)
	}

	if cliArgs.List {
		cli.PrintUnits(unit.Names(), unit.Describe)
		os.Exit(0)
	}

	if err := run(cliArgs); err != nil {
		cli.PrintError(err.Error())
		os.Exit(1)
	}
}

// unitsSection lists the built-in units for the help screen
func unitsSection() cli.HelpSection {
	names := unit.Names()
	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}
	lines := make([]string, len(names))
	for i, name := range names {
		lines[i] = fmt.Sprintf("%-*s  %s", width, name, unit.Describe(name))
	}
	return cli.HelpSection{Title: "Units", Lines: lines}
}

// run renders the selected unit and writes the report to stdout. Nothing is
// written to stdout when any step fails.
func run(cliArgs *CLI) error {
	loggerFactory, closeLog, err := newLoggerFactory(cliArgs.Debug)
	if err != nil {
		return err
	}
	defer closeLog()
	log := loggerFactory.NewLogger("main")

	u, name, err := loadUnit(cliArgs)
	if err != nil {
		return err
	}
	if c, ok := u.(io.Closer); ok {
		defer c.Close()
	}
	log.Infof("unit %s loaded", name)

	config := &processor.RenderConfig{
		SampleRate:     cliArgs.SampleRate,
		Duration:       cliArgs.Duration,
		BlockSize:      cliArgs.BlockSize,
		WaveformWidth:  cliArgs.Width,
		WaveformHeight: cliArgs.Height,
		Params:         cliArgs.Set,
		Logger:         loggerFactory.NewLogger("processor"),
	}
	if err := config.Validate(); err != nil {
		return err
	}

	startTime := time.Now()
	var result *processor.ProcessingResult
	if cliArgs.Progress && term.IsTerminal(int(os.Stderr.Fd())) {
		result, err = renderWithProgress(u, name, config, loggerFactory.NewLogger("ui"))
	} else {
		result, err = processor.ProcessUnit(u, config, nil)
	}
	if err != nil {
		log.Errorf("render failed: %v", err)
		return err
	}
	endTime := time.Now()
	log.Infof("render finished: peak %g, rms %g, %d outputs", result.Mono.Peak, result.Mono.RMS, result.NumOutputs)

	if cliArgs.WAV != "" {
		meta, err := audio.WriteWAV(cliArgs.WAV, result.Output, result.SampleRate, cliArgs.BitDepth)
		if err != nil {
			return fmt.Errorf("failed to export WAV: %w", err)
		}
		if meta.Clipped > 0 {
			log.Warnf("%d samples clamped during WAV export", meta.Clipped)
		}
		log.Infof("wrote %s: %d frames, %d channels, %d-bit", cliArgs.WAV, meta.Frames, meta.Channels, meta.BitDepth)
	}

	if cliArgs.Summary || cliArgs.Logs {
		localMains := mains.Frequency()
		hints := reportlog.GenerateHints(result, localMains)

		if cliArgs.Summary {
			reportlog.DisplaySummary(os.Stderr, name, result, hints, localMains)
		}

		// Generate analysis report if --logs flag is set
		if cliArgs.Logs {
			reportData := reportlog.ReportData{
				UnitName:   name,
				WAVPath:    cliArgs.WAV,
				StartTime:  startTime,
				EndTime:    endTime,
				Result:     result,
				Hints:      hints,
				LocalMains: localMains,
			}
			if err := reportlog.GenerateReport(reportData); err != nil {
				log.Errorf("failed to generate log file: %v", err)
			} else {
				log.Infof("analysis log written to %s", reportData.Path())
			}
		}
	}

	return report.Build(result).Write(os.Stdout)
}

// loadUnit resolves the unit to render and a display name for it
func loadUnit(cliArgs *CLI) (unit.Unit, string, error) {
	if cliArgs.Script != "" {
		s, err := unit.NewScript(cliArgs.Script)
		if err != nil {
			return nil, "", err
		}
		return s, cliArgs.Script, nil
	}

	u, err := unit.New(cliArgs.Unit)
	if err != nil {
		return nil, "", err
	}
	return u, cliArgs.Unit, nil
}

// newLoggerFactory returns a factory writing to the debug log file when
// enabled, or one that discards everything.
func newLoggerFactory(debug bool) (logging.LoggerFactory, func(), error) {
	if !debug {
		return processor.DiscardLoggerFactory(), func() {}, nil
	}

	debugLog, err := os.Create(debugLogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create debug log: %w", err)
	}
	factory := &logging.DefaultLoggerFactory{
		Writer:          debugLog,
		DefaultLogLevel: logging.LogLevelDebug,
	}
	return factory, func() { debugLog.Close() }, nil
}

// renderWithProgress runs the render in the background while a Bubbletea
// view on stderr shows its progress.
func renderWithProgress(u unit.Unit, name string, config *processor.RenderConfig, log logging.LeveledLogger) (*processor.ProcessingResult, error) {
	model := ui.NewModel(name, log)
	progress := model.ProgressChan

	p := tea.NewProgram(model, tea.WithOutput(os.Stderr))

	go func() {
		progress <- ui.RenderStartMsg{
			UnitName:     name,
			SampleRate:   config.SampleRate,
			TotalSamples: config.TotalSamples(),
		}

		result, err := processor.ProcessUnit(u, config, func(p float64, level float64) {
			progress <- ui.ProgressMsg{Progress: p, Level: level}
		})

		progress <- ui.RenderCompleteMsg{Result: result, Error: err}
	}()

	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("UI error: %w", err)
	}

	m, ok := final.(ui.Model)
	if !ok || !m.Done {
		return nil, errors.New("render cancelled")
	}
	return m.Result, m.Error
}
