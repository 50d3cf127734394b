// Package logging handles generation of analysis reports for rendered units

package logging

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/linuxmatters/unitprobe/internal/processor"
)

// ============================================================================
// Level Interpretation Functions
// ============================================================================
// These functions turn measurements into short human-readable descriptions.

// interpretPeak describes a peak level in dBFS.
func interpretPeak(db float64) string {
	switch {
	case math.IsNaN(db):
		return ""
	case db > 0:
		return "over full scale"
	case db > -1:
		return "near full scale"
	case db > -12:
		return "healthy"
	case db > -40:
		return "quiet"
	case db > processor.LinearToDb(processor.SilenceThreshold):
		return "very quiet"
	default:
		return "silent"
	}
}

// interpretCrest describes the crest factor (peak to RMS ratio in dB).
// A pure sine measures 3 dB, a square wave 0 dB and white noise 10-15 dB.
func interpretCrest(crest float64) string {
	switch {
	case math.IsNaN(crest) || math.IsInf(crest, 0):
		return ""
	case crest < 1:
		return "square-like or constant"
	case crest < 4.5:
		return "sine-like"
	case crest < 9:
		return "moderately dynamic"
	default:
		return "noise-like or transient"
	}
}

// =============================================================================
// Report Writers
// =============================================================================

// writeSection writes a section header with title and dashed underline.
// The underline length matches the title length.
func writeSection(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("-", len(title)))
}

// ReportData contains all the information needed to generate an analysis report
type ReportData struct {
	UnitName   string
	LogPath    string // Defaults to <unit>-analysis.log in the working directory
	WAVPath    string // Exported audio, if any
	StartTime  time.Time
	EndTime    time.Time
	Result     *processor.ProcessingResult
	Hints      []Hint
	LocalMains int // Hz
}

// Path returns the file the report is written to.
func (d ReportData) Path() string {
	if d.LogPath != "" {
		return d.LogPath
	}
	return sanitiseName(d.UnitName) + "-analysis.log"
}

// sanitiseName reduces a unit name or script path to a safe file stem.
func sanitiseName(name string) string {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if stem == "" || stem == "." || stem == string(filepath.Separator) {
		return "unit"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, stem)
}

// GenerateReport creates a detailed analysis report at data.Path().
//
// Report structure:
// 1. Header - unit name and timestamp
// 2. Render Summary - timing and render geometry
// 3. Levels - one column per channel plus the mono mix
// 4. Waveforms - glyph strings
// 5. Spectrum - dominant frequency
// 6. Parameters - control values used for the render
// 7. Hints - prioritised diagnostics
func GenerateReport(data ReportData) error {
	if data.Result == nil {
		return fmt.Errorf("no render result to report")
	}

	f, err := os.Create(data.Path())
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}
	defer f.Close()

	writeReportHeader(f, data)
	writeRenderSummary(f, data)
	writeLevelsTable(f, data.Result)
	writeWaveforms(f, data.Result)
	writeSpectrum(f, data.Result, data.LocalMains)
	writeParameters(f, data.Result)
	writeHints(f, data.Hints)

	return nil
}

// formatDuration formats a duration in a human-readable way
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000)
	}
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}

	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes < 60 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}

	hours := minutes / 60
	minutes = minutes % 60
	return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
}

// durationOf returns the rendered length of r.
func durationOf(r *processor.ProcessingResult) time.Duration {
	return time.Duration(r.Duration() * float64(time.Second))
}

// channelName returns a human-readable channel name
func channelName(channels int) string {
	switch channels {
	case 0:
		return "none"
	case 1:
		return "mono"
	case 2:
		return "stereo"
	default:
		return fmt.Sprintf("%d channels", channels)
	}
}

// writeReportHeader outputs the report header with unit name and timestamp.
func writeReportHeader(w io.Writer, data ReportData) {
	fmt.Fprintln(w, "Unitprobe Analysis Report")
	fmt.Fprintln(w, "=========================")
	fmt.Fprintf(w, "Unit: %s\n", data.UnitName)
	fmt.Fprintf(w, "Rendered: %s\n", data.EndTime.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "Duration: %s\n", formatDuration(durationOf(data.Result)))
	if data.WAVPath != "" {
		fmt.Fprintf(w, "Audio: %s\n", data.WAVPath)
	}
	fmt.Fprintln(w, "")
}

// writeRenderSummary outputs render timing and geometry.
func writeRenderSummary(w io.Writer, data ReportData) {
	r := data.Result
	writeSection(w, "Render Summary")

	fmt.Fprintf(w, "Sample Rate:  %d Hz\n", r.SampleRate)
	fmt.Fprintf(w, "Samples:      %d per channel\n", r.TotalSamples)
	fmt.Fprintf(w, "Blocks:       %d x %d frames\n", r.Blocks, r.BlockSize)
	fmt.Fprintf(w, "Inputs:       %s\n", channelName(r.NumInputs))
	fmt.Fprintf(w, "Outputs:      %s\n", channelName(r.NumOutputs))
	fmt.Fprintf(w, "Render:       %s", formatDuration(r.RenderTime))
	if r.RenderTime > 0 {
		rtf := r.Duration() / r.RenderTime.Seconds()
		fmt.Fprintf(w, " (%.0fx real-time)", rtf)
	}
	fmt.Fprintln(w, "")

	if !data.StartTime.IsZero() && !data.EndTime.IsZero() {
		fmt.Fprintf(w, "Total:        %s\n", formatDuration(data.EndTime.Sub(data.StartTime)))
	}
	fmt.Fprintln(w, "")
}

// channelResults returns the mono mix followed by every channel, matching
// ChannelHeaders.
func channelResults(r *processor.ProcessingResult) []processor.ChannelResult {
	all := make([]processor.ChannelResult, 0, len(r.Channels)+1)
	all = append(all, r.Mono)
	return append(all, r.Channels...)
}

// writeLevelsTable outputs the per-channel level table.
func writeLevelsTable(w io.Writer, r *processor.ProcessingResult) {
	writeSection(w, "Levels")

	results := channelResults(r)
	peaks := make([]float64, len(results))
	rms := make([]float64, len(results))
	crest := make([]float64, len(results))
	dc := make([]float64, len(results))
	silent := make([]string, len(results))
	for i, ch := range results {
		peaks[i] = float64(ch.Peak)
		rms[i] = float64(ch.RMS)
		crest[i] = math.NaN()
		if !ch.Silent && ch.RMS > 0 {
			crest[i] = ch.PeakDB() - ch.RMSDB()
		}
		dc[i] = float64(ch.Mean)
		silent[i] = formatSilent(ch.Silent)
	}

	table := NewMetricTable(ChannelHeaders(r.NumOutputs)...)
	table.AddMetricRow("Peak Level", peaks, formatMetricPeak, 1, "dBFS", interpretPeak(r.Mono.PeakDB()))
	table.AddMetricRow("RMS Level", rms, formatMetricPeak, 1, "dBFS", "")
	table.AddMetricRow("Peak", peaks, formatMetric, 6, "", "")
	table.AddMetricRow("RMS", rms, formatMetric, 6, "", "")
	table.AddMetricRow("Crest Factor", crest, formatMetric, 1, "dB", interpretCrest(crest[0]))
	table.AddMetricRow("DC Offset", dc, formatMetricSigned, 4, "", "")
	table.AddRow("Silent", silent, "", "")

	fmt.Fprint(w, table.String())
	fmt.Fprintln(w, "")
}

// writeWaveforms outputs the glyph string of every channel.
func writeWaveforms(w io.Writer, r *processor.ProcessingResult) {
	writeSection(w, fmt.Sprintf("Waveforms (%d glyphs)", r.WaveformWidth))

	headers := ChannelHeaders(r.NumOutputs)
	for i, ch := range channelResults(r) {
		fmt.Fprintf(w, "%-5s  %s\n", headers[i], ch.Waveform)
	}
	fmt.Fprintln(w, "")
}

// writeSpectrum outputs the dominant frequency of the mono mix.
func writeSpectrum(w io.Writer, r *processor.ProcessingResult, localMains int) {
	writeSection(w, "Spectrum")

	switch {
	case r.Mono.Silent:
		fmt.Fprintf(w, "Dominant:     %s (silent)\n", SpectralSilenceValue)
	case r.DominantHz <= 0:
		fmt.Fprintf(w, "Dominant:     %s (no tonal peak)\n", SpectralSilenceValue)
	default:
		fmt.Fprintf(w, "Dominant:     %s\n", formatMetricWithUnit(r.DominantHz, 1, "Hz"))
	}
	fmt.Fprintf(w, "Local Mains:  %d Hz\n", localMains)
	fmt.Fprintln(w, "")
}

// SpectralSilenceValue is the placeholder for spectral metrics when no
// spectrum could be measured.
const SpectralSilenceValue = "n/a"

// writeParameters outputs every control and the value used for the render.
func writeParameters(w io.Writer, r *processor.ProcessingResult) {
	writeSection(w, "Parameters")

	if len(r.Params) == 0 {
		fmt.Fprintln(w, "No parameters")
		fmt.Fprintln(w, "")
		return
	}

	width := 0
	for _, p := range r.Params {
		width = max(width, len(p.Path))
	}
	for _, p := range r.Params {
		fmt.Fprintf(w, "%-*s  %g", width, p.Path, p.Value())
		if p.Max > p.Min {
			fmt.Fprintf(w, "  [%g .. %g]", p.Min, p.Max)
		}
		if p.Value() != p.Init {
			fmt.Fprintf(w, "  (default %g)", p.Init)
		}
		fmt.Fprintln(w, "")
	}
	fmt.Fprintln(w, "")
}

// writeHints outputs the diagnostic hints as a numbered list.
func writeHints(w io.Writer, hints []Hint) {
	writeSection(w, "Hints")

	if len(hints) == 0 {
		fmt.Fprintln(w, "No issues found")
		return
	}
	for i, h := range hints {
		fmt.Fprintf(w, "%d. %s\n", i+1, wrapText(h.Message, 72, "   "))
	}
}
