package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/linuxmatters/unitprobe/internal/processor"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#00AAAA") // Unitprobe teal
	accentColor  = lipgloss.Color("#FFA500")
	mutedColor   = lipgloss.Color("#888888")
	emptyColor   = lipgloss.Color("#444444")
	okColor      = lipgloss.Color("#00AA00")
	errorColor   = lipgloss.Color("#A40000")
)

// renderRenderView renders the in-progress view
func renderRenderView(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	spinner := lipgloss.NewStyle().Foreground(primaryColor).Render(spinnerFrames[m.spinnerIndex])

	switch m.Status {
	case StatusWaiting:
		b.WriteString(spinner)
		b.WriteString(" Initialising unit...")
	default:
		b.WriteString(renderDetails(m, spinner))
	}
	b.WriteString("\n")

	return b.String()
}

// renderHeader renders the application header
func renderHeader(m Model) string {
	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(primaryColor).
		Render("Unitprobe")

	subtitle := lipgloss.NewStyle().
		Foreground(mutedColor).
		Italic(true).
		Render("Offline unit render")

	return title + " " + subtitle
}

// renderDetails renders the progress box for the active render
func renderDetails(m Model, spinner string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(primaryColor).
		Padding(0, 1).
		Width(boxWidth(m.Width))

	var content strings.Builder

	unitStyle := lipgloss.NewStyle().Bold(true)
	content.WriteString("Rendering: ")
	content.WriteString(unitStyle.Render(m.UnitName))
	if m.SampleRate > 0 {
		seconds := float64(m.TotalSamples) / float64(m.SampleRate)
		content.WriteString(fmt.Sprintf(" (%.2fs @ %d Hz)", seconds, m.SampleRate))
	}
	content.WriteString("\n\n")

	content.WriteString(spinner)
	content.WriteString(" ")
	content.WriteString(renderProgressBar(m.Progress, 40, m.ElapsedTime))
	content.WriteString("\n")

	if m.Progress > 0 {
		content.WriteString(fmt.Sprintf("\nLevel: %s | Peak: %s",
			formatLevel(m.CurrentLevel), formatLevel(m.PeakLevel)))
	}

	return box.Render(content.String())
}

// boxWidth fits the progress box to the terminal, capped at 60 columns
func boxWidth(termWidth int) int {
	if termWidth > 0 && termWidth-2 < 60 {
		return max(termWidth-2, 20)
	}
	return 60
}

// renderProgressBar renders a progress bar with percentage and elapsed time
func renderProgressBar(progress float64, width int, elapsed time.Duration) string {
	progress = min(max(progress, 0), 1)
	filled := int(progress * float64(width))
	empty := width - filled

	filledStyle := lipgloss.NewStyle().Foreground(primaryColor)
	emptyStyle := lipgloss.NewStyle().Foreground(emptyColor)

	bar := filledStyle.Render(strings.Repeat("━", filled)) +
		emptyStyle.Render(strings.Repeat("━", empty))

	percentage := int(progress * 100)

	return fmt.Sprintf("%s %3d%% [%s]", bar, percentage, formatElapsed(elapsed))
}

// renderCompletion renders the final line once the render has finished
func renderCompletion(m Model) string {
	var b strings.Builder

	if m.Status == StatusError {
		icon := lipgloss.NewStyle().Foreground(errorColor).Render("✗")
		b.WriteString(fmt.Sprintf(" %s %s\n   Error: %v\n", icon, m.UnitName, m.Error))
		return b.String()
	}

	icon := lipgloss.NewStyle().Foreground(okColor).Render("✓")
	b.WriteString(fmt.Sprintf(" %s %s rendered in %s\n", icon, m.UnitName, formatElapsed(m.ElapsedTime)))

	if r := m.Result; r != nil {
		b.WriteString(renderChannelLine("mono", r.Mono))
		for _, ch := range r.Channels {
			b.WriteString(renderChannelLine(fmt.Sprintf("ch %d", ch.Index), ch))
		}
	}
	return b.String()
}

// renderChannelLine renders one channel's summary with its waveform
func renderChannelLine(label string, ch processor.ChannelResult) string {
	waveStyle := lipgloss.NewStyle().Foreground(accentColor)
	if ch.Silent {
		waveStyle = lipgloss.NewStyle().Foreground(mutedColor)
	}
	return fmt.Sprintf("   %-5s %s  peak %s  rms %s\n",
		label, waveStyle.Render(ch.Waveform), formatLevel(ch.PeakDB()), formatLevel(ch.RMSDB()))
}

// formatLevel formats a dBFS level, showing the floor as silence
func formatLevel(db float64) string {
	if db <= processor.LinearToDb(0) {
		return "silent"
	}
	return fmt.Sprintf("%.1f dB", db)
}

// formatElapsed formats elapsed time as MM:SS or HH:MM:SS
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
