// Package logging handles generation of analysis reports for rendered units.
// This file provides the console display for --summary.

package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/linuxmatters/unitprobe/internal/processor"
)

// DisplaySummary writes a human-readable analysis of a render to w.
// The CLI sends it to stderr so stdout carries only the JSON report.
func DisplaySummary(w io.Writer, unitName string, result *processor.ProcessingResult, hints []Hint, localMains int) {
	// Header
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintf(w, "RENDER: %s\n", unitName)
	fmt.Fprintln(w, strings.Repeat("=", 70))

	fmt.Fprintf(w, "Duration:    %s\n", formatDuration(durationOf(result)))
	fmt.Fprintf(w, "Sample Rate: %d Hz\n", result.SampleRate)
	fmt.Fprintf(w, "Channels:    %s in, %s out\n", channelName(result.NumInputs), channelName(result.NumOutputs))
	fmt.Fprintln(w)

	writeLevelsTable(w, result)
	writeWaveforms(w, result)
	writeSpectrum(w, result, localMains)
	if len(result.Params) > 0 {
		writeParameters(w, result)
	}
	writeHints(w, hints)
}
