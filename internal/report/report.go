// Package report builds the machine-readable analysis report written to
// stdout after a render.
package report

import (
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/linuxmatters/unitprobe/internal/processor"
)

// StatusSuccess is the only status a written report carries. Failures never
// produce a report.
const StatusSuccess = "success"

// Channel is the report entry for one output channel.
type Channel struct {
	Index         int
	MaxAmplitude  float32
	RMS           float32
	IsSilent      bool
	WaveformASCII string
}

// Report is the snapshot of one render's analysis.
type Report struct {
	Status        string
	MaxAmplitude  float32
	RMS           float32
	IsSilent      bool
	WaveformASCII string
	NumOutputs    int
	Channels      []Channel
}

// Build snapshots result into a Report.
func Build(result *processor.ProcessingResult) *Report {
	r := &Report{
		Status:        StatusSuccess,
		MaxAmplitude:  result.Mono.Peak,
		RMS:           result.Mono.RMS,
		IsSilent:      result.Mono.Silent,
		WaveformASCII: result.Mono.Waveform,
		NumOutputs:    result.NumOutputs,
		Channels:      make([]Channel, len(result.Channels)),
	}
	for i, ch := range result.Channels {
		r.Channels[i] = Channel{
			Index:         ch.Index,
			MaxAmplitude:  ch.Peak,
			RMS:           ch.RMS,
			IsSilent:      ch.Silent,
			WaveformASCII: ch.Waveform,
		}
	}
	return r
}

// Write emits r as a single JSON object with two-space indentation and a
// fixed key order. Non-finite floats are written as NaN, Infinity and
// -Infinity, which Python's json module accepts.
func (r *Report) Write(w io.Writer) error {
	var sb strings.Builder

	sb.WriteString("{\n")
	writeField(&sb, 1, "status", quote(r.Status), true)
	writeField(&sb, 1, "max_amplitude", formatFloat(r.MaxAmplitude), true)
	writeField(&sb, 1, "rms", formatFloat(r.RMS), true)
	writeField(&sb, 1, "is_silent", strconv.FormatBool(r.IsSilent), true)
	writeField(&sb, 1, "waveform_ascii", quote(r.WaveformASCII), true)
	writeField(&sb, 1, "num_outputs", strconv.Itoa(r.NumOutputs), true)

	if len(r.Channels) == 0 {
		writeField(&sb, 1, "channels", "[]", false)
	} else {
		sb.WriteString("  \"channels\": [\n")
		for i, ch := range r.Channels {
			sb.WriteString("    {\n")
			writeField(&sb, 3, "index", strconv.Itoa(ch.Index), true)
			writeField(&sb, 3, "max_amplitude", formatFloat(ch.MaxAmplitude), true)
			writeField(&sb, 3, "rms", formatFloat(ch.RMS), true)
			writeField(&sb, 3, "is_silent", strconv.FormatBool(ch.IsSilent), true)
			writeField(&sb, 3, "waveform_ascii", quote(ch.WaveformASCII), false)
			sb.WriteString("    }")
			if i < len(r.Channels)-1 {
				sb.WriteByte(',')
			}
			sb.WriteByte('\n')
		}
		sb.WriteString("  ]\n")
	}
	sb.WriteString("}\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeField(sb *strings.Builder, depth int, key, value string, more bool) {
	sb.WriteString(strings.Repeat("  ", depth))
	sb.WriteString(quote(key))
	sb.WriteString(": ")
	sb.WriteString(value)
	if more {
		sb.WriteByte(',')
	}
	sb.WriteByte('\n')
}

// formatFloat writes v with six significant digits, shortest form.
func formatFloat(v float32) string {
	f := float64(v)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(f, 'g', 6, 32)
}

// quote writes s as a JSON string. Keys and glyphs are ASCII, for which Go's
// quoting is valid JSON.
func quote(s string) string {
	return strconv.Quote(s)
}
