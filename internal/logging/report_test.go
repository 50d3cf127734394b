package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/linuxmatters/unitprobe/internal/processor"
	"github.com/linuxmatters/unitprobe/internal/unit"
)

func renderStereo(t *testing.T) *processor.ProcessingResult {
	t.Helper()
	r, err := processor.ProcessUnit(unit.NewStereo(), processor.DefaultRenderConfig(), nil)
	if err != nil {
		t.Fatalf("ProcessUnit failed: %v", err)
	}
	return r
}

func TestGenerateReport(t *testing.T) {
	r := renderStereo(t)
	logPath := filepath.Join(t.TempDir(), "stereo-analysis.log")

	end := time.Now()
	data := ReportData{
		UnitName:   "stereo",
		LogPath:    logPath,
		StartTime:  end.Add(-50 * time.Millisecond),
		EndTime:    end,
		Result:     r,
		Hints:      GenerateHints(r, 50),
		LocalMains: 50,
	}
	if err := GenerateReport(data); err != nil {
		t.Fatalf("GenerateReport failed: %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	report := string(content)

	for _, want := range []string{
		"Unitprobe Analysis Report",
		"Unit: stereo",
		"Render Summary",
		"Blocks:       345 x 256 frames",
		"Outputs:      stereo",
		"Levels",
		"Ch 1",
		"Waveforms (60 glyphs)",
		"Spectrum",
		"/stereo/left",
		"Hints",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report should contain %q", want)
		}
	}
}

func TestGenerateReportNilResult(t *testing.T) {
	err := GenerateReport(ReportData{UnitName: "x", LogPath: filepath.Join(t.TempDir(), "x.log")})
	if err == nil {
		t.Fatal("expected error for nil result")
	}
}

func TestReportDataPath(t *testing.T) {
	tests := []struct {
		name string
		data ReportData
		want string
	}{
		{"builtin", ReportData{UnitName: "sine"}, "sine-analysis.log"},
		{"script path", ReportData{UnitName: "scripts/my tone.lua"}, "my_tone-analysis.log"},
		{"explicit", ReportData{UnitName: "sine", LogPath: "/tmp/out.log"}, "/tmp/out.log"},
		{"empty", ReportData{}, "unit-analysis.log"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.data.Path(); got != tt.want {
				t.Errorf("Path() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplaySummary(t *testing.T) {
	r := renderStereo(t)

	var buf bytes.Buffer
	DisplaySummary(&buf, "stereo", r, nil, 50)
	out := buf.String()

	for _, want := range []string{
		"RENDER: stereo",
		"Sample Rate: 44100 Hz",
		"Channels:    none in, stereo out",
		"Peak Level",
		"Dominant:",
		"No issues found",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary should contain %q\n%s", want, out)
		}
	}
	// Every waveform line carries the full glyph string
	if strings.Count(out, r.Mono.Waveform) < 1 {
		t.Error("summary should contain the mono waveform")
	}
}

func TestDisplaySummarySilence(t *testing.T) {
	u, err := unit.New("silence")
	if err != nil {
		t.Fatalf("unit.New failed: %v", err)
	}
	r, err := processor.ProcessUnit(u, processor.DefaultRenderConfig(), nil)
	if err != nil {
		t.Fatalf("ProcessUnit failed: %v", err)
	}

	var buf bytes.Buffer
	DisplaySummary(&buf, "silence", r, GenerateHints(r, 50), 50)
	out := buf.String()

	if !strings.Contains(out, "< -120") {
		t.Error("silent peak should display as digital silence")
	}
	if !strings.Contains(out, "n/a (silent)") {
		t.Error("spectrum should be unavailable for silence")
	}
	if !strings.Contains(out, strings.Repeat("_", 60)) {
		t.Error("silent waveform should be all underscores")
	}
}

func TestInterpretCrest(t *testing.T) {
	tests := []struct {
		crest float64
		want  string
	}{
		{0, "square-like or constant"},
		{3.01, "sine-like"},
		{6, "moderately dynamic"},
		{12, "noise-like or transient"},
	}
	for _, tt := range tests {
		if got := interpretCrest(tt.crest); got != tt.want {
			t.Errorf("interpretCrest(%v) = %q, want %q", tt.crest, got, tt.want)
		}
	}
}
