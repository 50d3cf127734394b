package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

type helpTestCLI struct {
	Duration float64 `default:"2" help:"Seconds to render"`
	Summary  bool    `help:"Print a summary"`
	Unit     string  `arg:"" optional:"" help:"Built-in unit name"`
}

func TestStyledHelpPrinter(t *testing.T) {
	var buf bytes.Buffer
	parser, err := kong.New(&helpTestCLI{},
		kong.Name("unitprobe"),
		kong.Description("Render a unit offline"),
		kong.Writers(&buf, &buf),
		kong.Exit(func(int) {}),
		kong.Help(StyledHelpPrinter(kong.HelpOptions{Compact: true},
			HelpSection{Title: "Units", Lines: []string{"sine  Sine oscillator"}},
		)),
	)
	if err != nil {
		t.Fatalf("kong.New failed: %v", err)
	}

	_, _ = parser.Parse([]string{"--help"})
	out := buf.String()

	for _, want := range []string{
		"Unitprobe",
		"Render a unit offline",
		"unitprobe [flags] [<unit>]",
		"Arguments:",
		"Built-in unit name",
		"-h, --help",
		"--duration",
		"(default: 2)",
		"--summary",
		"Units:",
		"sine  Sine oscillator",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("help output should contain %q:\n%s", want, out)
		}
	}
}
