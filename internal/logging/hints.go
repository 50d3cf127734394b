package logging

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/linuxmatters/unitprobe/internal/mains"
	"github.com/linuxmatters/unitprobe/internal/processor"
)

// Hint is a single piece of actionable advice derived from render measurements.
type Hint struct {
	Priority int    // Higher = more important (1-10)
	Message  string // Human-readable advice (1-2 sentences)
	RuleID   string // Identifier for testing/logging (e.g., "silent_output")
}

// MaxHints is the maximum number of hints to return.
const MaxHints = 5

// Rule thresholds.
const (
	nearClippingLinear = 0.891 // -1 dBFS
	veryQuietLinear    = 0.01  // -40 dBFS
	dcOffsetLinear     = 0.05
	imbalanceDB        = 6.0
	humToleranceHz     = 1.5
)

// hintRule inspects a result and returns a hint or nil. localMains is the
// local grid frequency in Hz.
type hintRule func(r *processor.ProcessingResult, localMains int) *Hint

// GenerateHints analyses render results and returns prioritised diagnostics.
func GenerateHints(r *processor.ProcessingResult, localMains int) []Hint {
	if r == nil {
		return nil
	}

	var hints []Hint
	firedRules := make(map[string]bool)

	rules := []hintRule{
		hintNoOutputs,
		hintSilentOutput,
		hintCancelledMix,
		hintNonFinite,
		hintClipping,
		hintNearClipping,
		hintSilentChannel,
		hintDCOffset,
		hintMainsHum,
		hintImbalance,
		hintVeryQuiet,
	}

	for _, rule := range rules {
		if hint := rule(r, localMains); hint != nil {
			hints = append(hints, *hint)
			firedRules[hint.RuleID] = true
		}
	}

	hints = applyExclusions(hints, firedRules)

	sort.SliceStable(hints, func(i, j int) bool {
		return hints[i].Priority > hints[j].Priority
	})

	if len(hints) > MaxHints {
		hints = hints[:MaxHints]
	}

	return hints
}

// applyExclusions removes hints that are redundant when a more specific hint
// has already fired. For example, "near_clipping" is suppressed when
// "clipping" fires because the latter already implies the former.
func applyExclusions(hints []Hint, fired map[string]bool) []Hint {
	var result []Hint
	for _, hint := range hints {
		switch hint.RuleID {
		case "near_clipping":
			if fired["clipping"] {
				continue
			}
		case "very_quiet", "silent_channel":
			if fired["silent_output"] || fired["cancelled_mix"] {
				continue
			}
		case "clipping", "dc_offset":
			if fired["non_finite"] {
				continue
			}
		}
		result = append(result, hint)
	}
	return result
}

// wrapText wraps text at word boundaries to fit within maxWidth columns.
// Continuation lines are prefixed with indent.
func wrapText(text string, maxWidth int, indent string) string {
	words := strings.Fields(text)
	var lines []string
	currentLine := ""

	for _, word := range words {
		if currentLine == "" {
			currentLine = word
		} else if len(currentLine)+1+len(word) <= maxWidth {
			currentLine += " " + word
		} else {
			lines = append(lines, currentLine)
			currentLine = word
		}
	}
	if currentLine != "" {
		lines = append(lines, currentLine)
	}

	return strings.Join(lines, "\n"+indent)
}

// hintNoOutputs fires when the unit declares zero output channels.
func hintNoOutputs(r *processor.ProcessingResult, _ int) *Hint {
	if r.NumOutputs > 0 {
		return nil
	}
	return &Hint{
		Priority: 9,
		RuleID:   "no_outputs",
		Message:  "The unit declares no output channels, so there is nothing to measure. Check the unit's output count.",
	}
}

// hintSilentOutput fires when every output channel stayed under the silence
// threshold.
func hintSilentOutput(r *processor.ProcessingResult, _ int) *Hint {
	if r.NumOutputs == 0 || !r.Mono.Silent {
		return nil
	}
	for _, ch := range r.Channels {
		if !ch.Silent {
			return nil
		}
	}
	return &Hint{
		Priority: 10,
		RuleID:   "silent_output",
		Message:  "The unit produced silence on every channel. Check gain parameters and that the unit generates signal without input.",
	}
}

// hintCancelledMix fires when channels carry signal but the mono mix is
// silent, meaning the channels are polarity-inverted copies.
func hintCancelledMix(r *processor.ProcessingResult, _ int) *Hint {
	if !r.Mono.Silent || r.NumOutputs < 2 {
		return nil
	}
	for _, ch := range r.Channels {
		if ch.Silent {
			return nil
		}
	}
	return &Hint{
		Priority: 8,
		RuleID:   "cancelled_mix",
		Message:  "Every channel carries signal but the mono mix is silent. The channels cancel each other out, check for an inverted polarity.",
	}
}

// hintNonFinite fires when NaN or infinite samples reached the metrics.
func hintNonFinite(r *processor.ProcessingResult, _ int) *Hint {
	bad := nonFinite(r.Mono)
	for _, ch := range r.Channels {
		bad = bad || nonFinite(ch)
	}
	if !bad {
		return nil
	}
	return &Hint{
		Priority: 10,
		RuleID:   "non_finite",
		Message:  "The output contains NaN or infinite samples. Look for a division by zero or an unstable feedback path in the unit.",
	}
}

func nonFinite(ch processor.ChannelResult) bool {
	for _, v := range []float32{ch.Peak, ch.RMS, ch.Mean} {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return true
		}
	}
	return false
}

// hintClipping fires when any channel exceeds digital full scale.
func hintClipping(r *processor.ProcessingResult, _ int) *Hint {
	peak := maxChannelPeak(r)
	if peak <= 1.0 {
		return nil
	}
	return &Hint{
		Priority: 9,
		RuleID:   "clipping",
		Message: fmt.Sprintf("The output peaks at %s dBFS, above full scale, and will clip when converted to fixed point. Reduce the unit's gain.",
			formatMetricPeak(peak, 1)),
	}
}

// hintNearClipping fires when the peak is within 1 dB of full scale.
func hintNearClipping(r *processor.ProcessingResult, _ int) *Hint {
	peak := maxChannelPeak(r)
	if peak < nearClippingLinear || peak > 1.0 {
		return nil
	}
	return &Hint{
		Priority: 5,
		RuleID:   "near_clipping",
		Message:  "The output peaks within 1 dB of full scale. Leave some headroom for downstream processing.",
	}
}

func maxChannelPeak(r *processor.ProcessingResult) float64 {
	peak := float64(r.Mono.Peak)
	for _, ch := range r.Channels {
		peak = math.Max(peak, float64(ch.Peak))
	}
	return peak
}

// hintSilentChannel fires when some, but not all, channels are silent.
func hintSilentChannel(r *processor.ProcessingResult, _ int) *Hint {
	var silent []string
	for _, ch := range r.Channels {
		if ch.Silent {
			silent = append(silent, fmt.Sprintf("%d", ch.Index))
		}
	}
	if len(silent) == 0 || len(silent) == len(r.Channels) {
		return nil
	}
	return &Hint{
		Priority: 6,
		RuleID:   "silent_channel",
		Message:  fmt.Sprintf("Channel %s is silent while others carry signal. Check the unit's channel routing.", strings.Join(silent, ", ")),
	}
}

// hintDCOffset fires when the mix carries a large constant offset.
func hintDCOffset(r *processor.ProcessingResult, _ int) *Hint {
	if r.Mono.Silent || math.Abs(float64(r.Mono.Mean)) <= dcOffsetLinear {
		return nil
	}
	return &Hint{
		Priority: 6,
		RuleID:   "dc_offset",
		Message: fmt.Sprintf("The output has a DC offset of %s. Add a DC blocker or high-pass filter after the unit.",
			formatMetricSigned(float64(r.Mono.Mean), 3)),
	}
}

// hintMainsHum fires when the dominant frequency sits on the mains grid
// frequency or one of its low harmonics.
func hintMainsHum(r *processor.ProcessingResult, localMains int) *Hint {
	if r.Mono.Silent || r.DominantHz <= 0 {
		return nil
	}
	fundamental, ok := mains.IsHum(r.DominantHz, humToleranceHz, localMains)
	if !ok {
		return nil
	}
	return &Hint{
		Priority: 7,
		RuleID:   "mains_hum",
		Message: fmt.Sprintf("The dominant frequency is %.1f Hz, a harmonic of %d Hz mains. If this unit should not hum, look for an oscillator tuned to the grid frequency.",
			r.DominantHz, fundamental),
	}
}

// hintImbalance fires when two non-silent channels differ in RMS by more
// than imbalanceDB.
func hintImbalance(r *processor.ProcessingResult, _ int) *Hint {
	lo, hi := math.Inf(1), math.Inf(-1)
	active := 0
	for _, ch := range r.Channels {
		if ch.Silent {
			continue
		}
		db := ch.RMSDB()
		lo = math.Min(lo, db)
		hi = math.Max(hi, db)
		active++
	}
	if active < 2 || hi-lo <= imbalanceDB {
		return nil
	}
	return &Hint{
		Priority: 4,
		RuleID:   "channel_imbalance",
		Message:  fmt.Sprintf("Channel levels differ by %.1f dB RMS. Check the unit's per-channel gain.", hi-lo),
	}
}

// hintVeryQuiet fires when the output carries signal but stays below -40 dBFS.
func hintVeryQuiet(r *processor.ProcessingResult, _ int) *Hint {
	peak := maxChannelPeak(r)
	if r.NumOutputs == 0 || peak < processor.SilenceThreshold || peak >= veryQuietLinear {
		return nil
	}
	return &Hint{
		Priority: 5,
		RuleID:   "very_quiet",
		Message: fmt.Sprintf("The output peaks at only %s dBFS. Raise the unit's gain if it is meant to be audible.",
			formatMetricPeak(peak, 1)),
	}
}
