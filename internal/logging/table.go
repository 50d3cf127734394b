// Package logging renders human-readable analysis of a render: console
// summaries, the analysis log file and diagnostic hints.
// This file contains the table formatting shared by both outputs, one column
// per output channel plus the mono mix.

package logging

import (
	"fmt"
	"math"
	"strings"
)

// MetricRow represents a single row in a comparison table.
// Values are pre-formatted strings to allow for mixed formatting (decimals, scientific notation).
type MetricRow struct {
	Label          string   // Row label, e.g., "Peak Level"
	Values         []string // One value per column (Mono, Ch 0, Ch 1, ...)
	Unit           string   // Unit suffix, e.g., "dBFS", "Hz", "" for unitless
	Interpretation string   // Optional interpretation text (only shown if non-empty)
}

// MetricTable formats aligned columns for metric comparison.
// Handles variable column widths, missing values, and optional interpretation column.
type MetricTable struct {
	Headers []string    // Column headers, e.g., ["Mono", "Ch 0", "Ch 1"]
	Rows    []MetricRow // Data rows
}

// String renders the table with aligned columns.
// - Labels are left-aligned
// - Numeric values are right-aligned within their column
// - Units are appended after the last value column
// - Interpretation column only shown if any row has one
func (t *MetricTable) String() string {
	if len(t.Rows) == 0 {
		return ""
	}

	// Determine if we need an interpretation column
	hasInterpretation := false
	for _, row := range t.Rows {
		if row.Interpretation != "" {
			hasInterpretation = true
			break
		}
	}

	// Calculate column widths
	// Column 0: Label
	// Columns 1-N: Values (one per header)
	// Column N+1: Unit (if any rows have units)
	// Column N+2: Interpretation (if any rows have interpretations)

	labelWidth := 0
	for _, row := range t.Rows {
		if len(row.Label) > labelWidth {
			labelWidth = len(row.Label)
		}
	}

	// Value column widths (one per header)
	valueWidths := make([]int, len(t.Headers))
	for i, header := range t.Headers {
		valueWidths[i] = len(header) // Start with header width
	}
	for _, row := range t.Rows {
		for i, val := range row.Values {
			if i < len(valueWidths) && len(val) > valueWidths[i] {
				valueWidths[i] = len(val)
			}
		}
	}

	// Unit width (find max unit length)
	unitWidth := 0
	for _, row := range t.Rows {
		if len(row.Unit) > unitWidth {
			unitWidth = len(row.Unit)
		}
	}

	// Build output
	var sb strings.Builder

	// Header row
	sb.WriteString(strings.Repeat(" ", labelWidth+2)) // Label column + gap
	for i, header := range t.Headers {
		sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], header))
	}
	if unitWidth > 0 {
		sb.WriteString(strings.Repeat(" ", unitWidth+1)) // Unit column placeholder
	}
	if hasInterpretation {
		sb.WriteString("Interpretation")
	}
	sb.WriteString("\n")

	// Data rows
	for _, row := range t.Rows {
		// Label (left-aligned)
		sb.WriteString(fmt.Sprintf("%-*s  ", labelWidth, row.Label))

		// Values (right-aligned within their columns)
		for i := 0; i < len(t.Headers); i++ {
			val := MissingValue
			if i < len(row.Values) && row.Values[i] != "" {
				val = row.Values[i]
			}
			sb.WriteString(fmt.Sprintf("%*s  ", valueWidths[i], val))
		}

		// Unit (left-aligned, after values)
		if unitWidth > 0 {
			sb.WriteString(fmt.Sprintf("%-*s ", unitWidth, row.Unit))
		}

		// Interpretation (left-aligned, if present)
		if hasInterpretation {
			sb.WriteString(row.Interpretation)
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// =============================================================================
// Metric Formatting Helpers
// =============================================================================

// MissingValue is the placeholder for unavailable measurements
const MissingValue = "-"

// DigitalSilenceThreshold is the dBFS level at or below which a signal is
// shown as digital silence. It matches the floor of processor.LinearToDb.
const DigitalSilenceThreshold = -120.0

// isDigitalSilence returns true if the value represents digital silence (true zero or below threshold).
func isDigitalSilence(value float64) bool {
	return math.IsInf(value, -1) || value <= DigitalSilenceThreshold
}

// formatMetric formats a numeric value with appropriate precision.
// Handles:
// - Regular floats: formatted to specified decimal places
// - Very small values (< 0.0001): scientific notation
// - NaN/Inf: returns MissingValue
func formatMetric(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return MissingValue
	}

	if value != 0 && math.Abs(value) < 0.0001 {
		return fmt.Sprintf("%.2e", value)
	}

	return fmt.Sprintf("%.*f", decimals, value)
}

// formatMetricDB formats a dB value with special handling for digital silence.
// Shows "< -120" for values at or below the floor.
func formatMetricDB(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 1) {
		return MissingValue
	}
	if isDigitalSilence(value) {
		return "< -120"
	}
	return fmt.Sprintf("%.*f", decimals, value)
}

// formatMetricPeak formats a linear amplitude (0.0-1.0 scale) in dBFS.
// For digital silence (amplitude = 0), shows "< -120" instead of -Inf.
func formatMetricPeak(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return MissingValue
	}
	if value <= 0 {
		return "< -120"
	}
	dB := 20.0 * math.Log10(value)
	if dB < DigitalSilenceThreshold {
		return "< -120"
	}
	return fmt.Sprintf("%.*f", decimals, dB)
}

// formatMetricSigned formats a value with explicit sign for positive values.
// Useful for offsets like "+0.012" or "-0.250".
func formatMetricSigned(value float64, decimals int) string {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return MissingValue
	}
	return fmt.Sprintf("%+.*f", decimals, value)
}

// formatMetricWithUnit combines value and unit for display.
// Returns "value unit" if unit is non-empty, otherwise just "value".
func formatMetricWithUnit(value float64, decimals int, unit string) string {
	formatted := formatMetric(value, decimals)
	if formatted == MissingValue || unit == "" {
		return formatted
	}
	return formatted + " " + unit
}

// formatSilent renders a silence flag as a table cell.
func formatSilent(silent bool) string {
	if silent {
		return "yes"
	}
	return "no"
}

// =============================================================================
// Table Builder Helpers
// =============================================================================

// ChannelHeaders returns the column headers for a render with the given
// number of outputs: the mono mix first, then one column per channel.
func ChannelHeaders(outputs int) []string {
	headers := make([]string, 0, outputs+1)
	headers = append(headers, "Mono")
	for c := 0; c < outputs; c++ {
		headers = append(headers, fmt.Sprintf("Ch %d", c))
	}
	return headers
}

// NewMetricTable creates a new MetricTable with the given column headers.
func NewMetricTable(headers ...string) *MetricTable {
	return &MetricTable{
		Headers: headers,
		Rows:    make([]MetricRow, 0),
	}
}

// AddRow adds a row to the table with pre-formatted values.
func (t *MetricTable) AddRow(label string, values []string, unit string, interpretation string) {
	t.Rows = append(t.Rows, MetricRow{
		Label:          label,
		Values:         values,
		Unit:           unit,
		Interpretation: interpretation,
	})
}

// AddMetricRow adds a row with numeric values, one per column, formatting
// them with format. Pass math.NaN() for missing values - they display as "-".
func (t *MetricTable) AddMetricRow(label string, values []float64, format func(float64, int) string, decimals int, unit string, interpretation string) {
	formatted := make([]string, len(values))
	for i, v := range values {
		formatted[i] = format(v, decimals)
	}
	t.AddRow(label, formatted, unit, interpretation)
}
