// Package cli provides styled console output for the unitprobe command
package cli

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	primaryColor = lipgloss.Color("#00AAAA") // Unitprobe teal
	errorColor   = lipgloss.Color("#A40000") // Red
	mutedColor   = lipgloss.Color("#888888") // Gray
	textColor    = lipgloss.Color("#FFFFFF") // White
)

// Styles
var (
	// Title style
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			MarginBottom(1)

	// Error message style
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(errorColor)

	// Key-value pair styles
	KeyStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	ValueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(textColor)
)

// PrintVersion prints version information
func PrintVersion(version string) {
	fmt.Println(TitleStyle.Render("Unitprobe"))
	fmt.Printf("%s %s\n", KeyStyle.Render("Version:"), ValueStyle.Render(version))
	fmt.Println()
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", ErrorStyle.Render("Error:"), message)
}

// PrintUnits lists the built-in units with their descriptions on stdout
func PrintUnits(names []string, describe func(string) string) {
	width := 0
	for _, name := range names {
		width = max(width, len(name))
	}

	fmt.Println(TitleStyle.Render("Built-in units"))
	for _, name := range names {
		fmt.Printf("  %s  %s\n", ValueStyle.Render(fmt.Sprintf("%-*s", width, name)), KeyStyle.Render(describe(name)))
	}
	fmt.Println()
}
