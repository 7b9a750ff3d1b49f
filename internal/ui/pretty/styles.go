// Package pretty provides Lipgloss-based styled output utilities.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// ColorEnabled records the mode the styles were built for.
	ColorEnabled bool

	// Status styles
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
	Success lipgloss.Style
	Failure lipgloss.Style

	// Markdown block styles
	Heading    lipgloss.Style
	Subheading lipgloss.Style
	Quote      lipgloss.Style
	QuoteBar   lipgloss.Style
	ListMarker lipgloss.Style
	Rule       lipgloss.Style
	MathBlock  lipgloss.Style
	Fallback   lipgloss.Style

	// Markdown inline styles
	Emphasis   lipgloss.Style
	Strong     lipgloss.Style
	Strike     lipgloss.Style
	InlineCode lipgloss.Style
	Link       lipgloss.Style
	LinkURL    lipgloss.Style
	Math       lipgloss.Style

	// Code block styles
	CodeTitle  lipgloss.Style
	CodeLang   lipgloss.Style
	LineNumber lipgloss.Style
	Gutter     lipgloss.Style

	// Table styles
	TableHeader lipgloss.Style
	TableBorder lipgloss.Style

	// Summary styles
	FilePath     lipgloss.Style
	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style

	// Misc
	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

// newColorStyles creates styles with ANSI 256 colors.
func newColorStyles() *Styles {
	return &Styles{
		ColorEnabled: true,

		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		Heading:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true).Underline(true),
		Subheading: lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),
		Quote:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),
		QuoteBar:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		ListMarker: lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Rule:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		MathBlock:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		Fallback:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true),

		Emphasis:   lipgloss.NewStyle().Italic(true),
		Strong:     lipgloss.NewStyle().Bold(true),
		Strike:     lipgloss.NewStyle().Strikethrough(true),
		InlineCode: lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Background(lipgloss.Color("236")),
		Link:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Underline(true),
		LinkURL:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Math:       lipgloss.NewStyle().Foreground(lipgloss.Color("13")),

		CodeTitle:  lipgloss.NewStyle().Bold(true),
		CodeLang:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		LineNumber: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Gutter:     lipgloss.NewStyle().Foreground(lipgloss.Color("238")),

		TableHeader: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		TableBorder: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),

		FilePath:     lipgloss.NewStyle().Bold(true),
		SummaryTitle: lipgloss.NewStyle().Bold(true),
		SummaryValue: lipgloss.NewStyle(),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

// newNoColorStyles creates styles with no color formatting.
func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Error:        plain,
		Warning:      plain,
		Info:         plain,
		Success:      plain,
		Failure:      plain,
		Heading:      plain,
		Subheading:   plain,
		Quote:        plain,
		QuoteBar:     plain,
		ListMarker:   plain,
		Rule:         plain,
		MathBlock:    plain,
		Fallback:     plain,
		Emphasis:     plain,
		Strong:       plain,
		Strike:       plain,
		InlineCode:   plain,
		Link:         plain,
		LinkURL:      plain,
		Math:         plain,
		CodeTitle:    plain,
		CodeLang:     plain,
		LineNumber:   plain,
		Gutter:       plain,
		TableHeader:  plain,
		TableBorder:  plain,
		FilePath:     plain,
		SummaryTitle: plain,
		SummaryValue: plain,
		Dim:          plain,
		Bold:         plain,
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default: // "auto"
		// Check NO_COLOR environment variable (https://no-color.org/)
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
