package pretty

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	summaryDividerWidth = 40
	wordFile            = "file"
	wordFiles           = "files"
)

// Summary holds the counts reported after a batch render. It mirrors the
// runner's statistics without importing the runner.
type Summary struct {
	Discovered int
	Rendered   int
	Written    int
	Unchanged  int
	Empty      int
	Errored    int
	Bytes      int
	Duration   time.Duration
	DryRun     bool
}

func plural(n int) string {
	if n == 1 {
		return wordFile
	}
	return wordFiles
}

// FormatSummaryOneLine formats run statistics as a single line.
// Example: "Rendered 12 files (3 written, 9 unchanged), 1 failed".
func (s *Styles) FormatSummaryOneLine(sum Summary) string {
	if sum.Discovered == 0 {
		return s.Dim.Render("No markdown files found") + "\n"
	}

	msg := fmt.Sprintf("Rendered %d %s", sum.Rendered, plural(sum.Rendered))

	var parts []string
	switch {
	case sum.DryRun:
		parts = append(parts, "dry run")
	default:
		if sum.Written > 0 {
			parts = append(parts, s.Success.Render(fmt.Sprintf("%d written", sum.Written)))
		}
		if sum.Unchanged > 0 {
			parts = append(parts, fmt.Sprintf("%d unchanged", sum.Unchanged))
		}
	}
	if sum.Empty > 0 {
		parts = append(parts, s.Dim.Render(fmt.Sprintf("%d empty", sum.Empty)))
	}
	if len(parts) > 0 {
		msg += " (" + strings.Join(parts, ", ") + ")"
	}

	if sum.Errored > 0 {
		msg += ", " + s.Error.Render(fmt.Sprintf("%d failed", sum.Errored))
	} else if sum.Rendered > 0 {
		msg = s.Success.Render(msg[:len("Rendered")]) + msg[len("Rendered"):]
	}

	return msg + "\n"
}

// FormatSummary formats run statistics as a summary block.
func (s *Styles) FormatSummary(sum Summary) string {
	var builder strings.Builder

	builder.WriteString("\n")
	builder.WriteString(s.SummaryTitle.Render("Summary"))
	builder.WriteString("\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth))
	builder.WriteString("\n")

	// Files
	builder.WriteString("  Files found:       " +
		s.SummaryValue.Render(strconv.Itoa(sum.Discovered)) + "\n")
	builder.WriteString("  Files rendered:    " +
		s.SummaryValue.Render(strconv.Itoa(sum.Rendered)) + "\n")

	if sum.Written > 0 {
		builder.WriteString("  Files written:     " +
			s.Success.Render(strconv.Itoa(sum.Written)) + "\n")
	}
	if sum.Unchanged > 0 {
		builder.WriteString("  Files unchanged:   " +
			s.Dim.Render(strconv.Itoa(sum.Unchanged)) + "\n")
	}
	if sum.Errored > 0 {
		builder.WriteString("  Files failed:      " +
			s.Failure.Render(strconv.Itoa(sum.Errored)) + "\n")
	}

	builder.WriteString("\n")

	builder.WriteString("  Output size:       " +
		s.SummaryValue.Render(formatBytes(sum.Bytes)) + "\n")
	builder.WriteString("  Render time:       " +
		s.SummaryValue.Render(sum.Duration.Round(time.Microsecond).String()) + "\n")

	builder.WriteString("\n")

	// Overall status
	switch {
	case sum.Errored > 0:
		builder.WriteString(s.Failure.Render(fmt.Sprintf("Render failed for %d %s", sum.Errored, plural(sum.Errored))))
	case sum.DryRun:
		builder.WriteString(s.Info.Render("Dry run complete, nothing written"))
	default:
		builder.WriteString(s.Success.Render("Render complete"))
	}
	builder.WriteString("\n")

	return builder.String()
}

func formatBytes(n int) string {
	const unit = 1024
	if n < unit {
		return strconv.Itoa(n) + " B"
	}
	return fmt.Sprintf("%.1f KiB", float64(n)/unit)
}
