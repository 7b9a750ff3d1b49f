package pretty

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table formatting constants.
const (
	tablePadding     = 2
	minColumnWidth   = 3
	heavySeparator   = "="
	defaultTermWidth = 100
	ellipsis         = "..."
)

// Align is a column alignment for table cells.
type Align uint8

// Column alignments.
const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Table is a grid of cells with an optional header row.
type Table struct {
	Headers []string
	Rows    [][]string
	Aligns  []Align

	// TruncateLeft lists columns truncated from the left, keeping the end
	// of the value (file paths).
	TruncateLeft map[int]bool

	// Fixed lists columns that keep their full width when the table is
	// shrunk to fit (identifiers that must stay copyable).
	Fixed map[int]bool
}

func (tbl *Table) columns() int {
	cols := len(tbl.Headers)
	for _, row := range tbl.Rows {
		cols = max(cols, len(row))
	}
	return cols
}

func (tbl *Table) align(col int) Align {
	if col < len(tbl.Aligns) {
		return tbl.Aligns[col]
	}
	return AlignLeft
}

// TableFormatter formats tables as styled, width-constrained text.
type TableFormatter struct {
	styles       *Styles
	colorEnabled bool
	termWidth    int
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(styles *Styles, colorEnabled bool, termWidth int) *TableFormatter {
	if styles == nil {
		styles = NewStyles(colorEnabled)
	}
	if termWidth <= 0 {
		termWidth = defaultTermWidth
	}
	return &TableFormatter{
		styles:       styles,
		colorEnabled: colorEnabled,
		termWidth:    termWidth,
	}
}

// FormatTable formats tbl. Rows shorter than the widest row are padded
// with empty cells. An empty table yields "".
func (t *TableFormatter) FormatTable(tbl *Table) string {
	if tbl == nil || (len(tbl.Headers) == 0 && len(tbl.Rows) == 0) {
		return ""
	}

	widths := t.calculateColumnWidths(tbl)

	var builder strings.Builder

	if len(tbl.Headers) > 0 {
		builder.WriteString(t.formatRow(tbl, tbl.Headers, widths, t.styles.TableHeader))
		builder.WriteString("\n")
		builder.WriteString(t.formatSeparator(widths, heavySeparator))
		builder.WriteString("\n")
	}

	for _, row := range tbl.Rows {
		builder.WriteString(t.formatRow(tbl, row, widths, lipgloss.NewStyle()))
		builder.WriteString("\n")
	}

	return builder.String()
}

// calculateColumnWidths determines column widths from content, shrinking
// the widest columns first when the table exceeds the terminal width.
func (t *TableFormatter) calculateColumnWidths(tbl *Table) []int {
	widths := make([]int, tbl.columns())
	measure := func(row []string) {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}
	measure(tbl.Headers)
	for _, row := range tbl.Rows {
		measure(row)
	}

	for calculateTotalWidth(widths) > t.termWidth {
		widest := -1
		for i, w := range widths {
			if !tbl.Fixed[i] && (widest < 0 || w > widths[widest]) {
				widest = i
			}
		}
		if widest < 0 || widths[widest] <= minColumnWidth {
			break
		}
		excess := calculateTotalWidth(widths) - t.termWidth
		widths[widest] = max(minColumnWidth, widths[widest]-excess)
	}

	return widths
}

// calculateTotalWidth calculates the total table width from column widths.
func calculateTotalWidth(widths []int) int {
	total := 1
	for _, w := range widths {
		total += w + tablePadding
	}
	return total
}

// formatSeparator formats a separator line.
func (t *TableFormatter) formatSeparator(widths []int, char string) string {
	sep := strings.Repeat(char, calculateTotalWidth(widths)-tablePadding)
	return t.styles.TableBorder.Render(sep)
}

// formatRow formats a single row, padding each cell to its column width.
func (t *TableFormatter) formatRow(tbl *Table, row []string, widths []int, style lipgloss.Style) string {
	cells := make([]string, len(widths))
	for col, width := range widths {
		cell := ""
		if col < len(row) {
			cell = row[col]
		}
		if tbl.TruncateLeft[col] {
			cell = truncateFilePath(cell, width)
		} else {
			cell = truncateString(cell, width)
		}
		cells[col] = style.Render(pad(cell, width, tbl.align(col)))
	}
	return " " + strings.Join(cells, strings.Repeat(" ", tablePadding))
}

func pad(cell string, width int, align Align) string {
	gap := width - lipgloss.Width(cell)
	if gap <= 0 {
		return cell
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", gap) + cell
	case AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + cell + strings.Repeat(" ", gap-left)
	default:
		return cell + strings.Repeat(" ", gap)
	}
}

// truncateString truncates a string to maxLen, adding "..." if truncated.
func truncateString(str string, maxLen int) string {
	if lipgloss.Width(str) <= maxLen {
		return str
	}
	runes := []rune(str)
	if maxLen <= len(ellipsis) {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-len(ellipsis)]) + ellipsis
}

// truncateFilePath truncates a file path, preserving the end (filename) rather than beginning.
func truncateFilePath(path string, maxLen int) string {
	runes := []rune(path)
	if len(runes) <= maxLen {
		return path
	}
	if maxLen <= len(ellipsis) {
		return string(runes[len(runes)-maxLen:])
	}
	return ellipsis + string(runes[len(runes)-maxLen+len(ellipsis):])
}
