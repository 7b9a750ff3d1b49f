package editor

import (
	"strings"

	"github.com/yaklabco/mdpost/pkg/textedit"
)

// InsertAtCursor replaces the selection (or inserts at the caret when the
// selection is empty) with text. The caret lands right after the inserted text.
func InsertAtCursor(b Buffer, text string) Result {
	b = b.Normalize()

	content, err := textedit.NewEditBuilder().
		ReplaceRange(b.SelectionStart, b.SelectionEnd, text).
		Apply(b.Content)
	if err != nil {
		// Normalize keeps the range valid; unreachable in practice.
		return Result{Buffer: b, Caret: b.SelectionEnd}
	}

	return newResult(content, b.SelectionStart+textedit.RuneLen(text))
}

// WrapSelection surrounds a non-empty selection with marker on both sides and
// puts the caret after the closing marker. With an empty selection a single
// marker is inserted at the caret, exactly like InsertAtCursor.
func WrapSelection(b Buffer, marker string) Result {
	b = b.Normalize()
	if !b.HasSelection() {
		return InsertAtCursor(b, marker)
	}

	content, err := textedit.NewEditBuilder().
		Insert(b.SelectionStart, marker).
		Insert(b.SelectionEnd, marker).
		Apply(b.Content)
	if err != nil {
		return Result{Buffer: b, Caret: b.SelectionEnd}
	}

	markerLen := textedit.RuneLen(marker)
	selectedLen := b.SelectionEnd - b.SelectionStart
	return newResult(content, b.SelectionStart+2*markerLen+selectedLen)
}

// PrefixCurrentLine prepends prefix to the line holding the caret
// (SelectionStart). A blank or whitespace-only line is replaced by prefix.
//
// The caret is the number of characters before the original caret, not
// counting newlines, plus the prefix length.
func PrefixCurrentLine(b Buffer, prefix string) Result {
	b = b.Normalize()
	runes := []rune(b.Content)
	caret := b.SelectionStart

	lineStart := caret
	for lineStart > 0 && runes[lineStart-1] != '\n' {
		lineStart--
	}
	lineEnd := caret
	for lineEnd < len(runes) && runes[lineEnd] != '\n' {
		lineEnd++
	}

	edits := textedit.NewEditBuilder()
	if strings.TrimSpace(string(runes[lineStart:lineEnd])) == "" {
		edits.ReplaceRange(lineStart, lineEnd, prefix)
	} else {
		edits.Insert(lineStart, prefix)
	}

	content, err := edits.Apply(b.Content)
	if err != nil {
		return Result{Buffer: b, Caret: b.SelectionEnd}
	}

	before := string(runes[:caret])
	newCaret := textedit.RuneLen(strings.ReplaceAll(before, "\n", "")) + textedit.RuneLen(prefix)
	return newResult(content, newCaret)
}
