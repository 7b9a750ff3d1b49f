// Package editor implements the structural text editing commands behind the
// markdown toolbar. Every command is a pure function from a Buffer to a
// Result holding the new buffer and the caret the surface should restore.
package editor

import "github.com/yaklabco/mdpost/pkg/textedit"

// Buffer is a plain-text buffer with a selection range.
// Offsets are character (rune) offsets into Content.
type Buffer struct {
	Content        string
	SelectionStart int
	SelectionEnd   int
}

// NewBuffer returns a buffer holding content with the caret at offset 0.
func NewBuffer(content string) Buffer {
	return Buffer{Content: content}
}

// WithSelection returns a copy of b with the given selection, normalized.
func (b Buffer) WithSelection(start, end int) Buffer {
	b.SelectionStart = start
	b.SelectionEnd = end
	return b.Normalize()
}

// WithCaret returns a copy of b with a collapsed selection at offset.
func (b Buffer) WithCaret(offset int) Buffer {
	return b.WithSelection(offset, offset)
}

// Normalize clamps both offsets into [0, Len()] and orders them so that
// SelectionStart <= SelectionEnd.
func (b Buffer) Normalize() Buffer {
	n := b.Len()
	b.SelectionStart = clamp(b.SelectionStart, 0, n)
	b.SelectionEnd = clamp(b.SelectionEnd, 0, n)
	if b.SelectionEnd < b.SelectionStart {
		b.SelectionStart, b.SelectionEnd = b.SelectionEnd, b.SelectionStart
	}
	return b
}

// Len returns the content length in runes.
func (b Buffer) Len() int {
	return textedit.RuneLen(b.Content)
}

// HasSelection reports whether the selection spans at least one character.
func (b Buffer) HasSelection() bool {
	return b.SelectionStart != b.SelectionEnd
}

// Selected returns the selected text.
func (b Buffer) Selected() string {
	b = b.Normalize()
	return string([]rune(b.Content)[b.SelectionStart:b.SelectionEnd])
}

// Result is the outcome of an editing command.
type Result struct {
	// Buffer is the edited buffer, its selection collapsed at Caret.
	Buffer Buffer

	// Caret is the rune offset the editing surface should restore.
	Caret int
}

func newResult(content string, caret int) Result {
	buf := Buffer{Content: content}.WithCaret(caret)
	return Result{Buffer: buf, Caret: buf.SelectionStart}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
