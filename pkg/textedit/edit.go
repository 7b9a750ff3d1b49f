// Package textedit provides rune-offset text edits and their application.
// Offsets count characters (runes), not bytes, so they line up with the
// selection offsets reported by an editing surface.
package textedit

// TextEdit represents a single text replacement in a buffer.
type TextEdit struct {
	// StartOffset is the rune index where the edit begins (inclusive).
	StartOffset int

	// EndOffset is the rune index where the edit ends (exclusive).
	EndOffset int

	// NewText is the replacement text.
	NewText string
}

// Len returns the number of runes replaced by the edit.
func (e TextEdit) Len() int {
	return e.EndOffset - e.StartOffset
}

// Delta returns the change in buffer length, in runes, caused by the edit.
func (e TextEdit) Delta() int {
	return RuneLen(e.NewText) - e.Len()
}

// EditBuilder accumulates text edits for a buffer.
type EditBuilder struct {
	Edits []TextEdit
}

// NewEditBuilder creates a new EditBuilder.
func NewEditBuilder() *EditBuilder {
	return &EditBuilder{
		Edits: make([]TextEdit, 0),
	}
}

// ReplaceRange adds an edit that replaces runes [start, end) with newText.
func (b *EditBuilder) ReplaceRange(start, end int, newText string) *EditBuilder {
	b.Edits = append(b.Edits, TextEdit{
		StartOffset: start,
		EndOffset:   end,
		NewText:     newText,
	})
	return b
}

// Insert adds an edit that inserts text at the given offset.
func (b *EditBuilder) Insert(offset int, text string) *EditBuilder {
	return b.ReplaceRange(offset, offset, text)
}

// Delete adds an edit that deletes runes [start, end).
func (b *EditBuilder) Delete(start, end int) *EditBuilder {
	return b.ReplaceRange(start, end, "")
}

// Apply validates the accumulated edits and applies them to content.
func (b *EditBuilder) Apply(content string) (string, error) {
	return Apply(content, b.Edits)
}

// RuneLen returns the length of s in runes.
func RuneLen(s string) int {
	return len([]rune(s))
}
