package textedit

import "strings"

// ApplyEdits applies a sorted, validated slice of edits to content.
// Edits must come from Prepare.
func ApplyEdits(content string, edits []TextEdit) string {
	if len(edits) == 0 {
		return content
	}

	runes := []rune(content)

	delta := 0
	for _, e := range edits {
		delta += len(e.NewText) - e.Len()
	}

	var out strings.Builder
	out.Grow(max(len(content)+delta, 0))

	cursor := 0
	for _, e := range edits {
		out.WriteString(string(runes[cursor:e.StartOffset]))
		out.WriteString(e.NewText)
		cursor = e.EndOffset
	}
	out.WriteString(string(runes[cursor:]))

	return out.String()
}

// Apply validates, sorts and applies edits to content in one step.
func Apply(content string, edits []TextEdit) (string, error) {
	prepared, err := Prepare(edits, RuneLen(content))
	if err != nil {
		return "", err
	}
	return ApplyEdits(content, prepared), nil
}
