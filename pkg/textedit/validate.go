package textedit

import (
	"cmp"
	"fmt"
	"slices"
)

// Reason classifies why an edit was rejected.
type Reason int

const (
	// OutOfBounds means the edit does not lie inside the buffer.
	OutOfBounds Reason = iota
	// Overlap means the edit replaces runes another edit also replaces.
	Overlap
)

// RangeError rejects an edit batch. Other is set for Overlap and holds the
// earlier of the two edits.
type RangeError struct {
	Reason Reason
	Edit   TextEdit
	Other  TextEdit
	BufLen int
}

func (e *RangeError) Error() string {
	if e.Reason == Overlap {
		return fmt.Sprintf("edit %s overlaps edit %s", span(e.Edit), span(e.Other))
	}
	return fmt.Sprintf("edit %s is outside buffer of %d runes", span(e.Edit), e.BufLen)
}

func span(e TextEdit) string {
	return fmt.Sprintf("[%d,%d)", e.StartOffset, e.EndOffset)
}

// Prepare returns a copy of edits ordered by position, ready for
// ApplyEdits. Every edit must satisfy 0 <= start <= end <= bufLen, and no
// two edits may replace the same rune. Insertions at one offset keep their
// given order.
func Prepare(edits []TextEdit, bufLen int) ([]TextEdit, error) {
	for _, e := range edits {
		if e.StartOffset < 0 || e.EndOffset < e.StartOffset || e.EndOffset > bufLen {
			return nil, &RangeError{Reason: OutOfBounds, Edit: e, BufLen: bufLen}
		}
	}

	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b TextEdit) int {
		return cmp.Or(cmp.Compare(a.StartOffset, b.StartOffset), cmp.Compare(a.EndOffset, b.EndOffset))
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i].StartOffset < sorted[i-1].EndOffset {
			return nil, &RangeError{Reason: Overlap, Edit: sorted[i], Other: sorted[i-1], BufLen: bufLen}
		}
	}
	return sorted, nil
}
