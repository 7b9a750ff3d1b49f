package textedit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpost/pkg/textedit"
)

func TestPrepare_Bounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		edit    textedit.TextEdit
		wantErr bool
	}{
		{"caret insertion", textedit.TextEdit{StartOffset: 3, EndOffset: 3}, false},
		{"insertion at end of buffer", textedit.TextEdit{StartOffset: 5, EndOffset: 5}, false},
		{"whole buffer", textedit.TextEdit{StartOffset: 0, EndOffset: 5}, false},
		{"negative start", textedit.TextEdit{StartOffset: -1, EndOffset: 2}, true},
		{"end before start", textedit.TextEdit{StartOffset: 3, EndOffset: 2}, true},
		{"end past buffer", textedit.TextEdit{StartOffset: 0, EndOffset: 6}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := textedit.Prepare([]textedit.TextEdit{tt.edit}, 5)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var rerr *textedit.RangeError
			require.ErrorAs(t, err, &rerr)
			assert.Equal(t, textedit.OutOfBounds, rerr.Reason)
			assert.Equal(t, 5, rerr.BufLen)
		})
	}
}

func TestPrepare_OrdersWithoutMutatingInput(t *testing.T) {
	t.Parallel()

	edits := []textedit.TextEdit{
		{StartOffset: 4, EndOffset: 5, NewText: "b"},
		{StartOffset: 0, EndOffset: 1, NewText: "a"},
	}

	prepared, err := textedit.Prepare(edits, 10)
	require.NoError(t, err)
	assert.Equal(t, 0, prepared[0].StartOffset)
	assert.Equal(t, 4, prepared[1].StartOffset)
	assert.Equal(t, 4, edits[0].StartOffset, "input must not be reordered")
}

func TestPrepare_InsertionsAtOneOffsetKeepOrder(t *testing.T) {
	t.Parallel()

	// Wrapping an empty selection inserts both markers at the caret.
	prepared, err := textedit.Prepare([]textedit.TextEdit{
		{StartOffset: 2, EndOffset: 2, NewText: "**"},
		{StartOffset: 2, EndOffset: 2, NewText: "**"},
		{StartOffset: 2, EndOffset: 2, NewText: "x"},
	}, 4)
	require.NoError(t, err)
	assert.Equal(t, "x", prepared[2].NewText)
}

func TestPrepare_InsertionInsideReplacedSpan(t *testing.T) {
	t.Parallel()

	_, err := textedit.Prepare([]textedit.TextEdit{
		{StartOffset: 1, EndOffset: 4, NewText: "x"},
		{StartOffset: 2, EndOffset: 2, NewText: "y"},
	}, 6)
	var rerr *textedit.RangeError
	require.ErrorAs(t, err, &rerr)
	assert.Equal(t, textedit.Overlap, rerr.Reason)
	assert.Equal(t, 1, rerr.Other.StartOffset)
}
