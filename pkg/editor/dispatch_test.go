package editor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpost/pkg/editor"
)

func TestDispatch_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command   string
		buf       editor.Buffer
		want      string
		wantCaret int
	}{
		{"bold", editor.NewBuffer("hi").WithSelection(0, 2), "**hi**", 6},
		{"italic", editor.NewBuffer("hi").WithSelection(0, 2), "*hi*", 4},
		{"code", editor.NewBuffer("x").WithSelection(0, 1), "`x`", 3},
		{"heading1", editor.NewBuffer(""), "# ", 2},
		{"heading2", editor.NewBuffer(""), "## ", 3},
		{"heading3", editor.NewBuffer("t"), "### t", 4},
		{"bulletList", editor.NewBuffer("item"), "- item", 2},
		{"orderedList", editor.NewBuffer(""), "1. ", 3},
		{"quote", editor.NewBuffer("q"), "> q", 2},
		{"link", editor.NewBuffer(""), "[Link Text](https://example.com)", 32},
		{"image", editor.NewBuffer(""), "![Alt Text](https://example.com/image.jpg)", 42},
		{"horizontalRule", editor.NewBuffer("a").WithCaret(1), "a\n---\n", 6},
		{"codeBlock", editor.NewBuffer(""), "\n```\n\n```\n", 10},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()

			res, ok := editor.Dispatch(tt.command, tt.buf)
			require.True(t, ok)
			assert.Equal(t, tt.want, res.Buffer.Content)
			assert.Equal(t, tt.wantCaret, res.Caret)
		})
	}
}

func TestDispatch_UnknownCommandIsNoop(t *testing.T) {
	t.Parallel()

	buf := editor.NewBuffer("keep me").WithSelection(1, 3)
	for _, name := range []string{"", "strike", "Bold", "heading4"} {
		res, ok := editor.Dispatch(name, buf)
		assert.False(t, ok, name)
		assert.Equal(t, buf, res.Buffer, name)
	}
}

func TestCommands_AllDispatchable(t *testing.T) {
	t.Parallel()

	cmds := editor.Commands()
	assert.Len(t, cmds, 13)
	for _, cmd := range cmds {
		parsed, ok := editor.ParseCommand(string(cmd))
		assert.True(t, ok, cmd)
		assert.Equal(t, cmd, parsed)
	}

	_, ok := editor.ParseCommand("underline")
	assert.False(t, ok)
}
