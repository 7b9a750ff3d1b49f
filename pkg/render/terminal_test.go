package render

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpost/internal/ui/pretty"
	"github.com/yaklabco/mdpost/pkg/highlight"
	"github.com/yaklabco/mdpost/pkg/mdast"
)

func renderTerminal(t *testing.T, content string) string {
	t.Helper()

	r := NewTerminal(highlight.New("onedark"), pretty.NewStyles(false), WithWidth(40))
	return r.RenderString(parseDoc(t, content))
}

func TestTerminal_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, NewTerminal(nil, nil).Render(&buf, parseDoc(t, "")))
	assert.Zero(t, buf.Len())
}

func TestTerminal_Blocks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "heading", input: "# Hi\n", want: "# Hi\n"},
		{name: "subheading", input: "### Sub\n", want: "### Sub\n"},
		{name: "paragraphs", input: "a\n\nb\n", want: "a\n\nb\n"},
		{name: "bullets", input: "- a\n- b\n", want: "• a\n• b\n"},
		{name: "ordered", input: "2. a\n3. b\n", want: "2. a\n3. b\n"},
		{name: "quote", input: "> q\n", want: "│ q\n"},
		{name: "task", input: "- [x] done\n", want: "• [x] done\n"},
		{name: "inline code block", input: "```\nraw\n```\n", want: "raw\n"},
		{name: "link", input: "[t](/u)\n", want: "t (/u)\n"},
		{name: "autolink", input: "<https://a.example>\n", want: "https://a.example\n"},
		{name: "math", input: "$$\nx\n$$\n", want: "$$\nx\n$$\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, renderTerminal(t, tt.input))
		})
	}
}

func TestTerminal_CodeBlock(t *testing.T) {
	t.Parallel()

	out := renderTerminal(t, "```js title=\"x.js\"\nconsole.log(1)\n```\n")
	assert.Equal(t, "x.js js\n1 │ console.log(1)\n", out)
}

func TestTerminal_Rule(t *testing.T) {
	t.Parallel()

	out := renderTerminal(t, "a\n\n---\n")
	assert.Contains(t, out, "────")
}

func TestTerminal_Table(t *testing.T) {
	t.Parallel()

	out := renderTerminal(t, "| name | n |\n|---|--:|\n| a | 10 |\n")
	assert.Contains(t, out, "name")
	assert.Contains(t, out, "====")
	assert.Contains(t, out, " a   ")
	assert.Contains(t, out, "10")
}

func TestTerminal_Fallback(t *testing.T) {
	t.Parallel()

	root := mdast.NewDocument()
	raw := mdast.NewNode(mdast.NodeRaw)
	mdast.AppendChild(root, raw)
	doc := mdast.NewDocumentFor([]byte("x"), root)

	out := NewTerminal(nil, nil).RenderString(doc)
	assert.Equal(t, "["+FallbackLabel+": Raw]\n", out)
}
