package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpost/pkg/config"
	"github.com/yaklabco/mdpost/pkg/highlight"
	"github.com/yaklabco/mdpost/pkg/mdast"
	mdparser "github.com/yaklabco/mdpost/pkg/parser/goldmark"
	"github.com/yaklabco/mdpost/pkg/transform"
)

func parseDoc(t *testing.T, content string) *mdast.Document {
	t.Helper()

	doc, err := mdparser.New().Parse(context.Background(), []byte(content))
	require.NoError(t, err)
	transform.Default(config.NewConfig()).Run(doc)
	return doc
}

func renderHTML(t *testing.T, content string, opts ...HTMLOption) string {
	t.Helper()

	out, err := NewHTML(highlight.New("onedark"), opts...).RenderString(parseDoc(t, content))
	require.NoError(t, err)
	return out
}

// class returns the class attribute the default map produces for role.
func class(role string) string {
	if c := DefaultClasses()[role]; c != "" {
		return ` class="` + c + `"`
	}
	return ""
}

func TestHTML_EmptyDocumentRendersNothing(t *testing.T) {
	t.Parallel()

	r := NewHTML(nil)

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, parseDoc(t, "")))
	assert.Zero(t, buf.Len())

	out, err := r.RenderBytes(parseDoc(t, ""))
	require.NoError(t, err)
	assert.Nil(t, out)

	require.NoError(t, r.Render(&buf, nil))
	assert.Zero(t, buf.Len())
}

func TestHTML_HeadingAndTitledCodeBlock(t *testing.T) {
	t.Parallel()

	out := renderHTML(t, "# Hi\n\n```js title=\"x.js\"\nconsole.log(1)\n```\n")

	assert.Contains(t, out, "<h1"+class("h1")+">Hi</h1>")
	assert.Contains(t, out, `data-language="js"`)
	assert.Contains(t, out, "<span"+class(ClassCodeTitle)+">x.js</span>")
	assert.Contains(t, out, "<span"+class(ClassCodeLang)+">js</span>")
	assert.Equal(t, 1, strings.Count(out, `data-line="`))
	assert.Contains(t, out, "console")
	assert.NotContains(t, out, `data-plain`)
}

func TestHTML_Wrapper(t *testing.T) {
	t.Parallel()

	out := renderHTML(t, "# Hi\n")
	assert.True(t, strings.HasPrefix(out, "<div"+class(ClassWrapper)+">"))
	assert.True(t, strings.HasSuffix(out, "</div>\n"))

	out = renderHTML(t, "# Hi\n", WithWrapper(false))
	assert.True(t, strings.HasPrefix(out, "<h1"))
}

func TestHTML_CodeBlockWithoutLanguageRendersInline(t *testing.T) {
	t.Parallel()

	out := renderHTML(t, "```\nx := 1\n```\n", WithWrapper(false))
	assert.Equal(t, "<code"+class(ClassInlineCode)+">x := 1</code>\n", out)
	assert.NotContains(t, out, "<figure")
}

func TestHTML_CodeBlockWithoutTitle(t *testing.T) {
	t.Parallel()

	out := renderHTML(t, "```go\nfunc main() {}\n\nvar x = 1\n```\n")
	assert.NotContains(t, out, class(ClassCodeTitle)+">")
	assert.Equal(t, 3, strings.Count(out, `data-line="`))
	assert.Contains(t, out, `<span style="color:`)
	assert.Contains(t, out, "background-color:")
}

func TestHTML_CodeBlockKeepsTrailingBlankLines(t *testing.T) {
	t.Parallel()

	out := renderHTML(t, "```go\na\n\n\n```\n")
	assert.Equal(t, 3, strings.Count(out, `data-line="`))
}

func TestHTML_MathBlockLiteralTrimmed(t *testing.T) {
	t.Parallel()

	root := mdast.NewDocument()
	block := mdast.NewNode(mdast.NodeMathBlock)
	block.Block = mdast.NewBlockAttrs().WithLiteral([]byte("a+b\n"))
	mdast.AppendChild(root, block)

	out, err := NewHTML(highlight.New("onedark"), WithWrapper(false)).RenderString(&mdast.Document{Root: root})
	require.NoError(t, err)
	assert.Equal(t, "<div"+class(ClassMathDisplay)+">a+b</div>\n", out)
}

func TestHTML_UnknownLanguageRendersPlain(t *testing.T) {
	t.Parallel()

	out := renderHTML(t, "```nosuchlang\na < b\n```\n")
	assert.Contains(t, out, `data-plain="true"`)
	assert.Contains(t, out, "a &lt; b")
}

func TestHTML_Escaping(t *testing.T) {
	t.Parallel()

	out := renderHTML(t, "a < b & \"c\"\n", WithWrapper(false))
	assert.Equal(t, "<p"+class("p")+">a &lt; b &amp; &quot;c&quot;</p>\n", out)
}

func TestHTML_Links(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		contains []string
		excludes []string
	}{
		{
			name:     "external",
			input:    "[site](https://example.com \"Home\")",
			contains: []string{`href="https://example.com"`, `title="Home"`, `target="_blank"`, `rel="noopener noreferrer"`},
		},
		{
			name:     "relative",
			input:    "[about](/about)",
			contains: []string{`href="/about"`},
			excludes: []string{"target="},
		},
		{
			name:     "dangerous",
			input:    "[x](javascript:alert(1))",
			contains: []string{`href=""`},
			excludes: []string{"javascript"},
		},
		{
			name:     "autolink",
			input:    "<https://a.example>",
			contains: []string{`href="https://a.example"`, ">https://a.example</a>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out := renderHTML(t, tt.input)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestHTML_Image(t *testing.T) {
	t.Parallel()

	out := renderHTML(t, "![a *cat*](/cat.png)")
	assert.Contains(t, out, `src="/cat.png"`)
	assert.Contains(t, out, `alt="a cat"`)
}

func TestHTML_RawHTML(t *testing.T) {
	t.Parallel()

	input := "<div>hi</div>\n\ntext <b>bold</b>\n"

	out := renderHTML(t, input)
	assert.NotContains(t, out, "<div>hi</div>")
	assert.NotContains(t, out, "<b>")
	assert.Equal(t, 3, strings.Count(out, rawHTMLOmitted))

	out = renderHTML(t, input, WithUnsafeHTML(true))
	assert.Contains(t, out, "<div>hi</div>")
	assert.Contains(t, out, "<b>bold</b>")
}

func TestHTML_Lists(t *testing.T) {
	t.Parallel()

	tight := renderHTML(t, "- a\n- b\n", WithWrapper(false))
	assert.Contains(t, tight, "<li"+class("li")+">a</li>")
	assert.NotContains(t, tight, "<p")

	loose := renderHTML(t, "- a\n\n- b\n", WithWrapper(false))
	assert.Contains(t, loose, "<p"+class("p")+">a</p>")

	ordered := renderHTML(t, "3. a\n4. b\n", WithWrapper(false))
	assert.True(t, strings.HasPrefix(ordered, "<ol"))
	assert.Contains(t, ordered, `start="3"`)
}

func TestHTML_TaskList(t *testing.T) {
	t.Parallel()

	out := renderHTML(t, "- [x] done\n- [ ] todo\n")
	assert.Equal(t, 2, strings.Count(out, `type="checkbox"`))
	assert.Equal(t, 1, strings.Count(out, `checked=""`))
}

func TestHTML_Table(t *testing.T) {
	t.Parallel()

	out := renderHTML(t, "| a | b |\n|:--|--:|\n| 1 | 2 |\n")
	assert.Contains(t, out, "<thead")
	assert.Contains(t, out, "<tbody")
	assert.Contains(t, out, `<th`+class("th")+` style="text-align:left">a</th>`)
	assert.Contains(t, out, `<td`+class("td")+` style="text-align:right">2</td>`)
}

func TestHTML_Breaks(t *testing.T) {
	t.Parallel()

	out := renderHTML(t, "one\ntwo\n", WithWrapper(false))
	assert.Contains(t, out, "one<br>\ntwo")
}

func TestHTML_Math(t *testing.T) {
	t.Parallel()

	out := renderHTML(t, "inline $a<b$ here\n\n$$\nx^2\n$$\n")
	assert.Contains(t, out, "<span"+class(ClassMathInline)+">a&lt;b</span>")
	assert.Contains(t, out, "<div"+class(ClassMathDisplay)+">x^2</div>")
}

func TestHTML_InlineMarkup(t *testing.T) {
	t.Parallel()

	out := renderHTML(t, "*em* **strong** ~~gone~~ `code`\n")
	assert.Contains(t, out, "<em"+class("em")+">em</em>")
	assert.Contains(t, out, "<strong"+class("strong")+">strong</strong>")
	assert.Contains(t, out, "<del"+class("del")+">gone</del>")
	assert.Contains(t, out, "<code"+class(ClassInlineCode)+">code</code>")
}

func TestHTML_FallbackForUnmappedKinds(t *testing.T) {
	t.Parallel()

	root := mdast.NewDocument()
	raw := mdast.NewNode(mdast.NodeRaw)
	mdast.AppendChild(raw, mdast.NewText("inner"))
	mdast.AppendChild(root, raw)
	doc := mdast.NewDocumentFor([]byte("inner"), root)

	out, err := NewHTML(nil, WithWrapper(false)).RenderString(doc)
	require.NoError(t, err)
	assert.Contains(t, out, `data-kind="Raw"`)
	assert.Contains(t, out, FallbackLabel)
	assert.Contains(t, out, "inner")
}

func TestHTML_WithClasses(t *testing.T) {
	t.Parallel()

	classes := DefaultClasses().With(ClassMap{"h1": "title"})
	out := renderHTML(t, "# Hi\n", WithClasses(classes), WithWrapper(false))
	assert.Equal(t, "<h1 class=\"title\">Hi</h1>\n", out)
}

func TestHTML_Deterministic(t *testing.T) {
	t.Parallel()

	input := "# T\n\n```go\nfunc f() int { return 1 }\n```\n\n| a |\n|---|\n| b |\n"
	assert.Equal(t, renderHTML(t, input), renderHTML(t, input))
}
