package highlight_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpost/pkg/highlight"
)

func lineTexts(b highlight.Block) []string {
	out := make([]string, len(b.Lines))
	for i, l := range b.Lines {
		out[i] = l.Text()
	}
	return out
}

func TestNew_Theme(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "onedark", highlight.New("").Theme())
	assert.Equal(t, "onedark", highlight.New("OneDark").Theme())
	assert.NotEmpty(t, highlight.New("onedark").Background())

	fallback := highlight.New("no-such-theme")
	assert.NotEmpty(t, fallback.Theme())
	assert.NotEqual(t, "no-such-theme", fallback.Theme())

	assert.True(t, highlight.KnownTheme("onedark"))
	assert.False(t, highlight.KnownTheme("no-such-theme"))
}

func TestResolve(t *testing.T) {
	t.Parallel()

	for _, lang := range []string{"go", "golang", "js", "ts", "py", "bash", "JSON"} {
		assert.NotNil(t, highlight.Resolve(lang), lang)
	}
	assert.Nil(t, highlight.Resolve(""))
	assert.Nil(t, highlight.Resolve("   "))
	assert.Nil(t, highlight.Resolve("definitely-not-a-language"))
}

func TestTokenize_SingleLine(t *testing.T) {
	t.Parallel()

	block := highlight.New("onedark").Tokenize("console.log(1)", "js")

	assert.False(t, block.Plain)
	assert.Equal(t, "js", block.Language)
	assert.Equal(t, "JavaScript", block.Lexer)
	require.Len(t, block.Lines, 1)
	assert.Equal(t, 1, block.Lines[0].Number)
	assert.Equal(t, "console.log(1)", block.Lines[0].Text())
	assert.Greater(t, len(block.Lines[0].Tokens), 1)
}

func TestTokenize_EveryNewlineSeparatesLines(t *testing.T) {
	t.Parallel()

	h := highlight.New("onedark")

	tests := []struct {
		name string
		code string
		want []string
	}{
		{"no newline", "a := 1", []string{"a := 1"}},
		{"trailing blank line", "a := 1\n", []string{"a := 1", ""}},
		{"blank lines kept", "a := 1\n\n", []string{"a := 1", "", ""}},
		{"leading blank", "\nb := 2", []string{"", "b := 2"}},
		{"empty", "", []string{""}},
		{"only newline", "\n", []string{"", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			block := h.Tokenize(tt.code, "go")
			assert.Equal(t, tt.want, lineTexts(block))
			for i, line := range block.Lines {
				assert.Equal(t, i+1, line.Number)
			}
		})
	}
}

func TestTokenize_MultilineTokens(t *testing.T) {
	t.Parallel()

	block := highlight.New("onedark").Tokenize("/* a\nb */\nx()", "javascript")
	assert.Equal(t, []string{"/* a", "b */", "x()"}, lineTexts(block))

	for _, line := range block.Lines {
		for _, tok := range line.Tokens {
			assert.NotContains(t, tok.Value, "\n")
			assert.NotEmpty(t, tok.Value)
		}
	}
}

func TestTokenize_Styles(t *testing.T) {
	t.Parallel()

	block := highlight.New("onedark").Tokenize("func main() {}", "go")

	var keyword *highlight.Token
	for i := range block.Lines[0].Tokens {
		tok := &block.Lines[0].Tokens[i]
		if strings.HasPrefix(tok.Type, "Keyword") {
			keyword = tok
			break
		}
	}
	require.NotNil(t, keyword)
	assert.Equal(t, "func", keyword.Value)
	assert.NotEmpty(t, keyword.Style.Color)
	assert.Empty(t, keyword.Style.Background, "theme background is not repeated per token")
}

func TestTokenize_UnknownLanguageIsPlain(t *testing.T) {
	t.Parallel()

	block := highlight.New("onedark").Tokenize("x = 1\n\ny = 2", "definitely-not-a-language")

	assert.True(t, block.Plain)
	assert.Empty(t, block.Lexer)
	assert.Equal(t, []string{"x = 1", "", "y = 2"}, lineTexts(block))
	assert.Empty(t, block.Lines[1].Tokens)
	assert.True(t, block.Lines[0].Tokens[0].Style.IsZero())
}

func TestTokenize_Deterministic(t *testing.T) {
	t.Parallel()

	code := "package main\n\nfunc main() {\n\tprintln(\"hi\")\n}\n"
	first := highlight.New("onedark").Tokenize(code, "go")
	second := highlight.New("onedark").Tokenize(code, "go")

	assert.Equal(t, first, second)
}
