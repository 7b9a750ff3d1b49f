// Package highlight tokenizes code for syntax highlighting.
//
// Tokenizing is deterministic: the same code, language and theme always
// yield the same lines and tokens. Languages are resolved through chroma's
// lexer registry with go-enry as an alias fallback; unknown languages
// produce plain, unstyled lines rather than an error.
package highlight

import (
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/go-enry/go-enry/v2"
)

// DefaultTheme is the style used when none is configured.
const DefaultTheme = "onedark"

// Style is the resolved presentation of a token under a theme.
type Style struct {
	// Color is the foreground as "#rrggbb", or "" when the theme sets none.
	Color string

	// Background is "#rrggbb" or "".
	Background string

	Bold      bool
	Italic    bool
	Underline bool
}

// IsZero reports whether the style sets nothing.
func (s Style) IsZero() bool {
	return s == Style{}
}

// Token is a run of source text with a single token type.
type Token struct {
	// Type is the chroma token type name (e.g., "KeywordDeclaration").
	Type string

	// Value is the source text, never containing a newline.
	Value string

	Style Style
}

// Line is one source line of a code block.
type Line struct {
	// Number is 1-based.
	Number int

	Tokens []Token
}

// Text returns the line's source text.
func (l Line) Text() string {
	var sb strings.Builder
	for _, tok := range l.Tokens {
		sb.WriteString(tok.Value)
	}
	return sb.String()
}

// Block is the tokenized form of a code block.
type Block struct {
	// Language is the language tag as written.
	Language string

	// Lexer is the canonical name of the lexer used, "" when Plain.
	Lexer string

	// Plain is true when the language was not recognized and the lines
	// carry unstyled text tokens.
	Plain bool

	Lines []Line
}

// Highlighter tokenizes code with a fixed theme. It is safe for concurrent use.
type Highlighter struct {
	theme string
	style *chroma.Style
	bg    chroma.Colour
}

// New creates a highlighter for the named chroma style. Unknown names fall
// back to chroma's default style.
func New(theme string) *Highlighter {
	if theme == "" {
		theme = DefaultTheme
	}

	style := styles.Get(strings.ToLower(theme))
	if style == nil {
		style = styles.Fallback
	}

	return &Highlighter{
		theme: style.Name,
		style: style,
		bg:    style.Get(chroma.Background).Background,
	}
}

// Theme returns the name of the resolved style.
func (h *Highlighter) Theme() string {
	return h.theme
}

// KnownTheme reports whether chroma has a style registered under name.
func KnownTheme(name string) bool {
	_, ok := styles.Registry[strings.ToLower(name)]
	return ok
}

// Background returns the theme's background color as "#rrggbb", or "".
func (h *Highlighter) Background() string {
	if h.bg.IsSet() {
		return h.bg.String()
	}
	return ""
}

// Foreground returns the theme's default text color as "#rrggbb", or "".
func (h *Highlighter) Foreground() string {
	entry := h.style.Get(chroma.Text)
	if entry.Colour.IsSet() {
		return entry.Colour.String()
	}
	return ""
}

// Resolve finds the lexer for a language tag. It tries chroma's names,
// aliases and filename patterns, then go-enry's alias and extension tables.
// It returns nil for an empty or unrecognized tag.
//
//nolint:ireturn // chroma.Lexer is an external interface type
func Resolve(lang string) chroma.Lexer {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return nil
	}

	if lexer := lexers.Get(lang); lexer != nil {
		return lexer
	}

	if name, ok := enry.GetLanguageByAlias(lang); ok {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}

	if name, ok := enry.GetLanguageByExtension("file." + strings.ToLower(lang)); ok {
		if lexer := lexers.Get(name); lexer != nil {
			return lexer
		}
	}

	return nil
}

// Tokenize splits code into highlighted lines. Code carries no final line
// terminator, so every "\n" starts a new line and "a\n" yields two lines.
func (h *Highlighter) Tokenize(code, lang string) Block {
	want := strings.Count(code, "\n") + 1

	block := Block{Language: lang}

	lexer := Resolve(lang)
	if lexer == nil {
		block.Plain = true
		block.Lines = plainLines(code)
		return block
	}

	iterator, err := chroma.Coalesce(lexer).Tokenise(nil, code)
	if err != nil {
		block.Plain = true
		block.Lines = plainLines(code)
		return block
	}

	block.Lexer = lexer.Config().Name
	block.Lines = h.splitLines(iterator.Tokens(), want)
	return block
}

// splitLines distributes tokens over exactly want lines. Lexers that append
// a final newline produce one surplus empty line, which is dropped.
func (h *Highlighter) splitLines(tokens []chroma.Token, want int) []Line {
	lines := make([]Line, 0, want)
	current := Line{Number: 1}

	for _, tok := range tokens {
		parts := strings.Split(tok.Value, "\n")
		for i, part := range parts {
			if i > 0 {
				lines = append(lines, current)
				current = Line{Number: len(lines) + 1}
			}
			if part == "" {
				continue
			}
			current.Tokens = append(current.Tokens, Token{
				Type:  tok.Type.String(),
				Value: part,
				Style: h.styleFor(tok.Type),
			})
		}
	}
	lines = append(lines, current)

	if len(lines) > want {
		lines = lines[:want]
	}
	for len(lines) < want {
		lines = append(lines, Line{Number: len(lines) + 1})
	}

	return lines
}

func (h *Highlighter) styleFor(tt chroma.TokenType) Style {
	entry := h.style.Get(tt)

	var s Style
	if entry.Colour.IsSet() {
		s.Color = entry.Colour.String()
	}
	// Tokens inherit the theme background; only record overrides.
	if entry.Background.IsSet() && entry.Background != h.bg {
		s.Background = entry.Background.String()
	}
	s.Bold = entry.Bold == chroma.Yes
	s.Italic = entry.Italic == chroma.Yes
	s.Underline = entry.Underline == chroma.Yes

	return s
}

func plainLines(code string) []Line {
	raw := strings.Split(code, "\n")
	lines := make([]Line, len(raw))
	for i, text := range raw {
		lines[i] = Line{Number: i + 1}
		if text != "" {
			lines[i].Tokens = []Token{{Type: chroma.Text.String(), Value: text}}
		}
	}
	return lines
}
