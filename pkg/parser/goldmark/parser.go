// Package goldmark parses markdown with the goldmark library and maps the
// result into an mdast tree.
package goldmark

import (
	"context"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"

	"github.com/yaklabco/mdpost/pkg/mdast"
)

// Parser converts markdown text into an mdast.Document.
// A Parser is safe for concurrent use.
type Parser struct {
	gfm  bool
	math bool
	md   goldmark.Markdown
}

// Option configures a Parser.
type Option func(*Parser)

// WithGFM enables or disables GitHub Flavored Markdown (tables,
// strikethrough, task lists, autolinks). Enabled by default.
func WithGFM(enabled bool) Option {
	return func(p *Parser) { p.gfm = enabled }
}

// WithMath enables or disables $inline$ and $$display$$ math. Enabled by default.
func WithMath(enabled bool) Option {
	return func(p *Parser) { p.math = enabled }
}

// New creates a parser. GFM and math are enabled unless switched off.
func New(opts ...Option) *Parser {
	p := &Parser{gfm: true, math: true}
	for _, opt := range opts {
		opt(p)
	}
	p.md = newGoldmarkInstance(p.gfm, p.math)
	return p
}

// GFM reports whether GitHub Flavored Markdown is enabled.
func (p *Parser) GFM() bool { return p.gfm }

// Math reports whether math syntax is enabled.
func (p *Parser) Math() bool { return p.math }

// Parse converts raw markdown into a Document. Parsing is total: malformed
// markdown never fails, and the only error is context cancellation.
// Empty content yields a Document whose root has no children.
func (p *Parser) Parse(ctx context.Context, content []byte) (*mdast.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	doc := mdast.NewDocumentFor(content, nil)

	reader := text.NewReader(doc.Content)
	gmDoc := p.md.Parser().Parse(reader, parser.WithContext(parser.NewContext()))

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse cancelled: %w", err)
	}

	doc.Root = newMapper(doc.Content).mapDocument(gmDoc)

	return doc, nil
}

// newGoldmarkInstance creates a configured goldmark.Markdown instance.
//
//nolint:ireturn // goldmark.Markdown is an external interface type
func newGoldmarkInstance(gfm, math bool) goldmark.Markdown {
	var exts []goldmark.Extender

	if gfm {
		exts = append(exts, extension.GFM)
	}
	if math {
		exts = append(exts, Math)
	}

	return goldmark.New(goldmark.WithExtensions(exts...))
}
