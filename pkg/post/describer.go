package post

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/yaklabco/mdpost/pkg/mdast"
	mdparser "github.com/yaklabco/mdpost/pkg/parser/goldmark"
)

// Describer produces a short description for post content.
type Describer interface {
	Describe(ctx context.Context, content string) (string, error)
}

// DescriberFunc adapts a function to Describer.
type DescriberFunc func(ctx context.Context, content string) (string, error)

// Describe calls f.
func (f DescriberFunc) Describe(ctx context.Context, content string) (string, error) {
	return f(ctx, content)
}

// ExcerptDescriber describes content by its first paragraph, falling back
// to the first heading.
type ExcerptDescriber struct {
	parser    *mdparser.Parser
	maxLength int
}

// NewExcerptDescriber creates a describer producing descriptions shorter
// than maxLength characters. Non-positive values use MaxDescriptionLength.
func NewExcerptDescriber(maxLength int) *ExcerptDescriber {
	if maxLength <= 0 {
		maxLength = MaxDescriptionLength
	}
	return &ExcerptDescriber{parser: mdparser.New(), maxLength: maxLength}
}

// Describe returns the cleaned excerpt of content.
func (d *ExcerptDescriber) Describe(ctx context.Context, content string) (string, error) {
	doc, err := d.parser.Parse(ctx, []byte(content))
	if err != nil {
		return "", fmt.Errorf("describe: %w", err)
	}

	source := mdast.FindFirst(doc.Root, func(n *mdast.Node) bool {
		return n.Kind == mdast.NodeParagraph && strings.TrimSpace(n.PlainText()) != ""
	})
	if source == nil {
		source = mdast.FindFirst(doc.Root, func(n *mdast.Node) bool {
			return n.Kind == mdast.NodeHeading
		})
	}
	if source == nil {
		return "", nil
	}

	return CleanDescription(source.PlainText(), d.maxLength), nil
}

// CleanDescription normalizes a generated description: whitespace runs
// collapse to single spaces, the text is cut at a word boundary to fewer
// than maxLength characters, and trailing punctuation is dropped.
func CleanDescription(s string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = MaxDescriptionLength
	}
	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) >= maxLength {
		cut := string(runes[:maxLength-1])
		if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
			cut = cut[:idx]
		}
		s = cut
	}

	return strings.TrimRightFunc(s, func(r rune) bool {
		return unicode.IsPunct(r) || unicode.IsSpace(r)
	})
}
