package transform

import (
	"regexp"

	"github.com/yaklabco/mdpost/pkg/mdast"
)

// titlePattern matches title="..." anywhere in code block metadata.
var titlePattern = regexp.MustCompile(`title="([^"]*)"`)

// ExtractTitle returns the first title="..." value in meta. The title may
// be empty; ok is false only when no title token is present.
func ExtractTitle(meta string) (title string, ok bool) {
	m := titlePattern.FindStringSubmatch(meta)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// CodeTitle copies a title="..." token from each code block's metadata into
// the block's Title attribute. Blocks without a title token are untouched.
type CodeTitle struct{}

// Name implements Stage.
func (CodeTitle) Name() string { return "code-title" }

// Apply implements Stage.
func (CodeTitle) Apply(root *mdast.Node) {
	mdast.Visit(root, mdast.Handlers{
		mdast.NodeCodeBlock: func(n *mdast.Node) {
			attrs := n.CodeBlock()
			if attrs == nil || attrs.Meta == "" {
				return
			}
			if title, ok := ExtractTitle(attrs.Meta); ok {
				attrs.Title = &title
			}
		},
	})
}
