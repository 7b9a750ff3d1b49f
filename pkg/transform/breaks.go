package transform

import "github.com/yaklabco/mdpost/pkg/mdast"

// HardBreaks turns every soft line break into a hard break, so a single
// newline in a paragraph renders as a line break.
type HardBreaks struct{}

// Name implements Stage.
func (HardBreaks) Name() string { return "hard-breaks" }

// Apply implements Stage.
func (HardBreaks) Apply(root *mdast.Node) {
	mdast.Visit(root, mdast.Handlers{
		mdast.NodeSoftBreak: func(n *mdast.Node) {
			n.Kind = mdast.NodeHardBreak
		},
	})
}
