// Package mdast provides the markdown document tree: a tagged-variant node
// tree that the parser produces, transformation stages rewrite, and
// renderers map to output.
package mdast

// NodeKind classifies the type of a tree node.
type NodeKind uint16

// Node kinds for block-level and inline-level Markdown elements.
const (
	NodeDocument NodeKind = iota

	// Block-level nodes.
	NodeParagraph
	NodeHeading
	NodeList
	NodeListItem
	NodeBlockquote
	NodeCodeBlock
	NodeThematicBreak
	NodeHTMLBlock
	NodeMathBlock
	NodeTable
	NodeTableHead
	NodeTableBody
	NodeTableRow
	NodeTableCell

	// Inline-level nodes.
	NodeText
	NodeEmphasis
	NodeStrong
	NodeStrikethrough
	NodeCodeSpan
	NodeLink
	NodeImage
	NodeSoftBreak
	NodeHardBreak
	NodeHTMLInline
	NodeMath
	NodeTaskCheckBox

	// Fallback for unrecognized content.
	NodeRaw
)

//nolint:gochecknoglobals // Lookup table for String.
var nodeKindNames = [...]string{
	NodeDocument:      "Document",
	NodeParagraph:     "Paragraph",
	NodeHeading:       "Heading",
	NodeList:          "List",
	NodeListItem:      "ListItem",
	NodeBlockquote:    "Blockquote",
	NodeCodeBlock:     "CodeBlock",
	NodeThematicBreak: "ThematicBreak",
	NodeHTMLBlock:     "HTMLBlock",
	NodeMathBlock:     "MathBlock",
	NodeTable:         "Table",
	NodeTableHead:     "TableHead",
	NodeTableBody:     "TableBody",
	NodeTableRow:      "TableRow",
	NodeTableCell:     "TableCell",
	NodeText:          "Text",
	NodeEmphasis:      "Emphasis",
	NodeStrong:        "Strong",
	NodeStrikethrough: "Strikethrough",
	NodeCodeSpan:      "CodeSpan",
	NodeLink:          "Link",
	NodeImage:         "Image",
	NodeSoftBreak:     "SoftBreak",
	NodeHardBreak:     "HardBreak",
	NodeHTMLInline:    "HTMLInline",
	NodeMath:          "Math",
	NodeTaskCheckBox:  "TaskCheckBox",
	NodeRaw:           "Raw",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) && nodeKindNames[k] != "" {
		return nodeKindNames[k]
	}
	return "NodeKind(unknown)"
}

// Node represents a single node in the document tree.
// Nodes form a tree structure with parent/child/sibling relationships.
type Node struct {
	// Kind identifies what type of node this is.
	Kind NodeKind

	// Tree structure pointers.
	Parent     *Node
	FirstChild *Node
	LastChild  *Node
	Prev       *Node
	Next       *Node

	// Block holds attributes for block-level nodes.
	Block *BlockAttrs

	// Inline holds attributes for inline-level nodes.
	Inline *InlineAttrs
}

// IsBlock returns true if this is a block-level node.
func (n *Node) IsBlock() bool {
	switch n.Kind {
	case NodeDocument, NodeParagraph, NodeHeading, NodeList, NodeListItem,
		NodeBlockquote, NodeCodeBlock, NodeThematicBreak, NodeHTMLBlock,
		NodeMathBlock, NodeTable, NodeTableHead, NodeTableBody, NodeTableRow,
		NodeTableCell:
		return true
	default:
		return false
	}
}

// IsInline returns true if this is an inline-level node.
func (n *Node) IsInline() bool {
	switch n.Kind {
	case NodeText, NodeEmphasis, NodeStrong, NodeStrikethrough, NodeCodeSpan,
		NodeLink, NodeImage, NodeSoftBreak, NodeHardBreak, NodeHTMLInline,
		NodeMath, NodeTaskCheckBox:
		return true
	default:
		return false
	}
}

// HasChildren returns true if this node has any children.
func (n *Node) HasChildren() bool {
	return n.FirstChild != nil
}

// ChildCount returns the number of direct children.
func (n *Node) ChildCount() int {
	count := 0
	for child := n.FirstChild; child != nil; child = child.Next {
		count++
	}
	return count
}

// Children returns a slice of all direct children.
func (n *Node) Children() []*Node {
	var children []*Node
	for child := n.FirstChild; child != nil; child = child.Next {
		children = append(children, child)
	}
	return children
}

// CodeBlock returns the code block attributes, or nil for other kinds.
func (n *Node) CodeBlock() *CodeBlockAttrs {
	if n.Kind != NodeCodeBlock || n.Block == nil {
		return nil
	}
	return n.Block.CodeBlock
}

// PlainText concatenates the literal text of n and its descendants.
// Breaks become newlines; markup is dropped.
func (n *Node) PlainText() string {
	var buf []byte

	//nolint:errcheck,revive // Walk only returns nil errors in this usage
	Walk(n, func(child *Node) error {
		switch child.Kind {
		case NodeText, NodeCodeSpan, NodeMath, NodeHTMLInline:
			if child.Inline != nil {
				buf = append(buf, child.Inline.Text...)
			}
		case NodeSoftBreak, NodeHardBreak:
			buf = append(buf, '\n')
		}
		return nil
	})

	return string(buf)
}
