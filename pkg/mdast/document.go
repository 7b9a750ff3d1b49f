package mdast

import "strings"

// Document is the parsed representation of a markdown text at a point in
// time. It is derived data: recompute it whenever the text changes.
type Document struct {
	// Content is a private copy of the parsed text.
	Content []byte

	// Root is the tree root (NodeDocument).
	Root *Node
}

// NewDocumentFor wraps root and a copy of content in a Document.
func NewDocumentFor(content []byte, root *Node) *Document {
	cp := make([]byte, len(content))
	copy(cp, content)
	return &Document{Content: cp, Root: root}
}

// IsEmpty reports whether the document has no content to render.
func (d *Document) IsEmpty() bool {
	return d == nil || len(d.Content) == 0
}

// SplitInfo splits a fenced code info string into its language tag (the
// first space- or tab-separated word) and the remaining metadata.
func SplitInfo(info string) (string, string) {
	info = strings.TrimSpace(info)
	if info == "" {
		return "", ""
	}

	idx := strings.IndexAny(info, " \t")
	if idx < 0 {
		return info, ""
	}

	return info[:idx], strings.TrimSpace(info[idx+1:])
}
