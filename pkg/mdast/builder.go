package mdast

// NewNode returns a detached node of the given kind.
func NewNode(kind NodeKind) *Node {
	return &Node{Kind: kind}
}

// NewDocument returns an empty document root.
func NewDocument() *Node {
	return NewNode(NodeDocument)
}

// AppendChild makes child the last child of parent, detaching it from any
// previous parent first.
func AppendChild(parent, child *Node) {
	if parent == nil || child == nil {
		return
	}
	child.detach()

	child.Parent = parent
	child.Prev = parent.LastChild
	if last := parent.LastChild; last != nil {
		last.Next = child
	} else {
		parent.FirstChild = child
	}
	parent.LastChild = child
}

// RemoveChild detaches child when parent is its parent.
func RemoveChild(parent, child *Node) {
	if parent == nil || child == nil || child.Parent != parent {
		return
	}
	child.detach()
}

// detach unlinks n from its parent and siblings.
func (n *Node) detach() {
	parent := n.Parent
	if parent == nil {
		return
	}
	if n.Prev == nil {
		parent.FirstChild = n.Next
	} else {
		n.Prev.Next = n.Next
	}
	if n.Next == nil {
		parent.LastChild = n.Prev
	} else {
		n.Next.Prev = n.Prev
	}
	n.Parent, n.Prev, n.Next = nil, nil, nil
}

// NewText creates a text node holding s.
func NewText(s string) *Node {
	node := NewNode(NodeText)
	node.Inline = NewInlineAttrs().WithText([]byte(s))
	return node
}

// NewCodeBlock creates a fenced code block node for the given info string
// and code. Language and Meta are split from info.
func NewCodeBlock(info, code string) *Node {
	lang, meta := SplitInfo(info)
	node := NewNode(NodeCodeBlock)
	node.Block = NewBlockAttrs().WithCodeBlock(&CodeBlockAttrs{
		Info:        info,
		Language:    lang,
		Meta:        meta,
		Code:        code,
		Fenced:      true,
		FenceChar:   '`',
		FenceLength: 3,
	})
	return node
}
