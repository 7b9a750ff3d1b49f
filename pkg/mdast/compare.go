package mdast

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"
)

// Equal reports whether the trees rooted at a and b have the same shape,
// kinds and attributes. Parent and sibling pointers are not compared.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	if !reflect.DeepEqual(a.Block, b.Block) || !reflect.DeepEqual(a.Inline, b.Inline) {
		return false
	}

	ca, cb := a.FirstChild, b.FirstChild
	for ca != nil && cb != nil {
		if !Equal(ca, cb) {
			return false
		}
		ca, cb = ca.Next, cb.Next
	}
	return ca == nil && cb == nil
}

// Dump writes an indented, one-node-per-line description of the tree.
func Dump(w io.Writer, root *Node) error {
	return WalkDepth(root, func(n *Node, depth int) error {
		_, err := fmt.Fprintf(w, "%s%s%s\n", strings.Repeat("  ", depth), n.Kind, describe(n))
		return err
	})
}

// DumpString returns the Dump output as a string.
func DumpString(root *Node) string {
	var buf bytes.Buffer
	_ = Dump(&buf, root)
	return buf.String()
}

func describe(n *Node) string {
	var parts []string

	if b := n.Block; b != nil {
		if n.Kind == NodeHeading {
			parts = append(parts, fmt.Sprintf("level=%d", b.HeadingLevel))
		}
		if b.List != nil {
			parts = append(parts, fmt.Sprintf("ordered=%t", b.List.Ordered))
		}
		if c := b.CodeBlock; c != nil {
			parts = append(parts, fmt.Sprintf("lang=%q", c.Language))
			if c.Title != nil {
				parts = append(parts, fmt.Sprintf("title=%q", *c.Title))
			}
			parts = append(parts, fmt.Sprintf("code=%q", c.Code))
		}
		if b.Cell != nil && b.Cell.Header {
			parts = append(parts, "header")
		}
		if len(b.Literal) > 0 {
			parts = append(parts, fmt.Sprintf("%q", b.Literal))
		}
	}

	if in := n.Inline; in != nil {
		if len(in.Text) > 0 {
			parts = append(parts, fmt.Sprintf("%q", in.Text))
		}
		if in.Link != nil {
			parts = append(parts, fmt.Sprintf("dest=%q", in.Link.Destination))
		}
		if n.Kind == NodeTaskCheckBox {
			parts = append(parts, fmt.Sprintf("checked=%t", in.Checked))
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}
