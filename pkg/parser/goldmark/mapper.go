package goldmark

import (
	"bytes"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/yaklabco/mdpost/pkg/mdast"
)

// mapper converts a goldmark AST into an mdast.Node tree.
type mapper struct {
	content []byte
}

// newMapper creates a new mapper for the given content.
func newMapper(content []byte) *mapper {
	return &mapper{content: content}
}

// mapDocument converts a goldmark document node to an mdast.Node tree.
func (m *mapper) mapDocument(gmDoc ast.Node) *mdast.Node {
	doc := mdast.NewDocument()
	m.mapChildren(gmDoc, doc)
	return doc
}

// mapChildren recursively maps all children of a goldmark node to mdast nodes.
func (m *mapper) mapChildren(gmParent ast.Node, parent *mdast.Node) {
	for child := gmParent.FirstChild(); child != nil; child = child.NextSibling() {
		// A goldmark Text carries its trailing line break as a flag; mdast
		// models the break as a sibling node.
		if textNode, ok := child.(*ast.Text); ok {
			m.appendText(parent, textNode)
			continue
		}
		if mdNode := m.mapNode(child); mdNode != nil {
			mdast.AppendChild(parent, mdNode)
		}
	}
}

// mapNode converts a single goldmark node to an mdast.Node.
func (m *mapper) mapNode(gmNode ast.Node) *mdast.Node {
	var node *mdast.Node

	switch gmn := gmNode.(type) {
	// Block-level nodes.
	case *ast.Heading:
		node = mdast.NewNode(mdast.NodeHeading)
		node.Block = mdast.NewBlockAttrs().WithHeadingLevel(gmn.Level)
		m.mapChildren(gmNode, node)

	case *ast.Paragraph, *ast.TextBlock:
		node = mdast.NewNode(mdast.NodeParagraph)
		m.mapChildren(gmNode, node)

	case *ast.List:
		node = m.mapList(gmn)

	case *ast.ListItem:
		node = mdast.NewNode(mdast.NodeListItem)
		m.mapChildren(gmNode, node)

	case *ast.Blockquote:
		node = mdast.NewNode(mdast.NodeBlockquote)
		m.mapChildren(gmNode, node)

	case *ast.FencedCodeBlock:
		node = m.mapFencedCodeBlock(gmn)

	case *ast.CodeBlock:
		node = mdast.NewNode(mdast.NodeCodeBlock)
		node.Block = mdast.NewBlockAttrs().WithCodeBlock(&mdast.CodeBlockAttrs{
			Code: m.codeValue(gmn),
		})

	case *ast.ThematicBreak:
		node = mdast.NewNode(mdast.NodeThematicBreak)

	case *ast.HTMLBlock:
		literal := m.linesValue(gmn)
		if gmn.HasClosure() {
			literal = append(literal, gmn.ClosureLine.Value(m.content)...)
		}
		node = mdast.NewNode(mdast.NodeHTMLBlock)
		node.Block = mdast.NewBlockAttrs().WithLiteral(literal)

	case *MathBlock:
		node = mdast.NewNode(mdast.NodeMathBlock)
		node.Block = mdast.NewBlockAttrs().WithLiteral([]byte(m.codeValue(gmn)))

	// Inline-level nodes.
	case *ast.Emphasis:
		node = m.mapEmphasis(gmn)

	case *ast.CodeSpan:
		node = mdast.NewNode(mdast.NodeCodeSpan)
		node.Inline = mdast.NewInlineAttrs().WithText(m.inlineText(gmn))

	case *ast.Link:
		node = mdast.NewNode(mdast.NodeLink)
		node.Inline = mdast.NewInlineAttrs().WithLink(&mdast.LinkAttrs{
			Destination: string(gmn.Destination),
			Title:       string(gmn.Title),
		})
		m.mapChildren(gmNode, node)

	case *ast.Image:
		node = mdast.NewNode(mdast.NodeImage)
		node.Inline = mdast.NewInlineAttrs().WithLink(&mdast.LinkAttrs{
			Destination: string(gmn.Destination),
			Title:       string(gmn.Title),
		})
		m.mapChildren(gmNode, node)

	case *ast.AutoLink:
		node = m.mapAutoLink(gmn)

	case *ast.RawHTML:
		node = m.mapRawHTML(gmn)

	case *ast.String:
		node = mdast.NewNode(mdast.NodeText)
		node.Inline = mdast.NewInlineAttrs().WithText(append([]byte(nil), gmn.Value...))

	case *MathInline:
		node = mdast.NewNode(mdast.NodeMath)
		node.Inline = mdast.NewInlineAttrs().WithText(gmn.Value)

	// GFM extension nodes.
	case *east.Strikethrough:
		node = mdast.NewNode(mdast.NodeStrikethrough)
		m.mapChildren(gmNode, node)

	case *east.TaskCheckBox:
		node = mdast.NewNode(mdast.NodeTaskCheckBox)
		node.Inline = mdast.NewInlineAttrs().WithChecked(gmn.IsChecked)

	case *east.Table:
		node = m.mapTable(gmn)

	default:
		// Fallback for unknown node types.
		node = mdast.NewNode(mdast.NodeRaw)
		m.mapChildren(gmNode, node)
	}

	return node
}

// appendText appends a text node and any line break that follows it.
func (m *mapper) appendText(parent *mdast.Node, textNode *ast.Text) {
	if value := textNode.Segment.Value(m.content); len(value) > 0 {
		node := mdast.NewNode(mdast.NodeText)
		node.Inline = mdast.NewInlineAttrs().WithText(append([]byte(nil), value...))
		mdast.AppendChild(parent, node)
	}

	switch {
	case textNode.HardLineBreak():
		mdast.AppendChild(parent, mdast.NewNode(mdast.NodeHardBreak))
	case textNode.SoftLineBreak():
		mdast.AppendChild(parent, mdast.NewNode(mdast.NodeSoftBreak))
	}
}

// mapList converts a goldmark List to an mdast node.
func (m *mapper) mapList(list *ast.List) *mdast.Node {
	node := mdast.NewNode(mdast.NodeList)

	listAttrs := &mdast.ListAttrs{
		Ordered:     list.IsOrdered(),
		StartNumber: list.Start,
		Tight:       list.IsTight,
	}
	if !list.IsOrdered() {
		listAttrs.BulletMarker = string(list.Marker)
	}

	node.Block = mdast.NewBlockAttrs().WithList(listAttrs)
	m.mapChildren(list, node)
	return node
}

// mapFencedCodeBlock converts a goldmark FencedCodeBlock to an mdast node.
func (m *mapper) mapFencedCodeBlock(codeBlock *ast.FencedCodeBlock) *mdast.Node {
	info := ""
	if codeBlock.Info != nil {
		info = string(codeBlock.Info.Segment.Value(m.content))
	}
	lang, meta := mdast.SplitInfo(info)
	fenceChar, fenceLength := m.detectFenceStyle(codeBlock)

	node := mdast.NewNode(mdast.NodeCodeBlock)
	node.Block = mdast.NewBlockAttrs().WithCodeBlock(&mdast.CodeBlockAttrs{
		Info:        info,
		Language:    lang,
		Meta:        meta,
		Code:        m.codeValue(codeBlock),
		Fenced:      true,
		FenceChar:   fenceChar,
		FenceLength: fenceLength,
	})
	return node
}

// detectFenceStyle reads the fence character and length from the opening
// fence line. The info segment sits on that line; for blocks without an
// info string the first content line is used to locate it.
func (m *mapper) detectFenceStyle(codeBlock *ast.FencedCodeBlock) (byte, int) {
	anchor := -1
	if codeBlock.Info != nil {
		anchor = codeBlock.Info.Segment.Start
	} else if lines := codeBlock.Lines(); lines.Len() > 0 {
		anchor = lines.At(0).Start
		// Step back onto the fence line.
		for anchor > 0 && m.content[anchor-1] != '\n' {
			anchor--
		}
		anchor--
	}
	if anchor <= 0 || anchor > len(m.content) {
		return '`', 3
	}

	lineStart := anchor
	for lineStart > 0 && m.content[lineStart-1] != '\n' {
		lineStart--
	}

	pos := lineStart
	for pos < len(m.content) && (m.content[pos] == ' ' || m.content[pos] == '\t') {
		pos++
	}
	if pos >= len(m.content) {
		return '`', 3
	}

	fenceChar := m.content[pos]
	if fenceChar != '`' && fenceChar != '~' {
		return '`', 3
	}

	fenceLength := 0
	for pos < len(m.content) && m.content[pos] == fenceChar {
		fenceLength++
		pos++
	}

	return fenceChar, max(fenceLength, 3)
}

// mapEmphasis converts a goldmark Emphasis node to an mdast node.
func (m *mapper) mapEmphasis(emphasis *ast.Emphasis) *mdast.Node {
	var node *mdast.Node

	if emphasis.Level == 2 {
		node = mdast.NewNode(mdast.NodeStrong)
		node.Inline = mdast.NewInlineAttrs().WithEmphasisLevel(2)
	} else {
		node = mdast.NewNode(mdast.NodeEmphasis)
		node.Inline = mdast.NewInlineAttrs().WithEmphasisLevel(1)
	}

	m.mapChildren(emphasis, node)
	return node
}

// mapAutoLink converts a goldmark AutoLink to an mdast link with a text child.
func (m *mapper) mapAutoLink(al *ast.AutoLink) *mdast.Node {
	dest := string(al.URL(m.content))
	if al.AutoLinkType == ast.AutoLinkEmail && len(dest) > 0 {
		dest = "mailto:" + dest
	}

	node := mdast.NewNode(mdast.NodeLink)
	node.Inline = mdast.NewInlineAttrs().WithLink(&mdast.LinkAttrs{
		Destination: dest,
		Autolink:    true,
	})
	mdast.AppendChild(node, mdast.NewText(string(al.Label(m.content))))

	return node
}

// mapRawHTML converts inline raw HTML into an HTMLInline node.
func (m *mapper) mapRawHTML(raw *ast.RawHTML) *mdast.Node {
	var value []byte
	for i := range raw.Segments.Len() {
		seg := raw.Segments.At(i)
		value = append(value, seg.Value(m.content)...)
	}

	node := mdast.NewNode(mdast.NodeHTMLInline)
	node.Inline = mdast.NewInlineAttrs().WithText(value)
	return node
}

// mapTable converts a GFM table. goldmark yields the header row directly
// under the table followed by body rows; mdast groups them into TableHead
// and TableBody sections holding TableRow nodes.
func (m *mapper) mapTable(table *east.Table) *mdast.Node {
	aligns := make([]mdast.Alignment, len(table.Alignments))
	for i, a := range table.Alignments {
		aligns[i] = mapAlignment(a)
	}

	node := mdast.NewNode(mdast.NodeTable)
	node.Block = mdast.NewBlockAttrs().WithTable(&mdast.TableAttrs{Alignments: aligns})

	var body *mdast.Node
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		switch row := child.(type) {
		case *east.TableHeader:
			head := mdast.NewNode(mdast.NodeTableHead)
			mdast.AppendChild(head, m.mapTableRow(row, true))
			mdast.AppendChild(node, head)
		case *east.TableRow:
			if body == nil {
				body = mdast.NewNode(mdast.NodeTableBody)
				mdast.AppendChild(node, body)
			}
			mdast.AppendChild(body, m.mapTableRow(row, false))
		}
	}

	return node
}

func (m *mapper) mapTableRow(row ast.Node, header bool) *mdast.Node {
	node := mdast.NewNode(mdast.NodeTableRow)

	for child := row.FirstChild(); child != nil; child = child.NextSibling() {
		cell, ok := child.(*east.TableCell)
		if !ok {
			continue
		}
		cellNode := mdast.NewNode(mdast.NodeTableCell)
		cellNode.Block = mdast.NewBlockAttrs().WithCell(&mdast.TableCellAttrs{
			Header: header,
			Align:  mapAlignment(cell.Alignment),
		})
		m.mapChildren(cell, cellNode)
		mdast.AppendChild(node, cellNode)
	}

	return node
}

func mapAlignment(a east.Alignment) mdast.Alignment {
	switch a {
	case east.AlignLeft:
		return mdast.AlignLeft
	case east.AlignCenter:
		return mdast.AlignCenter
	case east.AlignRight:
		return mdast.AlignRight
	case east.AlignNone:
		return mdast.AlignNone
	default:
		return mdast.AlignNone
	}
}

// linesValue concatenates the raw line segments of a block node.
func (m *mapper) linesValue(n ast.Node) []byte {
	var value []byte
	lines := n.Lines()
	for i := range lines.Len() {
		seg := lines.At(i)
		value = append(value, seg.Value(m.content)...)
	}
	return value
}

// codeValue is the literal text of a code block without the terminator of
// its last line. Blank lines before the closing fence are kept.
func (m *mapper) codeValue(n ast.Node) string {
	value := m.linesValue(n)
	value = bytes.TrimSuffix(value, []byte("\n"))
	value = bytes.TrimSuffix(value, []byte("\r"))
	return string(value)
}

// inlineText concatenates the text of a node's Text and String children.
func (m *mapper) inlineText(n ast.Node) []byte {
	var value []byte
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch c := child.(type) {
		case *ast.Text:
			value = append(value, c.Segment.Value(m.content)...)
		case *ast.String:
			value = append(value, c.Value...)
		}
	}
	return value
}
