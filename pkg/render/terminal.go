package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yaklabco/mdpost/internal/ui/pretty"
	"github.com/yaklabco/mdpost/pkg/highlight"
	"github.com/yaklabco/mdpost/pkg/mdast"
)

const (
	defaultTerminalWidth = 80
	bulletMarker         = "• "
	quoteMarker          = "│ "
	gutterMarker         = " │ "
	ruleChar             = "─"
)

// Terminal renders documents as styled text for a terminal.
type Terminal struct {
	hl     *highlight.Highlighter
	styles *pretty.Styles
	width  int
}

// TerminalOption configures a Terminal renderer.
type TerminalOption func(*Terminal)

// WithWidth sets the wrap width used for rules and tables.
func WithWidth(width int) TerminalOption {
	return func(t *Terminal) {
		if width > 0 {
			t.width = width
		}
	}
}

// NewTerminal creates a terminal renderer. Nil arguments fall back to the
// default theme and colorless styles.
func NewTerminal(hl *highlight.Highlighter, styles *pretty.Styles, opts ...TerminalOption) *Terminal {
	if hl == nil {
		hl = highlight.New(highlight.DefaultTheme)
	}
	if styles == nil {
		styles = pretty.NewStyles(false)
	}
	t := &Terminal{hl: hl, styles: styles, width: defaultTerminalWidth}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Render writes doc as styled text. Empty documents write nothing.
func (t *Terminal) Render(out io.Writer, doc *mdast.Document) error {
	if doc.IsEmpty() || doc.Root == nil {
		return nil
	}

	text := t.blocks(doc.Root, false)
	if text == "" {
		return nil
	}
	if _, err := io.WriteString(out, text+"\n"); err != nil {
		return fmt.Errorf("write terminal output: %w", err)
	}
	return nil
}

// RenderString renders doc and returns the text.
func (t *Terminal) RenderString(doc *mdast.Document) string {
	var sb strings.Builder
	_ = t.Render(&sb, doc)
	return sb.String()
}

// blocks renders the block children of n, separated by blank lines unless
// tight is set.
func (t *Terminal) blocks(n *mdast.Node, tight bool) string {
	sep := "\n\n"
	if tight {
		sep = "\n"
	}

	parts := make([]string, 0, n.ChildCount())
	for child := n.FirstChild; child != nil; child = child.Next {
		if child.IsInline() {
			parts = append(parts, t.inline(child))
			continue
		}
		parts = append(parts, t.block(child))
	}
	return strings.Join(parts, sep)
}

func (t *Terminal) block(n *mdast.Node) string {
	switch n.Kind {
	case mdast.NodeHeading:
		return t.heading(n)
	case mdast.NodeParagraph:
		return t.inlines(n)
	case mdast.NodeList:
		return t.list(n)
	case mdast.NodeBlockquote:
		body := t.blocks(n, false)
		return prefixLines(body, t.styles.QuoteBar.Render(quoteMarker), t.styles.Quote)
	case mdast.NodeCodeBlock:
		return t.codeBlock(n)
	case mdast.NodeThematicBreak:
		return t.styles.Rule.Render(strings.Repeat(ruleChar, t.width))
	case mdast.NodeHTMLBlock:
		return t.styles.Dim.Render(strings.TrimRight(literal(n), "\n"))
	case mdast.NodeMathBlock:
		return t.styles.MathBlock.Render("$$\n" + strings.TrimRight(literal(n), "\n") + "\n$$")
	case mdast.NodeTable:
		return strings.TrimRight(t.table(n), "\n")
	default:
		return t.fallback(n)
	}
}

func (t *Terminal) heading(n *mdast.Node) string {
	level := 1
	if n.Block != nil && n.Block.HeadingLevel > 0 {
		level = n.Block.HeadingLevel
	}
	text := strings.Repeat("#", level) + " " + t.inlines(n)
	if level == 1 {
		return t.styles.Heading.Render(text)
	}
	return t.styles.Subheading.Render(text)
}

func (t *Terminal) list(n *mdast.Node) string {
	ordered, tight, number := false, false, 1
	if n.Block != nil && n.Block.List != nil {
		ordered = n.Block.List.Ordered
		tight = n.Block.List.Tight
		number = n.Block.List.StartNumber
	}

	items := make([]string, 0, n.ChildCount())
	for item := n.FirstChild; item != nil; item = item.Next {
		marker := bulletMarker
		if ordered {
			marker = strconv.Itoa(number) + ". "
			number++
		}
		body := t.blocks(item, tight)
		indent := strings.Repeat(" ", lipgloss.Width(marker))
		lines := strings.Split(body, "\n")
		for i := range lines {
			if i == 0 {
				lines[i] = t.styles.ListMarker.Render(marker) + lines[i]
			} else if lines[i] != "" {
				lines[i] = indent + lines[i]
			}
		}
		items = append(items, strings.Join(lines, "\n"))
	}

	sep := "\n\n"
	if tight {
		sep = "\n"
	}
	return strings.Join(items, sep)
}

// codeBlock renders a block without a language as inline code, and one
// with a language as a header followed by numbered, highlighted lines.
func (t *Terminal) codeBlock(n *mdast.Node) string {
	attrs := n.CodeBlock()
	if attrs == nil || attrs.Language == "" {
		code := ""
		if attrs != nil {
			code = attrs.Code
		}
		return t.styles.InlineCode.Render(code)
	}

	block := t.hl.Tokenize(attrs.Code, attrs.Language)

	var sb strings.Builder
	if attrs.HasTitle() {
		sb.WriteString(t.styles.CodeTitle.Render(*attrs.Title))
		sb.WriteString(" ")
	}
	sb.WriteString(t.styles.CodeLang.Render(attrs.Language))

	numWidth := len(strconv.Itoa(len(block.Lines)))
	for _, line := range block.Lines {
		sb.WriteString("\n")
		sb.WriteString(t.styles.LineNumber.Render(fmt.Sprintf("%*d", numWidth, line.Number)))
		sb.WriteString(t.styles.Gutter.Render(gutterMarker))
		for _, tok := range line.Tokens {
			sb.WriteString(t.token(tok))
		}
	}
	return sb.String()
}

func (t *Terminal) token(tok highlight.Token) string {
	if !t.styles.ColorEnabled || tok.Style.IsZero() {
		return tok.Value
	}
	style := lipgloss.NewStyle().
		Bold(tok.Style.Bold).
		Italic(tok.Style.Italic).
		Underline(tok.Style.Underline)
	if tok.Style.Color != "" {
		style = style.Foreground(lipgloss.Color(tok.Style.Color))
	}
	return style.Render(tok.Value)
}

func (t *Terminal) table(n *mdast.Node) string {
	tbl := &pretty.Table{}
	if n.Block != nil && n.Block.Table != nil {
		for _, a := range n.Block.Table.Alignments {
			tbl.Aligns = append(tbl.Aligns, prettyAlign(a))
		}
	}

	for section := n.FirstChild; section != nil; section = section.Next {
		for row := section.FirstChild; row != nil; row = row.Next {
			cells := make([]string, 0, row.ChildCount())
			for cell := row.FirstChild; cell != nil; cell = cell.Next {
				cells = append(cells, cell.PlainText())
			}
			if section.Kind == mdast.NodeTableHead {
				tbl.Headers = cells
			} else {
				tbl.Rows = append(tbl.Rows, cells)
			}
		}
	}

	return pretty.NewTableFormatter(t.styles, t.styles.ColorEnabled, t.width).FormatTable(tbl)
}

func prettyAlign(a mdast.Alignment) pretty.Align {
	switch a {
	case mdast.AlignCenter:
		return pretty.AlignCenter
	case mdast.AlignRight:
		return pretty.AlignRight
	default:
		return pretty.AlignLeft
	}
}

func (t *Terminal) fallback(n *mdast.Node) string {
	label := t.styles.Fallback.Render("[" + FallbackLabel + ": " + n.Kind.String() + "]")
	if !n.HasChildren() {
		return label
	}
	return label + "\n" + t.blocks(n, false)
}

func (t *Terminal) inlines(n *mdast.Node) string {
	var sb strings.Builder
	for child := n.FirstChild; child != nil; child = child.Next {
		sb.WriteString(t.inline(child))
	}
	return sb.String()
}

func (t *Terminal) inline(n *mdast.Node) string {
	switch n.Kind {
	case mdast.NodeText:
		return inlineText(n)
	case mdast.NodeEmphasis:
		return t.styles.Emphasis.Render(t.inlines(n))
	case mdast.NodeStrong:
		return t.styles.Strong.Render(t.inlines(n))
	case mdast.NodeStrikethrough:
		return t.styles.Strike.Render(t.inlines(n))
	case mdast.NodeCodeSpan:
		return t.styles.InlineCode.Render(inlineText(n))
	case mdast.NodeLink:
		return t.link(n)
	case mdast.NodeImage:
		return t.styles.LinkURL.Render("[image: " + n.PlainText() + "]")
	case mdast.NodeSoftBreak, mdast.NodeHardBreak:
		return "\n"
	case mdast.NodeHTMLInline:
		return t.styles.Dim.Render(inlineText(n))
	case mdast.NodeMath:
		return t.styles.Math.Render(inlineText(n))
	case mdast.NodeTaskCheckBox:
		if n.Inline != nil && n.Inline.Checked {
			return "[x] "
		}
		return "[ ] "
	default:
		return t.styles.Fallback.Render("[" + FallbackLabel + ": " + n.Kind.String() + "]")
	}
}

func (t *Terminal) link(n *mdast.Node) string {
	text := t.styles.Link.Render(t.inlines(n))
	if n.Inline == nil || n.Inline.Link == nil || n.Inline.Link.Autolink {
		return text
	}
	return text + " " + t.styles.LinkURL.Render("("+n.Inline.Link.Destination+")")
}

func literal(n *mdast.Node) string {
	if n.Block == nil {
		return ""
	}
	return string(n.Block.Literal)
}

func inlineText(n *mdast.Node) string {
	if n.Inline == nil {
		return ""
	}
	return string(n.Inline.Text)
}

// prefixLines prefixes every line of body with prefix, styling the
// content with style.
func prefixLines(body, prefix string, style lipgloss.Style) string {
	lines := strings.Split(body, "\n")
	for i, line := range lines {
		lines[i] = prefix + style.Render(line)
	}
	return strings.Join(lines, "\n")
}
