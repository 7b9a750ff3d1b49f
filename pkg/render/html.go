// Package render maps mdast documents to presentational output: HTML for
// the preview pane and web server, and styled text for terminals.
//
// Each node kind maps to an element through a lookup table. Kinds without
// an entry render through a visible "Undefined Component" fallback that
// still renders their children, so no content is dropped silently.
package render

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	"github.com/yaklabco/mdpost/pkg/highlight"
	"github.com/yaklabco/mdpost/pkg/mdast"
)

// FallbackLabel is the label shown for nodes without a mapping.
const FallbackLabel = "Undefined Component"

const rawHTMLOmitted = "<!-- raw HTML omitted -->"

type htmlFunc func(w *htmlWriter, n *mdast.Node)

// HTML renders documents to HTML fragments. It is safe for concurrent use.
type HTML struct {
	hl       *highlight.Highlighter
	classes  ClassMap
	wrapper  bool
	unsafe   bool
	elements map[mdast.NodeKind]htmlFunc
}

// HTMLOption configures an HTML renderer.
type HTMLOption func(*HTML)

// WithClasses replaces the class map.
func WithClasses(classes ClassMap) HTMLOption {
	return func(r *HTML) { r.classes = classes }
}

// WithWrapper toggles the outer wrapper element. Enabled by default.
func WithWrapper(enabled bool) HTMLOption {
	return func(r *HTML) { r.wrapper = enabled }
}

// WithUnsafeHTML passes raw HTML in the source through to the output.
// By default raw HTML is replaced with a comment.
func WithUnsafeHTML(enabled bool) HTMLOption {
	return func(r *HTML) { r.unsafe = enabled }
}

// NewHTML creates an HTML renderer using hl for code blocks. A nil
// highlighter uses the default theme.
func NewHTML(hl *highlight.Highlighter, opts ...HTMLOption) *HTML {
	if hl == nil {
		hl = highlight.New(highlight.DefaultTheme)
	}

	r := &HTML{
		hl:      hl,
		classes: DefaultClasses(),
		wrapper: true,
	}
	for _, opt := range opts {
		opt(r)
	}

	r.elements = map[mdast.NodeKind]htmlFunc{
		mdast.NodeDocument:      (*htmlWriter).children,
		mdast.NodeHeading:       (*htmlWriter).heading,
		mdast.NodeParagraph:     (*htmlWriter).paragraph,
		mdast.NodeList:          (*htmlWriter).list,
		mdast.NodeListItem:      (*htmlWriter).listItem,
		mdast.NodeBlockquote:    (*htmlWriter).blockquote,
		mdast.NodeCodeBlock:     (*htmlWriter).codeBlock,
		mdast.NodeThematicBreak: (*htmlWriter).thematicBreak,
		mdast.NodeHTMLBlock:     (*htmlWriter).htmlBlock,
		mdast.NodeMathBlock:     (*htmlWriter).mathBlock,
		mdast.NodeTable:         (*htmlWriter).table,
		mdast.NodeTableHead:     (*htmlWriter).tableSection,
		mdast.NodeTableBody:     (*htmlWriter).tableSection,
		mdast.NodeTableRow:      (*htmlWriter).tableRow,
		mdast.NodeTableCell:     (*htmlWriter).tableCell,
		mdast.NodeText:          (*htmlWriter).text,
		mdast.NodeEmphasis:      inlineElement("em"),
		mdast.NodeStrong:        inlineElement("strong"),
		mdast.NodeStrikethrough: inlineElement("del"),
		mdast.NodeCodeSpan:      (*htmlWriter).codeSpan,
		mdast.NodeLink:          (*htmlWriter).link,
		mdast.NodeImage:         (*htmlWriter).image,
		mdast.NodeSoftBreak:     (*htmlWriter).softBreak,
		mdast.NodeHardBreak:     (*htmlWriter).hardBreak,
		mdast.NodeHTMLInline:    (*htmlWriter).htmlInline,
		mdast.NodeMath:          (*htmlWriter).math,
		mdast.NodeTaskCheckBox:  (*htmlWriter).taskCheckBox,
	}

	return r
}

// Classes returns the renderer's class map.
func (r *HTML) Classes() ClassMap {
	return r.classes
}

// Render writes doc as HTML. Empty documents write nothing.
func (r *HTML) Render(out io.Writer, doc *mdast.Document) error {
	if doc.IsEmpty() || doc.Root == nil {
		return nil
	}

	w := &htmlWriter{HTML: r}
	if r.wrapper {
		w.open("div", ClassWrapper)
		w.buf.WriteByte('\n')
	}
	w.render(doc.Root)
	if r.wrapper {
		w.buf.WriteString("</div>\n")
	}

	if _, err := out.Write(w.buf.Bytes()); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	return nil
}

// RenderBytes renders doc and returns the HTML. Empty documents yield nil.
func (r *HTML) RenderBytes(doc *mdast.Document) ([]byte, error) {
	if doc.IsEmpty() {
		return nil, nil
	}

	var buf bytes.Buffer
	if err := r.Render(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderString renders doc and returns the HTML as a string.
func (r *HTML) RenderString(doc *mdast.Document) (string, error) {
	out, err := r.RenderBytes(doc)
	return string(out), err
}

// htmlWriter holds the output of a single render.
type htmlWriter struct {
	*HTML
	buf bytes.Buffer
}

func (w *htmlWriter) render(n *mdast.Node) {
	if fn, ok := w.elements[n.Kind]; ok {
		fn(w, n)
		return
	}
	w.fallback(n)
}

func (w *htmlWriter) children(n *mdast.Node) {
	for child := n.FirstChild; child != nil; child = child.Next {
		w.render(child)
	}
}

// open writes a start tag carrying the class for role. attrs are
// name/value pairs.
func (w *htmlWriter) open(tag, role string, attrs ...string) {
	w.buf.WriteByte('<')
	w.buf.WriteString(tag)
	w.classAttr(role)
	for i := 0; i+1 < len(attrs); i += 2 {
		w.attr(attrs[i], attrs[i+1])
	}
	w.buf.WriteByte('>')
}

func (w *htmlWriter) close(tag string) {
	w.buf.WriteString("</")
	w.buf.WriteString(tag)
	w.buf.WriteByte('>')
}

func (w *htmlWriter) classAttr(role string) {
	if class := w.classes[role]; class != "" {
		w.attr("class", class)
	}
}

func (w *htmlWriter) attr(name, value string) {
	w.buf.WriteByte(' ')
	w.buf.WriteString(name)
	w.buf.WriteString(`="`)
	w.buf.Write(util.EscapeHTML([]byte(value)))
	w.buf.WriteByte('"')
}

func (w *htmlWriter) escape(s []byte) {
	w.buf.Write(util.EscapeHTML(s))
}

func (w *htmlWriter) heading(n *mdast.Node) {
	level := 1
	if n.Block != nil && n.Block.HeadingLevel >= 1 && n.Block.HeadingLevel <= 6 {
		level = n.Block.HeadingLevel
	}
	tag := "h" + strconv.Itoa(level)

	w.open(tag, tag)
	w.children(n)
	w.close(tag)
	w.buf.WriteByte('\n')
}

func (w *htmlWriter) paragraph(n *mdast.Node) {
	if inTightList(n) {
		w.children(n)
		return
	}
	w.open("p", "p")
	w.children(n)
	w.close("p")
	w.buf.WriteByte('\n')
}

// inTightList reports whether paragraph n sits directly in an item of a
// tight list, where it renders without a <p>.
func inTightList(n *mdast.Node) bool {
	item := n.Parent
	if item == nil || item.Kind != mdast.NodeListItem {
		return false
	}
	list := item.Parent
	return list != nil && list.Block != nil && list.Block.List != nil && list.Block.List.Tight
}

func (w *htmlWriter) list(n *mdast.Node) {
	tag := "ul"
	var attrs []string
	if n.Block != nil && n.Block.List != nil && n.Block.List.Ordered {
		tag = "ol"
		if start := n.Block.List.StartNumber; start != 1 {
			attrs = append(attrs, "start", strconv.Itoa(start))
		}
	}

	w.open(tag, tag, attrs...)
	w.buf.WriteByte('\n')
	w.children(n)
	w.close(tag)
	w.buf.WriteByte('\n')
}

func (w *htmlWriter) listItem(n *mdast.Node) {
	w.open("li", "li")
	w.children(n)
	w.close("li")
	w.buf.WriteByte('\n')
}

func (w *htmlWriter) blockquote(n *mdast.Node) {
	w.open("blockquote", "blockquote")
	w.buf.WriteByte('\n')
	w.children(n)
	w.close("blockquote")
	w.buf.WriteByte('\n')
}

// codeBlock renders a block without a language as inline code, and one
// with a language as a figure with an optional header and numbered,
// highlighted lines.
func (w *htmlWriter) codeBlock(n *mdast.Node) {
	attrs := n.CodeBlock()
	if attrs == nil || attrs.Language == "" {
		code := ""
		if attrs != nil {
			code = attrs.Code
		}
		w.open("code", ClassInlineCode)
		w.escape([]byte(code))
		w.close("code")
		w.buf.WriteByte('\n')
		return
	}

	block := w.hl.Tokenize(attrs.Code, attrs.Language)

	figAttrs := []string{"data-language", attrs.Language}
	if block.Plain {
		figAttrs = append(figAttrs, "data-plain", "true")
	}
	w.open("figure", ClassCodeFigure, figAttrs...)

	w.open("figcaption", ClassCodeHeader)
	if attrs.HasTitle() {
		w.open("span", ClassCodeTitle)
		w.escape([]byte(*attrs.Title))
		w.close("span")
	}
	w.open("span", ClassCodeLang)
	w.escape([]byte(attrs.Language))
	w.close("span")
	w.close("figcaption")

	w.open("pre", ClassCodePre, "style", w.preStyle())
	w.buf.WriteString("<code>")
	for _, line := range block.Lines {
		w.open("div", ClassCodeLine, "data-line", strconv.Itoa(line.Number))
		w.open("span", ClassLineNumber)
		w.buf.WriteString(strconv.Itoa(line.Number))
		w.close("span")
		w.open("span", ClassLineContent)
		for _, tok := range line.Tokens {
			w.token(tok)
		}
		w.close("span")
		w.close("div")
	}
	w.buf.WriteString("</code>")
	w.close("pre")
	w.close("figure")
	w.buf.WriteByte('\n')
}

func (w *htmlWriter) preStyle() string {
	var parts []string
	if bg := w.hl.Background(); bg != "" {
		parts = append(parts, "background-color:"+bg)
	}
	if fg := w.hl.Foreground(); fg != "" {
		parts = append(parts, "color:"+fg)
	}
	return strings.Join(parts, ";")
}

func (w *htmlWriter) token(tok highlight.Token) {
	style := tokenCSS(tok.Style)
	if style == "" {
		w.escape([]byte(tok.Value))
		return
	}
	w.buf.WriteString(`<span style="`)
	w.buf.WriteString(style)
	w.buf.WriteString(`">`)
	w.escape([]byte(tok.Value))
	w.buf.WriteString("</span>")
}

func tokenCSS(s highlight.Style) string {
	var parts []string
	if s.Color != "" {
		parts = append(parts, "color:"+s.Color)
	}
	if s.Background != "" {
		parts = append(parts, "background-color:"+s.Background)
	}
	if s.Bold {
		parts = append(parts, "font-weight:bold")
	}
	if s.Italic {
		parts = append(parts, "font-style:italic")
	}
	if s.Underline {
		parts = append(parts, "text-decoration:underline")
	}
	return strings.Join(parts, ";")
}

func (w *htmlWriter) thematicBreak(_ *mdast.Node) {
	w.open("hr", "hr")
	w.buf.WriteByte('\n')
}

func (w *htmlWriter) htmlBlock(n *mdast.Node) {
	if !w.unsafe {
		w.buf.WriteString(rawHTMLOmitted)
		w.buf.WriteByte('\n')
		return
	}
	if n.Block != nil {
		w.buf.Write(n.Block.Literal)
	}
}

func (w *htmlWriter) mathBlock(n *mdast.Node) {
	w.open("div", ClassMathDisplay)
	if n.Block != nil {
		w.escape(bytes.TrimRight(n.Block.Literal, "\n"))
	}
	w.close("div")
	w.buf.WriteByte('\n')
}

func (w *htmlWriter) table(n *mdast.Node) {
	w.open("div", ClassTableWrapper)
	w.open("table", "table")
	w.buf.WriteByte('\n')
	w.children(n)
	w.close("table")
	w.close("div")
	w.buf.WriteByte('\n')
}

func (w *htmlWriter) tableSection(n *mdast.Node) {
	tag := "tbody"
	if n.Kind == mdast.NodeTableHead {
		tag = "thead"
	}
	w.open(tag, tag)
	w.buf.WriteByte('\n')
	w.children(n)
	w.close(tag)
	w.buf.WriteByte('\n')
}

func (w *htmlWriter) tableRow(n *mdast.Node) {
	w.open("tr", "tr")
	w.children(n)
	w.close("tr")
	w.buf.WriteByte('\n')
}

func (w *htmlWriter) tableCell(n *mdast.Node) {
	tag := "td"
	var attrs []string
	if cell := n.Block; cell != nil && cell.Cell != nil {
		if cell.Cell.Header {
			tag = "th"
		}
		if align := cell.Cell.Align.String(); align != "" {
			attrs = append(attrs, "style", "text-align:"+align)
		}
	}
	w.open(tag, tag, attrs...)
	w.children(n)
	w.close(tag)
}

func (w *htmlWriter) text(n *mdast.Node) {
	if n.Inline != nil {
		w.escape(n.Inline.Text)
	}
}

func inlineElement(tag string) htmlFunc {
	return func(w *htmlWriter, n *mdast.Node) {
		w.open(tag, tag)
		w.children(n)
		w.close(tag)
	}
}

func (w *htmlWriter) codeSpan(n *mdast.Node) {
	w.open("code", ClassInlineCode)
	if n.Inline != nil {
		w.escape(n.Inline.Text)
	}
	w.close("code")
}

func (w *htmlWriter) link(n *mdast.Node) {
	var dest, title string
	if n.Inline != nil && n.Inline.Link != nil {
		dest, title = n.Inline.Link.Destination, n.Inline.Link.Title
	}

	attrs := []string{"href", safeURL(dest)}
	if title != "" {
		attrs = append(attrs, "title", title)
	}
	if isExternal(dest) {
		attrs = append(attrs, "target", "_blank", "rel", "noopener noreferrer")
	}

	w.open("a", "a", attrs...)
	w.children(n)
	w.close("a")
}

func (w *htmlWriter) image(n *mdast.Node) {
	var dest, title string
	if n.Inline != nil && n.Inline.Link != nil {
		dest, title = n.Inline.Link.Destination, n.Inline.Link.Title
	}

	attrs := []string{"src", safeURL(dest), "alt", n.PlainText()}
	if title != "" {
		attrs = append(attrs, "title", title)
	}
	w.open("img", "img", attrs...)
}

func (w *htmlWriter) softBreak(_ *mdast.Node) {
	w.buf.WriteByte('\n')
}

func (w *htmlWriter) hardBreak(_ *mdast.Node) {
	w.buf.WriteString("<br>\n")
}

func (w *htmlWriter) htmlInline(n *mdast.Node) {
	if !w.unsafe {
		w.buf.WriteString(rawHTMLOmitted)
		return
	}
	if n.Inline != nil {
		w.buf.Write(n.Inline.Text)
	}
}

func (w *htmlWriter) math(n *mdast.Node) {
	w.open("span", ClassMathInline)
	if n.Inline != nil {
		w.escape(n.Inline.Text)
	}
	w.close("span")
}

func (w *htmlWriter) taskCheckBox(n *mdast.Node) {
	attrs := []string{"type", "checkbox", "disabled", ""}
	if n.Inline != nil && n.Inline.Checked {
		attrs = append(attrs, "checked", "")
	}
	w.open("input", ClassTaskCheckbox, attrs...)
	w.buf.WriteByte(' ')
}

func (w *htmlWriter) fallback(n *mdast.Node) {
	w.open("div", ClassFallback, "data-kind", n.Kind.String())
	w.open("div", ClassFallbackLabel)
	w.buf.WriteString(FallbackLabel)
	w.close("div")
	w.children(n)
	w.close("div")
	w.buf.WriteByte('\n')
}

// safeURL percent-encodes dest and blanks URLs with dangerous schemes.
func safeURL(dest string) string {
	if html.IsDangerousURL([]byte(dest)) {
		return ""
	}
	return string(util.URLEscape([]byte(dest), true))
}

// isExternal reports whether dest points off-site and should open in a new
// browsing context.
func isExternal(dest string) bool {
	lower := strings.ToLower(strings.TrimSpace(dest))
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "//")
}
