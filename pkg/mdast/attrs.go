package mdast

// BlockAttrs holds attributes for block-level nodes.
type BlockAttrs struct {
	// HeadingLevel is the heading level (1-6) for NodeHeading.
	HeadingLevel int

	// List holds list-specific attributes for NodeList.
	List *ListAttrs

	// CodeBlock holds code block attributes for NodeCodeBlock.
	CodeBlock *CodeBlockAttrs

	// Table holds column alignments for NodeTable.
	Table *TableAttrs

	// Cell holds attributes for NodeTableCell.
	Cell *TableCellAttrs

	// Literal holds raw content for NodeHTMLBlock and NodeMathBlock.
	Literal []byte
}

// ListAttrs holds attributes for list nodes.
type ListAttrs struct {
	// Ordered is true for ordered lists (1., 2., etc.).
	Ordered bool

	// BulletMarker is the bullet character used ("-", "+", "*").
	BulletMarker string

	// StartNumber is the starting number for ordered lists.
	StartNumber int

	// Tight is true if this is a tight list (no blank lines between items).
	Tight bool
}

// CodeBlockAttrs holds attributes for code block nodes.
type CodeBlockAttrs struct {
	// Info is the full info string of a fenced block.
	Info string

	// Language is the first word of the info string ("" when absent).
	Language string

	// Meta is the remainder of the info string after the language tag.
	Meta string

	// Code is the raw code text, including its trailing newline.
	Code string

	// Title is the title extracted from the metadata; nil when the
	// metadata carries no title token. An empty title is a non-nil "".
	Title *string

	// Fenced is false for indented code blocks.
	Fenced bool

	// FenceChar is the fence character ('`' or '~').
	FenceChar byte

	// FenceLength is the number of fence characters.
	FenceLength int
}

// HasTitle reports whether a title was extracted.
func (a *CodeBlockAttrs) HasTitle() bool {
	return a != nil && a.Title != nil
}

// TitleOrEmpty returns the title, or "" when absent.
func (a *CodeBlockAttrs) TitleOrEmpty() string {
	if !a.HasTitle() {
		return ""
	}
	return *a.Title
}

// Alignment is a table column alignment.
type Alignment uint8

// Column alignments.
const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

func (a Alignment) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignCenter:
		return "center"
	case AlignRight:
		return "right"
	default:
		return ""
	}
}

// TableAttrs holds attributes for table nodes.
type TableAttrs struct {
	Alignments []Alignment
}

// TableCellAttrs holds attributes for table cells.
type TableCellAttrs struct {
	// Header is true for cells in the header row.
	Header bool

	// Align is the cell's column alignment.
	Align Alignment
}

// InlineAttrs holds attributes for inline-level nodes.
type InlineAttrs struct {
	// Text holds the text content for NodeText, NodeCodeSpan, NodeMath and NodeHTMLInline.
	Text []byte

	// Link holds link attributes for NodeLink and NodeImage.
	Link *LinkAttrs

	// EmphasisLevel indicates emphasis strength (1 for emphasis, 2 for strong).
	EmphasisLevel int

	// Checked is the state of a NodeTaskCheckBox.
	Checked bool
}

// LinkAttrs holds attributes for link and image nodes.
type LinkAttrs struct {
	// Destination is the link URL.
	Destination string

	// Title is the optional link title.
	Title string

	// Autolink is true for <https://...> and bare GFM autolinks.
	Autolink bool
}

// NewBlockAttrs creates a new BlockAttrs with default values.
func NewBlockAttrs() *BlockAttrs {
	return &BlockAttrs{}
}

// NewInlineAttrs creates a new InlineAttrs with default values.
func NewInlineAttrs() *InlineAttrs {
	return &InlineAttrs{}
}

// WithHeadingLevel sets the heading level and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithHeadingLevel(level int) *BlockAttrs {
	a.HeadingLevel = level
	return a
}

// WithList sets list attributes and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithList(attrs *ListAttrs) *BlockAttrs {
	a.List = attrs
	return a
}

// WithCodeBlock sets code block attributes and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithCodeBlock(attrs *CodeBlockAttrs) *BlockAttrs {
	a.CodeBlock = attrs
	return a
}

// WithTable sets table attributes and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithTable(attrs *TableAttrs) *BlockAttrs {
	a.Table = attrs
	return a
}

// WithCell sets table cell attributes and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithCell(attrs *TableCellAttrs) *BlockAttrs {
	a.Cell = attrs
	return a
}

// WithLiteral sets literal content and returns the BlockAttrs for chaining.
func (a *BlockAttrs) WithLiteral(literal []byte) *BlockAttrs {
	a.Literal = literal
	return a
}

// WithText sets the text content and returns the InlineAttrs for chaining.
func (a *InlineAttrs) WithText(text []byte) *InlineAttrs {
	a.Text = text
	return a
}

// WithLink sets link attributes and returns the InlineAttrs for chaining.
func (a *InlineAttrs) WithLink(attrs *LinkAttrs) *InlineAttrs {
	a.Link = attrs
	return a
}

// WithEmphasisLevel sets the emphasis level and returns the InlineAttrs for chaining.
func (a *InlineAttrs) WithEmphasisLevel(level int) *InlineAttrs {
	a.EmphasisLevel = level
	return a
}

// WithChecked sets the task checkbox state and returns the InlineAttrs for chaining.
func (a *InlineAttrs) WithChecked(checked bool) *InlineAttrs {
	a.Checked = checked
	return a
}
