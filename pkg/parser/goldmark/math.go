package goldmark

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindMathBlock and KindMathInline are the goldmark node kinds produced by
// the math extension.
//
//nolint:gochecknoglobals // goldmark node kinds are registered once.
var (
	KindMathBlock  = ast.NewNodeKind("MathBlock")
	KindMathInline = ast.NewNodeKind("MathInline")
)

// MathBlock is a $$ display math block. Its lines hold the TeX source.
type MathBlock struct {
	ast.BaseBlock

	// closed is set when the opening line also carried the closing $$.
	closed bool
}

// Kind implements ast.Node.
func (n *MathBlock) Kind() ast.NodeKind { return KindMathBlock }

// IsRaw implements ast.Node.
func (n *MathBlock) IsRaw() bool { return true }

// Dump implements ast.Node.
func (n *MathBlock) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, nil, nil)
}

// MathInline is $...$ inline math. Value holds the TeX source.
type MathInline struct {
	ast.BaseInline

	Value []byte
}

// Kind implements ast.Node.
func (n *MathInline) Kind() ast.NodeKind { return KindMathInline }

// Dump implements ast.Node.
func (n *MathInline) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Value": string(n.Value)}, nil)
}

type mathExtension struct{}

// Math is a goldmark extension adding $inline$ and $$display$$ math.
//
//nolint:gochecknoglobals // Extension value in the style of extension.GFM.
var Math goldmark.Extender = &mathExtension{}

func (e *mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(
		parser.WithBlockParsers(util.Prioritized(&mathBlockParser{}, 650)),
		parser.WithInlineParsers(util.Prioritized(&mathInlineParser{}, 150)),
	)
}

const mathFence = "$$"

type mathBlockParser struct{}

func (b *mathBlockParser) Trigger() []byte { return []byte{'$'} }

func (b *mathBlockParser) Open(_ ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], []byte(mathFence)) {
		return nil, parser.NoChildren
	}

	node := &MathBlock{}
	rest := line[pos+len(mathFence):]
	restStart := segment.Start + pos + len(mathFence)

	// $$ E = mc^2 $$ on a single line.
	if end := bytes.Index(rest, []byte(mathFence)); end >= 0 {
		if !util.IsBlank(rest[end+len(mathFence):]) {
			return nil, parser.NoChildren
		}
		node.Lines().Append(text.NewSegment(restStart, restStart+end))
		node.closed = true
		reader.Advance(segment.Len() - trailingNewline(line))
		return node, parser.NoChildren
	}

	if !util.IsBlank(rest) {
		node.Lines().Append(text.NewSegment(restStart, segment.Stop))
	}
	reader.Advance(segment.Len() - trailingNewline(line))
	return node, parser.NoChildren
}

func (b *mathBlockParser) Continue(node ast.Node, reader text.Reader, _ parser.Context) parser.State {
	mb, ok := node.(*MathBlock)
	if !ok || mb.closed {
		return parser.Close
	}

	line, segment := reader.PeekLine()
	if line == nil {
		return parser.Close
	}

	trimmed := util.TrimLeftSpace(line)
	if bytes.HasPrefix(trimmed, []byte(mathFence)) && util.IsBlank(trimmed[len(mathFence):]) {
		reader.Advance(segment.Len() - trailingNewline(line))
		return parser.Close
	}

	node.Lines().Append(segment)
	reader.Advance(segment.Len() - trailingNewline(line))
	return parser.Continue | parser.NoChildren
}

func (b *mathBlockParser) Close(_ ast.Node, _ text.Reader, _ parser.Context) {}

func (b *mathBlockParser) CanInterruptParagraph() bool { return true }

func (b *mathBlockParser) CanAcceptIndentedLine() bool { return false }

func trailingNewline(line []byte) int {
	if len(line) > 0 && line[len(line)-1] == '\n' {
		return 1
	}
	return 0
}

type mathInlineParser struct{}

func (p *mathInlineParser) Trigger() []byte { return []byte{'$'} }

// Parse recognizes $x$ and $$x$$ runs. A single-dollar span may not start
// or end with whitespace, so "$5 and $10" stays text.
func (p *mathInlineParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()

	opener := 0
	for opener < len(line) && line[opener] == '$' {
		opener++
	}
	if opener == 0 || opener > 2 {
		return nil
	}

	for i := opener; i < len(line); i++ {
		if line[i] == '\\' {
			i++
			continue
		}
		if line[i] != '$' {
			continue
		}

		closer := 0
		for i+closer < len(line) && line[i+closer] == '$' {
			closer++
		}
		if closer != opener {
			i += closer - 1
			continue
		}

		value := line[opener:i]
		if len(bytes.TrimSpace(value)) == 0 {
			return nil
		}
		if opener == 1 && (isSpace(value[0]) || isSpace(value[len(value)-1])) {
			return nil
		}

		node := &MathInline{Value: append([]byte(nil), value...)}
		block.Advance(i + closer)
		return node
	}

	return nil
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n'
}
