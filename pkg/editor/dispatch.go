package editor

// Command names a toolbar formatting command.
type Command string

// Toolbar commands, in toolbar order.
const (
	CommandBold           Command = "bold"
	CommandItalic         Command = "italic"
	CommandCode           Command = "code"
	CommandHeading1       Command = "heading1"
	CommandHeading2       Command = "heading2"
	CommandHeading3       Command = "heading3"
	CommandBulletList     Command = "bulletList"
	CommandOrderedList    Command = "orderedList"
	CommandQuote          Command = "quote"
	CommandLink           Command = "link"
	CommandImage          Command = "image"
	CommandHorizontalRule Command = "horizontalRule"
	CommandCodeBlock      Command = "codeBlock"
)

// Inserted snippets for the insert-style commands.
const (
	LinkSnippet           = "[Link Text](https://example.com)"
	ImageSnippet          = "![Alt Text](https://example.com/image.jpg)"
	HorizontalRuleSnippet = "\n---\n"
	CodeBlockSnippet      = "\n```\n\n```\n"
)

type action func(Buffer) Result

func wrap(marker string) action {
	return func(b Buffer) Result { return WrapSelection(b, marker) }
}

func prefix(p string) action {
	return func(b Buffer) Result { return PrefixCurrentLine(b, p) }
}

func insert(text string) action {
	return func(b Buffer) Result { return InsertAtCursor(b, text) }
}

//nolint:gochecknoglobals // Fixed command vocabulary.
var commandTable = map[Command]action{
	CommandBold:           wrap("**"),
	CommandItalic:         wrap("*"),
	CommandCode:           wrap("`"),
	CommandHeading1:       prefix("# "),
	CommandHeading2:       prefix("## "),
	CommandHeading3:       prefix("### "),
	CommandBulletList:     prefix("- "),
	CommandOrderedList:    prefix("1. "),
	CommandQuote:          prefix("> "),
	CommandLink:           insert(LinkSnippet),
	CommandImage:          insert(ImageSnippet),
	CommandHorizontalRule: insert(HorizontalRuleSnippet),
	CommandCodeBlock:      insert(CodeBlockSnippet),
}

// Commands returns the toolbar vocabulary in toolbar order.
func Commands() []Command {
	return []Command{
		CommandBold, CommandItalic, CommandCode,
		CommandHeading1, CommandHeading2, CommandHeading3,
		CommandBulletList, CommandOrderedList, CommandQuote,
		CommandLink, CommandImage,
		CommandHorizontalRule, CommandCodeBlock,
	}
}

// ParseCommand looks up a command by its exact name.
func ParseCommand(name string) (Command, bool) {
	cmd := Command(name)
	_, ok := commandTable[cmd]
	return cmd, ok
}

// Dispatch applies the named command to b. Unknown names leave the buffer
// unchanged and report false; they are never an error.
func Dispatch(name string, b Buffer) (Result, bool) {
	act, ok := commandTable[Command(name)]
	if !ok {
		b = b.Normalize()
		return Result{Buffer: b, Caret: b.SelectionEnd}, false
	}
	return act(b), true
}
