package render

// ClassMap assigns CSS classes to rendered elements, keyed by element role
// (tag names such as "h1" or "td", plus the code block and fallback roles
// below). A missing or empty entry renders no class attribute.
type ClassMap map[string]string

// Element roles beyond plain tag names.
const (
	ClassWrapper       = "wrapper"
	ClassInlineCode    = "code"
	ClassCodeFigure    = "figure"
	ClassCodeHeader    = "figcaption"
	ClassCodeTitle     = "code-title"
	ClassCodeLang      = "code-lang"
	ClassCodePre       = "pre"
	ClassCodeLine      = "code-line"
	ClassLineNumber    = "line-number"
	ClassLineContent   = "line-content"
	ClassTableWrapper  = "table-wrapper"
	ClassMathInline    = "math-inline"
	ClassMathDisplay   = "math-display"
	ClassTaskCheckbox  = "task"
	ClassFallback      = "fallback"
	ClassFallbackLabel = "fallback-label"
)

// DefaultClasses returns the stock Tailwind classes for blog post output.
func DefaultClasses() ClassMap {
	return ClassMap{
		ClassWrapper: "prose prose-neutral dark:prose-invert max-w-none",

		"h1": "text-foreground mt-8 mb-4 text-3xl font-bold",
		"h2": "text-foreground mt-6 mb-3 text-2xl font-semibold",
		"h3": "text-foreground mt-4 mb-2 text-xl font-medium",
		"h4": "text-foreground mt-3 mb-2 text-lg font-medium",
		"h5": "text-foreground mt-3 mb-2 font-medium",
		"h6": "text-muted-foreground mt-3 mb-2 font-medium",

		"p":          "text-foreground mb-4 leading-relaxed",
		"ul":         "text-foreground mb-4 ml-6 list-disc",
		"ol":         "text-foreground mb-4 ml-6 list-decimal",
		"li":         "mb-1",
		"blockquote": "border-muted-foreground/30 text-muted-foreground mb-4 border-l-4 pl-4 italic",
		"a":          "text-primary hover:text-primary/80 underline",
		"strong":     "text-foreground font-semibold",
		"em":         "text-foreground italic",
		"del":        "text-muted-foreground line-through",
		"hr":         "border-border my-8",
		"img":        "my-4 max-w-full rounded",

		ClassInlineCode: "bg-muted text-foreground rounded px-1.5 py-0.5 font-mono text-sm",

		ClassCodeFigure:  "mb-4 overflow-hidden rounded-lg",
		ClassCodeHeader:  "bg-muted/70 text-muted-foreground flex items-center justify-between px-4 py-2 font-mono text-xs",
		ClassCodeTitle:   "text-foreground font-semibold",
		ClassCodeLang:    "uppercase",
		ClassCodePre:     "bg-muted overflow-x-auto p-4 text-sm",
		ClassCodeLine:    "table-row",
		ClassLineNumber:  "table-cell select-none pr-4 text-right opacity-50",
		ClassLineContent: "table-cell",

		ClassTableWrapper: "mb-4 overflow-x-auto",
		"table":           "border-border border-collapse border",
		"thead":           "bg-muted/50",
		"tr":              "border-border border-b",
		"th":              "border-border border px-4 py-2 text-left font-semibold",
		"td":              "border-border border px-4 py-2",

		ClassMathInline:   "math math-inline",
		ClassMathDisplay:  "math math-display my-4",
		ClassTaskCheckbox: "mr-2",

		ClassFallback:      "border-muted-foreground my-4 rounded border border-dashed p-4",
		ClassFallbackLabel: "text-muted-foreground mb-2 text-sm",
	}
}

// With returns a copy of m with overrides applied.
func (m ClassMap) With(overrides ClassMap) ClassMap {
	out := make(ClassMap, len(m)+len(overrides))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range overrides {
		out[k] = v
	}
	return out
}
