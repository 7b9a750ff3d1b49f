package pretty

import (
	"strings"

	diff "github.com/shogoki/gotextdiff"
)

// FormatDiff returns a unified diff from before to after, with additions,
// deletions and hunk headers styled. It returns "" when nothing changed.
func (s *Styles) FormatDiff(path string, before, after []byte) string {
	if string(before) == string(after) {
		return ""
	}

	raw := string(diff.Diff("a/"+path, before, "b/"+path, after))
	if raw == "" {
		return ""
	}

	var b strings.Builder
	for _, line := range strings.SplitAfter(raw, "\n") {
		if line == "" {
			continue
		}
		text := strings.TrimSuffix(line, "\n")
		switch {
		case strings.HasPrefix(text, "--- "), strings.HasPrefix(text, "+++ "), strings.HasPrefix(text, "diff "):
			b.WriteString(s.Bold.Render(text))
		case strings.HasPrefix(text, "@@"):
			b.WriteString(s.Info.UnsetBold().Render(text))
		case strings.HasPrefix(text, "+"):
			b.WriteString(s.Success.UnsetBold().Render(text))
		case strings.HasPrefix(text, "-"):
			b.WriteString(s.Error.UnsetBold().Render(text))
		default:
			b.WriteString(text)
		}
		b.WriteString("\n")
	}
	return b.String()
}
