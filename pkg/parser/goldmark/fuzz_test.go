package goldmark

import (
	"context"
	"testing"

	"github.com/yaklabco/mdpost/pkg/mdast"
)

// FuzzParse checks that parsing is total and always yields a document root.
func FuzzParse(f *testing.F) {
	seeds := []string{
		"",
		"Hello, world!",
		"# Heading",
		"- list\n- items",
		"```\ncode\n```",
		"```go title=\"x.go\"\nfunc main() {}\n```",
		"*emphasis* and **strong**",
		"[link](url) and ![image](src)",
		"| a |\n|---|\n| 1 |",
		"$x$ and $$\ny\n$$",
		"$$",
		"$",
		"line1\r\nline2",
	}

	for _, seed := range seeds {
		f.Add([]byte(seed))
	}

	p := New()

	f.Fuzz(func(t *testing.T, data []byte) {
		doc, err := p.Parse(context.Background(), data)
		if err != nil {
			t.Fatalf("parse failed: %v", err)
		}
		if doc.Root == nil || doc.Root.Kind != mdast.NodeDocument {
			t.Fatal("expected a document root")
		}
		for _, n := range mdast.FindByKind(doc.Root, mdast.NodeRaw) {
			t.Errorf("unexpected raw node: %s", mdast.DumpString(n))
		}
	})
}
