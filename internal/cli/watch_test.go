package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpost/internal/ui/pretty"
	"github.com/yaklabco/mdpost/pkg/highlight"
	"github.com/yaklabco/mdpost/pkg/preview"
	"github.com/yaklabco/mdpost/pkg/render"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestWatchFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "post.md")
	htmlPath := filepath.Join(dir, "post.html")
	require.NoError(t, os.WriteFile(path, []byte("# First\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	results := make(chan *preview.Result, 16)
	out := &syncBuffer{}

	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, watchOptions{
			Path:     path,
			Engine:   preview.NewEngine(nil),
			Out:      out,
			Terminal: render.NewTerminal(highlight.New(""), pretty.NewStyles(false), render.WithWidth(60)),
			HTMLPath: htmlPath,
			Clear:    true,
			rendered: func(res *preview.Result) {
				select {
				case results <- res:
				default:
				}
			},
		})
	}()

	waitFor := func(want string) {
		t.Helper()
		deadline := time.After(5 * time.Second)
		for {
			select {
			case res := <-results:
				if strings.Contains(string(res.HTML), want) {
					return
				}
			case <-deadline:
				t.Fatalf("no render containing %q", want)
			}
		}
	}

	waitFor("First")
	require.NoError(t, os.WriteFile(path, []byte("# Second\n"), 0o644))
	waitFor("Second")

	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), "Second")
	assert.Contains(t, out.String(), clearScreen)
	assert.Contains(t, out.String(), "Second")

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watchFile did not stop")
	}
}

func TestWatchFile_Missing(t *testing.T) {
	t.Parallel()

	err := watchFile(context.Background(), watchOptions{
		Path:   filepath.Join(t.TempDir(), "missing.md"),
		Engine: preview.NewEngine(nil),
		Out:    &bytes.Buffer{},
	})
	require.Error(t, err)
}
