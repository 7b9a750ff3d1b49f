package runner_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdpost/pkg/runner"
)

// makeTree creates each relative path under dir with placeholder content.
func makeTree(t *testing.T, dir string, files ...string) {
	t.Helper()
	for _, f := range files {
		path := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("# "+f+"\n"), 0o644))
	}
}

// relPaths converts discovered absolute paths to slash paths relative to dir.
func relPaths(t *testing.T, dir string, paths []string) []string {
	t.Helper()
	rel := make([]string, 0, len(paths))
	for _, p := range paths {
		r, err := filepath.Rel(dir, p)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	return rel
}

func TestDiscover(t *testing.T) {
	t.Parallel()

	tree := []string{
		"hello-world.md",
		"notes.markdown",
		"README.MD",
		"image.png",
		"posts/2026/launch.md",
		"posts/2026/_wip.md",
		"_drafts/idea.md",
		".hidden/secret.md",
		".dotfile.md",
		"vendor/pkg/doc.md",
		"node_modules/lib/readme.md",
	}

	tests := []struct {
		name string
		opts runner.Options
		want []string
	}{
		{
			name: "defaults skip hidden and drafts",
			want: []string{
				"README.MD",
				"hello-world.md",
				"node_modules/lib/readme.md",
				"notes.markdown",
				"posts/2026/launch.md",
				"vendor/pkg/doc.md",
			},
		},
		{
			name: "include drafts",
			opts: runner.Options{
				IncludeDrafts: true,
				ExcludeGlobs:  []string{"vendor/**", "**/node_modules"},
			},
			want: []string{
				"README.MD",
				"_drafts/idea.md",
				"hello-world.md",
				"notes.markdown",
				"posts/2026/_wip.md",
				"posts/2026/launch.md",
			},
		},
		{
			name: "exclude globs",
			opts: runner.Options{ExcludeGlobs: []string{"vendor/**", "node_modules/**", "*.markdown"}},
			want: []string{
				"README.MD",
				"hello-world.md",
				"posts/2026/launch.md",
			},
		},
		{
			name: "include globs",
			opts: runner.Options{IncludeGlobs: []string{"posts/**"}},
			want: []string{"posts/2026/launch.md"},
		},
		{
			name: "custom extensions",
			opts: runner.Options{Extensions: []string{".markdown"}},
			want: []string{"notes.markdown"},
		},
		{
			name: "explicit paths deduplicate",
			opts: runner.Options{Paths: []string{"posts", "posts/2026/launch.md", "hello-world.md"}},
			want: []string{"hello-world.md", "posts/2026/launch.md"},
		},
		{
			name: "explicit draft file is honored",
			opts: runner.Options{Paths: []string{"posts/2026/_wip.md"}},
			want: []string{"posts/2026/_wip.md"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			makeTree(t, dir, tree...)

			opts := tt.opts
			opts.WorkingDir = dir

			discovered, err := runner.Discover(context.Background(), opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, relPaths(t, dir, discovered))
		})
	}
}

func TestDiscover_DefaultsToCurrentDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, "a.md", "sub/b.md")

	discovered, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.md", "sub/b.md"}, relPaths(t, dir, discovered))
}

func TestDiscover_NonExistentPath(t *testing.T) {
	t.Parallel()

	_, err := runner.Discover(context.Background(), runner.Options{
		Paths:      []string{"missing"},
		WorkingDir: t.TempDir(),
	})
	assert.Error(t, err)
}

func TestDiscover_ContextCancellation(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, "a.md")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := runner.Discover(ctx, runner.Options{WorkingDir: dir})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDiscover_Symlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	makeTree(t, dir, "real/doc.md")

	external := t.TempDir()
	makeTree(t, external, "external.md")

	if err := os.Symlink(filepath.Join(dir, "real", "doc.md"), filepath.Join(dir, "link.md")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(external, filepath.Join(dir, "linked")))

	discovered, err := runner.Discover(context.Background(), runner.Options{WorkingDir: dir})
	require.NoError(t, err)
	assert.Equal(t, []string{"link.md", "real/doc.md"}, relPaths(t, dir, discovered),
		"file symlinks are followed, directory symlinks are not")

	discovered, err = runner.Discover(context.Background(), runner.Options{WorkingDir: dir, FollowSymlinks: true})
	require.NoError(t, err)
	require.Len(t, discovered, 3)
	assert.Contains(t, discovered, filepath.Join(external, "external.md"))
}

func TestDefaultExtensions(t *testing.T) {
	t.Parallel()

	assert.ElementsMatch(t, []string{".md", ".markdown"}, runner.DefaultExtensions())
}

func TestOptions_OutputPath(t *testing.T) {
	t.Parallel()

	work := filepath.FromSlash("/srv/blog")

	tests := []struct {
		name   string
		outDir string
		source string
		want   string
	}{
		{name: "next to source", source: "/srv/blog/posts/hello.md", want: "/srv/blog/posts/hello.html"},
		{name: "markdown extension", source: "/srv/blog/a.markdown", want: "/srv/blog/a.html"},
		{name: "relative output dir", outDir: "public", source: "/srv/blog/posts/hello.md", want: "/srv/blog/public/posts/hello.html"},
		{name: "absolute output dir", outDir: "/var/www", source: "/srv/blog/hello.md", want: "/var/www/hello.html"},
		{name: "outside workdir flattens", outDir: "public", source: "/tmp/other/x.md", want: "/srv/blog/public/x.html"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			opts := runner.Options{OutputDir: filepath.FromSlash(tt.outDir)}
			got := opts.OutputPath(filepath.FromSlash(tt.source), work)
			assert.Equal(t, filepath.FromSlash(tt.want), got)
		})
	}
}
