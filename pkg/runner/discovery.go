package runner

import (
	"context"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DraftPrefix marks files and directories holding unpublished posts. They
// are skipped during directory walks unless Options.IncludeDrafts is set.
const DraftPrefix = "_"

// Discover finds the Markdown files selected by opts and returns their
// absolute paths in sorted order. Paths named explicitly are taken even
// when they are drafts; directories are walked.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	sel := selector{workDir: workDir, exts: opts.effectiveExtensions(), opts: opts}
	found := make(map[string]struct{})
	add := func(path string) { found[path] = struct{}{} }

	for _, input := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		path := input
		if !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}
		path = filepath.Clean(path)

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", input, err)
		}
		if !info.IsDir() {
			if sel.accepts(path) {
				add(path)
			}
			continue
		}
		if err := sel.walk(ctx, path, add); err != nil {
			return nil, err
		}
	}

	return slices.Sorted(maps.Keys(found)), nil
}

func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		workDir = "."
	}
	abs, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return abs, nil
}

// selector applies the extension, glob and draft rules of one Discover call.
type selector struct {
	workDir string
	exts    []string
	opts    Options
}

// walk adds every selected file under root. Hidden entries are skipped, as
// are drafts unless requested. Directory symlinks are entered only with
// FollowSymlinks; the walk continues at the link target.
func (s selector) walk(ctx context.Context, root string, add func(string)) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		if entry.IsDir() {
			if path == root {
				return nil
			}
			if s.hidden(entry.Name()) || s.excluded(s.rel(path)) {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(path)
			if err != nil {
				return nil //nolint:nilerr // broken links are skipped
			}
			info, err := os.Stat(target)
			if err != nil {
				return nil //nolint:nilerr // unreadable targets are skipped
			}
			if info.IsDir() {
				if !s.opts.FollowSymlinks {
					return nil
				}
				return s.walk(ctx, target, add)
			}
		}

		if !s.hidden(entry.Name()) && s.accepts(path) {
			add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// hidden reports whether a walked entry is skipped by name alone.
func (s selector) hidden(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	return !s.opts.IncludeDrafts && strings.HasPrefix(name, DraftPrefix)
}

// accepts applies the extension and glob rules to a file.
func (s selector) accepts(path string) bool {
	ext := filepath.Ext(path)
	if !slices.ContainsFunc(s.exts, func(e string) bool { return strings.EqualFold(e, ext) }) {
		return false
	}
	rel := s.rel(path)
	if s.excluded(rel) {
		return false
	}
	return len(s.opts.IncludeGlobs) == 0 || matchAny(rel, s.opts.IncludeGlobs)
}

func (s selector) excluded(rel string) bool {
	return matchAny(rel, s.opts.ExcludeGlobs)
}

func (s selector) rel(path string) string {
	rel, err := filepath.Rel(s.workDir, path)
	if err != nil {
		return path
	}
	return rel
}

func matchAny(rel string, patterns []string) bool {
	return slices.ContainsFunc(patterns, func(pattern string) bool {
		return matchGlob(rel, pattern)
	})
}

// matchGlob matches a path against a glob pattern. Patterns support "**"
// for any number of directories; a pattern that does not match the whole
// relative path is also tried against the base name.
func matchGlob(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	if matched, err := doublestar.Match(pattern, path); err == nil && matched {
		return true
	}
	// "vendor/**" also covers the directory itself.
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok && path == prefix {
		return true
	}

	matched, err := doublestar.Match(pattern, filepath.Base(path))
	return err == nil && matched
}
