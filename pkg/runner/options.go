// Package runner provides multi-file render orchestration: it discovers
// markdown files and renders each one to an HTML fragment concurrently.
package runner

import (
	"path/filepath"
	"strings"

	"github.com/yaklabco/mdpost/pkg/config"
)

// OutputExtension is the extension given to rendered files.
const OutputExtension = ".html"

// Options controls multi-file rendering behavior.
type Options struct {
	// Paths are the user-specified paths (files or directories) to process.
	// If empty, defaults to the current working directory.
	Paths []string

	// WorkingDir is the base directory used to resolve relative Paths.
	// If empty, the current process working directory is used.
	WorkingDir string

	// Extensions is the set of file extensions (lowercase, with leading dot)
	// considered Markdown. Defaults to [".md", ".markdown"] via DefaultExtensions().
	Extensions []string

	// IncludeGlobs are additional glob patterns to include, relative to WorkingDir.
	// Empty means "include everything that matches Extensions".
	IncludeGlobs []string

	// ExcludeGlobs are glob patterns used to skip files or directories.
	ExcludeGlobs []string

	// IncludeDrafts renders files and directories named with DraftPrefix.
	IncludeDrafts bool

	// FollowSymlinks controls whether directory symlinks are traversed.
	FollowSymlinks bool

	// Jobs controls the maximum number of concurrent workers.
	// 0 or negative means "auto" (runtime.NumCPU()).
	Jobs int

	// OutputDir receives rendered files, mirroring the source layout
	// relative to WorkingDir. Empty writes each file next to its source.
	OutputDir string

	// DryRun renders without writing anything.
	DryRun bool

	// Config is the resolved configuration for this run.
	Config *config.Config
}

// DefaultExtensions returns the default set of Markdown file extensions.
func DefaultExtensions() []string {
	return []string{".md", ".markdown"}
}

// effectiveExtensions returns the extensions to use, defaulting if empty.
func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) == 0 {
		return DefaultExtensions()
	}
	return o.Extensions
}

// effectivePaths returns the paths to process, defaulting to "." if empty.
func (o Options) effectivePaths() []string {
	if len(o.Paths) == 0 {
		return []string{"."}
	}
	return o.Paths
}

// OutputPath returns where the rendered form of source is written.
// workDir must be absolute; sources outside it are flattened to their
// base name under OutputDir.
func (o Options) OutputPath(source, workDir string) string {
	name := strings.TrimSuffix(source, filepath.Ext(source)) + OutputExtension
	if o.OutputDir == "" {
		return name
	}

	outDir := o.OutputDir
	if !filepath.IsAbs(outDir) {
		outDir = filepath.Join(workDir, outDir)
	}

	rel, err := filepath.Rel(workDir, name)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = filepath.Base(name)
	}
	return filepath.Join(outDir, rel)
}
