package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
)

// ConfigPaths holds the config files found for each layer. An empty string
// means the layer has no file.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string
}

const appName = "mdpost"

// Names tried in a project directory, most preferred first.
//
//nolint:gochecknoglobals // Read-only lookup table.
var projectNames = []string{DefaultProjectFile, ".mdpost.yaml", "mdpost.yml", "mdpost.yaml"}

// Names tried in the system and user config directories.
//
//nolint:gochecknoglobals // Read-only lookup table.
var layerNames = []string{"config.yaml", "config.yml"}

// A directory holding one of these ends the upward project search.
//
//nolint:gochecknoglobals // Read-only lookup table.
var repoMarkers = []string{".git", ".hg", ".svn"}

// DiscoverPaths locates the system, user and project config files for
// workDir.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}

	return &ConfigPaths{
		System:  firstFile(systemDir(), layerNames),
		User:    firstFile(userDir(), layerNames),
		Project: project,
	}, nil
}

// systemDir is /etc/mdpost, or %ProgramData%\mdpost on Windows.
func systemDir() string {
	if runtime.GOOS != "windows" {
		return filepath.Join("/etc", appName)
	}
	base := os.Getenv("ProgramData")
	if base == "" {
		base = `C:\ProgramData`
	}
	return filepath.Join(base, appName)
}

// userDir is $XDG_CONFIG_HOME/mdpost, falling back to ~/.config/mdpost.
func userDir() string {
	if base := os.Getenv("XDG_CONFIG_HOME"); base != "" {
		return filepath.Join(base, appName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName)
}

// FindProjectConfig walks from startDir toward the root and returns the
// first project config file. The walk ends at a repository root, the home
// directory or the filesystem root; nothing found is not an error.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve project dir: %w", err)
	}
	home, _ := os.UserHomeDir()

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("discover config: %w", err)
		}
		if found := firstFile(dir, projectNames); found != "" {
			return found, nil
		}
		if dir == home || isRepoRoot(dir) {
			return "", nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil
		}
		dir = parent
	}
}

// firstFile returns the first of names that is a regular file in dir.
func firstFile(dir string, names []string) string {
	if dir == "" {
		return ""
	}
	idx := slices.IndexFunc(names, func(name string) bool {
		info, err := os.Stat(filepath.Join(dir, name))
		return err == nil && info.Mode().IsRegular()
	})
	if idx < 0 {
		return ""
	}
	return filepath.Join(dir, names[idx])
}

func isRepoRoot(dir string) bool {
	return slices.ContainsFunc(repoMarkers, func(marker string) bool {
		info, err := os.Stat(filepath.Join(dir, marker))
		return err == nil && info.IsDir()
	})
}
