// Package config defines core configuration types for mdpost.
// These types are pure data structures; loading and merging live in
// internal/configloader.
package config

import "runtime"

// Extension names a markdown pipeline extension.
type Extension string

const (
	// ExtGFM enables tables, strikethrough, task lists and autolinks.
	ExtGFM Extension = "gfm"
	// ExtBreaks renders every soft line break as a hard break.
	ExtBreaks Extension = "breaks"
	// ExtMath enables $inline$ and $$display$$ math.
	ExtMath Extension = "math"
	// ExtCodeTitle extracts title="..." from fenced code metadata.
	ExtCodeTitle Extension = "code_title"
)

// KnownExtensions returns every supported extension in pipeline order.
func KnownExtensions() []Extension {
	return []Extension{ExtGFM, ExtBreaks, ExtMath, ExtCodeTitle}
}

// IsKnown reports whether e is a supported extension name.
func (e Extension) IsKnown() bool {
	for _, known := range KnownExtensions() {
		if e == known {
			return true
		}
	}
	return false
}

// View modes accepted by ViewMode.
const (
	ViewEditor  = "editor"
	ViewPreview = "preview"
	ViewSplit   = "split"
)

// Defaults.
const (
	DefaultTheme        = "onedark"
	DefaultAddr         = "127.0.0.1:8080"
	DefaultDriver       = "sqlite3"
	DefaultDSN          = "file:mdpost.db?cache=shared&_fk=1"
	DefaultDescriberMax = 200
	DefaultLogLevel     = "info"
)

// ServerConfig controls the HTTP preview server.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// DatabaseConfig selects the post store backend.
type DatabaseConfig struct {
	// Driver is a database/sql driver name; "memory" selects the in-process store.
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// DescriberConfig controls post description generation.
type DescriberConfig struct {
	// MaxLength is the exclusive upper bound on description length in characters.
	MaxLength int `yaml:"max_length"`
}

// Config is the root configuration structure for mdpost.
type Config struct {
	// Theme is the syntax highlighting style name.
	Theme string `yaml:"theme"`

	// Extensions toggles pipeline extensions by name. Missing entries are enabled.
	Extensions map[string]bool `yaml:"extensions"`

	// ViewMode is the initial workspace view: editor, preview or split.
	ViewMode string `yaml:"view_mode"`

	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Describer DescriberConfig `yaml:"describer"`

	// LogLevel is debug, info, warn or error.
	LogLevel string `yaml:"log_level"`

	// CLI-level options (not persisted to config files).

	// Jobs specifies the number of parallel workers.
	Jobs int `yaml:"-"`

	// Output is the output directory for batch rendering ("" writes next to sources).
	Output string `yaml:"-"`
}

// NewConfig returns a Config with sensible defaults.
func NewConfig() *Config {
	exts := make(map[string]bool, len(KnownExtensions()))
	for _, ext := range KnownExtensions() {
		exts[string(ext)] = true
	}

	return &Config{
		Theme:      DefaultTheme,
		Extensions: exts,
		ViewMode:   ViewEditor,
		Server:     ServerConfig{Addr: DefaultAddr},
		Database: DatabaseConfig{
			Driver: DefaultDriver,
			DSN:    DefaultDSN,
		},
		Describer: DescriberConfig{MaxLength: DefaultDescriberMax},
		LogLevel:  DefaultLogLevel,
		Jobs:      0, // 0 means use GOMAXPROCS
	}
}

// Enabled reports whether the extension is switched on.
func (c *Config) Enabled(ext Extension) bool {
	if c == nil {
		return true
	}
	on, ok := c.Extensions[string(ext)]
	return !ok || on
}

// Workers returns the effective worker count.
func (c *Config) Workers() int {
	if c == nil || c.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return c.Jobs
}
