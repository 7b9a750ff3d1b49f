package configloader

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/yaklabco/mdpost/internal/logging"
	"github.com/yaklabco/mdpost/pkg/config"
	"github.com/yaklabco/mdpost/pkg/highlight"
)

// ValidationError reports one invalid configuration field.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// ValidationResult splits findings into errors, which stop loading, and
// warnings, which fall back to a default.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// Valid reports whether no errors were found.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

//nolint:gochecknoglobals // Read-only lookup tables.
var (
	viewModes = []string{config.ViewEditor, config.ViewPreview, config.ViewSplit}
	drivers   = []string{"sqlite3", "memory"}
)

// Validate checks cfg. Empty fields are accepted; they mean "use the
// default" once merged.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.ViewMode != "" && !slices.Contains(viewModes, strings.ToLower(cfg.ViewMode)) {
		result.fail("view_mode", cfg.ViewMode, "invalid view mode %q; must be one of: %s",
			cfg.ViewMode, strings.Join(viewModes, ", "))
	}

	for _, name := range slices.Sorted(maps.Keys(cfg.Extensions)) {
		if !config.Extension(name).IsKnown() {
			result.fail("extensions."+name, name, "unknown extension %q; must be one of: %s",
				name, knownExtensionList())
		}
	}

	if cfg.Describer.MaxLength <= 0 {
		result.fail("describer.max_length", cfg.Describer.MaxLength, "must be > 0")
	}
	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "must be >= 0 (0 means one per CPU)")
	}
	if cfg.Database.Driver != "" && !slices.Contains(drivers, cfg.Database.Driver) {
		result.fail("database.driver", cfg.Database.Driver, "invalid database driver %q; must be one of: %s",
			cfg.Database.Driver, strings.Join(drivers, ", "))
	}

	// chroma falls back to its default style
	if cfg.Theme != "" && !highlight.KnownTheme(cfg.Theme) {
		result.warn("theme", cfg.Theme, "unknown theme %q; the fallback style will be used", cfg.Theme)
	}
	if _, ok := logging.ParseLevel(cfg.LogLevel); cfg.LogLevel != "" && !ok {
		result.warn("log_level", cfg.LogLevel, "unknown log level %q; info will be used", cfg.LogLevel)
	}

	return result
}

func knownExtensionList() string {
	names := make([]string, 0, len(config.KnownExtensions()))
	for _, ext := range config.KnownExtensions() {
		names = append(names, string(ext))
	}
	return strings.Join(names, ", ")
}
