package configloader

import (
	"strings"
	"testing"

	"github.com/yaklabco/mdpost/pkg/config"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*config.Config)
		wantError string
		wantWarn  string
	}{
		{name: "defaults", mutate: func(*config.Config) {}},
		{
			name:      "view mode",
			mutate:    func(c *config.Config) { c.ViewMode = "sideways" },
			wantError: "view_mode: invalid view mode \"sideways\"; must be one of: editor, preview, split",
		},
		{
			name:      "extension",
			mutate:    func(c *config.Config) { c.Extensions["mermaid"] = true },
			wantError: "must be one of: gfm, breaks, math, code_title",
		},
		{
			name:      "describer",
			mutate:    func(c *config.Config) { c.Describer.MaxLength = 0 },
			wantError: "describer.max_length: must be > 0",
		},
		{
			name:      "jobs",
			mutate:    func(c *config.Config) { c.Jobs = -2 },
			wantError: "jobs: must be >= 0",
		},
		{
			name:      "driver",
			mutate:    func(c *config.Config) { c.Database.Driver = "oracle" },
			wantError: "must be one of: sqlite3, memory",
		},
		{
			name:     "theme",
			mutate:   func(c *config.Config) { c.Theme = "no-such-style" },
			wantWarn: "theme: unknown theme",
		},
		{
			name:     "log level",
			mutate:   func(c *config.Config) { c.LogLevel = "loud" },
			wantWarn: "log_level: unknown log level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.NewConfig()
			tt.mutate(cfg)
			result := Validate(cfg)

			if tt.wantError == "" {
				if !result.Valid() {
					t.Fatalf("unexpected errors: %v", result.Errors)
				}
			} else if result.Valid() || !strings.Contains(result.Errors[0].Error(), tt.wantError) {
				t.Fatalf("expected error containing %q, got %v", tt.wantError, result.Errors)
			}

			if tt.wantWarn != "" && (len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0].Error(), tt.wantWarn)) {
				t.Fatalf("expected warning containing %q, got %v", tt.wantWarn, result.Warnings)
			}
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	t.Parallel()

	if !Validate(nil).Valid() {
		t.Error("nil config should validate")
	}
}
