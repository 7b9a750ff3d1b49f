package configloader

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/yaklabco/mdpost/pkg/config"
)

// envVarPrefix is the prefix for all mdpost environment variables.
const envVarPrefix = "MDPOST_"

// envFieldType represents the type of a configuration field.
type envFieldType int

const (
	envTypeString envFieldType = iota
	envTypeInt
	envTypeToggles
)

// envMapping defines environment variable to config field mappings.
type envMapping struct {
	field       string
	typ         envFieldType
	description string
}

// envMappings maps environment variable names (without prefix) to config fields.
//
//nolint:gochecknoglobals // Read-only lookup table.
var envMappings = map[string]envMapping{
	"THEME":                {field: "theme", typ: envTypeString, description: "Syntax highlighting theme (chroma style name)"},
	"VIEW_MODE":            {field: "view_mode", typ: envTypeString, description: "Initial view: editor, preview or split"},
	"EXTENSIONS":           {field: "extensions", typ: envTypeToggles, description: "Comma-separated extension toggles, e.g. gfm,-breaks"},
	"SERVER_ADDR":          {field: "server.addr", typ: envTypeString, description: "HTTP listen address"},
	"DATABASE_DRIVER":      {field: "database.driver", typ: envTypeString, description: "Post store driver: sqlite3 or memory"},
	"DATABASE_DSN":         {field: "database.dsn", typ: envTypeString, description: "Post store data source name"},
	"DESCRIBER_MAX_LENGTH": {field: "describer.max_length", typ: envTypeInt, description: "Upper bound on generated description length"},
	"LOG_LEVEL":            {field: "log_level", typ: envTypeString, description: "Log level: debug, info, warn or error"},
	"JOBS":                 {field: "jobs", typ: envTypeInt, description: "Number of parallel workers (0 = auto)"},
}

// LoadFromEnv applies environment variable overrides to the configuration.
// Environment variables are prefixed with MDPOST_ (e.g., MDPOST_THEME).
func LoadFromEnv(cfg *config.Config) error {
	if cfg == nil {
		return nil
	}

	for _, envSuffix := range sortedEnvSuffixes() {
		mapping := envMappings[envSuffix]
		envVar := envVarPrefix + envSuffix
		value := os.Getenv(envVar)
		if value == "" {
			continue
		}

		if err := applyEnvValue(cfg, mapping, value, envVar); err != nil {
			return err
		}
	}

	return nil
}

func sortedEnvSuffixes() []string {
	keys := make([]string, 0, len(envMappings))
	for key := range envMappings {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// applyEnvValue applies a single environment variable value to the config.
func applyEnvValue(cfg *config.Config, mapping envMapping, value, envVar string) error {
	switch mapping.typ {
	case envTypeString:
		return setStringField(cfg, mapping.field, value)
	case envTypeInt:
		i, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer for %s: %q", envVar, value)
		}
		return setIntField(cfg, mapping.field, i)
	case envTypeToggles:
		toggles := ParseToggles(value)
		if cfg.Extensions == nil {
			cfg.Extensions = make(map[string]bool, len(toggles))
		}
		for name, on := range toggles {
			cfg.Extensions[name] = on
		}
		return nil
	default:
		return fmt.Errorf("unknown field type for %s", envVar)
	}
}

// ParseToggles parses a comma-separated list of names into on/off
// switches. A leading "-" or "no-" switches the name off.
func ParseToggles(value string) map[string]bool {
	toggles := make(map[string]bool)
	for _, part := range strings.Split(value, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		on := true
		switch {
		case strings.HasPrefix(name, "-"):
			name, on = strings.TrimPrefix(name, "-"), false
		case strings.HasPrefix(name, "no-"):
			name, on = strings.TrimPrefix(name, "no-"), false
		}
		toggles[name] = on
	}
	return toggles
}

// setStringField sets a string field on the config by field path.
func setStringField(cfg *config.Config, field, value string) error {
	switch field {
	case "theme":
		cfg.Theme = value
	case "view_mode":
		cfg.ViewMode = value
	case "server.addr":
		cfg.Server.Addr = value
	case "database.driver":
		cfg.Database.Driver = value
	case "database.dsn":
		cfg.Database.DSN = value
	case "log_level":
		cfg.LogLevel = value
	default:
		return fmt.Errorf("unknown string field: %s", field)
	}
	return nil
}

// setIntField sets an integer field on the config by field path.
func setIntField(cfg *config.Config, field string, value int) error {
	switch field {
	case "jobs":
		cfg.Jobs = value
	case "describer.max_length":
		cfg.Describer.MaxLength = value
	default:
		return fmt.Errorf("unknown integer field: %s", field)
	}
	return nil
}

// GetEnvVarName returns the full environment variable name for a config field.
func GetEnvVarName(field string) string {
	for suffix, mapping := range envMappings {
		if mapping.field == field {
			return envVarPrefix + suffix
		}
	}
	return ""
}

// ListEnvVars returns all supported environment variables with their descriptions.
func ListEnvVars() map[string]string {
	vars := make(map[string]string, len(envMappings))
	for suffix, mapping := range envMappings {
		vars[envVarPrefix+suffix] = mapping.description
	}
	return vars
}
