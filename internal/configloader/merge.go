package configloader

import (
	"maps"

	"github.com/yaklabco/mdpost/pkg/config"
)

// merge combines two configurations, with override taking precedence over base.
// The merge follows these rules:
//   - Scalar values: override overwrites base if override is non-zero
//   - Maps: deep merge, with override's values taking precedence
//   - Nil/unset values in override do not override values in base
func merge(base, override *config.Config) *config.Config {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	result := base.Clone()

	// Scalars: override overwrites base if set (non-zero value)
	if override.Theme != "" {
		result.Theme = override.Theme
	}
	if override.ViewMode != "" {
		result.ViewMode = override.ViewMode
	}
	if override.LogLevel != "" {
		result.LogLevel = override.LogLevel
	}
	if override.Server.Addr != "" {
		result.Server.Addr = override.Server.Addr
	}
	if override.Database.Driver != "" {
		result.Database.Driver = override.Database.Driver
	}
	if override.Database.DSN != "" {
		result.Database.DSN = override.Database.DSN
	}
	if override.Describer.MaxLength != 0 {
		result.Describer.MaxLength = override.Describer.MaxLength
	}
	if override.Jobs != 0 {
		result.Jobs = override.Jobs
	}
	if override.Output != "" {
		result.Output = override.Output
	}

	// Maps: deep merge. Extension switches are explicit booleans, so a
	// file can turn a default-on extension off.
	result.Extensions = mergeToggles(base.Extensions, override.Extensions)

	return result
}

// mergeToggles performs a deep merge of on/off switches.
func mergeToggles(base, override map[string]bool) map[string]bool {
	if base == nil && override == nil {
		return nil
	}

	result := make(map[string]bool, len(base)+len(override))
	maps.Copy(result, base)
	maps.Copy(result, override)
	return result
}

// MergeAll merges multiple configurations in order, with later configs taking precedence.
func MergeAll(configs ...*config.Config) *config.Config {
	if len(configs) == 0 {
		return nil
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		result = merge(result, configs[i])
	}
	return result
}
