package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/mdpost/internal/configloader"
	"github.com/yaklabco/mdpost/internal/logging"
	"github.com/yaklabco/mdpost/internal/ui/pretty"
	"github.com/yaklabco/mdpost/pkg/config"
)

const defaultTermWidth = 80

// commandContext returns the command's context, or Background when unset.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig resolves configuration for cmd, layering overrides (values
// set from command flags) on top of files and environment. The returned
// context carries a logger at the configured level.
func loadConfig(cmd *cobra.Command, overrides *config.Config) (context.Context, *config.Config, error) {
	ctx, result, err := loadConfigResult(cmd, overrides)
	if err != nil {
		return nil, nil, err
	}
	return ctx, result.Config, nil
}

// loadConfigResult is loadConfig keeping the discovered paths.
func loadConfigResult(cmd *cobra.Command, overrides *config.Config) (context.Context, *configloader.LoadResult, error) {
	ctx := commandContext(cmd)

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, nil, fmt.Errorf("get working directory: %w", err)
	}

	result, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    overrides,
	})
	if err != nil {
		return nil, nil, errors.Join(errors.New("failed to load configuration"), err)
	}

	logger := commandLogger(cmd, result.Config.LogLevel)
	for _, warning := range result.Warnings {
		logger.Warn(warning)
	}
	if len(result.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldFiles, result.LoadedFrom)
	}
	logger.Debug("configuration loaded",
		logging.FieldTheme, result.Config.Theme,
		logging.FieldExtensions, result.Config.Extensions,
		logging.FieldJobs, result.Config.Jobs)

	return logging.WithLogger(ctx, logger), result, nil
}

// commandLogger writes to the command's error stream. --debug wins over
// the configured level.
func commandLogger(cmd *cobra.Command, level string) *log.Logger {
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		level = "debug"
	}
	return logging.NewWriter(cmd.ErrOrStderr(), level)
}

// colorMode returns the --color flag value.
func colorMode(cmd *cobra.Command) string {
	mode, err := cmd.Flags().GetString("color")
	if err != nil || mode == "" {
		return "auto"
	}
	return mode
}

// stylesFor builds output styles for w honoring --color.
func stylesFor(cmd *cobra.Command, w io.Writer) *pretty.Styles {
	return pretty.NewStyles(pretty.IsColorEnabled(colorMode(cmd), w))
}

// terminalWidth returns the width of w when it is a terminal, else fallback.
func terminalWidth(w io.Writer, fallback int) int {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	if fallback <= 0 {
		return defaultTermWidth
	}
	return fallback
}

// readInput reads the named file, or standard input for "" and "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// extensionOverrides converts --enable/--disable flag values into toggles.
func extensionOverrides(enable, disable []string) map[string]bool {
	if len(enable) == 0 && len(disable) == 0 {
		return nil
	}
	toggles := make(map[string]bool, len(enable)+len(disable))
	for _, name := range enable {
		toggles[name] = true
	}
	for _, name := range disable {
		toggles[name] = false
	}
	return toggles
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
