package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpost/internal/configloader"
	"github.com/yaklabco/mdpost/internal/logging"
	"github.com/yaklabco/mdpost/pkg/config"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force  bool
	output string
	driver string
	theme  string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new mdpost configuration file",
		Long: `Create a .mdpost.yml configuration file in the current directory with
the default settings written out, ready to be edited.

Examples:
  mdpost init                        Create .mdpost.yml
  mdpost init --driver memory        Keep posts in memory only
  mdpost init --output custom.yml    Write to a custom file path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().StringVarP(&flags.output, "output", "o", configloader.DefaultProjectFile, "Output file path")
	cmd.Flags().StringVar(&flags.driver, "driver", "", "Post store driver: sqlite3 or memory")
	cmd.Flags().StringVar(&flags.theme, "theme", "", "Syntax highlighting theme")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewInteractive()
	logger.SetOutput(cmd.ErrOrStderr())
	ctx := commandContext(cmd)

	absPath, err := filepath.Abs(flags.output)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if _, err := os.Stat(absPath); err == nil {
		if !flags.force {
			return fmt.Errorf("file %q already exists; use --force to overwrite", flags.output)
		}
		logger.Warn("overwriting existing file", logging.FieldPath, flags.output)
	}

	cfg := config.NewConfig()
	if flags.driver != "" {
		cfg.Database.Driver = flags.driver
	}
	if flags.theme != "" {
		cfg.Theme = flags.theme
	}
	if result := configloader.Validate(cfg); !result.Valid() {
		return &result.Errors[0]
	}

	if err := configloader.WriteConfig(ctx, cfg, absPath); err != nil {
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, flags.output)
	logger.Info("run 'mdpost config show' to see the resolved configuration")

	return nil
}
