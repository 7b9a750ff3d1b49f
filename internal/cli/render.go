package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpost/internal/logging"
	"github.com/yaklabco/mdpost/internal/ui/pretty"
	"github.com/yaklabco/mdpost/pkg/config"
	"github.com/yaklabco/mdpost/pkg/preview"
	"github.com/yaklabco/mdpost/pkg/runner"
)

// ErrRenderFailed is returned when at least one file failed to render.
var ErrRenderFailed = errors.New("render failed")

type renderFlags struct {
	ignore        []string
	enable        []string
	disable       []string
	dryRun        bool
	includeDrafts bool
	followLinks   bool
	verbose       bool
}

func newRenderCommand() *cobra.Command {
	var cfg config.Config
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [paths...]",
		Short: "Render Markdown files to HTML",
		Long:  renderLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args, &cfg, flags)
		},
	}

	cmd.Flags().StringVarP(&cfg.Output, "output", "o", "", "directory for rendered files (default: next to each source)")
	cmd.Flags().IntVar(&cfg.Jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringVar(&cfg.Theme, "theme", "", "syntax highlighting theme")
	cmd.Flags().StringSliceVar(&flags.enable, "enable", nil, "extensions to enable: gfm, breaks, math, code_title")
	cmd.Flags().StringSliceVar(&flags.disable, "disable", nil, "extensions to disable")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "render without writing files")
	cmd.Flags().BoolVar(&flags.includeDrafts, "drafts", false, "include files and directories starting with "+runner.DraftPrefix)
	cmd.Flags().BoolVar(&flags.followLinks, "follow-symlinks", false, "follow directory symlinks")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "list every file and print a summary block")

	return cmd
}

const renderLongDescription = `Render Markdown files to HTML fragments.

By default, renders all .md and .markdown files in the current directory
and subdirectories, writing each fragment next to its source with an
.html extension. Unchanged outputs are left untouched.

Examples:
  mdpost render                     # Render current directory
  mdpost render posts/ -o public/   # Mirror posts/ into public/
  mdpost render hello.md            # Render a single file
  mdpost render --dry-run -v        # Show what would be written
  mdpost render --disable breaks    # Keep soft line breaks soft`

func runRender(cmd *cobra.Command, args []string, cfg *config.Config, flags *renderFlags) error {
	cfg.Extensions = extensionOverrides(flags.enable, flags.disable)

	ctx, finalCfg, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	opts := runner.Options{
		Paths:          args,
		WorkingDir:     workDir,
		Extensions:     runner.DefaultExtensions(),
		ExcludeGlobs:   flags.ignore,
		FollowSymlinks: flags.followLinks,
		IncludeDrafts:  flags.includeDrafts,
		Jobs:           finalCfg.Jobs,
		OutputDir:      finalCfg.Output,
		DryRun:         flags.dryRun,
		Config:         finalCfg,
	}

	logger.Debug("starting render run",
		logging.FieldPaths, opts.Paths,
		logging.FieldWorkingDir, opts.WorkingDir,
		logging.FieldOutput, opts.OutputDir)

	result, err := runner.New(preview.NewEngine(finalCfg)).Run(ctx, opts)
	if err != nil {
		return errors.Join(errors.New("render run failed"), err)
	}

	out := cmd.OutOrStdout()
	styles := stylesFor(cmd, out)

	for _, f := range result.Failures() {
		logger.Error("render failed", logging.FieldPath, relPath(workDir, f.Path), logging.FieldError, f.Error)
	}

	if flags.verbose {
		fmt.Fprint(out, formatOutcomes(styles, terminalWidth(out, 0), workDir, result, flags.dryRun))
		fmt.Fprint(out, styles.FormatSummary(summaryOf(result.Stats, flags.dryRun)))
	} else {
		fmt.Fprint(out, styles.FormatSummaryOneLine(summaryOf(result.Stats, flags.dryRun)))
	}

	logger.Debug("render run complete",
		logging.FieldFilesRendered, result.Stats.FilesRendered,
		logging.FieldFilesErrored, result.Stats.FilesErrored,
		logging.FieldDuration, result.Stats.Duration)

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrRenderFailed
	}
	return nil
}

func summaryOf(stats runner.Stats, dryRun bool) pretty.Summary {
	return pretty.Summary{
		Discovered: stats.FilesDiscovered,
		Rendered:   stats.FilesRendered,
		Written:    stats.FilesWritten,
		Unchanged:  stats.FilesUnchanged,
		Empty:      stats.FilesEmpty,
		Errored:    stats.FilesErrored,
		Bytes:      stats.BytesRendered,
		Duration:   stats.Duration,
		DryRun:     dryRun,
	}
}

// formatOutcomes lists each file with its output and status as a table.
func formatOutcomes(styles *pretty.Styles, width int, workDir string, result *runner.Result, dryRun bool) string {
	tbl := &pretty.Table{
		Headers:      []string{"Source", "Output", "Size", "Status"},
		Aligns:       []pretty.Align{pretty.AlignLeft, pretty.AlignLeft, pretty.AlignRight, pretty.AlignLeft},
		TruncateLeft: map[int]bool{0: true, 1: true},
	}
	for _, f := range result.Files {
		var status string
		switch {
		case f.Error != nil:
			status = styles.Error.Render("failed")
		case dryRun:
			status = styles.Dim.Render("dry run")
		case f.Written:
			status = styles.Success.Render("written")
		default:
			status = styles.Dim.Render("unchanged")
		}
		tbl.Rows = append(tbl.Rows, []string{
			styles.FilePath.Render(relPath(workDir, f.Path)),
			relPath(workDir, f.OutputPath),
			fmt.Sprintf("%d B", f.Bytes),
			status,
		})
	}
	return pretty.NewTableFormatter(styles, styles.ColorEnabled, width).FormatTable(tbl)
}

func relPath(base, path string) string {
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}
