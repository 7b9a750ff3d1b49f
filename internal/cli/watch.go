package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yaklabco/mdpost/internal/logging"
	"github.com/yaklabco/mdpost/pkg/config"
	"github.com/yaklabco/mdpost/pkg/fsutil"
	"github.com/yaklabco/mdpost/pkg/preview"
	"github.com/yaklabco/mdpost/pkg/render"
)

const clearScreen = "\x1b[H\x1b[2J"

type watchFlags struct {
	html    string
	width   int
	noClear bool
}

func newWatchCommand() *cobra.Command {
	var cfg config.Config
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch FILE",
		Short: "Re-render a Markdown file whenever it changes",
		Long: `Watch a Markdown file and redraw the terminal preview on every save.
Bursts of saves collapse: only the newest content is shown. With --html the
rendered fragment is also written to a file.

Examples:
  mdpost watch post.md
  mdpost watch post.md --html post.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, args[0], &cfg, flags)
		},
	}

	cmd.Flags().StringVar(&cfg.Theme, "theme", "", "syntax highlighting theme")
	cmd.Flags().StringVar(&flags.html, "html", "", "also write the HTML fragment to this file")
	cmd.Flags().IntVarP(&flags.width, "width", "w", 0, "wrap width (default: terminal width)")
	cmd.Flags().BoolVar(&flags.noClear, "no-clear", false, "do not clear the screen between renders")

	return cmd
}

func runWatch(cmd *cobra.Command, path string, cfg *config.Config, flags *watchFlags) error {
	ctx, finalCfg, err := loadConfig(cmd, cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	renderer := newTerminalRenderer(cmd, out, finalCfg, flags.width)

	err = watchFile(ctx, watchOptions{
		Path:     path,
		Engine:   preview.NewEngine(finalCfg),
		Out:      out,
		Terminal: renderer,
		HTMLPath: flags.html,
		Clear:    !flags.noClear && isTerminal(out),
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type watchOptions struct {
	Path     string
	Engine   *preview.Engine
	Out      io.Writer
	Terminal *render.Terminal
	HTMLPath string
	Clear    bool

	// rendered is called after each displayed result.
	rendered func(*preview.Result)
}

// watchFile renders Path once, then again on every change, until ctx is
// done.
func watchFile(ctx context.Context, opts watchOptions) error {
	logger := logging.FromContext(ctx)

	abs, err := filepath.Abs(opts.Path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", opts.Path, err)
	}

	content, info, err := fsutil.ReadFile(ctx, abs)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory: editors often save by rename, which drops a
	// watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	worker := preview.NewWorker(ctx, opts.Engine)
	defer worker.Close()

	worker.Submit(string(content))
	logger.Info("watching", logging.FieldPath, opts.Path)

	go watchLoop(ctx, watcher, abs, info, worker)

	for res := range worker.Results() {
		if err := showResult(ctx, opts, res); err != nil {
			return err
		}
		if opts.rendered != nil {
			opts.rendered(res)
		}
	}
	return ctx.Err()
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, info *fsutil.FileInfo, worker *preview.Worker) {
	logger := logging.FromContext(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				logger.Debug("file moved away, waiting for it to return", logging.FieldPath, path)
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}

			modified, err := fsutil.CheckModified(ctx, info)
			if err != nil || !modified {
				continue
			}

			content, next, err := fsutil.ReadFile(ctx, path)
			if err != nil {
				logger.Warn("reload failed", logging.FieldPath, path, logging.FieldError, err)
				continue
			}
			info = next
			version := worker.Submit(string(content))
			logger.Debug("content changed", logging.FieldPath, path, logging.FieldVersion, version)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", logging.FieldError, err)
		}
	}
}

func showResult(ctx context.Context, opts watchOptions, res *preview.Result) error {
	if opts.Clear {
		if _, err := io.WriteString(opts.Out, clearScreen); err != nil {
			return err
		}
	}
	if opts.Terminal != nil && !res.Empty {
		if err := opts.Terminal.Render(opts.Out, res.Doc); err != nil {
			return fmt.Errorf("render: %w", err)
		}
	}
	if opts.HTMLPath != "" {
		if _, err := fsutil.WriteAtomicIfChanged(ctx, opts.HTMLPath, res.HTML, 0); err != nil {
			return fmt.Errorf("write %s: %w", opts.HTMLPath, err)
		}
	}
	return nil
}
