package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/yaklabco/mdpost/internal/logging"
	"github.com/yaklabco/mdpost/pkg/fsutil"
	"github.com/yaklabco/mdpost/pkg/preview"
)

const outputDirMode = 0o755

// Runner orchestrates multi-file rendering using a preview.Engine.
type Runner struct {
	// Engine parses, transforms and renders each file.
	Engine *preview.Engine
}

// New creates a new Runner with the given engine.
func New(engine *preview.Engine) *Runner {
	return &Runner{Engine: engine}
}

// Run discovers files under opts.Paths and renders them concurrently.
// It returns a deterministic collection of FileOutcome values and aggregate stats.
//
// The runner:
//   - Discovers files matching the options criteria
//   - Renders files concurrently using a worker pool
//   - Writes each fragment atomically, skipping unchanged outputs
//   - Respects context cancellation
func (r *Runner) Run(ctx context.Context, opts Options) (*Result, error) {
	// Discover files.
	files, err := Discover(ctx, opts)
	if err != nil {
		return nil, err
	}

	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	result := &Result{
		Files: make([]FileOutcome, 0, len(files)),
	}
	result.Stats.FilesDiscovered = len(files)

	if len(files) == 0 {
		return result, nil
	}

	if r.Engine == nil {
		r.Engine = preview.NewEngine(opts.Config)
	}

	// Determine job count.
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.NumCPU()
	}
	// Don't use more workers than files.
	if jobs > len(files) {
		jobs = len(files)
	}

	logging.FromContext(ctx).Debug("rendering files",
		logging.FieldFilesDiscovered, len(files),
		logging.FieldJobs, jobs)

	// Create channels.
	workCh := make(chan string)
	outCh := make(chan FileOutcome)

	var wg sync.WaitGroup

	// Start workers.
	for range jobs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.worker(ctx, workCh, outCh, opts, workDir)
		}()
	}

	// Feed work in a separate goroutine.
	go func() {
		defer close(workCh)
		for _, path := range files {
			select {
			case <-ctx.Done():
				return
			case workCh <- path:
			}
		}
	}()

	// Close outCh when all workers are done.
	go func() {
		wg.Wait()
		close(outCh)
	}()

	// Collect results.
	// Use a map to maintain order since workers may complete out of order.
	outcomes := make(map[string]FileOutcome, len(files))

	for outcome := range outCh {
		outcomes[outcome.Path] = outcome
	}

	// Build result in deterministic order.
	for _, path := range files {
		if outcome, ok := outcomes[path]; ok {
			result.accumulate(outcome, opts.DryRun)
		}
	}

	// Check for context error.
	if ctx.Err() != nil {
		return result, fmt.Errorf("run cancelled: %w", ctx.Err())
	}

	return result, nil
}

// RenderFile renders a single source file and writes its output according
// to opts. workDir must be absolute.
func (r *Runner) RenderFile(ctx context.Context, path string, opts Options, workDir string) FileOutcome {
	outcome := FileOutcome{
		Path:       path,
		OutputPath: opts.OutputPath(path, workDir),
	}

	content, info, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		outcome.Error = err
		return outcome
	}

	res, err := r.Engine.Render(ctx, content)
	if err != nil {
		outcome.Error = fmt.Errorf("render %s: %w", path, err)
		return outcome
	}
	outcome.Bytes = len(res.HTML)
	outcome.Empty = res.Empty
	outcome.Duration = res.Duration

	if opts.DryRun {
		return outcome
	}

	if err := os.MkdirAll(filepath.Dir(outcome.OutputPath), outputDirMode); err != nil {
		outcome.Error = fmt.Errorf("create output directory: %w", err)
		return outcome
	}

	written, err := fsutil.WriteAtomicIfChanged(ctx, outcome.OutputPath, res.HTML, info.Mode.Perm())
	if err != nil {
		outcome.Error = fmt.Errorf("write %s: %w", outcome.OutputPath, err)
		return outcome
	}
	outcome.Written = written

	return outcome
}

// worker processes files from workCh and sends outcomes to outCh.
func (r *Runner) worker(
	ctx context.Context,
	workCh <-chan string,
	outCh chan<- FileOutcome,
	opts Options,
	workDir string,
) {
	for path := range workCh {
		select {
		case <-ctx.Done():
			return
		default:
		}

		outcome := r.RenderFile(ctx, path, opts, workDir)

		select {
		case <-ctx.Done():
			return
		case outCh <- outcome:
		}
	}
}
