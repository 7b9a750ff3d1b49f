package runner

import "time"

// FileOutcome records what happened to one source file.
type FileOutcome struct {
	// Path is the source file that was processed.
	Path string

	// OutputPath is the rendered file location (set even on dry runs).
	OutputPath string

	// Bytes is the size of the rendered fragment.
	Bytes int

	// Empty is true when the source had no content and nothing was rendered.
	Empty bool

	// Written is true when the output file was created or changed.
	Written bool

	// Duration is the time spent rendering.
	Duration time.Duration

	// Error is set if the file could not be processed.
	Error error
}

// Stats captures aggregate information about a run.
type Stats struct {
	// FilesDiscovered is the total number of files found during discovery.
	FilesDiscovered int

	// FilesRendered is the number of files rendered without error.
	FilesRendered int

	// FilesWritten is the number of output files created or changed.
	FilesWritten int

	// FilesUnchanged is the number of output files whose content already matched.
	FilesUnchanged int

	// FilesEmpty is the number of sources with no content.
	FilesEmpty int

	// FilesErrored is the number of files that encountered errors.
	FilesErrored int

	// BytesRendered is the total size of rendered output.
	BytesRendered int

	// Duration is the summed render time across files.
	Duration time.Duration
}

// Result is the overall runner result.
type Result struct {
	// Files contains the outcome for each processed file.
	// Files are ordered deterministically (by path).
	Files []FileOutcome

	// Stats contains aggregate statistics for the run.
	Stats Stats
}

// HasFailures reports whether any file failed to render or write.
func (r *Result) HasFailures() bool {
	if r == nil {
		return false
	}
	return r.Stats.FilesErrored > 0
}

// Failures returns the outcomes that carry an error.
func (r *Result) Failures() []FileOutcome {
	if r == nil {
		return nil
	}
	var failed []FileOutcome
	for _, f := range r.Files {
		if f.Error != nil {
			failed = append(failed, f)
		}
	}
	return failed
}

// accumulate updates the result with a file outcome.
func (r *Result) accumulate(outcome FileOutcome, dryRun bool) {
	r.Files = append(r.Files, outcome)

	if outcome.Error != nil {
		r.Stats.FilesErrored++
		return
	}

	r.Stats.FilesRendered++
	r.Stats.BytesRendered += outcome.Bytes
	r.Stats.Duration += outcome.Duration

	if outcome.Empty {
		r.Stats.FilesEmpty++
	}

	switch {
	case dryRun:
	case outcome.Written:
		r.Stats.FilesWritten++
	default:
		r.Stats.FilesUnchanged++
	}
}
