// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field name constants for structured logging.
// Using constants prevents typos and enables IDE autocomplete.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldInput      = "input"
	FieldOutput     = "output"
	FieldWorkingDir = "working_dir"
	FieldDuration   = "duration"

	// Configuration fields.
	FieldTheme      = "theme"
	FieldExtensions = "extensions"
	FieldJobs       = "jobs"
	FieldConfig     = "config"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesRendered   = "files_rendered"
	FieldFilesErrored    = "files_errored"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
	FieldGo      = "go"

	// Server fields.
	FieldAddr   = "addr"
	FieldMethod = "method"
	FieldStatus = "status"
	FieldRemote = "remote"

	// Post and job fields.
	FieldPost  = "post"
	FieldJob   = "job"
	FieldEvent = "event"
)
