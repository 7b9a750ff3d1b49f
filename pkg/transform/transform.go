// Package transform rewrites mdast trees between parsing and rendering.
//
// A Pipeline runs an ordered list of stages over a tree, each exactly once.
// Stages are pure tree rewrites: they see only the tree and never fail.
package transform

import (
	"github.com/yaklabco/mdpost/pkg/config"
	"github.com/yaklabco/mdpost/pkg/mdast"
)

// Stage is a single tree rewrite.
type Stage interface {
	// Name identifies the stage (e.g., "code-title").
	Name() string

	// Apply rewrites the tree rooted at root in place.
	Apply(root *mdast.Node)
}

// Pipeline is an ordered list of stages.
type Pipeline struct {
	stages []Stage
}

// NewPipeline creates a pipeline running stages in the given order.
// Nil stages are skipped.
func NewPipeline(stages ...Stage) *Pipeline {
	p := &Pipeline{}
	for _, s := range stages {
		if s != nil {
			p.stages = append(p.stages, s)
		}
	}
	return p
}

// Default builds the pipeline for the extensions enabled in cfg.
// Breaks run before code titles; the stages are independent.
func Default(cfg *config.Config) *Pipeline {
	var stages []Stage

	if cfg.Enabled(config.ExtBreaks) {
		stages = append(stages, HardBreaks{})
	}
	if cfg.Enabled(config.ExtCodeTitle) {
		stages = append(stages, CodeTitle{})
	}

	return NewPipeline(stages...)
}

// Names returns the stage names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.stages))
	for i, s := range p.stages {
		names[i] = s.Name()
	}
	return names
}

// Len returns the number of stages.
func (p *Pipeline) Len() int {
	return len(p.stages)
}

// Run applies every stage to doc's tree in order. A nil pipeline or
// document is a no-op.
func (p *Pipeline) Run(doc *mdast.Document) {
	if p == nil || doc == nil || doc.Root == nil {
		return
	}
	for _, s := range p.stages {
		s.Apply(doc.Root)
	}
}
