// Package preview turns markdown text into rendered output: an Engine runs
// parse, transform and render once, and a Worker re-renders on every
// content change with last-write-wins ordering by content version.
package preview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yaklabco/mdpost/pkg/config"
	"github.com/yaklabco/mdpost/pkg/highlight"
	"github.com/yaklabco/mdpost/pkg/mdast"
	mdparser "github.com/yaklabco/mdpost/pkg/parser/goldmark"
	"github.com/yaklabco/mdpost/pkg/render"
	"github.com/yaklabco/mdpost/pkg/transform"
)

// ErrStale reports a render superseded by newer content.
var ErrStale = errors.New("preview superseded by newer content")

// Result is the rendered form of one content version.
type Result struct {
	// Version is the content version assigned by a Worker (0 for direct
	// Engine renders).
	Version uint64

	// Doc is the transformed document tree.
	Doc *mdast.Document

	// HTML is the rendered fragment; nil when Empty.
	HTML []byte

	// Empty is true when the content was empty and nothing was rendered.
	Empty bool

	// Duration is the time spent parsing and rendering.
	Duration time.Duration
}

// Engine runs the parse, transform and render stages.
type Engine struct {
	parser   *mdparser.Parser
	pipeline *transform.Pipeline
	html     *render.HTML
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithHTMLRenderer replaces the HTML renderer.
func WithHTMLRenderer(r *render.HTML) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.html = r
		}
	}
}

// WithPipeline replaces the transform pipeline.
func WithPipeline(p *transform.Pipeline) EngineOption {
	return func(e *Engine) {
		if p != nil {
			e.pipeline = p
		}
	}
}

// NewEngine creates an engine for cfg. A nil cfg uses defaults.
func NewEngine(cfg *config.Config, opts ...EngineOption) *Engine {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	e := &Engine{
		parser: mdparser.New(
			mdparser.WithGFM(cfg.Enabled(config.ExtGFM)),
			mdparser.WithMath(cfg.Enabled(config.ExtMath)),
		),
		pipeline: transform.Default(cfg),
		html:     render.NewHTML(highlight.New(cfg.Theme)),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Parse parses content and runs the transform pipeline over the tree.
func (e *Engine) Parse(ctx context.Context, content []byte) (*mdast.Document, error) {
	doc, err := e.parser.Parse(ctx, content)
	if err != nil {
		return nil, causeOf(ctx, err)
	}
	e.pipeline.Run(doc)
	return doc, nil
}

// Render parses and renders content. Empty content yields a Result with
// Empty set and no HTML.
func (e *Engine) Render(ctx context.Context, content []byte) (*Result, error) {
	start := time.Now()

	doc, err := e.Parse(ctx, content)
	if err != nil {
		return nil, err
	}

	res := &Result{Doc: doc, Empty: doc.IsEmpty()}
	if !res.Empty {
		var buf bytes.Buffer
		if err := e.html.Render(&buf, doc); err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		res.HTML = buf.Bytes()
	}

	if err := ctx.Err(); err != nil {
		return nil, causeOf(ctx, err)
	}

	res.Duration = time.Since(start)
	return res, nil
}

// RenderDocument renders an already transformed document.
func (e *Engine) RenderDocument(doc *mdast.Document) ([]byte, error) {
	out, err := e.html.RenderBytes(doc)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return out, nil
}

// causeOf prefers the context's cancellation cause so ErrStale survives.
func causeOf(ctx context.Context, err error) error {
	if cause := context.Cause(ctx); cause != nil && !errors.Is(err, cause) {
		return fmt.Errorf("%w: %w", cause, err)
	}
	return err
}
