package workspace

import (
	"context"
	"sync"

	"github.com/yaklabco/mdpost/pkg/editor"
	"github.com/yaklabco/mdpost/pkg/preview"
)

// Session composes an editing surface and a preview over one Binding.
// Sessions share no text or tree state with each other.
type Session struct {
	binding   Binding
	scheduler Scheduler
	engine    *preview.Engine

	mu      sync.Mutex
	surface Surface
	mode    ViewMode
}

// Option configures a Session.
type Option func(*Session)

// WithScheduler sets the post-commit scheduler. Defaults to a CommitQueue.
func WithScheduler(s Scheduler) Option {
	return func(sess *Session) {
		if s != nil {
			sess.scheduler = s
		}
	}
}

// WithEngine sets the preview engine.
func WithEngine(e *preview.Engine) Option {
	return func(sess *Session) {
		if e != nil {
			sess.engine = e
		}
	}
}

// WithViewMode sets the initial view mode. Invalid modes are ignored.
func WithViewMode(m ViewMode) Option {
	return func(sess *Session) {
		if m.IsValid() {
			sess.mode = m
		}
	}
}

// NewSession creates a session over binding in editor mode.
func NewSession(binding Binding, opts ...Option) *Session {
	s := &Session{
		binding: binding,
		mode:    ViewEditor,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scheduler == nil {
		s.scheduler = NewCommitQueue()
	}
	if s.engine == nil {
		s.engine = preview.NewEngine(nil)
	}
	return s
}

// Scheduler returns the session's post-commit scheduler.
func (s *Session) Scheduler() Scheduler {
	return s.scheduler
}

// Attach mounts surface as the editing surface.
func (s *Session) Attach(surface Surface) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface = surface
}

// Detach unmounts the editing surface. Later commands are no-ops.
func (s *Session) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.surface = nil
}

// ViewMode returns the current view mode.
func (s *Session) ViewMode() ViewMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetViewMode switches the view mode.
func (s *Session) SetViewMode(m ViewMode) error {
	mode, err := ParseViewMode(string(m))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
	return nil
}

// Value returns the bound text.
func (s *Session) Value() string {
	return s.binding.Value()
}

// Input relays typed content to the binding.
func (s *Session) Input(value string) {
	s.binding.OnChange(value)
}

// Format applies a toolbar command to the bound text at the surface's
// selection. The new content goes through the binding, and the caret is
// restored only after the surface commits it. It reports whether the
// command ran: unknown commands, a missing surface or a hidden editor make
// it a no-op.
func (s *Session) Format(command string) bool {
	s.mu.Lock()
	surface, mode := s.surface, s.mode
	s.mu.Unlock()

	if surface == nil || !mode.ShowsEditor() {
		return false
	}

	start, end := surface.Selection()
	buf := editor.NewBuffer(s.binding.Value()).WithSelection(start, end)

	res, ok := editor.Dispatch(command, buf)
	if !ok {
		return false
	}

	s.binding.OnChange(res.Buffer.Content)

	caret := res.Caret
	s.scheduler.AfterCommit(func() {
		surface.Focus()
		surface.SetSelection(caret, caret)
	})
	return true
}

// Preview renders the bound text. It returns nil when the view mode
// hides the preview.
func (s *Session) Preview(ctx context.Context) (*preview.Result, error) {
	if !s.ViewMode().ShowsPreview() {
		return nil, nil //nolint:nilnil // Hidden preview renders nothing.
	}
	return s.engine.Render(ctx, []byte(s.binding.Value()))
}
