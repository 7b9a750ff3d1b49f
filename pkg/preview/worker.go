package preview

import (
	"context"
	"errors"
	"sync"

	"github.com/yaklabco/mdpost/internal/logging"
)

// Worker re-renders content in the background. Each Submit supersedes the
// previous one: an in-flight render for older content is cancelled and
// its result discarded, so Results only ever carries the newest version.
type Worker struct {
	engine *Engine
	ctx    context.Context //nolint:containedctx // Worker lifetime.
	stop   context.CancelFunc

	mu        sync.Mutex
	latest    uint64
	published uint64
	pending   *job
	cancel    context.CancelCauseFunc
	closed    bool

	wake    chan struct{}
	results chan *Result
	done    chan struct{}
}

type job struct {
	version uint64
	content []byte
}

// NewWorker starts a worker rendering with engine until Close or until ctx
// is done.
func NewWorker(ctx context.Context, engine *Engine) *Worker {
	ctx, stop := context.WithCancel(ctx)
	w := &Worker{
		engine:  engine,
		ctx:     ctx,
		stop:    stop,
		wake:    make(chan struct{}, 1),
		results: make(chan *Result, 1),
		done:    make(chan struct{}),
	}
	go w.loop()
	return w
}

// Submit queues content for rendering and returns its version. Versions
// start at 1 and increase with every call. After Close it returns 0.
func (w *Worker) Submit(content string) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return 0
	}

	w.latest++
	w.pending = &job{version: w.latest, content: []byte(content)}
	if w.cancel != nil {
		w.cancel(ErrStale)
	}

	select {
	case w.wake <- struct{}{}:
	default:
	}
	return w.latest
}

// Results delivers rendered results. Only the newest unread result is
// kept; a reader that falls behind sees the latest version, not a backlog.
// The channel is closed when the worker stops.
func (w *Worker) Results() <-chan *Result {
	return w.results
}

// Latest returns the most recently submitted version.
func (w *Worker) Latest() uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.latest
}

// Close stops the worker, cancelling any in-flight render, and waits for
// it to exit.
func (w *Worker) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.done
		return
	}
	w.closed = true
	if w.cancel != nil {
		w.cancel(context.Canceled)
	}
	w.mu.Unlock()

	w.stop()
	<-w.done
}

func (w *Worker) loop() {
	defer close(w.done)
	defer close(w.results)

	logger := logging.FromContext(w.ctx)

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-w.wake:
		}

		w.mu.Lock()
		next := w.pending
		w.pending = nil
		if next == nil || w.closed {
			w.mu.Unlock()
			continue
		}
		ctx, cancel := context.WithCancelCause(w.ctx)
		w.cancel = cancel
		w.mu.Unlock()

		res, err := w.engine.Render(ctx, next.content)
		cancel(nil)

		if err != nil {
			if errors.Is(err, ErrStale) {
				logger.Debug("preview superseded", logging.FieldVersion, next.version)
			} else if w.ctx.Err() == nil {
				logger.Warn("preview failed", logging.FieldVersion, next.version, logging.FieldError, err)
			}
			continue
		}
		res.Version = next.version
		w.publish(res)
	}
}

// publish delivers res unless newer content has been submitted or a newer
// result already went out.
func (w *Worker) publish(res *Result) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if res.Version != w.latest || res.Version <= w.published || w.closed {
		return
	}
	w.published = res.Version

	select {
	case <-w.results:
	default:
	}
	w.results <- res
}
