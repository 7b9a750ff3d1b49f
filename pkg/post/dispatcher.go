package post

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yaklabco/mdpost/internal/logging"
)

// EventGenerateDescription asks for a description of Event.Content.
const EventGenerateDescription = "post/generate.description"

// Dispatcher errors.
var (
	ErrUnknownEvent = errors.New("no handler registered for event")
	ErrUnknownJob   = errors.New("job not found")
	ErrClosed       = errors.New("dispatcher closed")
)

// Event is a unit of background work.
type Event struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Handler processes an event and returns its output.
type Handler func(ctx context.Context, ev Event) (string, error)

// JobStatus is the lifecycle state of a job.
type JobStatus string

// Job states.
const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// Done reports whether the job has finished.
func (s JobStatus) Done() bool {
	return s == JobCompleted || s == JobFailed
}

// Job is a snapshot of a dispatched event.
type Job struct {
	ID       uuid.UUID     `json:"id"`
	Event    string        `json:"event"`
	Status   JobStatus     `json:"status"`
	Output   string        `json:"output,omitempty"`
	Error    string        `json:"error,omitempty"`
	Duration time.Duration `json:"duration"`
}

type jobState struct {
	job   Job
	event Event
	done  chan struct{}
}

// Dispatcher runs events through registered handlers on a worker pool.
type Dispatcher struct {
	ctx    context.Context //nolint:containedctx // Dispatcher lifetime.
	cancel context.CancelFunc

	mu       sync.RWMutex
	handlers map[string]Handler
	jobs     map[uuid.UUID]*jobState
	closed   bool

	queue chan *jobState
	wg    sync.WaitGroup
}

// NewDispatcher starts a dispatcher with the given number of workers.
// Non-positive values use runtime.NumCPU().
func NewDispatcher(ctx context.Context, workers int) *Dispatcher {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)
	d := &Dispatcher{
		ctx:      ctx,
		cancel:   cancel,
		handlers: make(map[string]Handler),
		jobs:     make(map[uuid.UUID]*jobState),
		queue:    make(chan *jobState, workers),
	}

	for range workers {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			d.worker()
		}()
	}
	return d
}

// Register installs h for events named name, replacing any previous one.
func (d *Dispatcher) Register(name string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = h
}

// Send queues ev and returns its job ID.
func (d *Dispatcher) Send(ctx context.Context, ev Event) (uuid.UUID, error) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return uuid.Nil, ErrClosed
	}
	if _, ok := d.handlers[ev.Name]; !ok {
		d.mu.Unlock()
		return uuid.Nil, fmt.Errorf("%w: %s", ErrUnknownEvent, ev.Name)
	}

	state := &jobState{
		job:   Job{ID: uuid.New(), Event: ev.Name, Status: JobQueued},
		event: ev,
		done:  make(chan struct{}),
	}
	d.jobs[state.job.ID] = state
	d.mu.Unlock()

	select {
	case d.queue <- state:
		return state.job.ID, nil
	case <-ctx.Done():
		d.forget(state.job.ID)
		return uuid.Nil, fmt.Errorf("send %s: %w", ev.Name, ctx.Err())
	case <-d.ctx.Done():
		d.forget(state.job.ID)
		return uuid.Nil, ErrClosed
	}
}

// Status returns a snapshot of the job.
func (d *Dispatcher) Status(id uuid.UUID) (Job, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	state, ok := d.jobs[id]
	if !ok {
		return Job{}, ErrUnknownJob
	}
	return state.job, nil
}

// Wait blocks until the job finishes or ctx is done.
func (d *Dispatcher) Wait(ctx context.Context, id uuid.UUID) (Job, error) {
	d.mu.RLock()
	state, ok := d.jobs[id]
	d.mu.RUnlock()
	if !ok {
		return Job{}, ErrUnknownJob
	}

	select {
	case <-state.done:
		return d.Status(id)
	case <-ctx.Done():
		return Job{}, fmt.Errorf("wait for job %s: %w", id, ctx.Err())
	}
}

// Close stops accepting events, cancels running handlers and waits for
// the workers to exit. Queued jobs that never ran are marked failed.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.cancel()
	d.wg.Wait()

	d.mu.Lock()
	defer d.mu.Unlock()
	for _, state := range d.jobs {
		if !state.job.Status.Done() {
			state.job.Status = JobFailed
			state.job.Error = ErrClosed.Error()
			close(state.done)
		}
	}
}

func (d *Dispatcher) forget(id uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.jobs, id)
}

func (d *Dispatcher) worker() {
	for {
		select {
		case <-d.ctx.Done():
			return
		case state := <-d.queue:
			d.run(state)
		}
	}
}

func (d *Dispatcher) run(state *jobState) {
	ctx := logging.WithFields(d.ctx, logging.FieldJob, state.job.ID, logging.FieldEvent, state.event.Name)
	logger := logging.FromContext(ctx)

	d.mu.Lock()
	handler := d.handlers[state.event.Name]
	state.job.Status = JobRunning
	d.mu.Unlock()

	start := time.Now()
	output, err := handler(ctx, state.event)
	elapsed := time.Since(start)

	d.mu.Lock()
	defer d.mu.Unlock()

	state.job.Duration = elapsed
	if err != nil {
		state.job.Status = JobFailed
		state.job.Error = err.Error()
		logger.Warn("job failed", logging.FieldError, err)
	} else {
		state.job.Status = JobCompleted
		state.job.Output = output
		logger.Debug("job completed", logging.FieldDuration, elapsed)
	}
	close(state.done)
}
