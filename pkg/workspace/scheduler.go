package workspace

import "sync"

// Scheduler defers work until the surface has committed new content.
type Scheduler interface {
	AfterCommit(fn func())
}

// CommitQueue is a Scheduler whose callbacks run, in FIFO order, when the
// surface calls Flush after committing content.
type CommitQueue struct {
	mu    sync.Mutex
	queue []func()
}

// NewCommitQueue creates an empty queue.
func NewCommitQueue() *CommitQueue {
	return &CommitQueue{}
}

// AfterCommit queues fn for the next Flush.
func (q *CommitQueue) AfterCommit(fn func()) {
	if fn == nil {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.queue = append(q.queue, fn)
}

// Flush runs the queued callbacks. Callbacks queued while flushing wait
// for the next Flush.
func (q *CommitQueue) Flush() int {
	q.mu.Lock()
	queue := q.queue
	q.queue = nil
	q.mu.Unlock()

	for _, fn := range queue {
		fn()
	}
	return len(queue)
}

// Pending returns the number of queued callbacks.
func (q *CommitQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.queue)
}
