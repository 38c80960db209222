package ping

import "sync"

// Queue is the fan-in path from probe workers to the single consumer:
// multi-producer, unbounded, FIFO per producer. The consumer never blocks,
// it only drains what has already arrived. A plain channel cannot express
// these semantics (sends must fail, not panic, after close), hence the
// mutex-guarded queue behind a message-passing API.
//
// Backpressure is an accepted risk: if the consumer stalls, pending updates
// grow without bound.
type Queue struct {
	mu      sync.Mutex
	pending []Update
	closed  bool
}

// NewQueue returns an empty open queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Push appends an update. Returns false once the queue is closed, which is
// the signal for a worker to exit.
func (q *Queue) Push(u Update) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.pending = append(q.pending, u)
	return true
}

// Drain removes and returns all currently queued updates without waiting.
func (q *Queue) Drain() []Update {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	drained := q.pending
	q.pending = nil
	return drained
}

// Close makes all subsequent Push calls fail. Safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.pending = nil
}
