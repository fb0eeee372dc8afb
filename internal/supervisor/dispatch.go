package supervisor

import (
	"context"
	"sync"
)

// Dispatcher schedules fn on the interactive goroutine. It must not run fn
// before returning, and calls from one goroutine must run in the order they
// were scheduled.
type Dispatcher func(fn func())

// Queue is a Dispatcher for headless runs. Scheduled functions run in FIFO
// order on the goroutine that calls Run or Drain.
type Queue struct {
	mu      sync.Mutex
	pending []func()
	notify  chan struct{}
}

// NewQueue creates an empty queue
func NewQueue() *Queue {
	return &Queue{notify: make(chan struct{}, 1)}
}

// Do schedules fn. It never blocks.
func (q *Queue) Do(fn func()) {
	q.mu.Lock()
	q.pending = append(q.pending, fn)
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// Drain runs everything scheduled so far and returns the number of functions run
func (q *Queue) Drain() int {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, fn := range batch {
		fn()
	}
	return len(batch)
}

// Run executes scheduled functions until ctx is done
func (q *Queue) Run(ctx context.Context) {
	for {
		q.Drain()
		select {
		case <-ctx.Done():
			return
		case <-q.notify:
		}
	}
}
