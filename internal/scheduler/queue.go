// Package scheduler implements the ready queue(s), worker pool, and batch
// generator spec.md §4.4–§4.6 describe.
package scheduler

import (
	"sync"

	"github.com/edu-os-sim/cpusim/internal/process"
)

// Policy selects which ready queue and preemption discipline is active.
type Policy string

const (
	FCFS Policy = "fcfs"
	RR   Policy = "rr"
)

// Queue is the dual-FIFO ready queue spec.md §4.4 specifies: one mutex
// guards both FIFOs and the shutdown flag, one condition variable signals
// state changes, collapsing the original's twin global queues into a
// single engine-scoped value (spec.md §9 Design Notes). This is new code
// — the teacher's Pipeline has no queue concept — but reuses
// jasonKoogler-cpu-sim/internal/simulator's stopChan+WaitGroup shutdown
// idiom, translated here into a cond-variable predicate.
type Queue struct {
	mu       sync.Mutex
	cond     *sync.Cond
	fcfs     []*process.Record
	rr       []*process.Record
	shutdown bool
}

func NewQueue() *Queue {
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Enqueue appends p to the FIFO selected by policy and wakes any worker
// waiting for work.
func (q *Queue) Enqueue(p *process.Record, policy Policy) {
	q.mu.Lock()
	if policy == RR {
		q.rr = append(q.rr, p)
	} else {
		q.fcfs = append(q.fcfs, p)
	}
	q.mu.Unlock()
	q.cond.Broadcast()
}

// WaitAndDequeue blocks until the FIFO for policy is non-empty or the
// queue is shut down. It returns (nil, false) on shutdown, even if work is
// still queued.
func (q *Queue) WaitAndDequeue(policy Policy) (*process.Record, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		if q.shutdown {
			return nil, false
		}

		if policy == RR {
			if len(q.rr) > 0 {
				p := q.rr[0]
				q.rr = q.rr[1:]
				return p, true
			}
		} else if len(q.fcfs) > 0 {
			p := q.fcfs[0]
			q.fcfs = q.fcfs[1:]
			return p, true
		}

		q.cond.Wait()
	}
}

// ShuttingDown reports whether Shutdown has been called, checked by
// workers between instruction steps so shutdown interrupts at the next
// loop boundary (spec.md §4.5's failure semantics).
func (q *Queue) ShuttingDown() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.shutdown
}

// Shutdown signals every worker blocked in WaitAndDequeue to wake up and
// return.
func (q *Queue) Shutdown() {
	q.mu.Lock()
	q.shutdown = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// Len reports the current length of each FIFO, for tests and snapshots.
func (q *Queue) Len() (fcfs, rr int) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.fcfs), len(q.rr)
}
