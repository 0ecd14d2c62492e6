package scheduler

import (
	"sync/atomic"
	"time"

	"github.com/edu-os-sim/cpusim/internal/clock"
	"github.com/edu-os-sim/cpusim/internal/process"
)

// Worker is one virtual CPU core: a goroutine that consumes from the
// active-policy FIFO and runs processes to completion or quantum
// exhaustion, per spec.md §4.5. Its shape — an id, a mutex-free
// instruction counter, Run() as the goroutine body — is adapted from
// jasonKoogler-cpu-sim/internal/core.Processor's struct layout, with the
// register-file/pipeline machinery replaced by the queue-driven
// scheduling loop spec.md actually calls for.
type Worker struct {
	CoreID       int
	queue        *Queue
	policy       Policy
	quantum      int
	delayPerExec time.Duration
	clk          clock.Clock

	executed int64 // instructions executed by this core, for diagnostics
}

// NewWorker constructs a worker bound to queue under policy. quantum is
// only consulted under RR; delayPerExec is the artificial per-step pause
// spec.md §3 calls delay_per_exec.
func NewWorker(coreID int, queue *Queue, policy Policy, quantum int, delayPerExec time.Duration, clk clock.Clock) *Worker {
	return &Worker{
		CoreID:       coreID,
		queue:        queue,
		policy:       policy,
		quantum:      quantum,
		delayPerExec: delayPerExec,
		clk:          clk,
	}
}

// Run is the worker's goroutine body, spec.md §4.5's loop pseudocode
// translated directly: wait for work or shutdown, run under the active
// discipline, finalize or re-enqueue, repeat.
func (w *Worker) Run() {
	for {
		p, ok := w.queue.WaitAndDequeue(w.policy)
		if !ok {
			return
		}

		p.Assign(w.CoreID)

		switch w.policy {
		case RR:
			w.runQuantum(p)
		default:
			w.runToCompletion(p)
		}
	}
}

func (w *Worker) runToCompletion(p *process.Record) {
	for p.Cursor() < p.ProgramLength && !w.queue.ShuttingDown() {
		w.step(p)
	}
	if p.Cursor() >= p.ProgramLength {
		p.Finish(w.clk.Now())
	}
}

func (w *Worker) runQuantum(p *process.Record) {
	executed := 0
	for p.Cursor() < p.ProgramLength && executed < w.quantum && !w.queue.ShuttingDown() {
		w.step(p)
		executed++
	}

	if p.Cursor() < p.ProgramLength {
		w.queue.Enqueue(p, RR)
		return
	}
	p.Finish(w.clk.Now())
}

func (w *Worker) step(p *process.Record) {
	sleepMs := p.Step(w.CoreID, w.clk)
	atomic.AddInt64(&w.executed, 1)
	if sleepMs > 0 {
		time.Sleep(time.Duration(sleepMs) * time.Millisecond)
	}
	if w.delayPerExec > 0 {
		time.Sleep(w.delayPerExec)
	}
}

// Executed returns the number of instructions this core has run, for
// diagnostics and tests.
func (w *Worker) Executed() int64 {
	return atomic.LoadInt64(&w.executed)
}
