package scheduler

import (
	"fmt"
	"time"

	"github.com/edu-os-sim/cpusim/internal/process"
)

const generatorTick = 100 * time.Millisecond

// Generator is the single background thread that periodically
// synthesises new processes and enqueues them, per spec.md §4.6.
// Grounded directly on original_source/main.cpp's scheduler_start: a
// 100ms-granular cancellable sleep loop, a monotonically advancing
// counter that is never reset, and a zero-padded "processNN" naming
// scheme below 10.
type Generator struct {
	table     *process.Table
	queue     *Queue
	policy    Policy
	freqTicks int
	counter   int64
}

// NewGenerator constructs a generator that spawns one process every
// freqTicks*100ms, on the FIFO selected by policy.
func NewGenerator(table *process.Table, queue *Queue, policy Policy, freqTicks int) *Generator {
	return &Generator{
		table:     table,
		queue:     queue,
		policy:    policy,
		freqTicks: freqTicks,
	}
}

// Run sleeps, spawns, and repeats until stopCh is closed. Exactly one
// process is created per batch period (spec.md §4.6); the sleep is
// cancellable at 100ms granularity so scheduler-stop returns promptly.
func (g *Generator) Run(stopCh <-chan struct{}) {
	for {
		if !g.sleepTicks(stopCh) {
			return
		}
		g.spawnOne()
	}
}

func (g *Generator) sleepTicks(stopCh <-chan struct{}) bool {
	ticks := g.freqTicks
	if ticks <= 0 {
		ticks = 1
	}
	for i := 0; i < ticks; i++ {
		select {
		case <-stopCh:
			return false
		case <-time.After(generatorTick):
		}
	}
	return true
}

func (g *Generator) spawnOne() {
	for {
		g.counter++
		name := processName(g.counter)

		rec, err := g.table.Create(name)
		if err != nil {
			// Name taken: advance the counter and retry without spawning,
			// per spec.md §4.6.
			continue
		}

		g.queue.Enqueue(rec, g.policy)
		return
	}
}

// processName renders the generator's monotonic counter into the
// "processNN" / "processNNN" naming scheme spec.md §4.6 specifies:
// two-digit zero-padded below 10, plain decimal from 10 on.
func processName(k int64) string {
	if k < 10 {
		return fmt.Sprintf("process0%d", k)
	}
	return fmt.Sprintf("process%d", k)
}
