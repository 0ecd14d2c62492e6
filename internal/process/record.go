// Package process implements the process record and process table spec.md
// §3 and §4.3 describe: identity, program, execution cursor, and the
// keyed registry that owns process records for the engine's lifetime.
package process

import (
	"fmt"
	"sync"

	"github.com/edu-os-sim/cpusim/internal/clock"
	"github.com/edu-os-sim/cpusim/internal/instruction"
)

// Unassigned is the sentinel core id a process carries before it is ever
// scheduled, matching original_source/main.cpp's coreAssigned = -1.
const Unassigned = -1

// Record is one process: its identity, its compiled program, its
// execution cursor, and everything the worker that owns it at any given
// moment mutates. All mutable fields are guarded by mu, matching the
// mutex-guarded-copy-out idiom jasonKoogler-cpu-sim/internal/pipeline's
// Pipeline.GetStages uses — the invariant len(Log) == Cursor must never
// be observed broken by a concurrent reader, which a field-by-field
// atomic scheme cannot guarantee as easily as one lock can.
type Record struct {
	ID            int64
	Name          string
	ProgramLength int
	CreatedAt     string
	Program       []instruction.Instruction // immutable after creation

	mu           sync.RWMutex
	cursor       int
	coreAssigned int
	isFinished   bool
	finishedAt   string
	memory       instruction.Memory
	log          []string
}

func newRecord(id int64, name string, program []instruction.Instruction, createdAt string) *Record {
	return &Record{
		ID:            id,
		Name:          name,
		ProgramLength: len(program),
		CreatedAt:     createdAt,
		Program:       program,
		coreAssigned:  Unassigned,
		memory:        instruction.Memory{},
		log:           make([]string, 0, len(program)),
	}
}

// Cursor returns the number of instructions already executed.
func (r *Record) Cursor() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cursor
}

// CoreAssigned returns the last core that ran this process, or
// Unassigned if it was never scheduled.
func (r *Record) CoreAssigned() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.coreAssigned
}

// IsFinished reports whether the process has completed its program.
func (r *Record) IsFinished() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isFinished
}

// FinishedAt returns the completion timestamp, or "" if still running.
func (r *Record) FinishedAt() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.finishedAt
}

// Log returns a copy of the executed-instruction log lines.
func (r *Record) Log() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.log))
	copy(out, r.log)
	return out
}

// Memory returns a copy of the process's variable store, for inspection.
func (r *Record) Memory() instruction.Memory {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(instruction.Memory, len(r.memory))
	for k, v := range r.memory {
		out[k] = v
	}
	return out
}

// Assign records the core a worker picked this process up on. Called
// once per dequeue, per spec.md §4.5.
func (r *Record) Assign(coreID int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coreAssigned = coreID
}

// Step executes the instruction at the current cursor: it mutates
// memory, appends one log line, and advances the cursor by exactly one,
// per spec.md §4.2. It returns the number of milliseconds the caller
// should sleep afterward (Sleep instructions only); the actual sleep
// happens outside the lock so readers aren't blocked for its duration.
func (r *Record) Step(coreID int, clk clock.Clock) (sleepMs int) {
	r.mu.Lock()
	cursor := r.cursor
	ins := r.Program[cursor]
	summary, ms := instruction.Apply(r.memory, ins, cursor)
	line := fmt.Sprintf("(%s) Core: %d \"%s\"", clk.Now(), coreID, summary)
	r.log = append(r.log, line)
	r.cursor++
	r.mu.Unlock()
	return ms
}

// Finish marks the process complete. Idempotent: finishedAt is stamped
// exactly once, per spec.md §3's invariant.
func (r *Record) Finish(at string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.isFinished {
		return
	}
	r.isFinished = true
	r.finishedAt = at
}
