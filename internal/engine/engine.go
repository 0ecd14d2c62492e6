// Package engine composes the process table, ready queue, worker pool and
// batch generator into the five-state lifecycle spec.md §4.7 describes:
// Uninitialised, Initialised, Running, Stopping, back to Initialised.
// Grounded on jasonKoogler-cpu-sim/internal/simulator's New/Run/Shutdown/
// Reset state machine — the running flag (here a mutex-guarded bool), the stopChan+
// WaitGroup join on shutdown, the re-init-by-rebuilding-fields shape — all
// carry over, generalized from a fixed-cycle batch run to a long-lived,
// restartable scheduling session.
package engine

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/edu-os-sim/cpusim/internal/clock"
	"github.com/edu-os-sim/cpusim/internal/config"
	"github.com/edu-os-sim/cpusim/internal/process"
	"github.com/edu-os-sim/cpusim/internal/scheduler"
)

// Engine owns the live process table, ready queue and worker pool for one
// configuration. A single Engine value is reused across re-initializations;
// Initialize tears down and rebuilds the scheduling state underneath it.
type Engine struct {
	log *log.Logger
	clk clock.Clock

	mu          sync.Mutex
	cfg         *config.System
	initialized bool
	sessionID   string

	table   *process.Table
	queue   *scheduler.Queue
	policy  scheduler.Policy
	workers []*scheduler.Worker
	workerWG sync.WaitGroup

	generator  *scheduler.Generator
	genStopCh  chan struct{}
	genWG      sync.WaitGroup
	genRunning bool
}

// New constructs an uninitialized engine. logger receives every lifecycle
// transition, matching the *log.Logger cmd/simulator/main.go builds with
// log.New(os.Stdout, "", log.LstdFlags).
func New(logger *log.Logger, clk clock.Clock) *Engine {
	return &Engine{log: logger, clk: clk}
}

// Initialize adopts cfg as the active configuration, per spec.md §4.7. If
// the engine was already initialized it first drains the previous session
// (stops the generator if running, shuts down the queue, joins every
// worker) before rebuilding — so re-running "initialize" with a new
// config.txt is always safe, matching spec.md §8's idempotence property.
// The process table is kept across re-initialization unless the
// instruction-length range changed; the queue, generator and workers are
// always rebuilt.
func (e *Engine) Initialize(cfg *config.System) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		e.drainLocked()
	}

	if e.table == nil || e.cfg == nil ||
		e.cfg.MinInstructions != cfg.MinInstructions || e.cfg.MaxInstructions != cfg.MaxInstructions {
		e.table = process.NewTable(int(cfg.MinInstructions), int(cfg.MaxInstructions), time.Now().UnixNano(), e.clk)
	}
	e.cfg = cfg
	e.policy = scheduler.Policy(cfg.Scheduler)
	e.queue = scheduler.NewQueue()
	e.generator = scheduler.NewGenerator(e.table, e.queue, e.policy, int(cfg.BatchProcessFreq))
	e.sessionID = uuid.NewString()

	e.workers = make([]*scheduler.Worker, cfg.NumCPU)
	for i := 0; i < cfg.NumCPU; i++ {
		w := scheduler.NewWorker(i+1, e.queue, e.policy, int(cfg.QuantumCycles), time.Duration(cfg.DelayPerExec)*time.Millisecond, e.clk)
		e.workers[i] = w
		e.workerWG.Add(1)
		go func() {
			defer e.workerWG.Done()
			w.Run()
		}()
	}

	e.initialized = true
	e.log.Printf("engine initialized: session=%s cores=%d scheduler=%s", e.sessionID, cfg.NumCPU, cfg.Scheduler)
	return nil
}

// drainLocked stops the generator (if running) and the worker pool for the
// current session. Callers must hold e.mu.
func (e *Engine) drainLocked() {
	if e.genRunning {
		close(e.genStopCh)
		e.genWG.Wait()
		e.genRunning = false
	}
	if e.queue != nil {
		e.queue.Shutdown()
		e.workerWG.Wait()
	}
}

// StartGenerator begins the background batch-process thread, per spec.md
// §4.6. Returns ErrGeneratorRunning if one is already active — starting the
// generator is not idempotent, matching original_source/main.cpp rejecting
// a second "scheduler-start" while one is in flight.
func (e *Engine) StartGenerator() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return ErrNotInitialized
	}
	if e.genRunning {
		return ErrGeneratorRunning
	}

	e.genStopCh = make(chan struct{})
	e.genRunning = true
	e.genWG.Add(1)
	gen := e.generator
	stopCh := e.genStopCh
	go func() {
		defer e.genWG.Done()
		gen.Run(stopCh)
	}()

	e.log.Printf("batch generator started")
	return nil
}

// StopGenerator halts the background batch-process thread and waits for it
// to exit. Returns ErrGeneratorNotRunning if none is active.
func (e *Engine) StopGenerator() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return ErrNotInitialized
	}
	if !e.genRunning {
		return ErrGeneratorNotRunning
	}

	close(e.genStopCh)
	e.genWG.Wait()
	e.genRunning = false

	e.log.Printf("batch generator stopped")
	return nil
}

// Shutdown drains the current session, if any, and marks the engine
// uninitialized. Safe to call on an already-uninitialized engine.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.initialized {
		return
	}
	e.drainLocked()
	e.initialized = false
	e.log.Printf("engine shut down")
}

// Screen creates a new process under name and enqueues it on the active
// policy's FIFO, the behaviour behind the console's "screen -s" command.
func (e *Engine) Screen(name string) (*process.Record, error) {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return nil, ErrNotInitialized
	}
	tbl, queue, policy := e.table, e.queue, e.policy
	e.mu.Unlock()

	rec, err := tbl.Create(name)
	if err != nil {
		return nil, fmt.Errorf("screen: %w", err)
	}
	queue.Enqueue(rec, policy)
	return rec, nil
}

// Get returns the record registered under name, the lookup behind
// "screen -r" and the process detail view.
func (e *Engine) Get(name string) (*process.Record, error) {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return nil, ErrNotInitialized
	}
	tbl := e.table
	e.mu.Unlock()

	rec, err := tbl.Get(name)
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	return rec, nil
}

// Snapshot returns the running and finished process summaries behind
// "screen -ls".
func (e *Engine) Snapshot() (running, finished []process.Summary, err error) {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return nil, nil, ErrNotInitialized
	}
	tbl := e.table
	e.mu.Unlock()

	running, finished = tbl.Snapshot()
	return running, finished, nil
}

// Enqueue force-enqueues an already-registered process back onto the FCFS
// FIFO regardless of the active scheduling policy, the shorthand
// SPEC_FULL.md §11 supplements as "print <name>", mirroring
// original_source/main.cpp's direct print command. An FCFS worker that
// picks it up runs it from its current cursor to the end of its program;
// a process that has already finished executes no further instructions.
// Under RR no worker reads the FCFS FIFO, so the process is not picked up.
func (e *Engine) Enqueue(name string) error {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return ErrNotInitialized
	}
	tbl, queue := e.table, e.queue
	e.mu.Unlock()

	rec, err := tbl.Get(name)
	if err != nil {
		return fmt.Errorf("enqueue: %w", err)
	}
	queue.Enqueue(rec, scheduler.FCFS)
	return nil
}

// Config returns the active configuration, or nil if uninitialized.
func (e *Engine) Config() *config.System {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// Initialized reports whether Initialize has succeeded and Shutdown has
// not since been called.
func (e *Engine) Initialized() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.initialized
}

// GeneratorRunning reports whether the batch generator is currently active.
func (e *Engine) GeneratorRunning() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.genRunning
}

// SessionID returns the uuid minted by the most recent Initialize call,
// for diagnostic logging only — it never influences scheduling decisions.
func (e *Engine) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID
}
