package process

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/edu-os-sim/cpusim/internal/clock"
	"github.com/edu-os-sim/cpusim/internal/instruction"
)

// ErrAlreadyExists is returned by Create when name is already registered,
// spec.md §4.3's CommandError.
var ErrAlreadyExists = errors.New("process already exists")

// ErrNotFound is returned by Get when no process is registered under
// name, spec.md §4.3's CommandError.
var ErrNotFound = errors.New("process not found")

// Summary is the read-only view of a process spec.md §4.3's Snapshot
// returns: (name, timestamp, core_assigned, cursor, program_length).
type Summary struct {
	Name          string
	Timestamp     string // created_at for running, finished_at for finished
	CoreAssigned  int
	Cursor        int
	ProgramLength int
}

// Table is the keyed registry of process records. It owns every Record
// for the engine's lifetime (spec.md §3's ownership rule); queues and
// workers only ever hold non-owning references obtained through it.
//
// Creation is fully serialized under mu (one mutex covers both the map
// mutation and the shared *rand.Rand, which is not safe for concurrent
// use by itself) so Create/Get can never observe a half-inserted record,
// per spec.md §5.
type Table struct {
	mu      sync.RWMutex
	byName  map[string]*Record
	order   []*Record
	nextID  int64
	minIns  int
	maxIns  int
	rng     *rand.Rand
	clk     clock.Clock
}

// NewTable constructs an empty table whose Create draws program lengths
// uniformly from [minIns, maxIns], seeded for reproducibility.
func NewTable(minIns, maxIns int, seed int64, clk clock.Clock) *Table {
	return &Table{
		byName: make(map[string]*Record),
		minIns: minIns,
		maxIns: maxIns,
		rng:    rand.New(rand.NewSource(seed)),
		clk:    clk,
	}
}

// Create allocates a new process record under name, drawing its program
// length from the configured range and generating its instruction stream
// eagerly (spec.md §4.1 permits either; this implementation generates at
// creation, matching original_source/main.cpp's cpuBurstGenerator call
// inside createProcess). Returns ErrAlreadyExists if name is taken.
func (t *Table) Create(name string) (*Record, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.byName[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	}

	length := t.minIns
	if t.maxIns > t.minIns {
		length = t.minIns + t.rng.Intn(t.maxIns-t.minIns+1)
	}
	program := instruction.GenerateProgram(length, t.rng)

	t.nextID++
	rec := newRecord(t.nextID, name, program, t.clk.Now())

	t.byName[name] = rec
	t.order = append(t.order, rec)

	return rec, nil
}

// Get returns the record registered under name, or ErrNotFound.
func (t *Table) Get(name string) (*Record, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rec, ok := t.byName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return rec, nil
}

// Snapshot returns the running (assigned, not finished) and finished
// process summaries, each ordered by creation id, per spec.md §4.3.
func (t *Table) Snapshot() (running, finished []Summary) {
	t.mu.RLock()
	records := make([]*Record, len(t.order))
	copy(records, t.order)
	t.mu.RUnlock()

	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })

	for _, rec := range records {
		cursor := rec.Cursor()
		core := rec.CoreAssigned()
		if rec.IsFinished() {
			finished = append(finished, Summary{
				Name:          rec.Name,
				Timestamp:     rec.FinishedAt(),
				CoreAssigned:  core,
				Cursor:        cursor,
				ProgramLength: rec.ProgramLength,
			})
		} else if core != Unassigned {
			running = append(running, Summary{
				Name:          rec.Name,
				Timestamp:     rec.CreatedAt,
				CoreAssigned:  core,
				Cursor:        cursor,
				ProgramLength: rec.ProgramLength,
			})
		}
	}

	return running, finished
}

// Len returns the number of registered processes, mostly useful in tests.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byName)
}
