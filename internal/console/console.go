// Package console implements the interactive REPL spec.md §6 describes:
// a two-phase command loop (pre- and post-initialize) reading lines from
// stdin and dispatching them onto an engine.Engine. Grounded directly on
// original_source/main.cpp's main(): the same banner, the same "initialize"
// gate, the same screen/scheduler-start/scheduler-stop/print/clear/exit
// vocabulary — translated from getline+istringstream into bufio.Scanner
// and strings.Fields, the way jasonKoogler-cpu-sim/cmd/simulator/main.go
// favors a flat, linear main over layered abstractions.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/edu-os-sim/cpusim/internal/config"
	"github.com/edu-os-sim/cpusim/internal/engine"
)

const banner = ` _____  _____   ____  _____  ______  _______     __
/ ____|/ ____| / __ \|  __ \|  ____|/ ____\ \   / /
| |    | (___ | |  | | |__) | |__  | (___  \ \_/ /
| |     \___ \| |  | |  ___/|  __|  \___ \  \   /
| |____ ____) | |__| | |    | |____ ____) |  | |
 \_____|_____/ \____/|_|    |______|_____/   |_|
`

// ansi escape codes for the banner colouring and the "clear" command,
// matching original_source/main.cpp's printHeader/clearScreen.
const (
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiReset  = "\033[0m"
	ansiClear  = "\033[2J\033[1;1H"
)

// Console is the REPL's state: where it reads commands from, where it
// writes output, the engine it drives, and whether "initialize" has
// already succeeded this session.
type Console struct {
	in          *bufio.Scanner
	out         io.Writer
	log         *log.Logger
	eng         *engine.Engine
	configPath  string
	initialized bool
}

// New constructs a console reading commands from in and writing output to
// out, driving eng. configPath is the config file "initialize" loads.
func New(in io.Reader, out io.Writer, logger *log.Logger, eng *engine.Engine, configPath string) *Console {
	return &Console{
		in:         bufio.NewScanner(in),
		out:        out,
		log:        logger,
		eng:        eng,
		configPath: configPath,
	}
}

// Banner prints the startup header, per spec.md §6.
func (c *Console) Banner() {
	fmt.Fprint(c.out, banner)
	fmt.Fprint(c.out, ansiGreen)
	fmt.Fprintln(c.out, "Hello, Welcome to CSOPESY command line!")
	fmt.Fprint(c.out, ansiYellow)
	fmt.Fprintln(c.out, "Type 'exit' to quit, 'clear' to clear the screen")
	fmt.Fprint(c.out, ansiReset)
}

// Clear emits the ANSI clear-screen sequence and reprints the banner.
func (c *Console) Clear() {
	fmt.Fprint(c.out, ansiClear)
	c.Banner()
}

// Run drives the two-phase command loop until "exit" or EOF. Phase one
// accepts only "initialize" and "exit"; phase two, entered once
// initialize succeeds, accepts the full command vocabulary. This mirrors
// original_source/main.cpp's two separate while(true) loops exactly,
// rather than a single loop with an early-command allowlist.
func (c *Console) Run() {
	c.Banner()

	if !c.runPreInit() {
		return
	}

	c.runMain()
}

func (c *Console) runPreInit() bool {
	for c.prompt() {
		line := strings.TrimSpace(c.in.Text())
		switch {
		case line == "initialize":
			if c.initialize() {
				return true
			}
		case line == "exit":
			fmt.Fprintln(c.out, "exit command recognized. Exiting CSOPESY command line.")
			return false
		default:
			fmt.Fprintln(c.out, "Unknown command.")
		}
	}
	return false
}

func (c *Console) runMain() {
	for c.prompt() {
		line := strings.TrimSpace(c.in.Text())
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch {
		case fields[0] == "screen":
			c.handleScreen(fields)
		case line == "scheduler-start":
			c.handleSchedulerStart()
		case line == "scheduler-stop":
			c.handleSchedulerStop()
		case line == "clear":
			c.Clear()
		case line == "exit":
			fmt.Fprintln(c.out, "exit command recognized. Exiting CSOPESY command line.")
			return
		case fields[0] == "print" && len(fields) >= 2:
			c.handlePrint(fields[1])
		case line == "config" || line == "config -dump":
			c.handleConfigDump()
		default:
			fmt.Fprintln(c.out, "Unknown command.")
		}
	}
}

func (c *Console) prompt() bool {
	fmt.Fprint(c.out, "Enter a command: ")
	return c.in.Scan()
}

func (c *Console) initialize() bool {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		fmt.Fprintf(c.out, " Failed to load system configuration: %v\n", err)
		return false
	}

	if err := c.eng.Initialize(cfg); err != nil {
		fmt.Fprintf(c.out, " Failed to initialize engine: %v\n", err)
		return false
	}

	fmt.Fprintln(c.out, "\n System configuration loaded successfully:")
	fmt.Fprintln(c.out, "--------------------------------------------")
	fmt.Fprintf(c.out, "- num-cpu:            %d\n", cfg.NumCPU)
	fmt.Fprintf(c.out, "- scheduler:          %s\n", cfg.Scheduler)
	fmt.Fprintf(c.out, "- quantum-cycles:     %d\n", cfg.QuantumCycles)
	fmt.Fprintf(c.out, "- batch-process-freq: %d\n", cfg.BatchProcessFreq)
	fmt.Fprintf(c.out, "- min-ins:            %d\n", cfg.MinInstructions)
	fmt.Fprintf(c.out, "- max-ins:            %d\n", cfg.MaxInstructions)
	fmt.Fprintf(c.out, "- delay-per-exec:     %d ms\n", cfg.DelayPerExec)
	fmt.Fprintln(c.out, "--------------------------------------------")

	c.initialized = true
	return true
}

func (c *Console) handleScreen(fields []string) {
	if len(fields) < 2 {
		fmt.Fprintln(c.out, "[screen] Invalid usage.")
		return
	}

	switch fields[1] {
	case "-ls":
		c.printSnapshot()
	case "-s":
		if len(fields) < 3 {
			fmt.Fprintln(c.out, "[screen] Invalid usage.")
			return
		}
		rec, err := c.eng.Screen(fields[2])
		if err != nil {
			fmt.Fprintf(c.out, "[screen] %v\n", err)
			return
		}
		c.displayProcess(rec.Name)
		c.Banner()
	case "-r":
		if len(fields) < 3 {
			fmt.Fprintln(c.out, "[screen] Invalid usage.")
			return
		}
		if _, err := c.eng.Get(fields[2]); err != nil {
			fmt.Fprintf(c.out, "Process %s not found.\n", fields[2])
			return
		}
		c.displayProcess(fields[2])
		c.Banner()
	default:
		fmt.Fprintln(c.out, "[screen] Invalid usage.")
	}
}

// displayProcess is the sub-REPL original_source/main.cpp's displayProcess
// implements: a nested loop over the same scanner that prints the named
// process's progress and accepts only "exit"/"clear" until the user backs
// out of it.
func (c *Console) displayProcess(name string) {
	for {
		rec, err := c.eng.Get(name)
		if err != nil {
			fmt.Fprintf(c.out, "Process %s not found.\n", name)
			return
		}
		fmt.Fprintf(c.out, "Process: %s\n", rec.Name)
		fmt.Fprintf(c.out, "Instruction: %d of %d\n", rec.Cursor(), rec.ProgramLength)
		fmt.Fprintf(c.out, "Created: %s\n", rec.CreatedAt)
		fmt.Fprint(c.out, ansiYellow)
		fmt.Fprintln(c.out, "Type 'exit' to quit, 'clear' to clear the screen")
		fmt.Fprint(c.out, ansiReset)

		if !c.prompt() {
			return
		}
		sub := strings.TrimSpace(c.in.Text())
		switch sub {
		case "exit":
			return
		case "clear":
			fmt.Fprint(c.out, ansiClear)
			continue
		default:
			fmt.Fprintln(c.out, "Unknown command inside process view.")
		}
	}
}

func (c *Console) printSnapshot() {
	running, finished, err := c.eng.Snapshot()
	if err != nil {
		fmt.Fprintf(c.out, "%v\n", err)
		return
	}

	fmt.Fprintln(c.out, "-----------------------------")
	fmt.Fprintln(c.out, "Running processes:")
	for _, p := range running {
		fmt.Fprintf(c.out, "%s (%s) Core: %d %d / %d\n", p.Name, p.Timestamp, p.CoreAssigned, p.Cursor, p.ProgramLength)
	}
	fmt.Fprintln(c.out, "\nFinished processes:")
	for _, p := range finished {
		fmt.Fprintf(c.out, "%s (%s) Finished %d / %d\n", p.Name, p.Timestamp, p.ProgramLength, p.ProgramLength)
	}
	fmt.Fprintln(c.out, "-----------------------------")
}

func (c *Console) handleSchedulerStart() {
	if err := c.eng.StartGenerator(); err != nil {
		if errors.Is(err, engine.ErrGeneratorRunning) {
			fmt.Fprintln(c.out, "Scheduler is already running!")
			return
		}
		fmt.Fprintf(c.out, "%v\n", err)
	}
}

func (c *Console) handleSchedulerStop() {
	fmt.Fprintln(c.out, "scheduler-stop command recognized. Doing something.")
	if err := c.eng.StopGenerator(); err != nil {
		if errors.Is(err, engine.ErrGeneratorNotRunning) {
			fmt.Fprintln(c.out, "Scheduler is not running.")
			return
		}
		fmt.Fprintf(c.out, "%v\n", err)
	}
}

func (c *Console) handlePrint(name string) {
	if err := c.eng.Enqueue(name); err != nil {
		fmt.Fprintf(c.out, "Process %s not found.\n", name)
	}
}

func (c *Console) handleConfigDump() {
	cfg := c.eng.Config()
	if cfg == nil {
		fmt.Fprintln(c.out, "Not initialized.")
		return
	}
	out, err := cfg.DumpYAML()
	if err != nil {
		fmt.Fprintf(c.out, "failed to dump config: %v\n", err)
		return
	}
	fmt.Fprint(c.out, out)
}
