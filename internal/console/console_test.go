package console

import (
	"bufio"
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edu-os-sim/cpusim/internal/clock"
	"github.com/edu-os-sim/cpusim/internal/engine"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newTestConsole(t *testing.T, commands string, configPath string) (*Console, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	eng := engine.New(log.New(io.Discard, "", 0), clock.System{})
	t.Cleanup(eng.Shutdown)
	c := New(strings.NewReader(commands), out, log.New(io.Discard, "", 0), eng, configPath)
	return c, out
}

func TestPreInitRejectsCommandsUntilInitialized(t *testing.T) {
	path := writeConfig(t, "num-cpu 1\nscheduler fcfs\nquantum-cycles 1\nbatch-process-freq 1\nmin-ins 1\nmax-ins 1\ndelay-per-exec 0\n")
	c, out := newTestConsole(t, "screen -ls\ninitialize\nexit\n", path)

	c.Run()

	assert.Contains(t, out.String(), "Unknown command.")
	assert.Contains(t, out.String(), "System configuration loaded successfully")
}

func TestInitializeFailsOnBadConfig(t *testing.T) {
	path := writeConfig(t, "num-cpu 1\n")
	c, out := newTestConsole(t, "initialize\nexit\n", path)

	c.Run()

	assert.Contains(t, out.String(), "Failed to load system configuration")
}

func TestScreenCreatesAndRunsProcess(t *testing.T) {
	path := writeConfig(t, "num-cpu 1\nscheduler fcfs\nquantum-cycles 1\nbatch-process-freq 1\nmin-ins 1\nmax-ins 1\ndelay-per-exec 0\n")
	c, out := newTestConsole(t, "initialize\nscreen -s p1\nexit\nexit\n", path)

	c.Run()

	assert.Contains(t, out.String(), "Process: p1")
}

func TestScreenRejectsUnknownProcess(t *testing.T) {
	path := writeConfig(t, "num-cpu 1\nscheduler fcfs\nquantum-cycles 1\nbatch-process-freq 1\nmin-ins 1\nmax-ins 1\ndelay-per-exec 0\n")
	c, out := newTestConsole(t, "initialize\nscreen -r ghost\nexit\n", path)

	c.Run()

	assert.Contains(t, out.String(), "Process ghost not found.")
}

func TestSchedulerStartStopReportsRepeatedCalls(t *testing.T) {
	path := writeConfig(t, "num-cpu 1\nscheduler fcfs\nquantum-cycles 1\nbatch-process-freq 50\nmin-ins 1\nmax-ins 1\ndelay-per-exec 0\n")
	c, out := newTestConsole(t, "initialize\nscheduler-start\nscheduler-start\nscheduler-stop\nscheduler-stop\nexit\n", path)

	c.Run()

	assert.Contains(t, out.String(), "Scheduler is already running!")
	assert.Contains(t, out.String(), "Scheduler is not running.")
}

func TestPrintShorthandReEnqueuesFinishedProcess(t *testing.T) {
	path := writeConfig(t, "num-cpu 1\nscheduler fcfs\nquantum-cycles 1\nbatch-process-freq 1\nmin-ins 1\nmax-ins 1\ndelay-per-exec 0\n")
	out := &bytes.Buffer{}
	eng := engine.New(log.New(io.Discard, "", 0), clock.System{})
	defer eng.Shutdown()
	c := New(strings.NewReader("initialize\n"), out, log.New(io.Discard, "", 0), eng, path)

	require.True(t, c.runPreInit())

	rec, err := eng.Screen("p1")
	require.NoError(t, err)
	require.Eventually(t, rec.IsFinished, time.Second, time.Millisecond)

	c.in = bufio.NewScanner(strings.NewReader("print p1\nexit\n"))
	c.runMain()

	require.Eventually(t, func() bool { return rec.Cursor() >= rec.ProgramLength }, time.Second, time.Millisecond)
}
