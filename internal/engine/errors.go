package engine

import "errors"

// Sentinel errors covering spec.md §7's LifecycleError taxonomy. Checked
// with errors.Is, the way ja7ad-consumption/cmd/consumption/main.go
// checks proc.ErrAllExited.
var (
	ErrNotInitialized      = errors.New("engine: not initialized")
	ErrGeneratorRunning    = errors.New("engine: batch generator already running")
	ErrGeneratorNotRunning = errors.New("engine: batch generator is not running")
)
