// Command cpusim is the CSOPESY-style scheduler simulator's entry point:
// it wires together the configuration loader, the engine, and the
// interactive console, then runs the REPL until the user types "exit" or
// sends SIGINT/SIGTERM. Structurally a direct descendant of
// jasonKoogler-cpu-sim/cmd/simulator/main.go — logger construction,
// signal handling, and the flat, linear main body all carry over — but
// fronted by github.com/spf13/cobra instead of the flag package, since
// ja7ad-consumption/cmd/consumption uses cobra for the same kind of
// single-command CLI.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/edu-os-sim/cpusim/internal/clock"
	"github.com/edu-os-sim/cpusim/internal/console"
	"github.com/edu-os-sim/cpusim/internal/engine"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var verbose bool

	cmd := &cobra.Command{
		Use:   "cpusim",
		Short: "CSOPESY-style multi-core process scheduler simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath, verbose)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.txt", "path to the configuration file")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose (microsecond, source-line) logging")

	return cmd
}

func run(configPath string, verbose bool) error {
	logger := log.New(os.Stdout, "", log.LstdFlags)
	if verbose {
		logger.SetFlags(log.LstdFlags | log.Lmicroseconds | log.Lshortfile)
	}

	eng := engine.New(logger, clock.System{})
	repl := console.New(os.Stdin, os.Stdout, logger, eng, configPath)

	done := make(chan struct{})
	go func() {
		defer close(done)
		repl.Run()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-done:
	case <-sigCh:
		logger.Println("Received termination signal. Shutting down...")
	}

	eng.Shutdown()
	logger.Println("Simulation terminated successfully")
	return nil
}
