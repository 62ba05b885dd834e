// Package main is the entry point for the commitkit CLI.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/relicta-tech/commitkit/internal/cli"
	ckerrors "github.com/relicta-tech/commitkit/internal/errors"
	appversion "github.com/relicta-tech/commitkit/internal/version"
)

// Version information set by ldflags during build.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// shutdownTimeout is the maximum time to wait for graceful shutdown.
const shutdownTimeout = 30 * time.Second

func main() {
	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	cli.SetVersionInfo(appversion.Resolve(version), commit, date)

	code := run(context.Background(), sigChan, cli.ExecuteContext, cli.Cleanup, os.Stderr, os.Exit)
	signal.Stop(sigChan)
	os.Exit(code)
}

// run executes the CLI and returns the process exit code. The first signal
// cancels the context; a second signal or the shutdown timeout calls exit.
func run(ctx context.Context, sigChan <-chan os.Signal, execute func(context.Context) error, cleanup func(), stderr io.Writer, exit func(int)) int {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan struct{})
	var wg sync.WaitGroup
	if sigChan != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			handleSignals(sigChan, done, cancel, stderr, exit)
		}()
	}

	err := execute(ctx)

	// Signal completion and allow cleanup
	close(done)
	wg.Wait()
	cleanup()

	switch {
	case err == nil:
		return 0
	case ctx.Err() != nil || ckerrors.IsKind(err, ckerrors.KindCanceled):
		fmt.Fprintln(stderr, "Operation canceled")
		return ckerrors.ExitCanceled
	default:
		// Print the error since SilenceErrors is enabled in cobra
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ckerrors.ExitCode(err)
	}
}

func handleSignals(sigChan <-chan os.Signal, done <-chan struct{}, cancel context.CancelFunc, stderr io.Writer, exit func(int)) {
	var sig os.Signal
	select {
	case <-done:
		return
	case sig = <-sigChan:
	}

	fmt.Fprintf(stderr, "\nReceived signal %v, initiating graceful shutdown...\n", sig)
	cancel()

	forceExit := func(sig os.Signal) {
		fmt.Fprintf(stderr, "\nReceived second signal %v, forcing exit\n", sig)
		exit(1)
	}

	// A signal that is already queued wins over a fast shutdown.
	select {
	case sig = <-sigChan:
		forceExit(sig)
		return
	default:
	}

	shutdownTimer := time.NewTimer(shutdownTimeout)
	defer shutdownTimer.Stop()

	select {
	case <-done:
	case <-shutdownTimer.C:
		fmt.Fprintf(stderr, "\nShutdown timeout (%v) exceeded, forcing exit\n", shutdownTimeout)
		exit(1)
	case sig = <-sigChan:
		forceExit(sig)
	}
}
