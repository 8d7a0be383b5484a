package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// setupSignalHandler returns a channel that is closed when SIGINT or SIGTERM arrives.
// A second signal exits immediately.
func setupSignalHandler() <-chan struct{} {
	shutdown := make(chan struct{})

	sigChan := make(chan os.Signal, 2)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		fmt.Fprintf(os.Stderr, "\nReceived signal: %v, stopping...\n", sig)
		close(shutdown)

		<-sigChan
		os.Exit(130)
	}()

	return shutdown
}
