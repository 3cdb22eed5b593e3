package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"livetiming/cmd"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\ninterrupt received, shutting down...")
		cancel()
	}()

	os.Exit(cmd.Execute(ctx, version))
}
