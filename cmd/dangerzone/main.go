package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Root context that cancels on shutdown
	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(rootCtx); err != nil {
		stop()
		os.Exit(1)
	}
}
