package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"reelsmith/internal/services"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd := newRootCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		cancel()
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, formatError(err))
		}
		os.Exit(exitCode(err))
	}
}

func formatError(err error) string {
	if kind := services.Kind(err); kind != "internal" {
		return fmt.Sprintf("%s: %v", kind, err)
	}
	return fmt.Sprintf("error: %v", err)
}

// exitCode separates bad requests (2) from runtime failures (1).
func exitCode(err error) int {
	switch {
	case errors.Is(err, services.ErrInput), errors.Is(err, services.ErrEmptyScript), errors.Is(err, services.ErrConfiguration):
		return 2
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}
