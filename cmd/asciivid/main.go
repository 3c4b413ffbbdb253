package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"asciivid/internal/services"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCommand().ExecuteContext(ctx)
	if err == nil {
		return
	}
	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "Error:", services.UserMessage(err))
	}
	stop()
	os.Exit(exitCode(err))
}

// exitCode returns 2 for problems the user can fix by changing arguments or
// configuration, 130 for interrupts and 1 otherwise.
func exitCode(err error) int {
	switch services.Kind(err) {
	case "validation", "configuration":
		return 2
	}
	if errors.Is(err, context.Canceled) {
		return 130
	}
	return 1
}
