package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"bilingo/internal/services"
)

const (
	exitFailure     = 1
	exitUsage       = 2
	exitInterrupted = 130
)

func main() {
	cmd := newRootCommand()
	err := cmd.Execute()
	if err != nil && !interrupted(err) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}

// exitCode maps a command error to the process status: 2 for bad input or
// configuration, 130 for an interrupted run, 1 for anything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case interrupted(err):
		return exitInterrupted
	case errors.Is(err, services.ErrInput), errors.Is(err, services.ErrConfiguration):
		return exitUsage
	default:
		return exitFailure
	}
}

func interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, services.ErrCanceled)
}
