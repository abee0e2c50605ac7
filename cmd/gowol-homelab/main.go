// Package main is the entry point for gowol-homelab.
package main

import (
	"errors"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps a command error to the documented exit codes: 2 when some
// targets failed while others succeeded, 1 for everything fatal.
func exitCode(err error) int {
	if errors.Is(err, errTargetsFailed) {
		return 2
	}
	return 1
}
