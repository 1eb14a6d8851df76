// Copyright 2025 Erst Users
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dotandev/tooling/internal/cmd"
	"github.com/dotandev/tooling/internal/dispatch"
	"github.com/dotandev/tooling/internal/execx"
)

func main() {
	os.Exit(run(cmd.Execute, os.Stderr))
}

func run(execute func() error, stderr io.Writer) int {
	err := execute()
	if err == nil {
		return 0
	}
	if cmd.IsInterrupted(err) {
		fmt.Fprintln(stderr, "Interrupted. Shutting down...")
		return cmd.InterruptExitCode
	}
	// already printed by the dispatcher
	if dispatch.IsUsageError(err) {
		return 1
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	var ee *execx.ExitError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return 1
}
