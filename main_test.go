package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dotandev/tooling/internal/cmd"
	"github.com/dotandev/tooling/internal/dispatch"
	"github.com/dotandev/tooling/internal/execx"
)

func TestRun(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   int
		stderr string
	}{
		{name: "Should exit 0 on success"},
		{name: "Should exit 1 on task errors", err: errors.New("boom"), code: 1, stderr: "Error: boom\n"},
		{name: "Should stay quiet on usage errors", err: &dispatch.UsageError{Err: errors.New("bad flag")}, code: 1},
		{name: "Should exit 130 when interrupted", err: fmt.Errorf("forge: %w", context.Canceled), code: cmd.InterruptExitCode, stderr: "Interrupted. Shutting down...\n"},
		{name: "Should pass through subprocess exit codes", err: &execx.ExitError{Command: "forge", Code: 7}, code: 7, stderr: "Error: forge exited with code 7\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer

			code := run(func() error { return tt.err }, &stderr)

			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.stderr, stderr.String())
		})
	}
}
