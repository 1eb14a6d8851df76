// Package args turns a raw argument vector into the typed argument bag a
// task receives: option keys are normalized to flag names, the vector is
// parsed strictly, and the result is validated against the task's
// declarations.
package args

import (
	"github.com/iancoleman/strcase"

	"github.com/dotandev/tooling/internal/task"
)

// FlagName returns the command-line flag for an option key ("chainId" -> "chain-id").
func FlagName(key string) string {
	return strcase.ToKebab(key)
}

// Normalize returns a copy of opts with every Name replaced by its flag name.
func Normalize(opts []task.Option) []task.Option {
	out := make([]task.Option, len(opts))
	for i, opt := range opts {
		opt.Name = FlagName(opt.Name)
		out[i] = opt
	}
	return out
}
