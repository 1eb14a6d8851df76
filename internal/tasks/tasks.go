// Package tasks lists every task the tooling binary ships with.
package tasks

import (
	"github.com/dotandev/tooling/internal/task"
	"github.com/dotandev/tooling/internal/tasks/core"
	"github.com/dotandev/tooling/internal/tasks/forge"
	"github.com/dotandev/tooling/internal/tasks/stellar"
)

// All returns the built-in tasks.
func All() []task.Task {
	return []task.Task{
		core.Networks,
		core.BlockNumbers,
		core.CheckTools,
		core.VersionTask,
		core.History,
		stellar.Tx,
		forge.Deploy,
	}
}
