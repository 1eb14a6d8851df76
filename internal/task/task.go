// Package task defines the contract between the dispatcher and the task
// modules it runs: task metadata, option declarations, the typed argument
// bag and the environment a task executes in.
package task

import (
	"context"
	"io"

	"github.com/dotandev/tooling/internal/config"
	"github.com/dotandev/tooling/internal/history"
)

// OptionType is the value type of a declared option.
type OptionType string

const (
	String  OptionType = "string"
	Boolean OptionType = "boolean"
)

// Option declares a single command-line option of a task.
type Option struct {
	// Name is the key the value is bound under, usually camelCase.
	// The flag users type is its kebab-cased form.
	Name        string
	Type        OptionType
	Required    bool
	Default     string // command-line form; empty means no default
	Description string
}

// Meta describes a task. Name is namespaced as "prefix:name".
type Meta struct {
	Name        string
	Description string
	// Positionals, when set, is the key leftover positional arguments are
	// bound under.
	Positionals string
	Options     []Option
}

// Env is the environment a task runs in. The selected network is passed
// explicitly rather than held as process-wide state.
type Env struct {
	Network config.Network
	Config  *config.Config
	History *history.Store
	Stdout  io.Writer
	Stderr  io.Writer
}

// Func is a task entry point.
type Func func(ctx context.Context, args *Args, env *Env) error

// Task couples metadata with its entry point.
type Task struct {
	Meta Meta
	Run  Func
}
