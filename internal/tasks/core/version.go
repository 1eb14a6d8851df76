package core

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-version"

	"github.com/dotandev/tooling/internal/task"
)

// Version is set at build time with -ldflags.
var Version = "0.1.0-alpha"

var VersionTask = task.Task{
	Meta: task.Meta{
		Name:        "core:version",
		Description: "Print the version number of tooling",
		Options: []task.Option{
			{Name: "satisfies", Type: task.String, Description: "Fail unless the version matches this constraint, e.g. \">= 0.1\""},
		},
	},
	Run: runVersion,
}

func runVersion(_ context.Context, a *task.Args, env *task.Env) error {
	fmt.Fprintf(env.Stdout, "tooling version %s\n", Version)

	constraint, ok := a.String("satisfies")
	if !ok {
		return nil
	}
	v, err := version.NewVersion(Version)
	if err != nil {
		return fmt.Errorf("invalid build version %q: %w", Version, err)
	}
	c, err := version.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid constraint %q: %w", constraint, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("version %s does not satisfy %s", v, c)
	}
	return nil
}
