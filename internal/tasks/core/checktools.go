package core

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	"github.com/fatih/color"
	"github.com/hashicorp/go-version"

	"github.com/dotandev/tooling/internal/execx"
	"github.com/dotandev/tooling/internal/task"
)

var CheckTools = task.Task{
	Meta: task.Meta{
		Name:        "core:check-tools",
		Description: "Check installed external tools against the configured version constraints",
		Options: []task.Option{
			{Name: "tool", Type: task.String, Description: "Only check this tool"},
			{Name: "strict", Type: task.Boolean, Description: "Fail when a tool is missing or out of range"},
		},
	},
	Run: runCheckTools,
}

var versionPattern = regexp.MustCompile(`v?\d+\.\d+(\.\d+)?([-+][0-9A-Za-z.-]+)?`)

// ToolStatus is the outcome of checking one tool.
type ToolStatus struct {
	Tool       string
	Constraint string
	Version    string
	OK         bool
	Err        error
}

func runCheckTools(ctx context.Context, a *task.Args, env *task.Env) error {
	tools := env.Config.Tools
	if only, ok := a.String("tool"); ok {
		constraint, known := tools[only]
		if !known {
			return fmt.Errorf("tool %s has no configured constraint", only)
		}
		tools = map[string]string{only: constraint}
	}

	names := make([]string, 0, len(tools))
	for name := range tools {
		names = append(names, name)
	}
	sort.Strings(names)

	bad := 0
	for _, name := range names {
		st := CheckTool(ctx, name, tools[name])
		switch {
		case st.Err != nil:
			bad++
			color.New(color.FgRed).Fprintf(env.Stdout, "✗ %s: %v\n", name, st.Err)
		case !st.OK:
			bad++
			color.New(color.FgYellow).Fprintf(env.Stdout, "✗ %s %s does not satisfy %s\n", name, st.Version, st.Constraint)
		default:
			color.New(color.FgGreen).Fprintf(env.Stdout, "✓ %s %s (%s)\n", name, st.Version, st.Constraint)
		}
	}
	if bad > 0 && a.Bool("strict") {
		return fmt.Errorf("%d tool(s) failed the check", bad)
	}
	return nil
}

// CheckTool runs "<tool> --version" and tests the reported version against
// constraint.
func CheckTool(ctx context.Context, tool, constraint string) ToolStatus {
	st := ToolStatus{Tool: tool, Constraint: constraint}

	c, err := version.NewConstraint(constraint)
	if err != nil {
		st.Err = fmt.Errorf("invalid constraint %q: %w", constraint, err)
		return st
	}
	out, err := execx.Capture(ctx, tool, "--version")
	if err != nil {
		st.Err = fmt.Errorf("not runnable: %w", err)
		return st
	}
	raw := versionPattern.FindString(out)
	if raw == "" {
		st.Err = errors.New("no version in output")
		return st
	}
	v, err := version.NewVersion(raw)
	if err != nil {
		st.Err = fmt.Errorf("unparseable version %q: %w", raw, err)
		return st
	}
	st.Version = v.String()
	st.OK = c.Check(v)
	return st
}
