package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/dotandev/tooling/internal/task"
)

var History = task.Task{
	Meta: task.Meta{
		Name:        "core:history",
		Description: "Show recent task runs",
		Options: []task.Option{
			{Name: "limit", Type: task.String, Default: "20", Description: "Number of runs to show"},
			{Name: "task", Type: task.String, Description: "Only show runs of this task"},
		},
	},
	Run: runHistory,
}

func runHistory(ctx context.Context, a *task.Args, env *task.Env) error {
	if env.History == nil {
		return errors.New("run history is disabled")
	}
	limit := 20
	if raw, ok := a.String("limit"); ok {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid limit %q", raw)
		}
		limit = n
	}
	name, _ := a.String("task")

	runs, err := env.History.Recent(ctx, name, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(env.Stdout, "No runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(env.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tTASK\tNETWORK\tSTATUS\tDURATION\tARGS")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format(time.DateTime), r.Task, r.Network, r.Status,
			r.Duration.Round(time.Millisecond), r.Args)
	}
	return w.Flush()
}
