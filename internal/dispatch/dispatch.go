// Package dispatch runs a single task chosen from the command line. All
// validation (task name, flags, network, required options) happens before the
// task is invoked; the task's own error is returned unchanged.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/dotandev/tooling/internal/args"
	"github.com/dotandev/tooling/internal/config"
	"github.com/dotandev/tooling/internal/history"
	"github.com/dotandev/tooling/internal/logger"
	"github.com/dotandev/tooling/internal/network"
	"github.com/dotandev/tooling/internal/registry"
	"github.com/dotandev/tooling/internal/task"
	"github.com/dotandev/tooling/internal/telemetry"
)

// HelpCommand prints the task listing.
const HelpCommand = "help"

// UsageError is a failure detected before a task runs. Its message has
// already been written to stderr by the dispatcher.
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }

func (e *UsageError) Unwrap() error { return e.Err }

// IsUsageError reports whether err stems from invalid usage.
func IsUsageError(err error) bool {
	var ue *UsageError
	return errors.As(err, &ue)
}

// Dispatcher resolves and runs tasks.
type Dispatcher struct {
	registry *registry.Registry
	resolver *network.Resolver
	cfg      *config.Config
	history  *history.Store
	tracer   trace.Tracer
	stdout   io.Writer
	stderr   io.Writer
	now      func() time.Time
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithOutput redirects the dispatcher's and the tasks' output.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(d *Dispatcher) {
		d.stdout = stdout
		d.stderr = stderr
	}
}

// WithHistory records every run in store.
func WithHistory(store *history.Store) Option {
	return func(d *Dispatcher) {
		d.history = store
	}
}

// WithTracer replaces the global tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(d *Dispatcher) {
		d.tracer = tracer
	}
}

// New creates a Dispatcher over reg using the networks in cfg.
func New(reg *registry.Registry, cfg *config.Config, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		registry: reg,
		resolver: network.NewResolver(cfg),
		cfg:      cfg,
		tracer:   telemetry.Tracer(),
		stdout:   os.Stdout,
		stderr:   os.Stderr,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch runs the task named by argv[0] with the remaining arguments.
func (d *Dispatcher) Dispatch(ctx context.Context, argv []string) error {
	if len(argv) == 0 || isHelp(argv[0]) {
		d.PrintHelp()
		return nil
	}

	name, rest := argv[0], argv[1:]
	entry, ok := d.registry.Lookup(name)
	if !ok {
		fmt.Fprintf(d.stderr, "Task %s not found\n", name)
		d.PrintHelp()
		return &UsageError{Err: fmt.Errorf("%w: %s", registry.ErrUnknownTask, name)}
	}

	parsed, err := args.Parse(rest, args.Normalize(entry.Meta.Options))
	if err != nil {
		return d.usage(err)
	}

	var requested string
	if v, ok := parsed.Lookup(args.NetworkFlag); ok {
		requested = v.Str()
	}
	net, err := d.resolver.Resolve(requested)
	if err != nil {
		return d.usage(err)
	}

	bag, err := args.Bind(entry.Meta, parsed)
	if err != nil {
		return d.usage(err)
	}

	color.New(color.FgCyan).Fprintf(d.stdout, "Running task %s using network %s...\n", name, net.Name)
	return d.run(ctx, entry, bag, net, rest)
}

// PrintHelp writes usage and the grouped task listing to stdout.
func (d *Dispatcher) PrintHelp() {
	RenderHelp(d.stdout, d.registry, d.cfg.DefaultNetwork)
}

func (d *Dispatcher) run(ctx context.Context, entry registry.Entry, bag *task.Args, net config.Network, rawArgs []string) error {
	ctx, span := d.tracer.Start(ctx, "task.run", trace.WithAttributes(
		attribute.String("task.name", entry.Meta.Name),
		attribute.String("network.name", net.Name),
		attribute.String("network.kind", net.Kind),
	))
	defer span.End()

	env := &task.Env{
		Network: net,
		Config:  d.cfg,
		History: d.history,
		Stdout:  d.stdout,
		Stderr:  d.stderr,
	}

	start := d.now()
	err := entry.Run(ctx, bag, env)
	elapsed := d.now().Sub(start)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logger.Logger.Debug("Task failed", "task", entry.CuratedName, "network", net.Name, "error", err)
	} else {
		span.SetStatus(codes.Ok, "")
		logger.Logger.Debug("Task finished", "task", entry.CuratedName, "network", net.Name, "duration", elapsed)
	}

	d.record(ctx, entry, net, rawArgs, start, elapsed, err)
	return err
}

func (d *Dispatcher) record(ctx context.Context, entry registry.Entry, net config.Network, rawArgs []string, start time.Time, elapsed time.Duration, runErr error) {
	if d.history == nil {
		return
	}
	run := history.Run{
		Task:      entry.CuratedName,
		Network:   net.Name,
		Args:      strings.Join(rawArgs, " "),
		StartedAt: start,
		Duration:  elapsed,
		Status:    history.StatusSucceeded,
	}
	if runErr != nil {
		run.Status = history.StatusFailed
		run.Error = runErr.Error()
	}
	// a cancelled run is still recorded
	if _, err := d.history.Record(context.WithoutCancel(ctx), run); err != nil {
		logger.Logger.Warn("Failed to record run", "task", entry.CuratedName, "error", err)
	}
}

func (d *Dispatcher) usage(err error) error {
	fmt.Fprintln(d.stderr, err)
	return &UsageError{Err: err}
}

func isHelp(arg string) bool {
	return arg == HelpCommand || arg == "-h" || arg == "--help"
}
