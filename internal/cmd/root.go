package cmd

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dotandev/tooling/internal/config"
	"github.com/dotandev/tooling/internal/dispatch"
	"github.com/dotandev/tooling/internal/history"
	"github.com/dotandev/tooling/internal/logger"
	"github.com/dotandev/tooling/internal/registry"
	"github.com/dotandev/tooling/internal/tasks"
	"github.com/dotandev/tooling/internal/telemetry"
)

// InterruptExitCode is the conventional exit status after SIGINT.
const InterruptExitCode = 130

var rootCmd = &cobra.Command{
	Use:   "tooling <task> [options] [positionals]",
	Short: "tooling runs project tasks against configured networks",
	Long: `tooling runs project tasks against configured EVM and Stellar networks.

Each task declares its own options. Every task also accepts
--network <name> to pick the network it runs against.

Run "tooling help" to list the available tasks.`,
	DisableFlagParsing: true,
	SilenceErrors:      true,
	SilenceUsage:       true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), args, cmd.OutOrStdout(), cmd.ErrOrStderr(), config.NewLoader())
	},
}

// Execute runs the root command with a context cancelled on SIGINT or
// SIGTERM.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

// IsInterrupted reports whether err was caused by a signal.
func IsInterrupted(err error) bool {
	return errors.Is(err, context.Canceled)
}

func run(ctx context.Context, argv []string, stdout, stderr io.Writer, loader *config.Loader) error {
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	if err := logger.Init(logger.Config{Level: cfg.Log.Level, JSON: cfg.Log.JSON, Output: stderr}); err != nil {
		return err
	}

	shutdown, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Logger.Warn("Failed to flush traces", "error", err)
		}
	}()

	opts := []dispatch.Option{
		dispatch.WithOutput(stdout, stderr),
		dispatch.WithTracer(telemetry.Tracer()),
	}
	if cfg.History.Enabled {
		store, err := openHistory(ctx, cfg.History.Path)
		if err != nil {
			logger.Logger.Warn("Run history unavailable", "error", err)
		} else {
			defer store.Close()
			opts = append(opts, dispatch.WithHistory(store))
		}
	}

	reg := registry.MustBuild(tasks.All())
	return dispatch.New(reg, cfg, opts...).Dispatch(ctx, argv)
}

func openHistory(ctx context.Context, path string) (*history.Store, error) {
	if path == "" {
		var err error
		if path, err = history.DefaultPath(); err != nil {
			return nil, err
		}
	}
	return history.Open(ctx, path)
}
