package core

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/dotandev/tooling/internal/config"
	"github.com/dotandev/tooling/internal/rpc"
	"github.com/dotandev/tooling/internal/task"
)

var BlockNumbers = task.Task{
	Meta: task.Meta{
		Name:        "core:blocknumbers",
		Description: "Print the latest block number or ledger sequence",
		Options: []task.Option{
			{Name: "all", Type: task.Boolean, Description: "Query every configured network"},
		},
	},
	Run: runBlockNumbers,
}

// clientOptions is overridden in tests.
var clientOptions []rpc.ClientOption

func runBlockNumbers(ctx context.Context, a *task.Args, env *task.Env) error {
	networks := []config.Network{env.Network}
	if a.Bool("all") {
		networks = networks[:0]
		for _, name := range env.Config.NetworkNames() {
			n, _ := env.Config.NetworkByName(name)
			networks = append(networks, n)
		}
	}

	failed := 0
	for _, n := range networks {
		height, err := latestBlock(ctx, n)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			failed++
			color.New(color.FgRed).Fprintf(env.Stderr, "%s: %v\n", n.Name, err)
			continue
		}
		fmt.Fprintf(env.Stdout, "%s: %d\n", n.Name, height)
	}
	if failed > 0 {
		return fmt.Errorf("failed to query %d of %d networks", failed, len(networks))
	}
	return nil
}

func latestBlock(ctx context.Context, n config.Network) (uint64, error) {
	client, err := rpc.NewClient(n, clientOptions...)
	if err != nil {
		return 0, err
	}
	return client.LatestBlock(ctx)
}
