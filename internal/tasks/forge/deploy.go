// Package forge wraps Foundry's forge binary.
package forge

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"

	"github.com/dotandev/tooling/internal/config"
	"github.com/dotandev/tooling/internal/execx"
	"github.com/dotandev/tooling/internal/task"
)

var Deploy = task.Task{
	Meta: task.Meta{
		Name:        "forge:deploy",
		Description: "Run a forge deployment script against the selected network",
		Positionals: "forgeArgs",
		Options: []task.Option{
			{Name: "script", Type: task.String, Required: true, Description: "Script path or contract, e.g. script/Deploy.s.sol"},
			{Name: "broadcast", Type: task.Boolean, Description: "Broadcast the transactions"},
			{Name: "verify", Type: task.Boolean, Description: "Verify deployed contracts"},
			{Name: "sender", Type: task.String, Description: "Address the script runs as"},
			{Name: "dryRun", Type: task.Boolean, Description: "Print the forge command without running it"},
		},
	},
	Run: runDeploy,
}

func runDeploy(ctx context.Context, a *task.Args, env *task.Env) error {
	if env.Network.Kind != config.KindEVM {
		return fmt.Errorf("network %s is not an evm network", env.Network.Name)
	}
	argv := Command(a, env.Network)

	if a.Bool("dryRun") {
		fmt.Fprintln(env.Stdout, execx.Join(argv))
		return nil
	}

	color.New(color.FgGreen).Fprintf(env.Stdout, "▶ %s\n", execx.Join(argv))
	extra := map[string]string{
		"ETH_RPC_URL": env.Network.RPCURL,
	}
	if env.Network.ChainID != 0 {
		extra["CHAIN_ID"] = strconv.FormatUint(env.Network.ChainID, 10)
	}
	_, err := execx.Run(ctx, argv, extra, execx.Options{
		Stdout:     env.Stdout,
		Stderr:     env.Stderr,
		InheritEnv: true,
	})
	return err
}

// Command builds the forge argv for the bound arguments.
func Command(a *task.Args, network config.Network) []string {
	script, _ := a.String("script")
	argv := []string{"forge", "script", script, "--rpc-url", network.RPCURL}
	if network.ChainID != 0 {
		argv = append(argv, "--chain-id", strconv.FormatUint(network.ChainID, 10))
	}
	if sender, ok := a.String("sender"); ok {
		argv = append(argv, "--sender", sender)
	}
	if a.Bool("broadcast") {
		argv = append(argv, "--broadcast")
	}
	if a.Bool("verify") {
		argv = append(argv, "--verify")
	}
	extra := a.Strings("forgeArgs")
	return append(argv, extra...)
}
