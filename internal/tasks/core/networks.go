// Package core holds the general-purpose tasks.
package core

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/dotandev/tooling/internal/config"
	"github.com/dotandev/tooling/internal/task"
)

var Networks = task.Task{
	Meta: task.Meta{
		Name:        "core:networks",
		Description: "List configured networks",
	},
	Run: runNetworks,
}

func runNetworks(_ context.Context, _ *task.Args, env *task.Env) error {
	w := tabwriter.NewWriter(env.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "\tNAME\tKIND\tCHAIN\tENDPOINT")
	for _, name := range env.Config.NetworkNames() {
		n, _ := env.Config.NetworkByName(name)
		marker := ""
		if name == env.Network.Name {
			marker = "*"
		}
		chain := "-"
		if n.ChainID != 0 {
			chain = fmt.Sprint(n.ChainID)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", marker, name, n.Kind, chain, endpoint(n))
	}
	return w.Flush()
}

func endpoint(n config.Network) string {
	if n.Kind == config.KindStellar {
		return n.HorizonURL
	}
	return n.RPCURL
}
