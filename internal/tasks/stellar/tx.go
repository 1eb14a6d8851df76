// Package stellar holds tasks that talk to Horizon.
package stellar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"

	"github.com/dotandev/tooling/internal/config"
	"github.com/dotandev/tooling/internal/rpc"
	"github.com/dotandev/tooling/internal/task"
)

var ErrHashRequired = errors.New("transaction hash is required")

var Tx = task.Task{
	Meta: task.Meta{
		Name:        "stellar:tx",
		Description: "Fetch Stellar transactions by hash",
		Positionals: "hashes",
		Options: []task.Option{
			{Name: "verbose", Type: task.Boolean, Description: "Print envelope and result meta sizes"},
			{Name: "json", Type: task.Boolean, Description: "Print a JSON report instead of text"},
		},
	},
	Run: runTx,
}

// clientOptions is overridden in tests.
var clientOptions []rpc.ClientOption

func runTx(ctx context.Context, a *task.Args, env *task.Env) error {
	hashes := a.Strings("hashes")
	if len(hashes) == 0 {
		return ErrHashRequired
	}
	if env.Network.Kind != config.KindStellar {
		return fmt.Errorf("network %s is not a stellar network", env.Network.Name)
	}

	client, err := rpc.NewClient(env.Network, clientOptions...)
	if err != nil {
		return fmt.Errorf("failed to initialize RPC client: %w", err)
	}

	report := Report{Network: env.Network.Name}
	failed := 0
	for _, hash := range hashes {
		r := fetch(ctx, client, hash)
		if r.Status != StatusSuccess {
			failed++
		}
		report.Transactions = append(report.Transactions, r)
	}

	if a.Bool("json") {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(env, report, a.Bool("verbose"))
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d transactions failed or could not be fetched", failed, len(hashes))
	}
	return nil
}

func fetch(ctx context.Context, client *rpc.Client, hash string) TxReport {
	tx, err := client.GetTransaction(ctx, hash)
	if err != nil {
		return TxReport{Hash: hash, Status: StatusError, Error: err.Error()}
	}
	r := TxReport{
		Hash:            tx.Hash,
		Ledger:          tx.Ledger,
		Status:          StatusSuccess,
		EnvelopeXdr:     tx.EnvelopeXdr,
		ResultMetaXdr:   tx.ResultMetaXdr,
		EnvelopeBytes:   len(tx.EnvelopeXdr),
		ResultMetaBytes: len(tx.ResultMetaXdr),
	}
	if !tx.Successful {
		r.Status = StatusFailed
	}
	return r
}

func printReport(env *task.Env, report Report, verbose bool) {
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)
	red := color.New(color.FgRed)

	for _, r := range report.Transactions {
		cyan.Fprintf(env.Stdout, "Transaction %s\n", r.Hash)
		switch r.Status {
		case StatusError:
			red.Fprintf(env.Stdout, "✗ Failed to fetch transaction: %s\n", r.Error)
		case StatusFailed:
			red.Fprintf(env.Stdout, "✗ Failed in ledger %d\n", r.Ledger)
		default:
			green.Fprintf(env.Stdout, "✓ Succeeded in ledger %d\n", r.Ledger)
		}
		if verbose && r.Status != StatusError {
			fmt.Fprintf(env.Stdout, "Envelope XDR length: %d bytes\n", r.EnvelopeBytes)
			fmt.Fprintf(env.Stdout, "ResultMeta XDR length: %d bytes\n", r.ResultMetaBytes)
		}
		fmt.Fprintln(env.Stdout)
	}
}
