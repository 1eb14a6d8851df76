package stellar

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dotandev/tooling/internal/config"
	"github.com/dotandev/tooling/internal/rpc"
	"github.com/dotandev/tooling/internal/task"
)

func horizonServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hash := strings.TrimPrefix(r.URL.Path, "/transactions/")
		w.Header().Set("Content-Type", "application/hal+json")
		switch hash {
		case "ok":
			_, _ = w.Write([]byte(`{"hash":"ok","ledger":10,"successful":true,"envelope_xdr":"AAAA","result_meta_xdr":"BBBBBB"}`))
		case "bad":
			_, _ = w.Write([]byte(`{"hash":"bad","ledger":11,"successful":false,"envelope_xdr":"AA","result_meta_xdr":"B"}`))
		default:
			w.Header().Set("Content-Type", "application/problem+json")
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"type":"https://stellar.org/horizon-errors/not_found","title":"Resource Missing","status":404}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, network config.Network, values map[string]task.Value) (string, error) {
	t.Helper()
	color.NoColor = true
	clientOptions = []rpc.ClientOption{rpc.WithRetries(0, time.Millisecond)}
	t.Cleanup(func() { clientOptions = nil })

	a := task.NewArgs(Tx.Meta)
	for k, v := range values {
		require.NoError(t, a.Set(k, v))
	}
	var out bytes.Buffer
	env := &task.Env{Network: network, Config: config.Default(), Stdout: &out, Stderr: &out}
	err := Tx.Run(context.Background(), a, env)
	return out.String(), err
}

func TestTx(t *testing.T) {
	srv := horizonServer(t)
	network := config.Network{Name: "stellar-local", Kind: config.KindStellar, HorizonURL: srv.URL}

	t.Run("Should require a hash", func(t *testing.T) {
		_, err := run(t, network, nil)

		assert.ErrorIs(t, err, ErrHashRequired)
	})

	t.Run("Should refuse evm networks", func(t *testing.T) {
		evm := config.Network{Name: "mainnet", Kind: config.KindEVM, RPCURL: "http://127.0.0.1:1"}

		_, err := run(t, evm, map[string]task.Value{"hashes": task.ListValue([]string{"ok"})})

		assert.ErrorContains(t, err, "not a stellar network")
	})

	t.Run("Should print a successful transaction", func(t *testing.T) {
		out, err := run(t, network, map[string]task.Value{
			"hashes":  task.ListValue([]string{"ok"}),
			"verbose": task.BoolValue(true),
		})

		require.NoError(t, err)
		assert.Contains(t, out, "Transaction ok")
		assert.Contains(t, out, "Succeeded in ledger 10")
		assert.Contains(t, out, "Envelope XDR length: 4 bytes")
		assert.Contains(t, out, "ResultMeta XDR length: 6 bytes")
	})

	t.Run("Should report every hash and fail when any did not succeed", func(t *testing.T) {
		out, err := run(t, network, map[string]task.Value{
			"hashes": task.ListValue([]string{"ok", "bad", "missing"}),
			"json":   task.BoolValue(true),
		})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "2 of 3")
		var report Report
		require.NoError(t, json.Unmarshal([]byte(out), &report))
		assert.Equal(t, "stellar-local", report.Network)
		require.Len(t, report.Transactions, 3)
		assert.Equal(t, StatusSuccess, report.Transactions[0].Status)
		assert.Equal(t, StatusFailed, report.Transactions[1].Status)
		assert.Equal(t, int32(11), report.Transactions[1].Ledger)
		assert.Equal(t, StatusError, report.Transactions[2].Status)
		assert.Equal(t, "missing", report.Transactions[2].Hash)
		assert.NotEmpty(t, report.Transactions[2].Error)
	})
}
