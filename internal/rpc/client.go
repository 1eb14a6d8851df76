package rpc

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/rpc/v2/json2"
	"github.com/sethvargo/go-retry"
	"github.com/stellar/go/clients/horizonclient"

	"github.com/dotandev/tooling/internal/config"
	"github.com/dotandev/tooling/internal/logger"
)

// ErrUnsupported is returned when an operation does not apply to the
// network's kind.
var ErrUnsupported = errors.New("operation not supported for network kind")

// Client handles interactions with a configured network
type Client struct {
	network config.Network
	http    *http.Client

	retries uint64
	backoff time.Duration
}

// ClientOption is a functional option for configuring the Client.
type ClientOption func(*Client)

// WithHTTPClient sets the HTTP client used for every request.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.http = hc
	}
}

// WithRetries sets how many times a failed request is retried and the base
// of the exponential backoff between attempts.
func WithRetries(retries uint64, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.retries = retries
		c.backoff = backoff
	}
}

// NewClient creates a new RPC client for the specified network
func NewClient(network config.Network, opts ...ClientOption) (*Client, error) {
	c := &Client{
		network: network,
		http:    &http.Client{Timeout: 30 * time.Second},
		retries: 3,
		backoff: 250 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}

	switch network.Kind {
	case config.KindStellar:
		if network.HorizonURL == "" {
			return nil, fmt.Errorf("network %s has no horizon_url", network.Name)
		}
	case config.KindEVM:
		if network.RPCURL == "" {
			return nil, fmt.Errorf("network %s has no rpc_url", network.Name)
		}
	default:
		return nil, fmt.Errorf("unsupported network kind: %q", network.Kind)
	}
	return c, nil
}

// Network returns the network the client talks to.
func (c *Client) Network() config.Network {
	return c.network
}

// LatestBlock returns the latest block number (EVM) or ledger sequence (Stellar).
func (c *Client) LatestBlock(ctx context.Context) (uint64, error) {
	var height uint64
	err := c.withRetry(ctx, func(ctx context.Context) error {
		switch c.network.Kind {
		case config.KindStellar:
			root, err := c.horizon(ctx).Root()
			if err != nil {
				return retry.RetryableError(fmt.Errorf("failed to fetch horizon root: %w", err))
			}
			height = uint64(root.HorizonSequence)
			return nil
		default:
			var hex string
			if err := c.call(ctx, "eth_blockNumber", []any{}, &hex); err != nil {
				return err
			}
			n, err := strconv.ParseUint(strings.TrimPrefix(hex, "0x"), 16, 64)
			if err != nil {
				return fmt.Errorf("invalid block number %q: %w", hex, err)
			}
			height = n
			return nil
		}
	})
	return height, err
}

// Transaction is the subset of a Stellar transaction tasks report on.
type Transaction struct {
	Hash          string
	Ledger        int32
	Successful    bool
	EnvelopeXdr   string
	ResultMetaXdr string
}

// GetTransaction fetches the transaction details and returns envelope and result meta XDR
func (c *Client) GetTransaction(ctx context.Context, hash string) (*Transaction, error) {
	if c.network.Kind != config.KindStellar {
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, c.network.Kind)
	}
	var tx Transaction
	err := c.withRetry(ctx, func(ctx context.Context) error {
		detail, err := c.horizon(ctx).TransactionDetail(hash)
		if err != nil {
			var herr *horizonclient.Error
			if errors.As(err, &herr) && herr.Response != nil && herr.Response.StatusCode < 500 {
				return fmt.Errorf("failed to fetch transaction: %w", err)
			}
			return retry.RetryableError(fmt.Errorf("failed to fetch transaction: %w", err))
		}
		tx = Transaction{
			Hash:          detail.Hash,
			Ledger:        detail.Ledger,
			Successful:    detail.Successful,
			EnvelopeXdr:   detail.EnvelopeXdr,
			ResultMetaXdr: detail.ResultMetaXdr,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// call performs a JSON-RPC 2.0 request against the EVM endpoint.
func (c *Client) call(ctx context.Context, method string, params any, reply any) error {
	body, err := json2.EncodeClientRequest(method, params)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", method, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.network.RPCURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", method, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return retry.RetryableError(fmt.Errorf("%s request failed: %w", method, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return retry.RetryableError(fmt.Errorf("%s: unexpected status %s", method, resp.Status))
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%s: unexpected status %s", method, resp.Status)
	}
	if err := json2.DecodeClientResponse(resp.Body, reply); err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}
	return nil
}

func (c *Client) withRetry(ctx context.Context, fn retry.RetryFunc) error {
	attempt := 0
	b := retry.WithMaxRetries(c.retries, retry.NewExponential(c.backoff))
	return retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		err := fn(ctx)
		if err != nil && attempt <= int(c.retries) {
			logger.Logger.Debug("Request failed", "network", c.network.Name, "attempt", attempt, "error", err)
		}
		return err
	})
}

// horizon returns a Horizon client whose requests are bound to ctx.
func (c *Client) horizon(ctx context.Context) *horizonclient.Client {
	return &horizonclient.Client{
		HorizonURL: c.network.HorizonURL,
		HTTP:       horizonHTTP{ctx: ctx, client: c.http},
	}
}

// horizonHTTP replaces the request context horizonclient sets with the
// caller's. The HTTP client timeout still applies.
type horizonHTTP struct {
	ctx    context.Context
	client *http.Client
}

func (h horizonHTTP) Do(req *http.Request) (*http.Response, error) {
	return h.client.Do(req.WithContext(h.ctx))
}

func (h horizonHTTP) Get(u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(h.ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return h.client.Do(req)
}

func (h horizonHTTP) PostForm(u string, data url.Values) (*http.Response, error) {
	req, err := http.NewRequestWithContext(h.ctx, http.MethodPost, u, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.client.Do(req)
}
