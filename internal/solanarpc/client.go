package solanarpc

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// ErrNullResult is returned when the node answers null where a value is required.
var ErrNullResult = errors.New("rpc returned null result")

type Config struct {
	Endpoint   string        `envconfig:"RPC_ENDPOINT"`
	Timeout    time.Duration `envconfig:"RPC_TIMEOUT,default=10s"`
	RateLimit  float64       `envconfig:"RPC_RATE_LIMIT,default=20"`
	RateBurst  int           `envconfig:"RPC_RATE_BURST,default=10"`
	Commitment string        `envconfig:"RPC_COMMITMENT,default=finalized"`
}

// Client wraps the solana rpc client. Calls are throttled by a local limiter,
// bounded by timeout and never retried.
type Client struct {
	rpc        *rpc.Client
	commitment rpc.CommitmentType
	timeout    time.Duration
	limiter    *rate.Limiter
}

func NewClient(cfg Config) (*Client, error) {
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rpc endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("rpc endpoint %q must be http or https", cfg.Endpoint)
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}
	if cfg.RateBurst < 1 {
		cfg.RateBurst = 1
	}
	return &Client{
		rpc:        rpc.New(cfg.Endpoint),
		commitment: rpc.CommitmentType(cfg.Commitment),
		timeout:    cfg.Timeout,
		limiter:    rate.NewLimiter(limit, cfg.RateBurst),
	}, nil
}

func (c *Client) commitmentParams() []any {
	if c.commitment == "" {
		return nil
	}
	return []any{rpc.M{"commitment": c.commitment}}
}

// do runs one rpc call under the limiter and the call timeout.
func (c *Client) do(ctx context.Context, method string, call func(ctx context.Context) error) error {
	err := c.limiter.Wait(ctx)
	if err != nil {
		return fmt.Errorf("failed to wait for rpc rate limiter: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	start := time.Now()
	err = call(ctx)
	log.Debug().Msgf("rpc %s done in %d ms", method, time.Since(start).Milliseconds())
	if err != nil {
		return fmt.Errorf("failed to call %s: %w", method, err)
	}
	return nil
}
