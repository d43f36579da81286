package llamaclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/publu/gearbox-sentinel/internal/clients/client"
	"github.com/publu/gearbox-sentinel/internal/config"
)

// PoolRecord is one pool row as the yield index returns it. Numeric APY
// fields are pointers because the index serves null for pools it has no
// figure for; a nil value is distinct from a genuine zero.
type PoolRecord struct {
	Project    string   `json:"project"`
	Chain      string   `json:"chain"`
	Symbol     string   `json:"symbol"`
	TVLUSD     float64  `json:"tvlUsd"`
	APY        *float64 `json:"apy"`
	APYBase    *float64 `json:"apyBase"`
	APYReward  *float64 `json:"apyReward"`
	Pool       string   `json:"pool"`
	Stablecoin bool     `json:"stablecoin"`
}

type poolsResponse struct {
	Status string       `json:"status"`
	Data   []PoolRecord `json:"data"`
}

type Client struct {
	httpClient *http.Client
	cfg        *config.YieldIndexConfig
	baseURL    string
	path       string
}

func NewClient(cfg *config.YieldIndexConfig) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("malformed yield index url %q: %w", cfg.URL, err)
	}
	return &Client{
		httpClient: &http.Client{},
		cfg:        cfg,
		baseURL:    u.Scheme + "://" + u.Host,
		path:       u.Path,
	}, nil
}

func (c *Client) GetBaseURL() string {
	return c.baseURL
}

func (c *Client) GetDefaultRequestTimeout() time.Duration {
	return c.cfg.Timeout
}

func (c *Client) GetHttpClient() *http.Client {
	return c.httpClient
}

// GetPools fetches the full yield index dataset. It is the caller's job to
// filter down to the protocol's records.
func (c *Client) GetPools(ctx context.Context) ([]PoolRecord, error) {
	callForPools := func() ([]PoolRecord, error) {
		type empty struct{}
		opts := &client.HttpClientOptions{
			Path:         c.path,
			TemplatePath: c.path,
		}
		resp, err := client.SendRequest[empty, poolsResponse](ctx, c, http.MethodGet, opts, nil)
		if err != nil {
			return nil, err
		}
		if !strings.EqualFold(resp.Status, "success") {
			return nil, fmt.Errorf("yield index returned status %q", resp.Status)
		}
		return resp.Data, nil
	}

	pools, err := clientCallWithRetry(ctx, callForPools, c.cfg.MaxRetryTimes, c.cfg.RetryInterval)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch yield index pools: %w", err)
	}
	return pools, nil
}

func clientCallWithRetry[T any](
	ctx context.Context,
	call retry.RetryableFuncWithData[T],
	attempts uint,
	delay time.Duration,
) (T, error) {
	result, err := retry.DoWithData(call,
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
