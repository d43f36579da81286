package apyclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"

	"github.com/publu/gearbox-sentinel/internal/clients/client"
	"github.com/publu/gearbox-sentinel/internal/config"
)

// Snapshot is the protocol state-cache document: per-chain pool state keyed
// by numeric chain id, refreshed from live contract state.
type Snapshot struct {
	Chains map[string]ChainState `json:"chains"`
}

type ChainState struct {
	Pools PoolList `json:"pools"`
}

type PoolList struct {
	Data []PoolState `json:"data"`
}

type PoolState struct {
	Pool    string  `json:"pool"`
	Rewards Rewards `json:"rewards"`
}

type Rewards struct {
	Points      []PointsProgram   `json:"points"`
	ExternalAPY []ExternalProgram `json:"externalAPY"`
	ExtraAPY    []ExtraAPYProgram `json:"extraAPY"`
}

type PointsProgram struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Amount   string `json:"amount"`
	Duration string `json:"duration"`
}

type ExternalProgram struct {
	Name  string  `json:"name"`
	Value float64 `json:"value"`
}

type ExtraAPYProgram struct {
	APY               float64 `json:"apy"`
	RewardTokenSymbol string  `json:"rewardTokenSymbol"`
}

// HasPrograms reports whether the pool carries any active incentive.
func (p *PoolState) HasPrograms() bool {
	r := p.Rewards
	return len(r.Points) > 0 || len(r.ExternalAPY) > 0 || len(r.ExtraAPY) > 0
}

type Client struct {
	httpClient *http.Client
	cfg        *config.StateCacheConfig
	baseURL    string
	path       string
}

func NewClient(cfg *config.StateCacheConfig) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("malformed state cache url %q: %w", cfg.URL, err)
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

// GetSnapshot fetches the latest state-cache snapshot.
func (c *Client) GetSnapshot(ctx context.Context) (*Snapshot, error) {
	callForSnapshot := func() (*Snapshot, error) {
		type empty struct{}
		opts := &client.HttpClientOptions{
			Path:         c.path,
			TemplatePath: c.path,
		}
		return client.SendRequest[empty, Snapshot](ctx, c, http.MethodGet, opts, nil)
	}

	snapshot, err := retry.DoWithData(callForSnapshot,
		retry.Context(ctx),
		retry.Attempts(c.cfg.MaxRetryTimes),
		retry.Delay(c.cfg.RetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch state cache snapshot: %w", err)
	}
	return snapshot, nil
}
