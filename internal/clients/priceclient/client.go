package priceclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/publu/gearbox-sentinel/internal/clients/client"
	"github.com/publu/gearbox-sentinel/internal/config"
	"github.com/publu/gearbox-sentinel/internal/types"
)

const pricesPath = "/prices/current/"

type priceResponse struct {
	Coins map[string]struct {
		Price      float64 `json:"price"`
		Symbol     string  `json:"symbol"`
		Decimals   int     `json:"decimals"`
		Confidence float64 `json:"confidence"`
	} `json:"coins"`
}

type Client struct {
	httpClient *http.Client
	cfg        *config.PriceFeedConfig
}

func NewClient(cfg *config.PriceFeedConfig) *Client {
	return &Client{
		httpClient: &http.Client{},
		cfg:        cfg,
	}
}

func (c *Client) GetBaseURL() string {
	return strings.TrimRight(c.cfg.BaseURL, "/")
}

func (c *Client) GetDefaultRequestTimeout() time.Duration {
	return c.cfg.Timeout
}

func (c *Client) GetHttpClient() *http.Client {
	return c.httpClient
}

// GetPrice resolves the current USD unit price for one token on one chain.
// A feed that answers but has no entry for the token yields
// types.ErrPriceUnavailable, same as an unreachable feed: the caller cannot
// tell them apart and must not treat either as a zero price.
func (c *Client) GetPrice(ctx context.Context, chainID string, token common.Address) (decimal.Decimal, error) {
	key := fmt.Sprintf("%s:%s", strings.ToLower(chainID), strings.ToLower(token.Hex()))

	callForPrice := func() (decimal.Decimal, error) {
		type empty struct{}
		opts := &client.HttpClientOptions{
			Path:         pricesPath + key,
			TemplatePath: pricesPath,
		}
		resp, err := client.SendRequest[empty, priceResponse](ctx, c, http.MethodGet, opts, nil)
		if err != nil {
			return decimal.Zero, err
		}
		coin, ok := resp.Coins[key]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: no feed entry for %s", types.ErrPriceUnavailable, key)
		}
		return decimal.NewFromFloat(coin.Price), nil
	}

	price, err := retry.DoWithData(callForPrice,
		retry.Context(ctx),
		retry.Attempts(c.cfg.MaxRetryTimes),
		retry.Delay(c.cfg.RetryInterval),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			// A missing feed entry will not appear on retry.
			return !errors.Is(err, types.ErrPriceUnavailable)
		}),
	)
	if err != nil {
		if errors.Is(err, types.ErrPriceUnavailable) {
			return decimal.Zero, err
		}
		return decimal.Zero, fmt.Errorf("%w: %s: %v", types.ErrPriceUnavailable, key, err)
	}
	return price, nil
}
