package priceclient

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/publu/gearbox-sentinel/internal/config"
	"github.com/publu/gearbox-sentinel/internal/types"
)

var wethAddr = common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2")

func feedConfig(baseURL string) *config.PriceFeedConfig {
	return &config.PriceFeedConfig{
		BaseURL:       baseURL,
		Timeout:       time.Second,
		MaxRetryTimes: 2,
		RetryInterval: time.Millisecond,
	}
}

func TestGetPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/prices/current/ethereum:0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"coins":{"%s":{"price":1919.1875833,"symbol":"WETH","decimals":18,"confidence":0.99}}}`,
			"ethereum:0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2")
	}))
	defer srv.Close()

	c := NewClient(feedConfig(srv.URL))
	price, err := c.GetPrice(t.Context(), "ethereum", wethAddr)
	require.NoError(t, err)
	assert.Equal(t, "1919.1875833", price.String())
}

func TestGetPriceMissingEntry(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"coins":{}}`)
	}))
	defer srv.Close()

	c := NewClient(feedConfig(srv.URL))
	_, err := c.GetPrice(t.Context(), "ethereum", wethAddr)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrPriceUnavailable)

	// A missing entry is final; the feed is not hammered with retries.
	assert.Equal(t, 1, hits)
}

func TestGetPriceUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(feedConfig(srv.URL))
	_, err := c.GetPrice(t.Context(), "ethereum", wethAddr)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrPriceUnavailable)
}
