package llamaclient

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/publu/gearbox-sentinel/internal/config"
	"github.com/publu/gearbox-sentinel/testutil"
)

func yieldConfig(url string) *config.YieldIndexConfig {
	return &config.YieldIndexConfig{
		URL:           url,
		Project:       "gearbox",
		Timeout:       time.Second,
		MaxRetryTimes: 2,
		RetryInterval: time.Millisecond,
	}
}

func TestGetPools(t *testing.T) {
	pool := strings.ToLower(testutil.RandomAddress().Hex())
	symbol := strings.ToUpper(testutil.RandomSymbol())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/pools", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		// One full record and one with the index's null APY fields.
		fmt.Fprintf(w, `{"status":"success","data":[
			{"project":"gearbox","chain":"Ethereum","symbol":"%s","tvlUsd":5500054,
			 "apy":0.41,"apyBase":0.41,"apyReward":null,"pool":"%s","stablecoin":false},
			{"project":"gearbox","chain":"Monad","symbol":"WMON","tvlUsd":900000,
			 "apy":null,"apyBase":null,"apyReward":null,"pool":"pool-2","stablecoin":false}
		]}`, symbol, pool)
	}))
	defer srv.Close()

	c, err := NewClient(yieldConfig(srv.URL + "/pools"))
	require.NoError(t, err)

	records, err := c.GetPools(t.Context())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, symbol, records[0].Symbol)
	assert.Equal(t, pool, records[0].Pool)
	require.NotNil(t, records[0].APY)
	assert.Equal(t, 0.41, *records[0].APY)
	assert.Nil(t, records[0].APYReward)

	// Null APY stays nil, never becomes a phantom zero.
	assert.Nil(t, records[1].APY)
	assert.Nil(t, records[1].APYBase)
}

func TestGetPoolsBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"error","data":[]}`)
	}))
	defer srv.Close()

	c, err := NewClient(yieldConfig(srv.URL + "/pools"))
	require.NoError(t, err)

	_, err = c.GetPools(t.Context())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `status "error"`)
}

func TestGetPoolsRetriesUpstreamFailure(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			http.Error(w, "bad gateway", http.StatusBadGateway)
			return
		}
		fmt.Fprint(w, `{"status":"success","data":[]}`)
	}))
	defer srv.Close()

	c, err := NewClient(yieldConfig(srv.URL + "/pools"))
	require.NoError(t, err)

	records, err := c.GetPools(t.Context())
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 2, hits)
}

func TestNewClientMalformedURL(t *testing.T) {
	_, err := NewClient(yieldConfig("://not-a-url"))
	assert.Error(t, err)
}
