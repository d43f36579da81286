package services

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/publu/gearbox-sentinel/internal/observability/metrics"
)

type priceKey struct {
	chain string
	token common.Address
}

func (k priceKey) String() string {
	return k.chain + ":" + strings.ToLower(k.token.Hex())
}

// Price resolves the current USD unit price of a token on a chain. Each
// distinct (chain, token) pair hits the price feed once per Service
// lifetime; the outcome, failure included, is memoized and concurrent
// lookups for an in-flight key share the first caller's fetch.
func (s *Service) Price(ctx context.Context, chainID string, token common.Address) (decimal.Decimal, error) {
	key := priceKey{chain: strings.ToLower(chainID), token: token}

	s.priceMu.Lock()
	if entry, ok := s.priceCache[key]; ok {
		s.priceMu.Unlock()
		metrics.RecordPriceCacheHit()
		return entry.price, entry.err
	}
	s.priceMu.Unlock()

	v, err, _ := s.priceFlight.Do(key.String(), func() (interface{}, error) {
		price, err := s.priceFeed.GetPrice(ctx, key.chain, key.token)

		s.priceMu.Lock()
		s.priceCache[key] = priceEntry{price: price, err: err}
		s.priceMu.Unlock()

		return price, err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return v.(decimal.Decimal), nil
}
