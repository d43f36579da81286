package services

import (
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/publu/gearbox-sentinel/internal/clients/apyclient"
	"github.com/publu/gearbox-sentinel/internal/clients/chainclient"
	"github.com/publu/gearbox-sentinel/internal/clients/llamaclient"
	"github.com/publu/gearbox-sentinel/internal/clients/priceclient"
	"github.com/publu/gearbox-sentinel/internal/config"
	"github.com/publu/gearbox-sentinel/internal/types"
)

// ChainDialer opens a chain client for one configured chain. Injected so
// tests can substitute fakes without a live endpoint.
type ChainDialer func(chain *types.Chain, cfg *config.ChainConfig) (chainclient.ChainInterface, error)

// Service is the aggregation engine behind every command. It is built fresh
// per invocation; the price cache it carries lives and dies with it.
type Service struct {
	cfg        *config.Config
	registry   *config.Registry
	yieldIndex llamaclient.YieldIndexInterface
	stateCache apyclient.StateCacheInterface
	priceFeed  priceclient.PriceFeedInterface
	dialChain  ChainDialer

	priceMu     sync.Mutex
	priceCache  map[priceKey]priceEntry
	priceFlight singleflight.Group
}

type priceEntry struct {
	price decimal.Decimal
	err   error
}

func NewService(
	cfg *config.Config,
	registry *config.Registry,
	yieldIndex llamaclient.YieldIndexInterface,
	stateCache apyclient.StateCacheInterface,
	priceFeed priceclient.PriceFeedInterface,
	dialChain ChainDialer,
) *Service {
	return &Service{
		cfg:        cfg,
		registry:   registry,
		yieldIndex: yieldIndex,
		stateCache: stateCache,
		priceFeed:  priceFeed,
		dialChain:  dialChain,
		priceCache: make(map[priceKey]priceEntry),
	}
}

// Registry exposes the chain table to the rendering layer.
func (s *Service) Registry() *config.Registry {
	return s.registry
}
