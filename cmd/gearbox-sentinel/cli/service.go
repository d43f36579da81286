package cli

import (
	"fmt"

	"github.com/publu/gearbox-sentinel/internal/clients/apyclient"
	"github.com/publu/gearbox-sentinel/internal/clients/chainclient"
	"github.com/publu/gearbox-sentinel/internal/clients/llamaclient"
	"github.com/publu/gearbox-sentinel/internal/clients/priceclient"
	"github.com/publu/gearbox-sentinel/internal/config"
	"github.com/publu/gearbox-sentinel/internal/observability/metrics"
	"github.com/publu/gearbox-sentinel/internal/services"
	"github.com/publu/gearbox-sentinel/internal/types"
)

// newService loads config and wires the aggregation engine for one command
// invocation.
func newService() (*services.Service, *config.Config, error) {
	cfg, err := config.New(GetConfigPath())
	if err != nil {
		return nil, nil, fmt.Errorf("error while loading config: %w", err)
	}

	if cfg.Metrics != nil {
		metrics.Init(cfg.Metrics.GetMetricsPort())
	}

	yieldIndex, err := llamaclient.NewClient(&cfg.YieldIndex)
	if err != nil {
		return nil, nil, err
	}
	stateCache, err := apyclient.NewClient(&cfg.StateCache)
	if err != nil {
		return nil, nil, err
	}
	priceFeed := priceclient.NewClient(&cfg.PriceFeed)

	dialChain := func(chain *types.Chain, chainCfg *config.ChainConfig) (chainclient.ChainInterface, error) {
		return chainclient.NewClient(chainCfg)
	}

	registry := config.NewRegistry(cfg)
	service := services.NewService(cfg, registry, yieldIndex, stateCache, priceFeed, dialChain)
	return service, cfg, nil
}
