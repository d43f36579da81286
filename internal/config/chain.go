package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type TokenConfig struct {
	Address  string `mapstructure:"address"`
	Symbol   string `mapstructure:"symbol"`
	Decimals uint8  `mapstructure:"decimals"`
}

func (cfg *TokenConfig) Validate() error {
	if !common.IsHexAddress(cfg.Address) {
		return fmt.Errorf("token %q has malformed address %q", cfg.Symbol, cfg.Address)
	}
	if cfg.Symbol == "" {
		return fmt.Errorf("token %s has no symbol", cfg.Address)
	}
	return nil
}

type ChainConfig struct {
	ID          string `mapstructure:"id"`
	DisplayName string `mapstructure:"display-name"`
	// RPCEndpoint is the full JSON-RPC URL of a node for this chain.
	RPCEndpoint string `mapstructure:"rpc-endpoint"`
	// CreditManagers is the ordered list of credit manager contract
	// addresses; the order determines scan order.
	CreditManagers []string      `mapstructure:"credit-managers"`
	Tokens         []TokenConfig `mapstructure:"tokens"`

	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
}

func (cfg *ChainConfig) Validate() error {
	if cfg.ID == "" {
		return fmt.Errorf("chain id is required")
	}
	if cfg.DisplayName == "" {
		return fmt.Errorf("chain %q display-name is required", cfg.ID)
	}
	if cfg.RPCEndpoint == "" {
		return fmt.Errorf("chain %q rpc-endpoint is required", cfg.ID)
	}
	for _, cm := range cfg.CreditManagers {
		if !common.IsHexAddress(cm) {
			return fmt.Errorf("chain %q has malformed credit manager address %q", cfg.ID, cm)
		}
	}
	for i := range cfg.Tokens {
		if err := cfg.Tokens[i].Validate(); err != nil {
			return fmt.Errorf("chain %q: %w", cfg.ID, err)
		}
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("chain %q timeout must be positive", cfg.ID)
	}
	if cfg.MaxRetryTimes == 0 {
		return fmt.Errorf("chain %q max-retry-times must be positive", cfg.ID)
	}
	if cfg.RetryInterval <= 0 {
		return fmt.Errorf("chain %q retry-interval must be positive", cfg.ID)
	}
	return nil
}
