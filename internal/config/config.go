package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Chains       []ChainConfig   `mapstructure:"chains"`
	DefaultChain string          `mapstructure:"default-chain"`
	YieldIndex   YieldIndexConfig `mapstructure:"yield-index"`
	StateCache   StateCacheConfig `mapstructure:"state-cache"`
	PriceFeed    PriceFeedConfig  `mapstructure:"price-feed"`
	Scan         ScanConfig       `mapstructure:"scan"`
	Metrics      *MetricsConfig   `mapstructure:"metrics"`
	Server       *ServerConfig    `mapstructure:"server"`
}

func (cfg *Config) Validate() error {
	if len(cfg.Chains) == 0 {
		return fmt.Errorf("at least one chain must be configured")
	}
	seen := make(map[string]bool, len(cfg.Chains))
	for i := range cfg.Chains {
		if err := cfg.Chains[i].Validate(); err != nil {
			return err
		}
		id := strings.ToLower(cfg.Chains[i].ID)
		if seen[id] {
			return fmt.Errorf("duplicate chain id %q", id)
		}
		seen[id] = true
	}
	if cfg.DefaultChain == "" {
		return fmt.Errorf("default-chain is required")
	}
	if !seen[strings.ToLower(cfg.DefaultChain)] {
		return fmt.Errorf("default-chain %q is not among configured chains", cfg.DefaultChain)
	}
	if err := cfg.YieldIndex.Validate(); err != nil {
		return err
	}
	if err := cfg.StateCache.Validate(); err != nil {
		return err
	}
	if err := cfg.PriceFeed.Validate(); err != nil {
		return err
	}
	if err := cfg.Scan.Validate(); err != nil {
		return err
	}
	if cfg.Metrics != nil {
		if err := cfg.Metrics.Validate(); err != nil {
			return err
		}
	}
	if cfg.Server != nil {
		if err := cfg.Server.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ChainConfig returns the config entry for a chain id, nil when absent.
func (cfg *Config) ChainConfig(chainID string) *ChainConfig {
	for i := range cfg.Chains {
		if strings.EqualFold(cfg.Chains[i].ID, chainID) {
			return &cfg.Chains[i]
		}
	}
	return nil
}

// New loads the config file at the given path. An empty path falls back to
// the built-in defaults so the binary works out of the box against the
// public endpoints.
func New(cfgPath string) (*Config, error) {
	if cfgPath == "" {
		cfg := DefaultConfig()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(cfgPath)
	v.SetEnvPrefix("sentinel")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", cfgPath, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config file %s: %w", cfgPath, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
