package config

import (
	"fmt"
	"time"
)

// YieldIndexConfig points at the yield aggregator's pools endpoint; it is
// authoritative for TVL and base APY.
type YieldIndexConfig struct {
	URL string `mapstructure:"url"`
	// Project is the protocol identifier pool records are filtered on.
	Project       string        `mapstructure:"project"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
}

func (cfg *YieldIndexConfig) Validate() error {
	if cfg.URL == "" {
		return fmt.Errorf("yield-index url is required")
	}
	if cfg.Project == "" {
		return fmt.Errorf("yield-index project is required")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("yield-index timeout must be positive")
	}
	if cfg.MaxRetryTimes == 0 {
		return fmt.Errorf("yield-index max-retry-times must be positive")
	}
	if cfg.RetryInterval <= 0 {
		return fmt.Errorf("yield-index retry-interval must be positive")
	}
	return nil
}

// StateCacheConfig points at the protocol's state-cache snapshot, the source
// of live reward and points programs.
type StateCacheConfig struct {
	URL           string        `mapstructure:"url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
}

func (cfg *StateCacheConfig) Validate() error {
	if cfg.URL == "" {
		return fmt.Errorf("state-cache url is required")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("state-cache timeout must be positive")
	}
	if cfg.MaxRetryTimes == 0 {
		return fmt.Errorf("state-cache max-retry-times must be positive")
	}
	if cfg.RetryInterval <= 0 {
		return fmt.Errorf("state-cache retry-interval must be positive")
	}
	return nil
}

// PriceFeedConfig points at the USD price source.
type PriceFeedConfig struct {
	BaseURL       string        `mapstructure:"base-url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	MaxRetryTimes uint          `mapstructure:"max-retry-times"`
	RetryInterval time.Duration `mapstructure:"retry-interval"`
}

func (cfg *PriceFeedConfig) Validate() error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("price-feed base-url is required")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("price-feed timeout must be positive")
	}
	if cfg.MaxRetryTimes == 0 {
		return fmt.Errorf("price-feed max-retry-times must be positive")
	}
	if cfg.RetryInterval <= 0 {
		return fmt.Errorf("price-feed retry-interval must be positive")
	}
	return nil
}

// ScanConfig bounds the concurrent fan-out over credit managers.
type ScanConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

func (cfg *ScanConfig) Validate() error {
	if cfg.Concurrency <= 0 {
		return fmt.Errorf("scan concurrency must be positive")
	}
	return nil
}

type MetricsConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (cfg *MetricsConfig) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("metrics port must be in range 1-65535")
	}
	return nil
}

func (cfg *MetricsConfig) GetMetricsPort() int {
	return cfg.Port
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

func (cfg *ServerConfig) Validate() error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("server port must be in range 1-65535")
	}
	return nil
}
