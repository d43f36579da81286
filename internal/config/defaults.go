package config

import "time"

// Default endpoints: public, keyless services the tool runs against when no
// config file is supplied.
const (
	defaultYieldIndexURL = "https://yields.llama.fi/pools"
	defaultStateCacheURL = "https://state-cache.gearbox.foundation/apy-server/latest.json"
	defaultPriceFeedURL  = "https://coins.llama.fi"
	defaultProject       = "gearbox"
)

var defaultEthereumManagers = []string{
	"0xf5edc34204e67e592bdcb84114571c9e4bd0bdf7",
	"0xb79d6544839d169869476589d2e54014a074317b",
	"0x79c6c1ce5b12abcc3e407ce8c160ee1160250921",
	"0xc307a074bd5aec2d6ad1d9b74465c24a59b490fd",
	"0x9a0fdf7cdab4604fc27ebeab4b3d57bd825e8ebe",
	"0x06c0df5ac1f24bc2097b59ed8ee1db86bf0b09df",
	"0x1128860755c6d452d9326e35d1672ca7c920b7c1",
	"0x35e154be3c856c37d539aae90178fe5ac6d37644",
	"0x11fd8801a051b296e337a3e1168839fb346d5940",
	"0x6252467C2FefB61cB55180282943139BAeEA36c5",
	"0x7a4EffD87C2f3C55CA251080b1343b605f327E3a",
}

var defaultEthereumTokens = []TokenConfig{
	{Address: "0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2", Symbol: "WETH", Decimals: 18},
	{Address: "0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48", Symbol: "USDC", Decimals: 6},
	{Address: "0xdac17f958d2ee523a2206206994597c13d831ec7", Symbol: "USDT", Decimals: 6},
	{Address: "0x6b175474e89094c44da98b954eedeac495271d0f", Symbol: "DAI", Decimals: 18},
	{Address: "0x2260fac5e5542a773aa44fbcfedf7c193bc2c599", Symbol: "WBTC", Decimals: 8},
	{Address: "0x7f39c581f595b53c5cb19bd0b3f8da6c935e2ca0", Symbol: "wstETH", Decimals: 18},
	{Address: "0xae78736cd615f374d3085123a210448e74fc6393", Symbol: "rETH", Decimals: 18},
	{Address: "0xcd5fe23c85820f7b72d0926fc9b05b43e359b7ee", Symbol: "weETH", Decimals: 18},
	{Address: "0xf939e0a03fb07f59a73314e73794be0e57ac1b4e", Symbol: "crvUSD", Decimals: 18},
	{Address: "0x83f20f44975d03b1b09e64809b757c47f942beea", Symbol: "sDAI", Decimals: 18},
	{Address: "0x18084fba666a33d37592fa2633fd49a74dd93a88", Symbol: "tBTC", Decimals: 18},
	{Address: "0x40d16fc0246ad3160ccc09b8d0d3a2cd28ae6c2f", Symbol: "GHO", Decimals: 18},
}

// DefaultConfig mirrors the endpoints and contract sets the tool has always
// shipped with. Only Ethereum mainnet credit managers are currently indexed;
// the other chains support pool listing.
func DefaultConfig() *Config {
	chainDefaults := func(c ChainConfig) ChainConfig {
		c.Timeout = 30 * time.Second
		c.MaxRetryTimes = 3
		c.RetryInterval = time.Second
		return c
	}

	return &Config{
		DefaultChain: "ethereum",
		Chains: []ChainConfig{
			chainDefaults(ChainConfig{
				ID:             "ethereum",
				DisplayName:    "Ethereum",
				RPCEndpoint:    "https://ethereum-rpc.publicnode.com",
				CreditManagers: defaultEthereumManagers,
				Tokens:         defaultEthereumTokens,
			}),
			chainDefaults(ChainConfig{
				ID:          "arbitrum",
				DisplayName: "Arbitrum",
				RPCEndpoint: "https://arbitrum-one-rpc.publicnode.com",
			}),
			chainDefaults(ChainConfig{
				ID:          "optimism",
				DisplayName: "Optimism",
				RPCEndpoint: "https://optimism-rpc.publicnode.com",
			}),
		},
		YieldIndex: YieldIndexConfig{
			URL:           defaultYieldIndexURL,
			Project:       defaultProject,
			Timeout:       15 * time.Second,
			MaxRetryTimes: 3,
			RetryInterval: time.Second,
		},
		StateCache: StateCacheConfig{
			URL:           defaultStateCacheURL,
			Timeout:       15 * time.Second,
			MaxRetryTimes: 3,
			RetryInterval: time.Second,
		},
		PriceFeed: PriceFeedConfig{
			BaseURL:       defaultPriceFeedURL,
			Timeout:       15 * time.Second,
			MaxRetryTimes: 3,
			RetryInterval: time.Second,
		},
		Scan: ScanConfig{
			Concurrency: 8,
		},
	}
}
