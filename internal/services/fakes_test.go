package services

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/publu/gearbox-sentinel/internal/clients/apyclient"
	"github.com/publu/gearbox-sentinel/internal/clients/chainclient"
	"github.com/publu/gearbox-sentinel/internal/clients/llamaclient"
	"github.com/publu/gearbox-sentinel/internal/clients/priceclient"
	"github.com/publu/gearbox-sentinel/internal/config"
	"github.com/publu/gearbox-sentinel/internal/types"
)

type fakeYieldIndex struct {
	mu      sync.Mutex
	records []llamaclient.PoolRecord
	err     error
	calls   int
}

func (f *fakeYieldIndex) GetPools(ctx context.Context) ([]llamaclient.PoolRecord, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

type fakeStateCache struct {
	snapshot *apyclient.Snapshot
	err      error
}

func (f *fakeStateCache) GetSnapshot(ctx context.Context) (*apyclient.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

type fakePriceFeed struct {
	mu     sync.Mutex
	prices map[string]decimal.Decimal
	calls  map[string]int
}

func newFakePriceFeed() *fakePriceFeed {
	return &fakePriceFeed{
		prices: make(map[string]decimal.Decimal),
		calls:  make(map[string]int),
	}
}

func (f *fakePriceFeed) set(chainID string, token common.Address, price string) {
	f.prices[priceFeedKey(chainID, token)] = decimal.RequireFromString(price)
}

func (f *fakePriceFeed) GetPrice(ctx context.Context, chainID string, token common.Address) (decimal.Decimal, error) {
	key := priceFeedKey(chainID, token)

	f.mu.Lock()
	f.calls[key]++
	f.mu.Unlock()

	price, ok := f.prices[key]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no feed entry for %s", types.ErrPriceUnavailable, key)
	}
	return price, nil
}

func priceFeedKey(chainID string, token common.Address) string {
	return strings.ToLower(chainID) + ":" + strings.ToLower(token.Hex())
}

type fakeCollateralToken struct {
	token common.Address
	lt    decimal.Decimal
}

type fakeManager struct {
	err         error
	accounts    []common.Address
	infos       map[common.Address]*chainclient.CreditAccountInfo
	underlying  common.Address
	tokensByBit map[int]fakeCollateralToken
	balances    map[common.Address]map[common.Address]*big.Int
}

type fakeChainClient struct {
	pingErr  error
	managers map[common.Address]*fakeManager
}

func (f *fakeChainClient) Ping(ctx context.Context) error {
	return f.pingErr
}

func (f *fakeChainClient) manager(addr common.Address) (*fakeManager, error) {
	m, ok := f.managers[addr]
	if !ok {
		return nil, fmt.Errorf("no such manager %s", addr.Hex())
	}
	if m.err != nil {
		return nil, m.err
	}
	return m, nil
}

func (f *fakeChainClient) CreditAccounts(ctx context.Context, manager common.Address) ([]common.Address, error) {
	m, err := f.manager(manager)
	if err != nil {
		return nil, err
	}
	return m.accounts, nil
}

func (f *fakeChainClient) CreditAccountInfo(ctx context.Context, manager, account common.Address) (*chainclient.CreditAccountInfo, error) {
	m, err := f.manager(manager)
	if err != nil {
		return nil, err
	}
	info, ok := m.infos[account]
	if !ok {
		return nil, fmt.Errorf("no info for account %s", account.Hex())
	}
	return info, nil
}

func (f *fakeChainClient) Underlying(ctx context.Context, manager common.Address) (common.Address, error) {
	m, err := f.manager(manager)
	if err != nil {
		return common.Address{}, err
	}
	return m.underlying, nil
}

func (f *fakeChainClient) CollateralTokenByMask(ctx context.Context, manager common.Address, mask *big.Int) (common.Address, decimal.Decimal, error) {
	m, err := f.manager(manager)
	if err != nil {
		return common.Address{}, decimal.Zero, err
	}
	entry, ok := m.tokensByBit[mask.BitLen()-1]
	if !ok {
		return common.Address{}, decimal.Zero, fmt.Errorf("no collateral token for mask %s", mask)
	}
	return entry.token, entry.lt, nil
}

func (f *fakeChainClient) BalanceOf(ctx context.Context, token, holder common.Address) (*big.Int, error) {
	for _, m := range f.managers {
		if byHolder, ok := m.balances[token]; ok {
			if bal, ok := byHolder[holder]; ok {
				return bal, nil
			}
		}
	}
	return big.NewInt(0), nil
}

// testConfig builds a one-chain config with the given ethereum managers.
func testConfig(managers []string) *config.Config {
	return &config.Config{
		DefaultChain: "ethereum",
		Chains: []config.ChainConfig{
			{
				ID:             "ethereum",
				DisplayName:    "Ethereum",
				RPCEndpoint:    "http://localhost:8545",
				CreditManagers: managers,
				Tokens: []config.TokenConfig{
					{Address: wethAddr.Hex(), Symbol: "WETH", Decimals: 18},
					{Address: weethAddr.Hex(), Symbol: "weETH", Decimals: 18},
					{Address: usdcAddr.Hex(), Symbol: "USDC", Decimals: 6},
				},
				Timeout:       5 * time.Second,
				MaxRetryTimes: 1,
				RetryInterval: time.Millisecond,
			},
		},
		YieldIndex: config.YieldIndexConfig{
			URL:           "http://localhost/pools",
			Project:       "gearbox",
			Timeout:       time.Second,
			MaxRetryTimes: 1,
			RetryInterval: time.Millisecond,
		},
		StateCache: config.StateCacheConfig{
			URL:           "http://localhost/latest.json",
			Timeout:       time.Second,
			MaxRetryTimes: 1,
			RetryInterval: time.Millisecond,
		},
		PriceFeed: config.PriceFeedConfig{
			BaseURL:       "http://localhost",
			Timeout:       time.Second,
			MaxRetryTimes: 1,
			RetryInterval: time.Millisecond,
		},
		Scan: config.ScanConfig{Concurrency: 4},
	}
}

func mustDecimal(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var (
	wethAddr  = common.HexToAddress("0xc02aaa39b223fe8d0a0e5c4f27ead9083c756cc2")
	weethAddr = common.HexToAddress("0xcd5fe23c85820f7b72d0926fc9b05b43e359b7ee")
	usdcAddr  = common.HexToAddress("0xa0b86991c6218b36c1d19d4a2e9eb0ce3606eb48")
)

func newTestService(
	cfg *config.Config,
	yieldIndex llamaclient.YieldIndexInterface,
	stateCache apyclient.StateCacheInterface,
	priceFeed priceclient.PriceFeedInterface,
	chain chainclient.ChainInterface,
) *Service {
	dial := func(_ *types.Chain, _ *config.ChainConfig) (chainclient.ChainInterface, error) {
		return chain, nil
	}
	return NewService(cfg, config.NewRegistry(cfg), yieldIndex, stateCache, priceFeed, dial)
}
