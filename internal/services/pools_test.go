package services

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/publu/gearbox-sentinel/internal/clients/apyclient"
	"github.com/publu/gearbox-sentinel/internal/clients/llamaclient"
	"github.com/publu/gearbox-sentinel/internal/types"
)

func poolFixture() []llamaclient.PoolRecord {
	return []llamaclient.PoolRecord{
		{Project: "gearbox", Chain: "Ethereum", Symbol: "WSTETH",
			TVLUSD: 5_500_054, APY: f64(0.41), APYBase: f64(0.41), Pool: "pool-wsteth"},
		{Project: "gearbox", Chain: "Ethereum", Symbol: "USDC",
			TVLUSD: 12_000_000, APY: f64(6.2), APYBase: f64(4.2), APYReward: f64(2.0),
			Pool: "pool-usdc", Stablecoin: true},
		{Project: "gearbox", Chain: "Arbitrum", Symbol: "WETH",
			TVLUSD: 3_100_000, APY: f64(2.8), APYBase: f64(2.8), Pool: "pool-arb-weth"},
		{Project: "gearbox", Chain: "Monad", Symbol: "WMON",
			TVLUSD: 900_000, APY: f64(11.5), APYBase: f64(11.5), Pool: "pool-wmon"},
		// Other projects on the shared index must never leak through.
		{Project: "aave-v3", Chain: "Ethereum", Symbol: "USDC",
			TVLUSD: 400_000_000, APY: f64(3.1), APYBase: f64(3.1), Pool: "pool-aave"},
	}
}

func newPoolsService(yield *fakeYieldIndex, cache *fakeStateCache) *Service {
	return newTestService(testConfig(nil), yield, cache, newFakePriceFeed(), &fakeChainClient{})
}

func TestListPoolsFiltersByChainCaseInsensitive(t *testing.T) {
	svc := newPoolsService(&fakeYieldIndex{records: poolFixture()}, &fakeStateCache{snapshot: &apyclient.Snapshot{}})

	pools, err := svc.ListPools(t.Context(), "ethereum")
	require.NoError(t, err)
	require.Len(t, pools, 2)

	// Descending TVL.
	assert.Equal(t, "USDC", pools[0].Symbol)
	assert.Equal(t, "WSTETH", pools[1].Symbol)
	assert.True(t, pools[1].TVLUSD.Equal(decimal.NewFromInt(5_500_054)))
	assert.Equal(t, 0.41, pools[1].APYTotal)
}

func TestListPoolsUnfiltered(t *testing.T) {
	svc := newPoolsService(&fakeYieldIndex{records: poolFixture()}, &fakeStateCache{snapshot: &apyclient.Snapshot{}})

	pools, err := svc.ListPools(t.Context(), "")
	require.NoError(t, err)
	require.Len(t, pools, 4)
	for _, p := range pools {
		assert.NotEqual(t, "pool-aave", p.ID)
	}
	for i := 1; i < len(pools); i++ {
		assert.False(t, pools[i].TVLUSD.GreaterThan(pools[i-1].TVLUSD))
	}
}

func TestListPoolsYieldIndexFailure(t *testing.T) {
	svc := newPoolsService(&fakeYieldIndex{err: errors.New("503 service unavailable")}, &fakeStateCache{})

	_, err := svc.ListPools(t.Context(), "")
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrPoolDataUnavailable)
}

func TestListPoolsStateCacheFailureDegrades(t *testing.T) {
	svc := newPoolsService(
		&fakeYieldIndex{records: poolFixture()},
		&fakeStateCache{err: errors.New("connection refused")},
	)

	pools, err := svc.ListPools(t.Context(), "")
	require.NoError(t, err)
	require.NotEmpty(t, pools)
	for _, p := range pools {
		assert.False(t, p.RewardsKnown)
	}
}

func TestTopPoolsInvalidCount(t *testing.T) {
	svc := newPoolsService(&fakeYieldIndex{records: poolFixture()}, &fakeStateCache{})

	for _, n := range []int{0, -1} {
		_, err := svc.TopPools(t.Context(), n, "")
		assert.ErrorIs(t, err, types.ErrInvalidCount, "n=%d", n)
	}
}

func TestTopPoolsOrderingAndTruncation(t *testing.T) {
	svc := newPoolsService(&fakeYieldIndex{records: poolFixture()}, &fakeStateCache{snapshot: &apyclient.Snapshot{}})

	top, err := svc.TopPools(t.Context(), 2, "")
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "WMON", top[0].Symbol)
	assert.Equal(t, "USDC", top[1].Symbol)

	// Asking for more than exists returns everything.
	all, err := svc.TopPools(t.Context(), 100, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	// Every top pool appears in the full listing unchanged.
	listed, err := svc.ListPools(t.Context(), "")
	require.NoError(t, err)
	byID := make(map[string]types.Pool, len(listed))
	for _, p := range listed {
		byID[p.ID] = p
	}
	for _, p := range top {
		assert.Equal(t, byID[p.ID], p)
	}

	// Same inputs, same answer.
	again, err := svc.TopPools(t.Context(), 2, "")
	require.NoError(t, err)
	assert.Equal(t, top, again)
}

func TestProtocolStats(t *testing.T) {
	svc := newPoolsService(&fakeYieldIndex{records: poolFixture()}, &fakeStateCache{snapshot: &apyclient.Snapshot{}})

	stats, err := svc.ProtocolStats(t.Context())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.PoolCount)
	assert.Equal(t, 1, stats.StablecoinPools)
	assert.Equal(t, 3, stats.VolatilePools)
	assert.Equal(t, []string{"Arbitrum", "Ethereum", "Monad"}, stats.Chains)

	// Total TVL is the exact decimal sum of the listed pools.
	pools, err := svc.ListPools(t.Context(), "")
	require.NoError(t, err)
	var want decimal.Decimal
	for _, p := range pools {
		want = want.Add(p.TVLUSD)
	}
	assert.True(t, stats.TotalTVLUSD.Equal(want), "got %s want %s", stats.TotalTVLUSD, want)

	require.NotNil(t, stats.BestPool)
	assert.Equal(t, "WMON", stats.BestPool.Symbol)
	require.NotNil(t, stats.LargestPool)
	assert.Equal(t, "USDC", stats.LargestPool.Symbol)
	assert.InDelta(t, (0.41+6.2+2.8+11.5)/4, stats.AvgAPY, 1e-9)
}

func TestProtocolStatsEmpty(t *testing.T) {
	svc := newPoolsService(&fakeYieldIndex{}, &fakeStateCache{snapshot: &apyclient.Snapshot{}})

	stats, err := svc.ProtocolStats(t.Context())
	require.NoError(t, err)
	assert.Zero(t, stats.PoolCount)
	assert.Zero(t, stats.AvgAPY)
	assert.True(t, stats.TotalTVLUSD.IsZero())
	assert.Nil(t, stats.BestPool)
}

func TestRewards(t *testing.T) {
	snapshot := &apyclient.Snapshot{
		Chains: map[string]apyclient.ChainState{
			"42161": {Pools: apyclient.PoolList{Data: []apyclient.PoolState{
				{Pool: "0xARB1", Rewards: apyclient.Rewards{
					ExtraAPY: []apyclient.ExtraAPYProgram{{APY: 1.2, RewardTokenSymbol: "ARB"}},
				}},
			}}},
			"1": {Pools: apyclient.PoolList{Data: []apyclient.PoolState{
				{Pool: "0xETH1", Rewards: apyclient.Rewards{
					Points: []apyclient.PointsProgram{
						{Name: "Ether.fi points", Symbol: "pts", Amount: "2", Duration: "season"},
					},
				}},
				{Pool: "0xquiet"}, // no programs, must be absent
			}}},
		},
	}
	svc := newPoolsService(&fakeYieldIndex{}, &fakeStateCache{snapshot: snapshot})

	programs, err := svc.Rewards(t.Context())
	require.NoError(t, err)
	require.Len(t, programs, 2)

	// Chains come out in numeric id order regardless of map iteration.
	assert.Equal(t, "Ethereum", programs[0].Chain)
	assert.Equal(t, types.RewardKindPoints, programs[0].Kind)
	assert.Equal(t, "0xeth1", programs[0].PoolID)
	assert.Equal(t, "Arbitrum", programs[1].Chain)
	assert.Equal(t, types.RewardKindExtraAPY, programs[1].Kind)
	assert.Equal(t, "ARB", programs[1].RewardToken)
}

func TestRewardsStateCacheFailureIsTerminal(t *testing.T) {
	svc := newPoolsService(&fakeYieldIndex{}, &fakeStateCache{err: errors.New("timeout")})

	_, err := svc.Rewards(t.Context())
	require.Error(t, err)
}
