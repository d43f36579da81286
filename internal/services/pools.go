package services

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/publu/gearbox-sentinel/internal/clients/apyclient"
	"github.com/publu/gearbox-sentinel/internal/types"
)

// Numeric chain ids the state cache keys its per-chain data by.
var chainNamesByID = map[string]string{
	"1":     "Ethereum",
	"10":    "Optimism",
	"56":    "BSC",
	"143":   "Monad",
	"146":   "Sonic",
	"42161": "Arbitrum",
}

func chainName(id string) string {
	if name, ok := chainNamesByID[id]; ok {
		return name
	}
	return "Chain " + id
}

// ListPools fetches the protocol's pools from the yield index, joins them
// with live reward data from the state cache, and returns them by descending
// TVL. The yield index is required; the state cache degrades gracefully into
// RewardsKnown=false when it cannot be fetched.
func (s *Service) ListPools(ctx context.Context, chainFilter string) ([]types.Pool, error) {
	logger := log.Ctx(ctx)

	records, err := s.yieldIndex.GetPools(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrPoolDataUnavailable, err)
	}

	project := s.cfg.YieldIndex.Project
	filtered := records[:0:0]
	for _, rec := range records {
		if rec.Project != project {
			continue
		}
		if chainFilter != "" && !strings.EqualFold(rec.Chain, chainFilter) {
			continue
		}
		filtered = append(filtered, rec)
	}

	snapshot, err := s.stateCache.GetSnapshot(ctx)
	if err != nil {
		// Base pool listing is still useful without live reward data.
		logger.Warn().Err(err).Msg("State cache unavailable, reward figures degrade to unknown")
		snapshot = nil
	}

	pools := MergePoolRewards(filtered, snapshot)
	sort.SliceStable(pools, func(i, j int) bool {
		return pools[i].TVLUSD.GreaterThan(pools[j].TVLUSD)
	})
	return pools, nil
}

// TopPools returns the n highest-yield pools, ties broken by TVL.
func (s *Service) TopPools(ctx context.Context, n int, chainFilter string) ([]types.Pool, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", types.ErrInvalidCount, n)
	}

	pools, err := s.ListPools(ctx, chainFilter)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(pools, func(i, j int) bool {
		if pools[i].APYTotal != pools[j].APYTotal {
			return pools[i].APYTotal > pools[j].APYTotal
		}
		return pools[i].TVLUSD.GreaterThan(pools[j].TVLUSD)
	})
	if n < len(pools) {
		pools = pools[:n]
	}
	return pools, nil
}

// Rewards lists every active incentive program across the protocol's pools,
// straight from the state cache. Pools without a program are simply absent.
// Unlike ListPools, a state cache failure here is terminal: it is the only
// data source this operation has.
func (s *Service) Rewards(ctx context.Context) ([]types.RewardProgram, error) {
	snapshot, err := s.stateCache.GetSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	return flattenRewards(snapshot), nil
}

// ProtocolStats aggregates over the full unfiltered pool list.
func (s *Service) ProtocolStats(ctx context.Context) (*types.ProtocolStats, error) {
	pools, err := s.ListPools(ctx, "")
	if err != nil {
		return nil, err
	}

	stats := &types.ProtocolStats{PoolCount: len(pools)}

	chains := make(map[string]bool)
	var apySum float64
	for i := range pools {
		p := &pools[i]
		stats.TotalTVLUSD = stats.TotalTVLUSD.Add(p.TVLUSD)
		chains[p.Chain] = true
		apySum += p.APYTotal
		if p.Stablecoin {
			stats.StablecoinPools++
		} else {
			stats.VolatilePools++
		}
		if stats.BestPool == nil || p.APYTotal > stats.BestPool.APYTotal {
			stats.BestPool = p
		}
		if stats.LargestPool == nil || p.TVLUSD.GreaterThan(stats.LargestPool.TVLUSD) {
			stats.LargestPool = p
		}
	}
	if len(pools) > 0 {
		stats.AvgAPY = apySum / float64(len(pools))
	}
	for chain := range chains {
		stats.Chains = append(stats.Chains, chain)
	}
	sort.Strings(stats.Chains)

	return stats, nil
}

// flattenRewards turns the snapshot's nested per-chain pool state into a
// flat, deterministically ordered program list.
func flattenRewards(snapshot *apyclient.Snapshot) []types.RewardProgram {
	chainIDs := make([]string, 0, len(snapshot.Chains))
	for id := range snapshot.Chains {
		chainIDs = append(chainIDs, id)
	}
	sort.Slice(chainIDs, func(i, j int) bool {
		a, errA := strconv.Atoi(chainIDs[i])
		b, errB := strconv.Atoi(chainIDs[j])
		if errA != nil || errB != nil {
			return chainIDs[i] < chainIDs[j]
		}
		return a < b
	})

	var programs []types.RewardProgram
	for _, chainID := range chainIDs {
		name := chainName(chainID)
		poolStates := snapshot.Chains[chainID].Pools.Data
		for _, ps := range poolStates {
			if !ps.HasPrograms() {
				continue
			}
			poolID := strings.ToLower(ps.Pool)
			for _, pt := range ps.Rewards.Points {
				programs = append(programs, types.RewardProgram{
					PoolID:   poolID,
					Chain:    name,
					Kind:     types.RewardKindPoints,
					Name:     pt.Name,
					Units:    pt.Symbol,
					Amount:   pt.Amount,
					Duration: pt.Duration,
				})
			}
			for _, ext := range ps.Rewards.ExternalAPY {
				programs = append(programs, types.RewardProgram{
					PoolID: poolID,
					Chain:  name,
					Kind:   types.RewardKindExtraAPY,
					Name:   ext.Name,
					APY:    ext.Value,
				})
			}
			for _, extra := range ps.Rewards.ExtraAPY {
				programs = append(programs, types.RewardProgram{
					PoolID:      poolID,
					Chain:       name,
					Kind:        types.RewardKindExtraAPY,
					APY:         extra.APY,
					RewardToken: extra.RewardTokenSymbol,
				})
			}
		}
	}
	return programs
}

// decimalFromTVL converts the index's float TVL once, at the edge.
func decimalFromTVL(tvl float64) decimal.Decimal {
	return decimal.NewFromFloat(tvl)
}
