package services

import (
	"math"
	"strings"

	"github.com/publu/gearbox-sentinel/internal/clients/apyclient"
	"github.com/publu/gearbox-sentinel/internal/clients/llamaclient"
	"github.com/publu/gearbox-sentinel/internal/types"
)

// apyTolerance is the largest base+reward vs. total disagreement, in
// percentage points, the index record is trusted through.
const apyTolerance = 0.01

// MergePoolRewards joins yield index records with the state cache snapshot
// by lowercased pool identifier. The index is authoritative for TVL and base
// APY; the snapshot, refreshed from live contract state, wins for the reward
// component when both have one. Pure function over its two inputs: neither
// collection is mutated.
func MergePoolRewards(records []llamaclient.PoolRecord, snapshot *apyclient.Snapshot) []types.Pool {
	liveRewards := liveRewardAPY(snapshot)

	pools := make([]types.Pool, 0, len(records))
	for _, rec := range records {
		pool := types.Pool{
			ID:           strings.ToLower(rec.Pool),
			Symbol:       rec.Symbol,
			Chain:        rec.Chain,
			TVLUSD:       decimalFromTVL(rec.TVLUSD),
			APYTotal:     deref(rec.APY),
			APYBase:      deref(rec.APYBase),
			APYReward:    deref(rec.APYReward),
			Stablecoin:   rec.Stablecoin,
			RewardsKnown: snapshot != nil,
		}

		// The index's own composition must add up; when it does not, the
		// reward figure is the untrustworthy part. Report it as zero and
		// flag the record instead of recomputing anything.
		if math.Abs(pool.APYTotal-(pool.APYBase+pool.APYReward)) > apyTolerance {
			pool.APYReward = 0
			pool.DataSuspect = true
		}

		if live, ok := liveRewards[pool.ID]; ok {
			pool.APYReward = live
			pool.APYTotal = pool.APYBase + pool.APYReward
		}

		pools = append(pools, pool)
	}
	return pools
}

// liveRewardAPY sums each pool's active extra-APY programs across all chains
// in the snapshot, keyed by lowercased pool id.
func liveRewardAPY(snapshot *apyclient.Snapshot) map[string]float64 {
	if snapshot == nil {
		return nil
	}
	live := make(map[string]float64)
	for _, chainState := range snapshot.Chains {
		for _, ps := range chainState.Pools.Data {
			if len(ps.Rewards.ExtraAPY) == 0 {
				continue
			}
			var sum float64
			for _, extra := range ps.Rewards.ExtraAPY {
				sum += extra.APY
			}
			live[strings.ToLower(ps.Pool)] = sum
		}
	}
	return live
}

func deref(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
