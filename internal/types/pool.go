package types

import "github.com/shopspring/decimal"

// Pool is one lending pool, merged from the yield index (authoritative for
// TVL and base APY) and the protocol state cache (authoritative for current
// reward APY).
type Pool struct {
	// ID is the yield index's pool identifier, lowercased; join key against
	// reward programs.
	ID     string
	Symbol string
	Chain  string

	TVLUSD decimal.Decimal

	APYTotal  float64
	APYBase   float64
	APYReward float64

	Stablecoin bool

	// RewardsKnown is false when the state cache could not be fetched, so
	// APYReward reflects only the (possibly stale) yield index figure.
	RewardsKnown bool
	// DataSuspect is set when the index's own total disagreed with
	// base + reward beyond tolerance; the reward component is then reported
	// as zero rather than silently recomputed.
	DataSuspect bool
}

// RewardProgramKind discriminates the two shapes a reward program takes.
type RewardProgramKind string

const (
	RewardKindPoints   RewardProgramKind = "points"
	RewardKindExtraAPY RewardProgramKind = "extra_apy"
)

// RewardProgram is an active incentive on one pool: either a points emission
// or an extra APY paid in a reward token. Pools without a program simply have
// no entry.
type RewardProgram struct {
	PoolID string
	Chain  string
	Kind   RewardProgramKind

	// Points emission fields (Kind == RewardKindPoints).
	Name     string
	Units    string
	Amount   string
	Duration string

	// Extra-APY fields (Kind == RewardKindExtraAPY).
	APY         float64
	RewardToken string
}

// ProtocolStats is the protocol-wide rollup over every pool, unfiltered.
type ProtocolStats struct {
	TotalTVLUSD     decimal.Decimal
	PoolCount       int
	Chains          []string
	StablecoinPools int
	VolatilePools   int
	AvgAPY          float64

	// BestPool is the pool with the highest total APY, first encountered on
	// ties. Nil when no pools exist.
	BestPool *Pool
	// LargestPool is the pool with the highest TVL. Nil when no pools exist.
	LargestPool *Pool
}
