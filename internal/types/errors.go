package types

import "errors"

// Hard failures abort the requested operation; everything else is degraded
// into "unavailable" markers inside the result (see PositionScan.Warnings,
// Pool.RewardsKnown, CollateralHolding.PriceKnown).
var (
	// ErrInvalidAddress is returned before any network call when the wallet
	// address is not a well-formed EVM address.
	ErrInvalidAddress = errors.New("invalid wallet address")

	// ErrInvalidCount is returned when a caller asks for a non-positive
	// number of top pools.
	ErrInvalidCount = errors.New("count must be positive")

	// ErrUnknownChain is returned when a chain id is not in the registry.
	ErrUnknownChain = errors.New("unknown chain")

	// ErrChainUnreachable is returned when the chain's RPC endpoint cannot be
	// reached at all; partial results are meaningless in that case.
	ErrChainUnreachable = errors.New("chain rpc unreachable")

	// ErrPoolDataUnavailable is returned when the yield index cannot be
	// fetched; every pool operation needs it.
	ErrPoolDataUnavailable = errors.New("pool data unavailable")

	// ErrPriceUnavailable marks a single (token, chain) price lookup that
	// failed. It never aborts a scan; the affected value is reported as
	// unavailable instead.
	ErrPriceUnavailable = errors.New("price unavailable")
)
