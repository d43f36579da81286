package types

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// CollateralHolding is one enabled collateral token on a credit account.
// A holding with a zero raw balance is still reported: the account has the
// token enabled even though it currently holds none of it.
type CollateralHolding struct {
	Token Token
	// Raw balance in native token units.
	Raw *big.Int
	// LiquidationThreshold is the fraction of this token's value counted
	// toward solvency, in [0, 1].
	LiquidationThreshold decimal.Decimal

	// PriceKnown is false when no USD price could be resolved for the token.
	// In that case USDValue is zero-valued and must not be rendered as a
	// genuine $0.00.
	PriceKnown bool
	USDValue   decimal.Decimal
}

// CreditAccount is a wallet's borrowing position under one credit manager,
// read as of the current chain head.
type CreditAccount struct {
	Account    common.Address
	Owner      common.Address
	Manager    common.Address
	Underlying Token

	// DebtRaw is the debt in native underlying units.
	DebtRaw *big.Int
	// LastDebtUpdate is the block height of the last debt change, zero when
	// the manager never recorded one.
	LastDebtUpdate uint64

	Collateral []CollateralHolding
}

// PositionReport is the USD-valued view over one credit account.
type PositionReport struct {
	Account CreditAccount

	DebtKnown bool
	DebtUSD   decimal.Decimal
	// CollateralUSD sums only holdings with a known price.
	CollateralUSD decimal.Decimal

	// Ratio is collateral USD over debt USD. Nil when debt USD is zero: the
	// account has no open debt and no meaningful health ratio.
	Ratio *decimal.Decimal
	// AtRisk is set when Ratio < 1.0. Informational only.
	AtRisk bool
	// Incomplete is set when at least one price lookup failed, so the USD
	// totals (and the ratio) understate the position.
	Incomplete bool
}

// ManagerWarning records a credit manager that could not be scanned. The
// scan continues past it; the caller may surface these.
type ManagerWarning struct {
	Manager common.Address
	Err     error
}

// PositionScan is the full result of scanning one wallet on one chain:
// the reports that could be built, ordered by descending debt USD, plus the
// managers that failed.
type PositionScan struct {
	Chain    *Chain
	Wallet   common.Address
	Reports  []PositionReport
	Warnings []ManagerWarning
	// Scanned counts managers that answered, out of len(Chain.Managers).
	Scanned int
}
