package chainclient

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// ChainInterface is the read-only view of one chain's lending contracts.
type ChainInterface interface {
	// Ping checks the RPC endpoint is reachable at all.
	Ping(ctx context.Context) error
	// CreditAccounts lists every credit account a manager has issued.
	CreditAccounts(ctx context.Context, manager common.Address) ([]common.Address, error)
	// CreditAccountInfo reads one account's debt state from its manager.
	CreditAccountInfo(ctx context.Context, manager, account common.Address) (*CreditAccountInfo, error)
	// Underlying resolves a manager's underlying token via its pool.
	Underlying(ctx context.Context, manager common.Address) (common.Address, error)
	// CollateralTokenByMask maps one bit of the enabled-tokens mask to the
	// collateral token and its liquidation threshold in [0, 1].
	CollateralTokenByMask(ctx context.Context, manager common.Address, mask *big.Int) (common.Address, decimal.Decimal, error)
	// BalanceOf reads an ERC-20 balance.
	BalanceOf(ctx context.Context, token, holder common.Address) (*big.Int, error)
}
