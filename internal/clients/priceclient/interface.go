package priceclient

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

type PriceFeedInterface interface {
	GetPrice(ctx context.Context, chainID string, token common.Address) (decimal.Decimal, error)
}
