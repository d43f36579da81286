package llamaclient

import "context"

type YieldIndexInterface interface {
	GetPools(ctx context.Context) ([]PoolRecord, error)
}
