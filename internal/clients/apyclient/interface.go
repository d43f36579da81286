package apyclient

import "context"

type StateCacheInterface interface {
	GetSnapshot(ctx context.Context) (*Snapshot, error)
}
