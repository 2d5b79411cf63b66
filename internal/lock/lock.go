package lock

import (
	"context"
	"time"
)

// Locker serializes multi-step mutations of a tenant's documents. Keys are
// "<business>:<date>" for booking and override mutations and
// "<business>:template:<weekday>" for template mutations.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
	Close() error
}
