package lock

import (
	"context"
	"sync"
	"time"
)

// LocalLock implements Locker with an in-process key table. It is the
// default for single-node deployments where no redis address is configured.
type LocalLock struct {
	mu   sync.Mutex
	held map[string]time.Time
}

func NewLocalLock() *LocalLock {
	return &LocalLock{held: make(map[string]time.Time)}
}

func (l *LocalLock) Lock(_ context.Context, key string, ttl time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if expiry, ok := l.held[key]; ok && now.Before(expiry) {
		return false, nil
	}

	l.held[key] = now.Add(ttl)
	return true, nil
}

func (l *LocalLock) Unlock(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.held, key)
	return nil
}

func (l *LocalLock) Close() error {
	return nil
}
