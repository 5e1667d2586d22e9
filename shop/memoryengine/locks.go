package memoryengine

import (
	"context"
	"sync"
)

// keyedLocks hands out one exclusive lock per key. A lock is a buffered channel of size one,
// so waiting for it can be combined with ctx.Done().
type keyedLocks struct {
	mu    sync.Mutex
	locks map[string]chan struct{}
}

func newKeyedLocks() *keyedLocks {
	return &keyedLocks{locks: make(map[string]chan struct{})}
}

func (k *keyedLocks) channelFor(key string) chan struct{} {
	k.mu.Lock()
	defer k.mu.Unlock()

	ch, ok := k.locks[key]
	if !ok {
		ch = make(chan struct{}, 1)
		k.locks[key] = ch
	}

	return ch
}

func (k *keyedLocks) acquire(ctx context.Context, key string) error {
	select {
	case k.channelFor(key) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (k *keyedLocks) release(key string) {
	<-k.channelFor(key)
}
