package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/beka-birhanu/vinom-campaign/service/i"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
)

const (
	defaultExpiry = 8 * time.Second
	defaultTries  = 32
	retryDelay    = 25 * time.Millisecond
)

// RedsyncLocker hands out Redis backed mutexes, one per key.
type RedsyncLocker struct {
	locker *redsync.Redsync
	expiry time.Duration
}

var _ i.Locker = &RedsyncLocker{}

// NewRedsyncLocker initializes a RedsyncLocker on the provided Redis client.
// A zero expiry uses the default.
func NewRedsyncLocker(client *redis.Client, expiry time.Duration) *RedsyncLocker {
	if expiry <= 0 {
		expiry = defaultExpiry
	}
	pool := goredis.NewPool(client)
	return &RedsyncLocker{
		locker: redsync.New(pool),
		expiry: expiry,
	}
}

// Lock acquires the mutex for key.
func (l *RedsyncLocker) Lock(ctx context.Context, key string) (func(), error) {
	mutex := l.locker.NewMutex(key+":lock",
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(defaultTries),
		redsync.WithRetryDelay(retryDelay),
	)
	if err := mutex.LockContext(ctx); err != nil {
		return nil, fmt.Errorf("locking %s: %w", key, err)
	}

	return func() {
		_, _ = mutex.UnlockContext(context.WithoutCancel(ctx))
	}, nil
}
