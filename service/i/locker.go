package i

import "context"

// Locker serializes work on a key across processes.
type Locker interface {
	// Lock blocks until key is held or ctx is done. The returned function
	// releases the lock.
	Lock(ctx context.Context, key string) (unlock func(), err error)
}
