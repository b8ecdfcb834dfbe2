package ports

import (
	"context"
	"time"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Locker serialises work on a key, possibly across processes. Lock blocks
// until the key is held or ctx is done, and returns the release function.
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
	// TryLock acquires key without waiting. ok is false when it is held elsewhere.
	TryLock(ctx context.Context, key string, ttl time.Duration) (unlock func(), ok bool, err error)
}
