package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/bookhaven/library-system/internal/core/ports"
)

const (
	defaultLockTTL   = 30 * time.Second
	defaultRetryWait = 25 * time.Millisecond
)

// releaseScript deletes the key only while it still holds our token, so a
// holder whose lease expired cannot release somebody else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker implements ports.Locker with SET NX PX leases.
// Key format: lock:<key>
type Locker struct {
	client    redis.UniversalClient
	ttl       time.Duration
	retryWait time.Duration
}

var _ ports.Locker = (*Locker)(nil)

// NewLocker creates a Locker. Leases taken by Lock expire after ttl so a
// crashed holder cannot block a key forever.
func NewLocker(client redis.UniversalClient, ttl time.Duration) *Locker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	return &Locker{client: client, ttl: ttl, retryWait: defaultRetryWait}
}

// Lock polls until the lease is taken or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	ticker := time.NewTicker(l.retryWait)
	defer ticker.Stop()

	for {
		unlock, ok, err := l.TryLock(ctx, key, l.ttl)
		if err != nil {
			return nil, err
		}
		if ok {
			return unlock, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *Locker) TryLock(ctx context.Context, key string, ttl time.Duration) (func(), bool, error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, l.key(key), token, ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire lock %s: %w", key, err)
	}
	if !ok {
		return nil, false, nil
	}
	return l.releaser(key, token), true, nil
}

func (l *Locker) releaser(key, token string) func() {
	return func() {
		// The caller's context may already be cancelled; release regardless.
		ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{l.key(key)}, token).Err()
	}
}

func (l *Locker) key(key string) string {
	return "lock:" + key
}
