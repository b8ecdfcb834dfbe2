package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Set REDIS_TEST_ADDR to run against a live server.
func testLocker(t *testing.T) *Locker {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	client, err := Connect(context.Background(), Config{Addr: addr})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewLocker(client, time.Second)
}

func TestLocker_TryLockIsExclusive(t *testing.T) {
	l := testLocker(t)
	ctx := context.Background()
	key := "test:" + t.Name()

	unlock, ok, err := l.TryLock(ctx, key, time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = l.TryLock(ctx, key, time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	unlock()
	unlock2, ok, err := l.TryLock(ctx, key, time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	unlock2()
}

func TestLocker_LockWaitsForRelease(t *testing.T) {
	l := testLocker(t)
	ctx := context.Background()
	key := "test:" + t.Name()

	unlock, err := l.Lock(ctx, key)
	require.NoError(t, err)
	go func() {
		time.Sleep(50 * time.Millisecond)
		unlock()
	}()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	unlock2, err := l.Lock(ctx, key)
	require.NoError(t, err)
	unlock2()
}

func TestLocker_StaleReleaseKeepsNewHolder(t *testing.T) {
	l := testLocker(t)
	ctx := context.Background()
	key := "test:" + t.Name()

	stale, ok, err := l.TryLock(ctx, key, 20*time.Millisecond)
	require.NoError(t, err)
	require.True(t, ok)
	time.Sleep(50 * time.Millisecond)

	fresh, ok, err := l.TryLock(ctx, key, time.Second)
	require.NoError(t, err)
	require.True(t, ok)
	defer fresh()

	stale()
	_, ok, err = l.TryLock(ctx, key, time.Second)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLocker_Key(t *testing.T) {
	assert.Equal(t, "lock:book:42", NewLocker(nil, 0).key("book:42"))
}
