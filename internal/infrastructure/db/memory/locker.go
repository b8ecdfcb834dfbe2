package memory

import (
	"context"
	"sync"
	"time"

	"github.com/bookhaven/library-system/internal/core/ports"
)

// Locker is a process-local keyed mutex.
type Locker struct {
	mu    sync.Mutex
	slots map[string]*slot
}

type slot struct {
	ch   chan struct{}
	refs int
}

var _ ports.Locker = (*Locker)(nil)

func NewLocker() *Locker {
	return &Locker{slots: make(map[string]*slot)}
}

// Lock blocks until key is free or ctx is done.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	s := l.acquire(key)
	select {
	case s.ch <- struct{}{}:
		return l.releaser(key, s), nil
	case <-ctx.Done():
		l.drop(key, s)
		return nil, ctx.Err()
	}
}

// TryLock takes key only if it is free right now. The ttl is ignored: a
// process-local lock cannot outlive its holder.
func (l *Locker) TryLock(_ context.Context, key string, _ time.Duration) (func(), bool, error) {
	s := l.acquire(key)
	select {
	case s.ch <- struct{}{}:
		return l.releaser(key, s), true, nil
	default:
		l.drop(key, s)
		return nil, false, nil
	}
}

func (l *Locker) acquire(key string) *slot {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.slots[key]
	if !ok {
		s = &slot{ch: make(chan struct{}, 1)}
		l.slots[key] = s
	}
	s.refs++
	return s
}

func (l *Locker) drop(key string, s *slot) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.slots, key)
	}
}

func (l *Locker) releaser(key string, s *slot) func() {
	var once sync.Once
	return func() {
		once.Do(func() {
			<-s.ch
			l.drop(key, s)
		})
	}
}
