package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

// recordingEngine notes which book ids it saw and flags overlapping calls
// on the same book.
type recordingEngine struct {
	mu      sync.Mutex
	running map[string]bool
	overlap bool
	calls   int
	fail    error
}

func newRecordingEngine() *recordingEngine {
	return &recordingEngine{running: make(map[string]bool)}
}

func (e *recordingEngine) run(bookID string) (*domain.Book, error) {
	e.mu.Lock()
	if e.running[bookID] {
		e.overlap = true
	}
	e.running[bookID] = true
	e.calls++
	e.mu.Unlock()

	time.Sleep(time.Millisecond)

	e.mu.Lock()
	e.running[bookID] = false
	e.mu.Unlock()
	if e.fail != nil {
		return nil, e.fail
	}
	return &domain.Book{ID: bookID}, nil
}

func (e *recordingEngine) Borrow(_ context.Context, in ports.BorrowInput) (*domain.Book, error) {
	return e.run(in.BookID)
}

func (e *recordingEngine) Return(_ context.Context, in ports.ReturnInput) (*domain.Book, error) {
	return e.run(in.BookID)
}

func TestDispatcher_SameBookIsSerialised(t *testing.T) {
	engine := newRecordingEngine()
	d := NewDispatcher(4, engine, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			bookID := []string{"b1", "b2", "b3"}[i%3]
			var err error
			if i%2 == 0 {
				_, err = d.Borrow(ctx, ports.BorrowInput{BookID: bookID, UserID: "u"})
			} else {
				_, err = d.Return(ctx, ports.ReturnInput{BookID: bookID, UserID: "u"})
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	if engine.overlap {
		t.Fatalf("commands for the same book overlapped")
	}
	if engine.calls != 50 {
		t.Fatalf("expected 50 calls, got %d", engine.calls)
	}
}

func TestDispatcher_ReturnsEngineResult(t *testing.T) {
	engine := newRecordingEngine()
	d := NewDispatcher(2, engine, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	book, err := d.Borrow(ctx, ports.BorrowInput{BookID: "b1"})
	if err != nil || book.ID != "b1" {
		t.Fatalf("unexpected result: %+v, %v", book, err)
	}

	engine.fail = domain.ErrBookNotAvailable
	if _, err := d.Borrow(ctx, ports.BorrowInput{BookID: "b1"}); !errors.Is(err, domain.ErrBookNotAvailable) {
		t.Fatalf("expected ErrBookNotAvailable, got %v", err)
	}
}

func TestDispatcher_Stopped(t *testing.T) {
	d := NewDispatcher(1, newRecordingEngine(), zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()

	deadline := time.After(time.Second)
	for {
		_, err := d.Borrow(context.Background(), ports.BorrowInput{BookID: "b1"})
		if errors.Is(err, ErrStopped) {
			return
		}
		select {
		case <-deadline:
			t.Fatalf("dispatcher did not stop, last error %v", err)
		default:
			time.Sleep(5 * time.Millisecond)
		}
	}
}

func TestDispatcher_ShardIndexStable(t *testing.T) {
	d := NewDispatcher(8, newRecordingEngine(), zerolog.Nop())
	first := d.shardIndex("book-42")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("book-42"); got != first {
			t.Fatalf("shard changed: %d != %d", got, first)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard out of range: %d", first)
	}
}
