package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookhaven/library-system/internal/api/metrics"
	"github.com/bookhaven/library-system/internal/core/domain"
	"github.com/bookhaven/library-system/internal/core/ports"
)

const (
	defaultWorkers = 8
	channelBuffer  = 256
)

// ErrStopped is returned for commands submitted after the dispatcher shut down.
var ErrStopped = errors.New("loan dispatcher stopped")

type op string

const (
	opBorrow op = "borrow"
	opReturn op = "return"
)

type result struct {
	book *domain.Book
	err  error
}

type command struct {
	ctx    context.Context
	op     op
	bookID string
	borrow ports.BorrowInput
	ret    ports.ReturnInput
	reply  chan result
}

// Dispatcher routes loan commands to a fixed set of workers using consistent
// hashing on the book id. Commands for the same book run one after another on
// the same worker, commands for different books run in parallel.
//
// Dispatcher implements ports.LoanService, so callers use it in place of the
// engine it wraps and wait for the outcome.
type Dispatcher struct {
	workers []chan command
	engine  ports.LoanService
	log     zerolog.Logger
	done    chan struct{}
}

var _ ports.LoanService = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, engine ports.LoanService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan command, numWorkers),
		engine:  engine,
		log:     log,
		done:    make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan command, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled;
// commands still queued at that point fail with ErrStopped.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(d.done)
	}()
}

func (d *Dispatcher) Borrow(ctx context.Context, in ports.BorrowInput) (*domain.Book, error) {
	return d.submit(ctx, command{op: opBorrow, bookID: in.BookID, borrow: in})
}

func (d *Dispatcher) Return(ctx context.Context, in ports.ReturnInput) (*domain.Book, error) {
	return d.submit(ctx, command{op: opReturn, bookID: in.BookID, ret: in})
}

// submit enqueues cmd on the worker owning its book and waits for the reply.
func (d *Dispatcher) submit(ctx context.Context, cmd command) (*domain.Book, error) {
	cmd.ctx = ctx
	cmd.reply = make(chan result, 1)

	shard := d.shardIndex(cmd.bookID)
	select {
	case d.workers[shard] <- cmd:
		metrics.LoanQueueDepth.WithLabelValues(strconv.Itoa(shard)).Inc()
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-d.done:
		return nil, ErrStopped
	}

	select {
	case res := <-cmd.reply:
		return res.book, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-d.done:
		return nil, ErrStopped
	}
}

// shardIndex maps a book id deterministically to a worker index.
func (d *Dispatcher) shardIndex(bookID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(bookID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan command) {
	depth := metrics.LoanQueueDepth.WithLabelValues(strconv.Itoa(id))
	for {
		select {
		case <-ctx.Done():
			return
		case cmd, ok := <-ch:
			if !ok {
				return
			}
			depth.Dec()
			cmd.reply <- d.process(cmd, id)
		}
	}
}

func (d *Dispatcher) process(cmd command, workerID int) result {
	// The caller gave up while the command was queued.
	if err := cmd.ctx.Err(); err != nil {
		return result{err: err}
	}

	start := time.Now()
	var res result
	switch cmd.op {
	case opBorrow:
		res.book, res.err = d.engine.Borrow(cmd.ctx, cmd.borrow)
	case opReturn:
		res.book, res.err = d.engine.Return(cmd.ctx, cmd.ret)
	}
	metrics.LoanDuration.WithLabelValues(string(cmd.op)).Observe(time.Since(start).Seconds())

	if res.err != nil {
		reason := metrics.Reason(res.err)
		metrics.LoanErrorsTotal.WithLabelValues(string(cmd.op), reason).Inc()
		if reason == "internal" {
			d.log.Error().Err(res.err).
				Str("book_id", cmd.bookID).
				Int("worker_id", workerID).
				Msg("loan command failed")
		}
		return res
	}
	metrics.LoansTotal.WithLabelValues(string(cmd.op)).Inc()
	return res
}
