package mainloop

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"
)

var (
	// ErrStopped is returned for work posted to, or pending on, a stopped loop.
	ErrStopped = errors.New("main loop stopped")
	// ErrQueueFull is returned when the pending batch is at capacity.
	ErrQueueFull = errors.New("main loop queue full")
	// ErrRunning is returned by Run when the loop is already running.
	ErrRunning = errors.New("main loop already running")
	// ErrPanic wraps a panic recovered from posted work.
	ErrPanic = errors.New("panic in posted work")
)

// Config configures a Loop.
type Config struct {
	QueueSize int           // Pending work capacity (default: 1024)
	TickRate  time.Duration // Batch interval; zero runs work as soon as possible
	Logger    *slog.Logger  // Defaults to a discard logger
}

type task struct {
	fn     func()
	seq    uint64
	result chan error
}

// Loop runs posted functions one at a time on the goroutine that calls Run.
type Loop struct {
	cfg Config
	log *slog.Logger

	mu    sync.Mutex
	batch []task
	seq   uint64

	wake     chan struct{}
	stop     chan struct{}
	stopOnce sync.Once

	running atomic.Bool
	stopped atomic.Bool
	ticks   atomic.Uint64
}

// New creates a Loop. It does nothing until Run is called.
func New(cfg Config) *Loop {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		cfg:   cfg,
		log:   cfg.Logger.With("component", "mainloop"),
		batch: make([]task, 0, cfg.QueueSize),
		wake:  make(chan struct{}, 1),
		stop:  make(chan struct{}),
	}
}

// Post queues fn for execution on the loop goroutine. It is safe to call
// from any goroutine, including from posted work.
func (l *Loop) Post(fn func()) error {
	return l.enqueue(fn, nil)
}

// Do runs fn on the loop goroutine and waits for it to return. A panic in
// fn is returned as an error wrapping ErrPanic. Do must not be called from
// posted work: the loop would wait on itself.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	result := make(chan error, 1)
	if err := l.enqueue(fn, result); err != nil {
		return err
	}
	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Loop) enqueue(fn func(), result chan error) error {
	if fn == nil {
		return errors.New("nil function")
	}
	l.mu.Lock()
	if l.stopped.Load() {
		l.mu.Unlock()
		return ErrStopped
	}
	if len(l.batch) >= l.cfg.QueueSize {
		l.mu.Unlock()
		return ErrQueueFull
	}
	l.batch = append(l.batch, task{fn: fn, seq: l.seq, result: result})
	l.seq++
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Run executes posted work until ctx is done or Stop is called. Either way
// the loop is stopped when Run returns: work still pending is dropped,
// waiting Do calls get ErrStopped and later work is rejected.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer l.running.Store(false)
	defer l.abandon()
	defer l.Stop()

	var tick <-chan time.Time
	if l.cfg.TickRate > 0 {
		ticker := time.NewTicker(l.cfg.TickRate)
		defer ticker.Stop()
		tick = ticker.C
	}
	l.log.Debug("main loop started", "tick_rate", l.cfg.TickRate)

	for {
		select {
		case <-ctx.Done():
			l.log.Debug("main loop cancelled")
			return ctx.Err()
		case <-l.stop:
			l.log.Debug("main loop stopped")
			return nil
		case <-tick:
			l.runBatch()
			l.ticks.Inc()
		case <-l.wake:
			if tick == nil {
				l.runBatch()
			}
		}
	}
}

// Stop makes Run return and rejects further work. It does not wait for the
// work in progress to complete.
func (l *Loop) Stop() {
	l.stopOnce.Do(func() {
		// Under mu so no enqueue can slip in after abandon has drained.
		l.mu.Lock()
		l.stopped.Store(true)
		l.mu.Unlock()
		close(l.stop)
	})
}

// Ticks returns the number of tick boundaries processed.
func (l *Loop) Ticks() uint64 {
	return l.ticks.Load()
}

// Pending returns the number of queued functions.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.batch)
}

// runBatch runs work until the queue is empty, including work posted by
// the batch itself. In tick mode only the work present at the tick runs.
func (l *Loop) runBatch() {
	for {
		l.mu.Lock()
		batch := l.batch
		l.batch = make([]task, 0, l.cfg.QueueSize)
		l.mu.Unlock()

		if len(batch) == 0 {
			return
		}
		for _, t := range batch {
			if l.stopped.Load() {
				l.fail(t, ErrStopped)
				continue
			}
			l.exec(t)
		}
		if l.cfg.TickRate > 0 {
			return
		}
	}
}

func (l *Loop) exec(t task) {
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %v", ErrPanic, r)
				l.log.Error("recovered panic in posted work", "seq", t.seq, "panic", r)
			}
		}()
		t.fn()
	}()
	if t.result != nil {
		t.result <- err
	}
}

func (l *Loop) fail(t task, err error) {
	if t.result != nil {
		t.result <- err
	}
}

// abandon fails all work still queued when Run exits.
func (l *Loop) abandon() {
	l.mu.Lock()
	batch := l.batch
	l.batch = make([]task, 0, l.cfg.QueueSize)
	l.mu.Unlock()
	for _, t := range batch {
		l.fail(t, ErrStopped)
	}
	if len(batch) > 0 {
		l.log.Debug("dropped pending work", "count", len(batch))
	}
}
