// ABOUTME: Single-owner event loop that runs every panel callback on one goroutine
// ABOUTME: Network work runs elsewhere and posts its completion back through Post

package panel

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Loop serialises panel callbacks. All controller state is touched only from
// functions running on the loop.
type Loop struct {
	ctx    context.Context
	cancel context.CancelFunc
	logger *slog.Logger

	mu     sync.Mutex
	queue  []func()
	wake   chan struct{}
	closed bool
}

// NewLoop creates a loop bound to ctx. Cancelling ctx stops Run and aborts any
// in-flight work started with Go.
func NewLoop(ctx context.Context, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(ctx)
	return &Loop{
		ctx:    ctx,
		cancel: cancel,
		logger: logger.With("component", "loop"),
		wake:   make(chan struct{}, 1),
	}
}

// Context returns the loop's context.
func (l *Loop) Context() context.Context {
	return l.ctx
}

// Post queues fn to run on the loop. It never blocks and reports false once
// the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return false
	}
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// Run executes posted callbacks until the loop's context is cancelled.
func (l *Loop) Run() error {
	for {
		select {
		case <-l.ctx.Done():
			l.mu.Lock()
			l.closed = true
			l.queue = nil
			l.mu.Unlock()
			return l.ctx.Err()
		case <-l.wake:
		}

		for {
			l.mu.Lock()
			if len(l.queue) == 0 {
				l.mu.Unlock()
				break
			}
			batch := l.queue
			l.queue = nil
			l.mu.Unlock()

			for _, fn := range batch {
				if l.ctx.Err() != nil {
					break
				}
				l.run(fn)
			}
		}
	}
}

// run invokes fn, keeping a panicking callback from killing the loop.
func (l *Loop) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("callback panicked", "panic", r)
		}
	}()
	fn()
}

// Stop cancels the loop's context.
func (l *Loop) Stop() {
	l.cancel()
}

// After posts fn to the loop once d has elapsed. The returned function cancels
// the timer if it has not fired yet.
func (l *Loop) After(d time.Duration, fn func()) (stop func()) {
	t := time.AfterFunc(d, func() {
		l.Post(fn)
	})
	return func() { t.Stop() }
}

// Go runs work on its own goroutine and posts done with the result back to the
// loop. done is not called if the loop has stopped.
func Go[T any](l *Loop, work func(ctx context.Context) (T, error), done func(T, error)) {
	go func() {
		v, err := work(l.ctx)
		l.Post(func() { done(v, err) })
	}()
}
