// Package worker runs background tasks, such as queue pushes requested by
// the UI, on a bounded set of goroutines.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sourcegraph/conc/pool"
)

const defaultBuffer = 64

var (
	// ErrFull is returned when the task buffer is full.
	ErrFull = errors.New("worker pool full")
	// ErrClosed is returned when submitting to a closed pool.
	ErrClosed = errors.New("worker pool closed")
)

// Task is a unit of background work.
type Task func(ctx context.Context)

// Pool runs submitted tasks with at most n running at once.
type Pool struct {
	tasks  chan Task
	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// New starts a pool running at most workers tasks concurrently.
func New(workers int, logger zerolog.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		tasks:  make(chan Task, defaultBuffer),
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
		logger: logger,
	}
	go p.dispatch(workers)
	return p
}

func (p *Pool) dispatch(workers int) {
	defer close(p.done)
	runner := pool.New().WithMaxGoroutines(workers)
	for task := range p.tasks {
		runner.Go(func() { p.run(task) })
	}
	runner.Wait()
}

func (p *Pool) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error().Str("panic", fmt.Sprint(r)).Msg("worker task panicked")
		}
	}()
	task(p.ctx)
}

// Submit queues task without blocking.
func (p *Pool) Submit(task Task) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}
	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrFull
	}
}

// Close stops accepting tasks and waits for queued ones to finish, or for
// ctx to end. Running tasks see their context canceled when ctx ends.
func (p *Pool) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.tasks)
	}
	p.mu.Unlock()

	select {
	case <-p.done:
		p.cancel()
		return nil
	case <-ctx.Done():
		p.cancel()
		return ctx.Err()
	}
}
