// Package workers runs background tasks on a bounded goroutine pool.
package workers

import (
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/panjf2000/ants/v2"
)

// Runner executes tasks asynchronously.
type Runner interface {
	Go(task func())
}

// Pool is a Runner backed by an ants pool.
type Pool struct {
	pool *ants.Pool
}

type slogPrintf struct{}

func (slogPrintf) Printf(format string, args ...any) {
	slog.Debug(fmt.Sprintf(format, args...), "component", "workers")
}

// NewPool creates a pool of at most size concurrent tasks.
func NewPool(size int) (*Pool, error) {
	p, err := ants.NewPool(size,
		ants.WithLogger(slogPrintf{}),
		ants.WithPanicHandler(func(v any) {
			slog.Error("task panicked", "panic", v, "stack", string(debug.Stack()))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	return &Pool{pool: p}, nil
}

// Go submits task, blocking while the pool is saturated.
// Tasks submitted after Release are dropped.
func (p *Pool) Go(task func()) {
	if err := p.pool.Submit(task); err != nil {
		slog.Warn("submit task", "error", err)
	}
}

// Running returns the number of busy workers.
func (p *Pool) Running() int { return p.pool.Running() }

// Release stops accepting tasks and lets running ones finish.
func (p *Pool) Release() { p.pool.Release() }
