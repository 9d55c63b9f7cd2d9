// Package group runs a set of goroutines that share a lifetime.
package group

import (
	"context"
	"sync"
)

// A G runs goroutines from a common context. The first goroutine to return
// cancels the context, asking the others to stop.
type G struct {
	ctx    context.Context
	cancel context.CancelFunc
	done   sync.WaitGroup

	errOnce sync.Once
	err     error
}

// New returns a new group whose context is derived from ctx.
func New(ctx context.Context) *G {
	ctx, cancel := context.WithCancel(ctx)
	return &G{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Go runs fn in a new goroutine. fn should return when its context is
// canceled.
func (g *G) Go(fn func(context.Context) error) {
	g.done.Add(1)
	go func() {
		defer g.done.Done()
		defer g.cancel()
		if err := fn(g.ctx); err != nil {
			g.errOnce.Do(func() { g.err = err })
		}
	}()
}

// Wait waits for every goroutine in the group to return, then returns the
// first error any of them returned.
func (g *G) Wait() error {
	g.done.Wait()
	g.cancel()
	g.errOnce.Do(func() {})
	return g.err
}
