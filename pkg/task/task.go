// Package task runs bounded groups of concurrent work, used for batch
// preloading and deploy uploads.
package task

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds a pool when no limit is given.
const DefaultConcurrency = 8

// Pool runs functions concurrently with a concurrency bound. The zero
// value is not usable; create pools with NewPool.
type Pool struct {
	group *errgroup.Group
	ctx   context.Context
}

// NewPool creates a pool bound to ctx. At most limit functions run at
// once; limit <= 0 selects DefaultConcurrency. The pool's context is
// canceled when any function fails.
func NewPool(ctx context.Context, limit int) *Pool {
	if limit <= 0 {
		limit = DefaultConcurrency
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	return &Pool{group: g, ctx: gctx}
}

// Go submits fn to the pool, blocking while the pool is at its limit.
// fn receives the pool's context, which is canceled once any submitted
// function returns an error.
func (p *Pool) Go(fn func(ctx context.Context) error) {
	p.group.Go(func() error {
		if err := p.ctx.Err(); err != nil {
			return err
		}
		return fn(p.ctx)
	})
}

// Wait blocks until all submitted functions finish and returns the
// first error.
func (p *Pool) Wait() error {
	return p.group.Wait()
}

// ForEach runs fn over items with bounded concurrency and returns the
// first error. Remaining items still drain, but their fn sees a
// canceled context.
func ForEach[T any](ctx context.Context, limit int, items []T, fn func(ctx context.Context, item T) error) error {
	p := NewPool(ctx, limit)
	for _, item := range items {
		item := item
		p.Go(func(ctx context.Context) error {
			return fn(ctx, item)
		})
	}
	return p.Wait()
}
