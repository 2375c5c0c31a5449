package usecase

import (
	"context"
	"runtime"
)

// Pool bounds the number of evaluations running at once.
type Pool struct {
	sem chan struct{}
}

// NewPool builds a pool of size n; n <= 0 uses the CPU count.
func NewPool(n int) *Pool {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	return &Pool{sem: make(chan struct{}, n)}
}

// Acquire blocks until a slot is free or the context is done.
func (p *Pool) Acquire(ctx context.Context) error {
	select {
	case p.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot.
func (p *Pool) Release() {
	<-p.sem
}
