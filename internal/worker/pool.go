package worker

import (
	"context"
	"errors"
	"sync"
)

type Job func(ctx context.Context) error

// Pool runs jobs on a fixed number of goroutines and collects their errors.
type Pool struct {
	wg   sync.WaitGroup
	jobs chan Job

	mu   sync.Mutex
	errs []error
}

func NewPool(ctx context.Context, n int) *Pool {
	if n < 1 {
		n = 1
	}
	p := &Pool{jobs: make(chan Job, n*4)}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()
			for job := range p.jobs {
				if ctx.Err() != nil {
					p.fail(ctx.Err())
					continue
				}
				if err := job(ctx); err != nil {
					p.fail(err)
				}
			}
		}()
	}
	return p
}

func (p *Pool) fail(err error) {
	p.mu.Lock()
	p.errs = append(p.errs, err)
	p.mu.Unlock()
}

func (p *Pool) Submit(j Job) { p.jobs <- j }

// Wait stops accepting jobs, waits for the queued ones and returns their joined errors.
// The pool cannot be reused afterwards.
func (p *Pool) Wait() error {
	close(p.jobs)
	p.wg.Wait()
	p.mu.Lock()
	defer p.mu.Unlock()
	return errors.Join(p.errs...)
}
