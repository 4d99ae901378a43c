package queue

import (
	"context"
	"fmt"
)

// Queue is a worker queue with a fixed amount of workers
type Queue struct {
	ctx     context.Context
	queue   chan job
	workers int
	handler func(ctx context.Context, data interface{}) (interface{}, error)
}

type job struct {
	ctx    context.Context
	data   interface{}
	result chan jobResult
}

type jobResult struct {
	result interface{}
	err    error
}

// New creates a new Queue with the specified amount of workers
func New(ctx context.Context, workers int, handler func(ctx context.Context, data interface{}) (interface{}, error)) *Queue {
	return &Queue{
		ctx:     ctx,
		queue:   make(chan job),
		workers: workers,
		handler: handler,
	}
}

// Run starts the queue workers and blocks until the context is canceled
func (q *Queue) Run() {
	for i := 0; i < q.workers; i++ {
		go q.worker()
	}

	<-q.ctx.Done()
}

func (q *Queue) worker() {
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.queue:
			result, err := q.handler(job.ctx, job.data)
			job.result <- jobResult{
				result: result,
				err:    err,
			}
		}
	}
}

// Process adds a job to the queue, waits for it to process, and returns the result
func (q *Queue) Process(ctx context.Context, data interface{}) (interface{}, error) {
	if q.ctx.Err() != nil {
		return nil, fmt.Errorf("queue has been shutdown")
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Buffered so that a worker never blocks on a caller that has given up
	resultChan := make(chan jobResult, 1)

	select {
	case <-q.ctx.Done():
		return nil, fmt.Errorf("queue has been shutdown")
	case <-ctx.Done():
		return nil, ctx.Err()
	case q.queue <- job{ctx: ctx, data: data, result: resultChan}:
	}

	select {
	case <-q.ctx.Done():
		return nil, fmt.Errorf("queue has been shutdown")
	case <-ctx.Done():
		return nil, ctx.Err()
	case result := <-resultChan:
		if result.err != nil {
			return nil, result.err
		}

		return result.result, nil
	}
}
