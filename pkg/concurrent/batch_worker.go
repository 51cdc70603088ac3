package concurrent

import (
	"context"
	"errors"

	"golang.org/x/sync/errgroup"
)

var ErrNotStarted = errors.New("batch worker not started")

type JobFunc[T any] func(ctx context.Context, batch []T) error

// BatchWorker groups items into batches of batchSize and processes the batches on a fixed number of
// background workers. the first job error cancels the rest and is returned by Close.
type BatchWorker[T any] struct {
	workers   int
	batchSize int
	msgC      chan []T
	batch     []T
	jobFunc   JobFunc[T]

	g   *errgroup.Group
	ctx context.Context
}

func NewBatchWorker[T any](workers, batchSize int, jobFunc JobFunc[T]) *BatchWorker[T] {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &BatchWorker[T]{
		workers:   workers,
		batchSize: batchSize,
		msgC:      make(chan []T, workers),
		batch:     make([]T, 0, batchSize),
		jobFunc:   jobFunc,
	}
}

func (bw *BatchWorker[T]) Start(ctx context.Context) {
	bw.g, bw.ctx = errgroup.WithContext(ctx)
	for i := 0; i < bw.workers; i++ {
		bw.g.Go(func() error {
			for batch := range bw.msgC {
				if err := bw.jobFunc(bw.ctx, batch); err != nil {
					// keep draining, senders must not block once the pool is down
					go func() {
						for range bw.msgC {
						}
					}()
					return err
				}
			}
			return nil
		})
	}
}

// Add is not safe for concurrent use, there is exactly one producer.
func (bw *BatchWorker[T]) Add(item T) error {
	if bw.g == nil {
		return ErrNotStarted
	}
	bw.batch = append(bw.batch, item)
	if len(bw.batch) < bw.batchSize {
		return nil
	}
	return bw.send()
}

func (bw *BatchWorker[T]) send() error {
	batch := bw.batch
	bw.batch = make([]T, 0, bw.batchSize)
	select {
	case bw.msgC <- batch:
		return nil
	case <-bw.ctx.Done():
		return bw.ctx.Err()
	}
}

// Close sends the last partial batch and waits for the workers.
func (bw *BatchWorker[T]) Close() error {
	if bw.g == nil {
		return ErrNotStarted
	}
	var sendErr error
	if len(bw.batch) > 0 {
		sendErr = bw.send()
	}
	close(bw.msgC)
	if err := bw.g.Wait(); err != nil {
		return err
	}
	return sendErr
}
