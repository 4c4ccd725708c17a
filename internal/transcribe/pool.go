package transcribe

import (
	"context"
	"errors"
	"log"
	"sync"
)

// ErrPoolClosed is returned by Submit after Close.
var ErrPoolClosed = errors.New("transcription pool closed")

// Pool is a process-wide bounded pool of transcription workers shared across
// sessions. Excess work queues rather than spawning unbounded workers; when the
// queue is full Submit blocks until a slot opens or the caller's context ends.
type Pool struct {
	jobs   chan func(context.Context)
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewPool starts workers goroutines draining a queue of depth queueDepth.
func NewPool(workers, queueDepth int) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueDepth < 1 {
		queueDepth = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool{
		jobs:   make(chan func(context.Context), queueDepth),
		ctx:    ctx,
		cancel: cancel,
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	return p
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()
	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("transcribe worker %d: recovered from panic: %v", id, r)
					}
				}()
				job(p.ctx)
			}()
		}
	}
}

// Submit enqueues a transcription job, applying backpressure when the queue is
// saturated.
func (p *Pool) Submit(ctx context.Context, job func(context.Context)) error {
	select {
	case <-p.ctx.Done():
		return ErrPoolClosed
	default:
	}
	select {
	case p.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-p.ctx.Done():
		return ErrPoolClosed
	}
}

// Close stops the workers. Queued jobs that have not started are dropped;
// running jobs observe the cancelled context.
func (p *Pool) Close() {
	p.cancel()
	p.wg.Wait()
}
