package worker

import (
	"context"
	"sort"
	"sync"
)

// Job is a unit of work. Seq is the job's position in submission order;
// Wait returns results sorted by it so output never depends on scheduling.
type Job interface {
	Seq() int
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job.
type Result interface {
	Seq() int
	GetError() error
}

// Pool runs jobs on a fixed number of goroutines.
type Pool struct {
	workers       int
	jobQueue      chan Job
	results       chan Result
	wg            sync.WaitGroup
	collected     []Result
	collectorDone chan struct{}
	ctx           context.Context
	cancelFunc    context.CancelFunc
	closeOnce     sync.Once
}

// NewPool creates a pool bound to ctx. Cancelling ctx stops scheduling.
func NewPool(ctx context.Context, workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)

	return &Pool{
		workers:       workers,
		jobQueue:      make(chan Job, workers*2),
		results:       make(chan Result, workers*2),
		collectorDone: make(chan struct{}),
		ctx:           ctx,
		cancelFunc:    cancel,
	}
}

// Workers returns the number of goroutines the pool runs.
func (p *Pool) Workers() int {
	return p.workers
}

// Start launches the workers and the result collector. Results are drained
// as they arrive so Submit never blocks on an unread result channel.
func (p *Pool) Start() {
	go p.collect()
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) collect() {
	defer close(p.collectorDone)
	for result := range p.results {
		p.collected = append(p.collected, result)
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.ctx.Done():
			return
		case job, ok := <-p.jobQueue:
			if !ok {
				return
			}
			result := job.Execute(p.ctx)
			select {
			case p.results <- result:
			case <-p.ctx.Done():
				return
			}
		}
	}
}

// Submit queues a job. It returns false if the pool was cancelled first.
func (p *Pool) Submit(job Job) bool {
	if p.ctx.Err() != nil {
		return false
	}
	select {
	case <-p.ctx.Done():
		return false
	case p.jobQueue <- job:
		return true
	}
}

// Wait closes the queue, waits for all workers and returns results in Seq order.
// Submit must not be called after Wait.
func (p *Pool) Wait() []Result {
	close(p.jobQueue)

	go func() {
		p.wg.Wait()
		p.closeResults()
	}()

	<-p.collectorDone
	p.cancelFunc()

	results := p.collected
	sort.Slice(results, func(i, j int) bool {
		return results[i].Seq() < results[j].Seq()
	})
	return results
}

// Shutdown cancels outstanding work and waits for workers to exit.
func (p *Pool) Shutdown() {
	p.cancelFunc()
	p.wg.Wait()
	p.closeResults()
}

func (p *Pool) closeResults() {
	p.closeOnce.Do(func() {
		close(p.results)
	})
}
