// Package worker runs import jobs pulled off a queue on a bounded set of goroutines.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/TamNgne/a-story-of-LLMs-evolution/internal/domain/model"
	"github.com/TamNgne/a-story-of-LLMs-evolution/pkg/logger"
	"github.com/TamNgne/a-story-of-LLMs-evolution/pkg/metrics"
)

const (
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Job is what workers read off the queue.
type Job = model.ImportJob

// Outcome reports what a handler did with one job.
type Outcome struct {
	Inserted int
	Skipped  int
}

// Result is emitted once per job, successful or not.
type Result struct {
	Job      Job
	Outcome  Outcome
	Err      error
	Duration time.Duration
}

// Handler executes a single job.
type Handler interface {
	Handle(ctx context.Context, job Job) (Outcome, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, job Job) (Outcome, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, job Job) (Outcome, error) { return f(ctx, job) }

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan Job
}

// Worker processes jobs until its queue drains or it is told to stop.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the job in flight.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue   Queue
	handler Handler
	name    string
	results chan<- Result

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(queue Queue, handler Handler, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    queue,
		handler:  handler,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = logger.Get().Named("worker")
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			res := w.process(ctx, job)
			if w.results != nil {
				select {
				case w.results <- res:
				case <-ctx.Done():
					return
				case <-w.shutdown:
					return
				}
			}
		}
	}
}

// Shutdown stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} { return w.done }

func (w *InMemoryWorker) process(ctx context.Context, job Job) Result {
	start := time.Now()
	out, err := w.handler.Handle(ctx, job)
	elapsed := time.Since(start)
	metrics.RecordWorkerProcessingLatency(float64(elapsed.Milliseconds()))

	res := Result{Job: job, Outcome: out, Duration: elapsed}
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "import_error")
		metrics.RecordErrorByType("import_error", "high")
		w.logger.Error(ctx, "import job failed",
			logger.String("job_id", job.ID),
			logger.String("collection", job.Collection),
			logger.String("source", job.Source),
			logger.Error(err),
		)
		res.Err = fmt.Errorf("job %s (%s): %w", job.ID, job.Source, err)
		return res
	}

	metrics.RecordJobProcessed()
	w.logger.Debug(ctx, "import job done",
		logger.String("job_id", job.ID),
		logger.String("collection", job.Collection),
		logger.Int("inserted", out.Inserted),
		logger.Int("skipped", out.Skipped),
		logger.Duration("took", elapsed),
	)
	return res
}

// Pool manages multiple workers sharing one queue and one result stream.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	results chan Result

	processed atomic.Int64
	failed    atomic.Int64

	startOnce sync.Once
	wg        sync.WaitGroup

	logger logger.Logger
}

// NewPool creates a pool of workerCount workers. Non-positive counts use
// runtime.NumCPU().
func NewPool(workerCount int, queue Queue, handler Handler, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	p := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   queue,
		results: make(chan Result, workerCount),
	}
	base := &InMemoryWorker{}
	for _, opt := range opts {
		opt(base)
	}
	if base.logger == nil {
		base.logger = logger.Get()
	}
	p.logger = base.logger.Named("worker-pool")

	counted := HandlerFunc(func(ctx context.Context, job Job) (Outcome, error) {
		out, err := handler.Handle(ctx, job)
		if err != nil {
			p.failed.Add(1)
		} else {
			p.processed.Add(1)
		}
		return out, err
	})

	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		w := NewInMemoryWorker(queue, counted, wopts...)
		w.results = p.results
		p.workers[i] = w
	}
	return p
}

// Start launches every worker. The result channel closes once all of them
// have returned.
func (p *Pool) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		metrics.UpdateWorkerActiveCount(len(p.workers))
		for _, w := range p.workers {
			p.wg.Add(1)
			go func(w *InMemoryWorker) {
				defer p.wg.Done()
				w.Run(ctx)
			}(w)
		}
		go func() {
			p.wg.Wait()
			metrics.UpdateWorkerActiveCount(0)
			close(p.results)
		}()
	})
}

// Results streams one Result per handled job.
func (p *Pool) Results() <-chan Result { return p.results }

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Processed returns the number of jobs handled without error.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// Failed returns the number of jobs whose handler returned an error.
func (p *Pool) Failed() int64 { return p.failed.Load() }

// Stop signals every worker and waits briefly for each.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		w.shutdownOnce.Do(func() { close(w.shutdown) })
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}

// Shutdown closes the queue, signals every worker and waits for them or ctx.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		if err := w.Shutdown(shutdownCtx); err != nil {
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	return nil
}
