package async

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/joseph-ayodele/catalog-specs/internal/core"
	"github.com/joseph-ayodele/catalog-specs/internal/entity"
)

var (
	ErrQueueClosed = errors.New("queue is shutting down")
	ErrQueueFull   = errors.New("queue is full")
)

// ProcessorQueue feeds jobs to the processor from a single worker, so the OCR
// engine is never used by two items at once. Jobs for an item that is already
// waiting are dropped.
type ProcessorQueue struct {
	proc    *core.Processor
	rec     core.Recognizer
	run     *entity.Run
	logger  *slog.Logger
	timeout time.Duration
	onFatal func(error)

	ch     chan Job
	wg     sync.WaitGroup
	once   sync.Once
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	closed  bool
	pending map[string]struct{}
}

type Option func(*ProcessorQueue)

func WithQueueSize(n int) Option {
	return func(q *ProcessorQueue) {
		if n > 0 {
			q.ch = make(chan Job, n)
		}
	}
}

func WithProcessTimeout(d time.Duration) Option {
	return func(q *ProcessorQueue) {
		if d > 0 {
			q.timeout = d
		}
	}
}

// WithFatalHandler is called when the processor reports a batch-stopping error.
// The queue stops accepting work afterwards.
func WithFatalHandler(fn func(error)) Option {
	return func(q *ProcessorQueue) {
		q.onFatal = fn
	}
}

// NewProcessorQueue starts the worker. Item outcomes are tallied into run.
func NewProcessorQueue(proc *core.Processor, rec core.Recognizer, run *entity.Run, logger *slog.Logger, opts ...Option) *ProcessorQueue {
	if logger == nil {
		logger = slog.Default()
	}
	q := &ProcessorQueue{
		proc:    proc,
		rec:     rec,
		run:     run,
		logger:  logger,
		timeout: 3 * time.Minute,
		ch:      make(chan Job, 256),
		pending: make(map[string]struct{}),
	}
	for _, o := range opts {
		o(q)
	}
	q.ctx, q.cancel = context.WithCancel(context.Background())
	q.start()
	return q
}

func (q *ProcessorQueue) start() {
	q.once.Do(func() {
		ch := q.ch
		q.wg.Add(1)
		go func() {
			defer q.wg.Done()
			q.logger.Info("queue.worker.started")
			for job := range ch {
				q.handle(job)
			}
			q.logger.Info("queue.worker.stopped")
		}()
	})
}

func (q *ProcessorQueue) handle(job Job) {
	q.mu.Lock()
	delete(q.pending, job.Item.SpecsPath)
	q.mu.Unlock()

	if q.ctx.Err() != nil {
		return
	}
	ctx, cancel := context.WithTimeout(q.ctx, q.timeout)
	defer cancel()

	res, err := q.proc.ProcessItem(ctx, q.rec, job.Item, job.Force)
	if err != nil {
		q.logger.Error("queue.job.fatal", "item", job.Item.Label(), "error", err)
		q.mu.Lock()
		q.closed = true
		q.mu.Unlock()
		q.cancel()
		if q.onFatal != nil {
			q.onFatal(err)
		}
		return
	}
	q.proc.Record(ctx, q.run, res)
	q.logger.Info("queue.job.done",
		"item", job.Item.Label(),
		"status", res.Status,
		"waited_ms", time.Since(job.SubmittedAt).Milliseconds(),
	)
}

func (q *ProcessorQueue) Enqueue(ctx context.Context, job Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		q.logger.Warn("cannot enqueue: queue is shutting down", "item", job.Item.Label())
		return ErrQueueClosed
	}
	if _, dup := q.pending[job.Item.SpecsPath]; dup {
		q.logger.Debug("queue.job.duplicate", "item", job.Item.Label())
		return nil
	}
	if job.SubmittedAt.IsZero() {
		job.SubmittedAt = time.Now()
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case q.ch <- job:
	default:
		// the worker takes mu too, so a blocking send here could deadlock
		q.logger.Warn("queue full, dropping job", "item", job.Item.Label())
		return ErrQueueFull
	}
	q.pending[job.Item.SpecsPath] = struct{}{}
	q.logger.Info("queue.job.enqueued", "item", job.Item.Label(), "force", job.Force)
	return nil
}

// Shutdown stops intake and waits for queued jobs to finish. If ctx ends first
// the in-flight job is cancelled.
func (q *ProcessorQueue) Shutdown(ctx context.Context) {
	q.mu.Lock()
	if q.ch == nil {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.ch)
	q.ch = nil
	q.mu.Unlock()

	done := make(chan struct{})
	go func() { defer close(done); q.wg.Wait() }()

	select {
	case <-ctx.Done():
		q.cancel()
		<-done
		q.logger.Warn("shutdown interrupted by context")
	case <-done:
		q.cancel()
		q.logger.Info("queue drained, shutdown complete")
	}
}
