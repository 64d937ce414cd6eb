// Package pool provides a fixed-size worker pool executor for runner tasks.
// Unlike the runner's unit-per-task fan-out, a Pool multiplexes submissions
// over a bounded set of workers and a bounded queue, handing back a Promise
// per task. Whole batches can still be executed with the same ordered
// summary contract via Run.
package pool

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/fanoutlabs/fanout/runner"
	"github.com/fanoutlabs/fanout/runner/config"
)

// Sentinel errors for pool operations
var (
	// ErrPoolClosed indicates a submission after Close
	ErrPoolClosed = errors.New("pool is closed")

	// ErrDrainTimeout indicates workers did not finish within the drain deadline
	ErrDrainTimeout = errors.New("pool drain timed out")
)

// Pool executes tasks on a fixed set of workers. The context passed to New
// governs the work functions; submission can additionally be gated by a
// per-call context in Run.
type Pool[T any] struct {
	ctx          context.Context
	queue        chan item[T]
	workers      int
	drainTimeout time.Duration
	logger       *slog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup

	seq       atomic.Int64
	submitted atomic.Int64
	running   atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

type item[T any] struct {
	info runner.TaskInfo
	work runner.TaskFunc[T]
	pr   *Promise[T]
}

// Option is a function that configures a Pool
type Option func(*poolSettings)

type poolSettings struct {
	logger       *slog.Logger
	drainTimeout time.Duration
}

// WithLogger sets a custom logger for the pool
func WithLogger(logger *slog.Logger) Option {
	return func(s *poolSettings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithDrainTimeout bounds how long Close waits for in-flight work
func WithDrainTimeout(d time.Duration) Option {
	return func(s *poolSettings) {
		if d > 0 {
			s.drainTimeout = d
		}
	}
}

// New creates a Pool with the given worker count and queue capacity and
// starts its workers. workers <= 0 defaults to the number of CPUs;
// queueSize <= 0 means hand-off only (submissions block until a worker is
// free).
func New[T any](ctx context.Context, workers, queueSize int, opts ...Option) *Pool[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if queueSize < 0 {
		queueSize = 0
	}

	s := &poolSettings{
		logger:       slog.Default(),
		drainTimeout: config.FromEnv().ShutdownTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	p := &Pool[T]{
		ctx:          ctx,
		queue:        make(chan item[T], queueSize),
		workers:      workers,
		drainTimeout: s.drainTimeout,
		logger:       s.logger,
	}

	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	p.logger.Debug("pool started", "workers", workers, "queue", queueSize)

	return p
}

// Workers returns the number of workers in the pool
func (p *Pool[T]) Workers() int {
	return p.workers
}

// Submit queues a task and returns its Promise. It blocks while the queue
// is full and fails with ErrPoolClosed after Close, or with the pool
// context's error if that is cancelled first.
func (p *Pool[T]) Submit(t runner.Task[T]) (*Promise[T], error) {
	if t.Work == nil {
		return nil, runner.ErrNilWork
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrPoolClosed
	}

	it := p.newItem(t, int(p.seq.Add(1)-1))
	select {
	case p.queue <- it:
		p.submitted.Add(1)
		return it.pr, nil
	case <-p.ctx.Done():
		return nil, p.ctx.Err()
	}
}

// TrySubmit queues a task without blocking. It reports false when the
// queue is full or the pool is closed.
func (p *Pool[T]) TrySubmit(t runner.Task[T]) (*Promise[T], bool) {
	if t.Work == nil {
		return nil, false
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, false
	}

	it := p.newItem(t, int(p.seq.Add(1)-1))
	select {
	case p.queue <- it:
		p.submitted.Add(1)
		return it.pr, true
	default:
		return nil, false
	}
}

// Run executes a whole batch through the pool and assembles the same
// submission-ordered Summary as runner.Run: one terminal result per task,
// failures isolated to their slots. The ctx gates admission of not-yet-
// queued tasks; the work itself runs under the pool's context.
func (p *Pool[T]) Run(ctx context.Context, tasks []runner.Task[T]) (*runner.Summary[T], error) {
	if ctx == nil {
		ctx = context.Background()
	}
	for i, t := range tasks {
		if t.Work == nil {
			return nil, fmt.Errorf("%w (index %d)", runner.ErrNilWork, i)
		}
	}

	runID := uuid.NewString()
	started := time.Now()
	results := make([]runner.Result[T], len(tasks))
	promises := make([]*Promise[T], len(tasks))

	for i := range tasks {
		info := runner.TaskInfo{ID: tasks[i].ID, Name: tasks[i].Name, Index: i}
		if info.ID == "" {
			info.ID = fmt.Sprintf("task-%d", i)
		}

		pr, err := p.submit(ctx, info, tasks[i].Work)
		if err != nil {
			results[i] = runner.Result[T]{
				TaskID: info.ID,
				Name:   info.Name,
				Index:  i,
				State:  runner.StateFailed,
				Err:    runner.NewAdmissionError(info.ID, i, err),
			}
			p.failed.Add(1)
			continue
		}
		promises[i] = pr
	}

	// Single join point for the batch.
	for i, pr := range promises {
		if pr == nil {
			continue
		}
		results[i] = pr.Wait()
	}

	return runner.NewSummary(runID, results, started, time.Since(started)), nil
}

// submit queues one task under an explicit identity, gated by ctx.
func (p *Pool[T]) submit(ctx context.Context, info runner.TaskInfo, work runner.TaskFunc[T]) (*Promise[T], error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return nil, ErrPoolClosed
	}

	it := item[T]{info: info, work: work, pr: newPromise[T]()}
	select {
	case p.queue <- it:
		p.submitted.Add(1)
		return it.pr, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-p.ctx.Done():
		return nil, p.ctx.Err()
	}
}

func (p *Pool[T]) newItem(t runner.Task[T], seq int) item[T] {
	info := runner.TaskInfo{ID: t.ID, Name: t.Name, Index: seq}
	if info.ID == "" {
		info.ID = fmt.Sprintf("task-%d", seq)
	}
	return item[T]{info: info, work: t.Work, pr: newPromise[T]()}
}

// Stats returns a snapshot of the pool's cumulative task counters
func (p *Pool[T]) Stats() runner.Stats {
	return runner.Stats{
		Submitted: p.submitted.Load(),
		Running:   p.running.Load(),
		Completed: p.completed.Load(),
		Failed:    p.failed.Load(),
	}
}

// Close stops intake, waits for queued and in-flight work to finish, then
// joins the workers. It is idempotent; a second call returns nil
// immediately. Close fails with ErrDrainTimeout if the drain exceeds the
// configured deadline, leaving workers to finish in the background.
func (p *Pool[T]) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.queue)
	p.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		p.logger.Debug("pool drained", "completed", p.completed.Load(), "failed", p.failed.Load())
		return nil
	case <-time.After(p.drainTimeout):
		return fmt.Errorf("%w after %s", ErrDrainTimeout, p.drainTimeout)
	}
}

// worker consumes the queue until intake stops and the queue is empty.
func (p *Pool[T]) worker(id int) {
	defer p.wg.Done()
	for it := range p.queue {
		p.execute(it)
	}
	p.logger.Debug("worker stopped", "worker", id)
}

// execute runs one item and settles its promise exactly once.
func (p *Pool[T]) execute(it item[T]) {
	r := runner.Result[T]{
		TaskID:  it.info.ID,
		Name:    it.info.Name,
		Index:   it.info.Index,
		State:   runner.StateRunning,
		Started: time.Now(),
	}
	p.running.Add(1)

	value, err := p.call(it.work)
	r.Duration = time.Since(r.Started)
	p.running.Add(-1)

	if err != nil {
		r.State = runner.StateFailed
		r.Err = runner.NewTaskError(it.info.ID, it.info.Index, err)
		p.failed.Add(1)
	} else {
		r.State = runner.StateCompleted
		r.Value = value
		p.completed.Add(1)
	}

	it.pr.settle(r)
}

// call invokes the work under the pool context, converting a panic into an
// error that carries the recovered value and stack.
func (p *Pool[T]) call(work runner.TaskFunc[T]) (value T, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = &runner.PanicError{Value: rec, Stack: debug.Stack()}
		}
	}()
	return work(p.ctx)
}
