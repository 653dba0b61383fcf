// Package reactor owns the shared worker pool connections are scheduled
// onto. It generalizes the teacher's unbounded goroutine-per-connection
// loop into an explicit bounded pool: a fixed number of long-lived
// workers pull tasks off a channel, so the number of in-flight
// connection-serving goroutines is capped regardless of accept rate.
package reactor

import (
	"context"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Option configures a Scheduler before Start.
type Option func(*Scheduler)

// WithWorkers overrides the default worker count.
func WithWorkers(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithQueueSize overrides the default task channel buffer size.
func WithQueueSize(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.queueSize = n
		}
	}
}

// WithLogger attaches a structured logger; a nil logger is replaced by a
// no-op one.
func WithLogger(log *zap.Logger) Option {
	return func(s *Scheduler) {
		if log != nil {
			s.log = log
		}
	}
}

const (
	defaultWorkers   = 8
	defaultQueueSize = 256
)

// Scheduler is a bounded worker pool. A worker idle on an empty queue
// blocks on the task channel — the Go runtime scheduler already parks
// that goroutine efficiently, so there is no separate poll-or-sleep
// policy to implement.
type Scheduler struct {
	workers   int
	queueSize int
	log       *zap.Logger

	tasks chan func(context.Context)

	startOnce sync.Once
	stopOnce  sync.Once
	wg        sync.WaitGroup

	active  atomic.Int64
	drained chan struct{}

	started atomic.Bool
}

// New constructs a Scheduler with the given options applied. Call Start
// before Submit.
func New(opts ...Option) *Scheduler {
	s := &Scheduler{
		workers:   defaultWorkers,
		queueSize: defaultQueueSize,
		log:       zap.NewNop(),
		drained:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start spins up the worker goroutines. Idempotent.
func (s *Scheduler) Start() error {
	s.startOnce.Do(func() {
		s.tasks = make(chan func(context.Context), s.queueSize)
		s.started.Store(true)
		for i := 0; i < s.workers; i++ {
			s.wg.Add(1)
			go s.runWorker()
		}
	})
	return nil
}

func (s *Scheduler) runWorker() {
	defer s.wg.Done()
	for task := range s.tasks {
		s.runTask(task)
	}
}

func (s *Scheduler) runTask(task func(context.Context)) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("reactor: recovered panic in scheduled task", zap.Any("panic", r))
		}
	}()
	task(context.Background())
}

// Submit hands a connection-serving closure to a worker. It blocks
// briefly if every worker is busy and the queue is full, but never drops
// work.
func (s *Scheduler) Submit(task func(context.Context)) {
	if !s.started.Load() {
		_ = s.Start()
	}
	s.tasks <- task
}

// AddActiveUser records that one more long-lived user (e.g. an open
// connection) is relying on the scheduler, so Stop can wait for it.
func (s *Scheduler) AddActiveUser() {
	s.active.Add(1)
}

// RemoveActiveUser records that a long-lived user finished.
func (s *Scheduler) RemoveActiveUser() {
	if s.active.Add(-1) == 0 {
		select {
		case s.drained <- struct{}{}:
		default:
		}
	}
}

// Stop closes the task queue and waits for in-flight tasks and active
// users to finish, bounded by ctx. Idempotent.
func (s *Scheduler) Stop(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		if s.tasks != nil {
			close(s.tasks)
		}
		done := make(chan struct{})
		go func() {
			s.wg.Wait()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			err = ctx.Err()
			return
		}

		for s.active.Load() > 0 {
			select {
			case <-s.drained:
			case <-ctx.Done():
				err = ctx.Err()
				return
			}
		}
	})
	return err
}
