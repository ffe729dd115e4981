package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// Errors returned when handing work to a pool
var (
	ErrPoolClosed    = errors.New("worker pool is closed")
	ErrPoolSaturated = errors.New("worker pool is saturated")
)

// PoolStrategy selects how worker goroutines are shared between categories.
type PoolStrategy string

const (
	// PoolStrategyDedicated gives every category its own pool so one category
	// cannot starve the other.
	PoolStrategyDedicated PoolStrategy = "dedicated"

	// PoolStrategyShared runs every category on one smaller pool.
	PoolStrategyShared PoolStrategy = "shared"
)

// WorkerPool runs jobs out of band for the executor.
type WorkerPool interface {
	// Submit hands job to a worker serving category without blocking.
	Submit(category Category, job func()) error

	// Stop signals workers to exit and waits for running jobs to return.
	Stop()
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	Strategy PoolStrategy

	// Workers is the per category worker count for the dedicated strategy.
	Workers map[Category]int

	// SharedWorkers is the worker count for the shared strategy.
	// If zero or negative, defaults to 1
	SharedWorkers int

	// Backlog is the number of jobs a pool buffers before Submit reports
	// ErrPoolSaturated. Defaults to twice the worker count.
	Backlog int
}

// NewWorkerPool builds the pool implementation selected by config.Strategy.
func NewWorkerPool(config WorkerPoolConfig, logger *slog.Logger) (WorkerPool, error) {
	switch config.Strategy {
	case PoolStrategyDedicated, "":
		pools := make(map[Category]*goroutinePool, len(Categories))
		for _, c := range Categories {
			pools[c] = newGoroutinePool("bunny-"+string(c), config.Workers[c], config.Backlog, logger)
		}
		return &dedicatedPools{pools: pools}, nil
	case PoolStrategyShared:
		return &sharedPool{
			pool: newGoroutinePool("bunny-shared", config.SharedWorkers, config.Backlog, logger),
		}, nil
	default:
		return nil, fmt.Errorf("unknown pool strategy %q", config.Strategy)
	}
}

type dedicatedPools struct {
	pools map[Category]*goroutinePool
}

func (d *dedicatedPools) Submit(category Category, job func()) error {
	p, ok := d.pools[category]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, category)
	}
	return p.submit(job)
}

func (d *dedicatedPools) Stop() {
	for _, p := range d.pools {
		p.stop()
	}
}

type sharedPool struct {
	pool *goroutinePool
}

func (s *sharedPool) Submit(_ Category, job func()) error {
	return s.pool.submit(job)
}

func (s *sharedPool) Stop() {
	s.pool.stop()
}

// goroutinePool is a fixed set of goroutines reading jobs from a buffered channel.
type goroutinePool struct {
	name        string
	jobs        chan func()
	workerCount int

	// wg tracks active worker goroutines for clean shutdown
	wg sync.WaitGroup

	ctx      context.Context
	cancel   context.CancelFunc
	stopOnce sync.Once
	logger   *slog.Logger
}

func newGoroutinePool(name string, workerCount, backlog int, logger *slog.Logger) *goroutinePool {
	if workerCount <= 0 {
		logger.Warn("invalid worker count specified, using default",
			"pool", name,
			"specified_count", workerCount,
			"default_count", 1)
		workerCount = 1
	}
	if backlog <= 0 {
		backlog = workerCount * 2
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &goroutinePool{
		name:        name,
		jobs:        make(chan func(), backlog),
		workerCount: workerCount,
		ctx:         ctx,
		cancel:      cancel,
		logger:      logger.With("pool", name),
	}

	for i := 0; i < workerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}
	return p
}

func (p *goroutinePool) submit(job func()) error {
	if p.ctx.Err() != nil {
		return ErrPoolClosed
	}
	select {
	case p.jobs <- job:
		return nil
	default:
		return fmt.Errorf("%w: %s backlog %d reached", ErrPoolSaturated, p.name, cap(p.jobs))
	}
}

func (p *goroutinePool) worker(id int) {
	defer p.wg.Done()

	p.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-p.ctx.Done():
			p.logger.Debug("stopping worker", "worker_id", id)
			return
		case job := <-p.jobs:
			p.run(job, id)
		}
	}
}

// run keeps a panicking job from killing the worker goroutine.
func (p *goroutinePool) run(job func(), workerID int) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("panic in worker job",
				"worker_id", workerID,
				"panic", fmt.Sprint(r),
				"stack", string(debug.Stack()))
		}
	}()
	job()
}

func (p *goroutinePool) stop() {
	p.stopOnce.Do(func() {
		p.cancel()
		p.wg.Wait()
	})
}
