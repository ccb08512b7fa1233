package customers

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"customer-svc/internal/utils"
)

// ImportJob is one accepted CSV intake: a batch of pre-validated rows.
type ImportJob struct {
	JobID string
	Rows  []ImportRow
}

// WorkerPool drains import jobs in the background so the intake endpoint can
// acknowledge immediately.
type WorkerPool struct {
	jobs        chan ImportJob
	quit        chan struct{}
	started     bool
	wg          sync.WaitGroup
	numWorkers  int
	processFunc func(ctx context.Context, job ImportJob)
}

func NewWorkerPool(numWorkers int, queueCapacity int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = 1
	}
	if queueCapacity <= 0 {
		queueCapacity = 100
	}
	return &WorkerPool{
		jobs:       make(chan ImportJob, queueCapacity),
		quit:       make(chan struct{}),
		numWorkers: numWorkers,
	}
}

func (wp *WorkerPool) SetProcessFunc(fn func(ctx context.Context, job ImportJob)) {
	wp.processFunc = fn
}

func (wp *WorkerPool) Start() {
	if wp.started {
		return
	}
	wp.started = true
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go func(workerID int) {
			defer wp.wg.Done()
			utils.Zlog.Info("Import worker started", zap.Int("workerId", workerID))
			for {
				select {
				case <-wp.quit:
					utils.Zlog.Info("Import worker stopping", zap.Int("workerId", workerID))
					return
				case job := <-wp.jobs:
					if wp.processFunc != nil {
						wp.processFunc(context.Background(), job)
					}
				}
			}
		}(i + 1)
	}
}

func (wp *WorkerPool) Stop(ctx context.Context) {
	if !wp.started {
		return
	}
	close(wp.quit)
	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()
	select {
	case <-ctx.Done():
		utils.Zlog.Warn("Timeout waiting for import workers to stop")
	case <-done:
		utils.Zlog.Info("All import workers stopped")
	}
}

// Enqueue offers the job to the pool without blocking; false means the queue
// is full or the pool is shutting down.
func (wp *WorkerPool) Enqueue(job ImportJob) bool {
	select {
	case <-wp.quit:
		return false
	default:
	}
	select {
	case wp.jobs <- job:
		return true
	default:
		return false
	}
}
