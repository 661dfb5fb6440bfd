package batch

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"jsadvpl/pkg/driver"
	"jsadvpl/pkg/source"
)

// Job is one file to transpile.
type Job struct {
	Source *source.SourceFile
	Target string // output path chosen by the submitter
}

// Result is the outcome of a Job. Output is empty when Error is set.
type Result struct {
	Job      *Job
	Output   string
	Error    error
	WorkerID int
	Duration time.Duration
}

// Stats contains statistics about worker pool performance
type Stats struct {
	TotalJobs     int           // Total jobs submitted
	ActiveJobs    int           // Currently active jobs
	CompletedJobs int           // Successfully transpiled jobs
	FailedJobs    int           // Jobs whose pipeline failed
	AverageTime   time.Duration // Average processing time per job
	TotalTime     time.Duration // Total time spent processing
	WorkerCount   int           // Number of workers
}

// WorkerPool transpiles jobs on a fixed number of goroutines. Results must
// be drained while jobs are submitted; the channel is closed by Shutdown.
type WorkerPool struct {
	// Configuration
	numWorkers int
	jobBuffer  int
	options    driver.Options

	// Channels
	jobQueue   chan *Job
	resultChan chan *Result

	// Control
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// State
	started    int32 // atomic
	stopped    int32 // atomic
	activeJobs int32 // atomic

	// Statistics
	stats      Stats
	statsMutex sync.RWMutex
}

// NewWorkerPool creates a pool of numWorkers workers, one per CPU when
// numWorkers is not positive.
func NewWorkerPool(numWorkers int, options driver.Options) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{
		numWorkers: numWorkers,
		jobBuffer:  numWorkers * 2,
		options:    options,
	}
}

// Start starts the workers. They stop when ctx is done or after Shutdown.
func (wp *WorkerPool) Start(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&wp.started, 0, 1) {
		return fmt.Errorf("worker pool already started")
	}

	wp.ctx, wp.cancel = context.WithCancel(ctx)
	wp.jobQueue = make(chan *Job, wp.jobBuffer)
	wp.resultChan = make(chan *Result, wp.jobBuffer)
	wp.stats = Stats{
		WorkerCount: wp.numWorkers,
	}

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.run(wp.ctx, i)
	}
	return nil
}

// Submit queues a job, blocking while the queue is full.
func (wp *WorkerPool) Submit(job *Job) error {
	if atomic.LoadInt32(&wp.started) == 0 {
		return fmt.Errorf("worker pool not started")
	}
	if atomic.LoadInt32(&wp.stopped) == 1 {
		return fmt.Errorf("worker pool stopped")
	}

	atomic.AddInt32(&wp.activeJobs, 1)
	select {
	case wp.jobQueue <- job:
		wp.statsMutex.Lock()
		wp.stats.TotalJobs++
		wp.statsMutex.Unlock()
		return nil
	case <-wp.ctx.Done():
		atomic.AddInt32(&wp.activeJobs, -1)
		return wp.ctx.Err()
	}
}

// Results returns the channel of job results.
func (wp *WorkerPool) Results() <-chan *Result {
	return wp.resultChan
}

// Shutdown stops accepting jobs and waits for queued ones to finish.
func (wp *WorkerPool) Shutdown(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&wp.stopped, 0, 1) {
		return fmt.Errorf("worker pool already stopped")
	}

	// Close job queue to signal workers to stop
	close(wp.jobQueue)

	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		wp.cancel()
		close(wp.resultChan)
		return nil
	case <-ctx.Done():
		// Timeout - force shutdown
		wp.cancel()
		return ctx.Err()
	}
}

// HasActiveJobs returns true if there are jobs in progress
func (wp *WorkerPool) HasActiveJobs() bool {
	return atomic.LoadInt32(&wp.activeJobs) > 0
}

// GetStats returns current worker pool statistics
func (wp *WorkerPool) GetStats() Stats {
	wp.statsMutex.RLock()
	defer wp.statsMutex.RUnlock()

	stats := wp.stats
	stats.ActiveJobs = int(atomic.LoadInt32(&wp.activeJobs))
	return stats
}

func (wp *WorkerPool) run(ctx context.Context, id int) {
	defer wp.wg.Done()

	for {
		select {
		case job, ok := <-wp.jobQueue:
			if !ok {
				return
			}

			result := wp.processJob(id, job)

			wp.statsMutex.Lock()
			if result.Error == nil {
				wp.stats.CompletedJobs++
			} else {
				wp.stats.FailedJobs++
			}
			wp.stats.TotalTime += result.Duration
			wp.stats.AverageTime = wp.stats.TotalTime / time.Duration(wp.stats.CompletedJobs+wp.stats.FailedJobs)
			wp.statsMutex.Unlock()

			atomic.AddInt32(&wp.activeJobs, -1)

			select {
			case wp.resultChan <- result:
			case <-ctx.Done():
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (wp *WorkerPool) processJob(id int, job *Job) *Result {
	start := time.Now()
	out, err := driver.Run(job.Source.Content, wp.options)
	return &Result{
		Job:      job,
		Output:   out,
		Error:    err,
		WorkerID: id,
		Duration: time.Since(start),
	}
}
