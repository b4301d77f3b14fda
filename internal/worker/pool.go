// Package worker renders batches of noise fields in parallel.
package worker

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Renderer generates and writes one field.
type Renderer interface {
	Render(ctx context.Context, task Task) (path string, err error)
}

// Task describes one field of a batch.
type Task struct {
	Name  string
	Seed  int64
	Index int
}

// Result is the outcome of a task.
type Result struct {
	Err     error
	Path    string
	Task    Task
	Elapsed time.Duration
}

// ProgressFunc is called after each task completes.
type ProgressFunc func(completed, total, failed int)

// Config configures the worker pool.
type Config struct {
	Renderer   Renderer
	OnProgress ProgressFunc
	Workers    int
}

// Pool renders fields with a fixed number of workers.
type Pool struct {
	renderer   Renderer
	onProgress ProgressFunc
	workers    int
}

// New creates a new worker pool.
func New(cfg Config) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	return &Pool{
		workers:    workers,
		renderer:   cfg.Renderer,
		onProgress: cfg.OnProgress,
	}
}

// Run executes all tasks and blocks until they finish or ctx is cancelled.
// Results are ordered by Task.Index. Tasks that never started because of
// cancellation are reported with ctx.Err().
func (p *Pool) Run(ctx context.Context, tasks []Task) []Result {
	if len(tasks) == 0 {
		return nil
	}

	taskCh := make(chan Task, len(tasks))
	resultCh := make(chan Result, len(tasks))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p.worker(ctx, taskCh, resultCh)
		}()
	}

	for _, task := range tasks {
		taskCh <- task
	}
	close(taskCh)

	results := make([]Result, 0, len(tasks))
	done := make(chan struct{})

	go func() {
		var completed, failed int
		for result := range resultCh {
			results = append(results, result)

			completed++
			if result.Err != nil {
				failed++
			}
			if p.onProgress != nil {
				p.onProgress(completed, len(tasks), failed)
			}
		}
		close(done)
	}()

	wg.Wait()
	close(resultCh)
	<-done

	sort.Slice(results, func(i, j int) bool { return results[i].Task.Index < results[j].Task.Index })
	return results
}

func (p *Pool) worker(ctx context.Context, tasks <-chan Task, results chan<- Result) {
	for task := range tasks {
		if err := ctx.Err(); err != nil {
			results <- Result{Task: task, Err: err}
			continue
		}

		start := time.Now()
		path, err := p.renderer.Render(ctx, task)
		results <- Result{
			Task:    task,
			Path:    path,
			Err:     err,
			Elapsed: time.Since(start),
		}
	}
}
