package worker

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"
)

// mockRenderer simulates field rendering for testing
type mockRenderer struct {
	failSeeds map[int64]bool
	delay     time.Duration
	callCount atomic.Int32
}

func (m *mockRenderer) Render(ctx context.Context, task Task) (string, error) {
	m.callCount.Add(1)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(m.delay):
	}

	if m.failSeeds != nil && m.failSeeds[task.Seed] {
		return "", errors.New("simulated failure")
	}

	return "/tmp/" + task.Name + ".png", nil
}

func makeTasks(n int) []Task {
	tasks := make([]Task, n)
	for i := range tasks {
		tasks[i] = Task{Name: fmt.Sprintf("field_%04d", i), Seed: int64(1000 + i), Index: i}
	}
	return tasks
}

func TestPool_BasicExecution(t *testing.T) {
	r := &mockRenderer{delay: 10 * time.Millisecond}

	pool := New(Config{
		Workers:  2,
		Renderer: r,
	})

	tasks := makeTasks(3)
	results := pool.Run(context.Background(), tasks)

	if len(results) != len(tasks) {
		t.Fatalf("Expected %d results, got %d", len(tasks), len(results))
	}

	for i, res := range results {
		if res.Err != nil {
			t.Errorf("Unexpected error for %s: %v", res.Task.Name, res.Err)
		}
		if res.Task.Index != i {
			t.Errorf("Expected results ordered by index, got %d at position %d", res.Task.Index, i)
		}
		if res.Path != "/tmp/"+res.Task.Name+".png" {
			t.Errorf("Unexpected path %s", res.Path)
		}
	}

	if r.callCount.Load() != int32(len(tasks)) {
		t.Errorf("Expected %d render calls, got %d", len(tasks), r.callCount.Load())
	}
}

func TestPool_Parallelism(t *testing.T) {
	r := &mockRenderer{delay: 50 * time.Millisecond}

	pool := New(Config{
		Workers:  4,
		Renderer: r,
	})

	tasks := makeTasks(8)

	start := time.Now()
	results := pool.Run(context.Background(), tasks)
	elapsed := time.Since(start)

	// 8 tasks at 50ms on 4 workers is two rounds.
	maxExpected := 200 * time.Millisecond
	if elapsed > maxExpected {
		t.Errorf("Expected parallel execution in ~100ms, took %v", elapsed)
	}

	if len(results) != len(tasks) {
		t.Errorf("Expected %d results, got %d", len(tasks), len(results))
	}
}

func TestPool_ErrorHandling(t *testing.T) {
	r := &mockRenderer{
		delay:     10 * time.Millisecond,
		failSeeds: map[int64]bool{1001: true},
	}

	pool := New(Config{
		Workers:  2,
		Renderer: r,
	})

	results := pool.Run(context.Background(), makeTasks(3))

	var successCount, failCount int
	for _, res := range results {
		if res.Err != nil {
			failCount++
			if res.Task.Seed != 1001 {
				t.Errorf("Unexpected failure for %s", res.Task.Name)
			}
		} else {
			successCount++
		}
	}

	if successCount != 2 {
		t.Errorf("Expected 2 successes, got %d", successCount)
	}
	if failCount != 1 {
		t.Errorf("Expected 1 failure, got %d", failCount)
	}
}

func TestPool_Cancellation(t *testing.T) {
	r := &mockRenderer{delay: 100 * time.Millisecond}

	pool := New(Config{
		Workers:  2,
		Renderer: r,
	})

	tasks := makeTasks(10)
	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	results := pool.Run(ctx, tasks)
	elapsed := time.Since(start)

	if elapsed > 300*time.Millisecond {
		t.Errorf("Expected early cancellation, took %v", elapsed)
	}
	if len(results) != len(tasks) {
		t.Errorf("Expected a result for every task, got %d", len(results))
	}

	var cancelledCount int
	for _, res := range results {
		if errors.Is(res.Err, context.Canceled) {
			cancelledCount++
		}
	}
	if cancelledCount == 0 {
		t.Error("Expected some tasks to report cancellation")
	}
}

func TestPool_ProgressCallback(t *testing.T) {
	r := &mockRenderer{delay: 10 * time.Millisecond}

	var progressCalls atomic.Int32
	var lastCompleted, lastTotal int

	pool := New(Config{
		Workers:  2,
		Renderer: r,
		OnProgress: func(completed, total, failed int) {
			progressCalls.Add(1)
			lastCompleted = completed
			lastTotal = total
		},
	})

	tasks := makeTasks(3)
	pool.Run(context.Background(), tasks)

	if progressCalls.Load() != int32(len(tasks)) {
		t.Errorf("Expected %d progress callbacks, got %d", len(tasks), progressCalls.Load())
	}
	if lastCompleted != len(tasks) {
		t.Errorf("Expected lastCompleted=%d, got %d", len(tasks), lastCompleted)
	}
	if lastTotal != len(tasks) {
		t.Errorf("Expected lastTotal=%d, got %d", len(tasks), lastTotal)
	}
}

func TestPool_EmptyTasks(t *testing.T) {
	r := &mockRenderer{}

	pool := New(Config{
		Workers:  2,
		Renderer: r,
	})

	results := pool.Run(context.Background(), nil)

	if len(results) != 0 {
		t.Errorf("Expected 0 results for empty tasks, got %d", len(results))
	}
	if r.callCount.Load() != 0 {
		t.Errorf("Expected 0 render calls for empty tasks, got %d", r.callCount.Load())
	}
}
