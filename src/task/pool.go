package task

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// ResourceConfig sizes the worker pool.
type ResourceConfig struct {
	MaxWorkers int
}

// taskTimeout caps one task execution.
const taskTimeout = 5 * time.Minute

// WorkerPool runs tasks on a fixed set of workers.
type WorkerPool struct {
	config      ResourceConfig
	workers     []*worker
	taskQueue   chan *Task
	stopChan    chan struct{}
	idleWorkers chan *worker
	mu          sync.RWMutex
}

type worker struct {
	id       string
	taskChan chan *Task
	stopChan chan struct{}
	pool     *WorkerPool
}

// NewWorkerPool creates the pool with idle workers ready.
func NewWorkerPool(config ResourceConfig) *WorkerPool {
	if config.MaxWorkers <= 0 {
		config.MaxWorkers = 4
	}

	wp := &WorkerPool{
		config:      config,
		taskQueue:   make(chan *Task, config.MaxWorkers*2),
		stopChan:    make(chan struct{}),
		idleWorkers: make(chan *worker, config.MaxWorkers),
	}

	wp.workers = make([]*worker, config.MaxWorkers)
	for i := 0; i < config.MaxWorkers; i++ {
		w := &worker{
			id:       fmt.Sprintf("worker-%d", i),
			taskChan: make(chan *Task, 1),
			stopChan: make(chan struct{}),
			pool:     wp,
		}
		wp.workers[i] = w
		wp.idleWorkers <- w
	}
	return wp
}

// Start launches the workers and the distributor.
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	for _, w := range wp.workers {
		go w.run()
	}
	go wp.distribute()
}

// Stop halts the distributor and every worker.
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	defer wp.mu.Unlock()

	close(wp.stopChan)
	for _, w := range wp.workers {
		close(w.stopChan)
	}
}

// Submit queues a task. A full queue is an error rather than a block so
// callers on the hot path never stall.
func (wp *WorkerPool) Submit(t *Task) error {
	if _, ok := executorFor(t.Type); !ok {
		return fmt.Errorf("no executor registered for task type %s", t.Type)
	}

	select {
	case wp.taskQueue <- t:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (wp *WorkerPool) distribute() {
	for {
		select {
		case <-wp.stopChan:
			return
		case t := <-wp.taskQueue:
			wp.assign(t)
		}
	}
}

func (wp *WorkerPool) assign(t *Task) {
	select {
	case w := <-wp.idleWorkers:
		w.taskChan <- t
	case <-time.After(10 * time.Second):
		t.Status = StatusFailed
		t.Error = fmt.Errorf("no available workers within timeout")
		if t.Callback != nil {
			t.Callback.OnError(t.Error)
		}
	}
}

func (w *worker) run() {
	for {
		select {
		case <-w.stopChan:
			return
		case t := <-w.taskChan:
			w.execute(t)
		}
	}
}

func (w *worker) execute(t *Task) {
	defer func() {
		select {
		case w.pool.idleWorkers <- w:
		default:
		}
	}()

	ctx, cancel := context.WithTimeout(t.Context, taskTimeout)
	defer cancel()
	t.Context = ctx

	done := make(chan struct{})
	go func() {
		defer close(done)
		t.Execute()
	}()

	select {
	case <-done:
	case <-ctx.Done():
		t.Status = StatusFailed
		t.Error = ctx.Err()
		if t.Callback != nil {
			t.Callback.OnError(t.Error)
		}
	}
}
