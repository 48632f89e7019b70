package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Type names a kind of background work.
type Type string

const (
	// TypeReminder speaks a stored reminder when it falls due.
	TypeReminder Type = "reminder"
	// TypeCacheCleanup prunes aged synthesized audio files.
	TypeCacheCleanup Type = "cache_cleanup"
)

// Status is the task lifecycle state.
type Status string

const (
	StatusPending  Status = "pending"
	StatusRunning  Status = "running"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Executor runs one task type.
type Executor func(t *Task) error

type registry struct {
	mu        sync.RWMutex
	executors map[Type]Executor
}

var executors = &registry{executors: make(map[Type]Executor)}

// RegisterExecutor binds an executor to a task type.
func RegisterExecutor(taskType Type, executor Executor) {
	executors.mu.Lock()
	defer executors.mu.Unlock()
	executors.executors[taskType] = executor
}

func executorFor(taskType Type) (Executor, bool) {
	executors.mu.RLock()
	defer executors.mu.RUnlock()
	executor, ok := executors.executors[taskType]
	return executor, ok
}

// Callback receives the task outcome.
type Callback interface {
	OnComplete(result interface{})
	OnError(err error)
}

// Task is one unit of background work, run immediately or at its
// scheduled time.
type Task struct {
	ID            string
	Type          Type
	Status        Status
	Params        interface{}
	Result        interface{}
	Error         error
	ScheduledTime *time.Time
	Callback      Callback
	CreatedAt     time.Time
	Context       context.Context
}

// New creates a pending task.
func New(ctx context.Context, taskType Type, params interface{}) *Task {
	return &Task{
		ID:        uuid.New().String(),
		Type:      taskType,
		Status:    StatusPending,
		Params:    params,
		CreatedAt: time.Now(),
		Context:   ctx,
	}
}

// Execute runs the task through its registered executor. Panics become a
// failed status, never a crashed worker.
func (t *Task) Execute() {
	defer func() {
		if r := recover(); r != nil {
			t.Status = StatusFailed
			t.Error = fmt.Errorf("task panicked: %v", r)
			if t.Callback != nil {
				t.Callback.OnError(t.Error)
			}
		}
	}()

	select {
	case <-t.Context.Done():
		t.Status = StatusFailed
		t.Error = t.Context.Err()
		return
	default:
	}

	t.Status = StatusRunning

	executor, ok := executorFor(t.Type)
	if !ok {
		t.Error = fmt.Errorf("no executor registered for task type %s", t.Type)
	} else {
		t.Error = executor(t)
	}

	if t.Error != nil {
		t.Status = StatusFailed
		if t.Callback != nil {
			t.Callback.OnError(t.Error)
		}
		return
	}
	t.Status = StatusComplete
	if t.Callback != nil {
		t.Callback.OnComplete(t.Result)
	}
}
