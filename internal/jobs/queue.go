// Package jobs runs the asynchronous side-channel: a generic enqueue/poll
// task queue backed by a worker pool, plus the cron-driven mail reports.
// The HTTP path only enqueues and polls, it never blocks on completion.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/admarket/admarket/internal/metrics"
)

// Task states reported by Status.
const (
	StatePending = "pending"
	StateDone    = "done"
	StateFailed  = "failed"
)

// Handler executes one task kind. The returned string is the task result
// (for the CSV export, the file path).
type Handler func(ctx context.Context, payload []byte) (string, error)

// TaskStatus is the poll result for a task handle.
type TaskStatus struct {
	State  string `json:"state"`
	Result string `json:"result,omitempty"`
}

type task struct {
	id      string
	kind    string
	payload []byte
}

// Queue is an in-process task queue with a fixed worker pool. Failures
// are logged and recorded, never retried.
type Queue struct {
	handlers map[string]Handler
	tasks    chan task
	statuses sync.Map // task id -> TaskStatus
	logger   *zap.Logger
	wg       sync.WaitGroup
	cancel   context.CancelFunc
}

// NewQueue creates a queue with the given buffer size.
func NewQueue(buffer int, logger *zap.Logger) *Queue {
	return &Queue{
		handlers: make(map[string]Handler),
		tasks:    make(chan task, buffer),
		logger:   logger,
	}
}

// Register binds a handler to a task kind. Must be called before Start.
func (q *Queue) Register(kind string, handler Handler) {
	q.handlers[kind] = handler
}

// Start launches the worker pool.
func (q *Queue) Start(workers int) {
	ctx, cancel := context.WithCancel(context.Background())
	q.cancel = cancel
	for i := 0; i < workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx)
	}
}

// Stop drains the workers and waits for in-flight tasks.
func (q *Queue) Stop() {
	if q.cancel != nil {
		q.cancel()
	}
	q.wg.Wait()
}

// Enqueue schedules a task and returns its handle immediately.
func (q *Queue) Enqueue(kind string, payload any) (string, error) {
	if _, ok := q.handlers[kind]; !ok {
		return "", fmt.Errorf("no handler registered for task kind %q", kind)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode task payload: %w", err)
	}

	id := uuid.NewString()
	q.statuses.Store(id, TaskStatus{State: StatePending})
	select {
	case q.tasks <- task{id: id, kind: kind, payload: raw}:
		return id, nil
	default:
		q.statuses.Delete(id)
		return "", fmt.Errorf("task queue is full")
	}
}

// Status reports the state of a task handle.
func (q *Queue) Status(id string) (TaskStatus, bool) {
	value, ok := q.statuses.Load(id)
	if !ok {
		return TaskStatus{}, false
	}
	return value.(TaskStatus), true
}

func (q *Queue) worker(ctx context.Context) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case t := <-q.tasks:
			q.run(ctx, t)
		}
	}
}

func (q *Queue) run(ctx context.Context, t task) {
	start := time.Now()
	result, err := q.handlers[t.kind](ctx, t.payload)
	if err != nil {
		q.logger.Error("task failed",
			zap.String("kind", t.kind),
			zap.String("task_id", t.id),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		q.statuses.Store(t.id, TaskStatus{State: StateFailed})
		metrics.RecordJobRun(t.kind, "failure")
		return
	}
	q.logger.Info("task finished",
		zap.String("kind", t.kind),
		zap.String("task_id", t.id),
		zap.Duration("elapsed", time.Since(start)))
	q.statuses.Store(t.id, TaskStatus{State: StateDone, Result: result})
	metrics.RecordJobRun(t.kind, "success")
}
