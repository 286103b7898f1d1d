// Package queue backs the scheduler's retry-solve, prune-store, and
// health-check sweeps: a priority queue (MemoryQueue) plus a worker pool
// that dequeues and runs each job against a registered handler.
package queue

import (
	"fmt"
	"time"
)

// Manager coordinates queue operations and history tracking for the
// scheduler's three sweep job types.
type Manager struct {
	queue   *MemoryQueue
	history *History
}

// NewManager creates a new queue manager
func NewManager(queue *MemoryQueue, history *History) *Manager {
	return &Manager{
		queue:   queue,
		history: history,
	}
}

// Enqueue adds a job to the queue
func (m *Manager) Enqueue(job *Job) error {
	return m.queue.Enqueue(job)
}

// EnqueueIfShouldRun enqueues a job of jobType only if interval has elapsed
// since its last recorded execution, so the scheduler's cron tick can fire
// far more often than the sweep actually needs to run.
func (m *Manager) EnqueueIfShouldRun(jobType JobType, priority Priority, interval time.Duration, payload map[string]interface{}) bool {
	if !m.history.ShouldRun(jobType, interval) {
		return false
	}

	job := &Job{
		ID:          fmt.Sprintf("%s-%d", jobType, time.Now().UnixNano()),
		Type:        jobType,
		Priority:    priority,
		Payload:     payload,
		CreatedAt:   time.Now(),
		AvailableAt: time.Now(),
		Retries:     0,
		MaxRetries:  3,
	}

	if err := m.queue.Enqueue(job); err != nil {
		return false
	}

	return true
}

// Dequeue removes and returns the highest priority job, used by the worker
// pool's polling loop.
func (m *Manager) Dequeue() (*Job, error) {
	return m.queue.Dequeue()
}

// Size returns the number of jobs currently queued, not yet picked up by a
// worker.
func (m *Manager) Size() int {
	return m.queue.Size()
}

// RecordExecution records a job's outcome in history, which
// EnqueueIfShouldRun consults on the next sweep tick.
func (m *Manager) RecordExecution(jobType JobType, status string) error {
	return m.history.RecordExecution(jobType, time.Now(), status)
}
