package queue

import "time"

// JobType represents the type of job
type JobType string

const (
	// JobTypeRetrySolve re-attempts every settlement run recorded as
	// failed.
	JobTypeRetrySolve JobType = "retry_solve"
	// JobTypePruneStore deletes store records past their retention window.
	JobTypePruneStore JobType = "prune_store"
	// JobTypeHealthCheck samples backend/store health on the same schedule
	// as the other sweeps, independent of whether anything is polling
	// /healthz.
	JobTypeHealthCheck JobType = "health_check"
)

// Priority represents job priority
type Priority int

const (
	PriorityLow Priority = iota
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

// Job represents a queued job
type Job struct {
	ID          string
	Type        JobType
	Priority    Priority
	Payload     map[string]interface{}
	CreatedAt   time.Time
	AvailableAt time.Time
	Retries     int
	MaxRetries  int
}

// Queue interface for job queue operations
type Queue interface {
	Enqueue(job *Job) error
	Dequeue() (*Job, error)
	Size() int
}
