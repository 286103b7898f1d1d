package queue

// Handler runs one sweep job (retry-solve, prune-store, or health-check)
// and reports whether it succeeded.
type Handler func(*Job) error

// Registry maps each JobType the scheduler enqueues to the Handler
// internal/scheduler.RegisterHandlers wired it to. A JobType with no
// registered handler is logged and dropped by the worker pool rather than
// left stuck in the queue.
type Registry struct {
	handlers map[JobType]Handler
}

// NewRegistry creates a new job registry
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[JobType]Handler),
	}
}

// Register registers a handler for a job type
func (r *Registry) Register(jobType JobType, handler Handler) {
	r.handlers[jobType] = handler
}

// Get retrieves a handler for a job type
func (r *Registry) Get(jobType JobType) (Handler, bool) {
	handler, exists := r.handlers[jobType]
	return handler, exists
}
