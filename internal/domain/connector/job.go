package connector

import (
	"context"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Deferred jobs
// ---------------------------------------------------------------------------

// Job type names understood by the worker.
const (
	JobTypeImportRecord    = "import.record"
	JobTypeImportBatch     = "import.batch"
	JobTypeExportInventory = "export.inventory"
	JobTypeExportState     = "export.state"
)

// Default job options per concern. Lower priority numbers run first:
// order imports run ahead of everything else and carry no retry budget
// for hard failures, they are rescheduled by the payment policy instead.
// Variants run after their templates, exports last.
var (
	DefaultJobOptions = JobOptions{Priority: 10, MaxRetries: 2}
	OrderJobOptions   = JobOptions{Priority: 5, MaxRetries: 0}
	VariantJobOptions = JobOptions{Priority: 6, MaxRetries: 2}
	ExportJobOptions  = JobOptions{Priority: 20, MaxRetries: 2}
)

// JobOptions control how a deferred job is scheduled.
type JobOptions struct {
	// Priority orders execution; lower values run first
	Priority int
	// MaxRetries is the number of automatic re-attempts after retryable
	// failures; 0 disables automatic retries
	MaxRetries int
}

// JobArgs is the serializable argument payload of a deferred job.
type JobArgs struct {
	// EntityType is the record type the job operates on
	EntityType EntityType `json:"entity_type"`
	// ExternalID is the remote record id (import.record, export jobs)
	ExternalID ExternalID `json:"external_id,omitempty"`
	// ParentID is the parent external id for nested resources
	ParentID ExternalID `json:"parent_id,omitempty"`
	// LocalID is the internal record id (export jobs)
	LocalID uuid.UUID `json:"local_id,omitempty"`
	// Force bypasses the up-to-date check on import
	Force bool `json:"force,omitempty"`
	// Filters are search parameters for batch jobs
	Filters Params `json:"filters,omitempty"`
	// Fields are the changed field names for export jobs
	Fields []string `json:"fields,omitempty"`
}

// JobRequest asks the queue to run a job later.
type JobRequest struct {
	// Type is one of the JobType constants
	Type string
	// BackendID is the backend the job runs against
	BackendID uuid.UUID
	// Args is the job argument payload
	Args JobArgs
	// Options control scheduling
	Options JobOptions
}

// JobQueue is the deferred-job port. The engine only produces job requests;
// scheduling, locking and retry backoff belong to the queue implementation.
type JobQueue interface {
	// Enqueue schedules a job for later execution.
	Enqueue(ctx context.Context, req JobRequest) (uuid.UUID, error)
}

// JobAdmin is the operator-facing queue surface.
type JobAdmin interface {
	// SetDone marks jobs as done with a reason, bypassing execution.
	SetDone(ctx context.Context, ids []uuid.UUID, reason string) error
}
