// Package queue implements the deferred job queue on the connector
// database and the worker that executes jobs.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/infrastructure/persistence/models"
)

// GormJobQueue implements the JobQueue and JobAdmin ports on the jobs
// table. Enqueued through a transaction handle, the job row commits
// atomically with the work that scheduled it.
type GormJobQueue struct {
	db *gorm.DB
}

// NewGormJobQueue creates a new GormJobQueue
func NewGormJobQueue(db *gorm.DB) *GormJobQueue {
	return &GormJobQueue{db: db}
}

// Enqueue schedules a job for later execution
func (q *GormJobQueue) Enqueue(ctx context.Context, req connector.JobRequest) (uuid.UUID, error) {
	args, err := json.Marshal(req.Args)
	if err != nil {
		return uuid.Nil, fmt.Errorf("queue: encoding job args: %w", err)
	}
	model := models.JobModel{
		Type:       req.Type,
		BackendID:  req.BackendID,
		ArgsJSON:   string(args),
		Status:     models.JobStatusPending,
		Priority:   req.Options.Priority,
		RunAt:      time.Now().UTC(),
		MaxRetries: req.Options.MaxRetries,
	}
	model.ID = uuid.New()
	if err := q.db.WithContext(ctx).Create(&model).Error; err != nil {
		return uuid.Nil, err
	}
	return model.ID, nil
}

// SetDone marks jobs as done with a reason, bypassing execution
func (q *GormJobQueue) SetDone(ctx context.Context, ids []uuid.UUID, reason string) error {
	if len(ids) == 0 {
		return nil
	}
	now := time.Now().UTC()
	return q.db.WithContext(ctx).Model(&models.JobModel{}).
		Where("id IN ? AND status IN ?", ids,
			[]string{models.JobStatusPending, models.JobStatusFailed}).
		Updates(map[string]any{
			"status":  models.JobStatusDone,
			"result":  reason,
			"done_at": now,
		}).Error
}
