package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	syncapp "github.com/erp/connector/internal/application/sync"
	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/infrastructure/config"
	"github.com/erp/connector/internal/infrastructure/logger"
	"github.com/erp/connector/internal/infrastructure/persistence/models"
)

// TxWorkBuilder assembles a Work bound to the transaction a job runs in.
type TxWorkBuilder interface {
	WorkOn(ctx context.Context, tx *gorm.DB, backendID uuid.UUID) (*syncapp.Work, error)
}

// Worker polls the jobs table and executes due jobs. Each job runs inside
// one database transaction; advisory locks taken during the job are
// released only after the transaction finishes.
type Worker struct {
	db      *gorm.DB
	flows   *syncapp.Flows
	builder TxWorkBuilder
	cfg     config.WorkerConfig
	log     *zap.Logger
}

// NewWorker creates a worker.
func NewWorker(db *gorm.DB, flows *syncapp.Flows, builder TxWorkBuilder, cfg config.WorkerConfig, log *zap.Logger) *Worker {
	return &Worker{db: db, flows: flows, builder: builder, cfg: cfg, log: log}
}

// Run polls for jobs until the context is cancelled. Concurrency slots
// share one poll loop; an idle poll sleeps for the configured interval.
func (w *Worker) Run(ctx context.Context) error {
	sem := make(chan struct{}, w.cfg.Concurrency)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		job, err := w.claim(ctx)
		if err != nil {
			w.log.Error("claiming job failed", zap.Error(err))
		}
		if job == nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(w.cfg.PollInterval):
			}
			continue
		}

		sem <- struct{}{}
		go func(job *models.JobModel) {
			defer func() { <-sem }()
			w.execute(ctx, job)
		}(job)
	}
}

// RunOnce drains all currently due jobs, for tests and one-shot runs.
func (w *Worker) RunOnce(ctx context.Context) (int, error) {
	ran := 0
	for {
		job, err := w.claim(ctx)
		if err != nil {
			return ran, err
		}
		if job == nil {
			return ran, nil
		}
		w.execute(ctx, job)
		ran++
	}
}

// claim atomically moves the next due job to running. The optimistic
// update keeps concurrent workers off the same row.
func (w *Worker) claim(ctx context.Context) (*models.JobModel, error) {
	var job models.JobModel
	err := w.db.WithContext(ctx).
		Where("status = ? AND run_at <= ?", models.JobStatusPending, time.Now().UTC()).
		Order("priority ASC, run_at ASC").
		First(&job).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	now := time.Now().UTC()
	res := w.db.WithContext(ctx).Model(&models.JobModel{}).
		Where("id = ? AND status = ?", job.ID, models.JobStatusPending).
		Updates(map[string]any{
			"status":     models.JobStatusRunning,
			"started_at": now,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		// lost the race, caller will poll again
		return nil, nil
	}
	return &job, nil
}

// execute runs one claimed job and records the outcome.
func (w *Worker) execute(ctx context.Context, job *models.JobModel) {
	jobCtx := logger.WithJobID(ctx, job.ID.String())
	log := logger.FromContext(jobCtx, w.log).With(
		zap.String("type", job.Type),
		zap.String("backend_id", job.BackendID.String()))

	if w.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(jobCtx, w.cfg.JobTimeout)
		defer cancel()
	}

	var args connector.JobArgs
	if err := json.Unmarshal([]byte(job.ArgsJSON), &args); err != nil {
		w.finish(ctx, job, models.JobStatusFailed, fmt.Sprintf("invalid args: %v", err))
		return
	}

	handler, err := w.flows.Handler(job.Type)
	if err != nil {
		w.finish(ctx, job, models.JobStatusFailed, err.Error())
		return
	}

	var work *syncapp.Work
	runErr := w.db.WithContext(jobCtx).Transaction(func(tx *gorm.DB) error {
		var err error
		work, err = w.builder.WorkOn(jobCtx, tx, job.BackendID)
		if err != nil {
			return err
		}
		work.RetryCount = job.RetryCount
		if err := handler(jobCtx, work, args); err != nil {
			return err
		}
		// success commits the job state with the work itself
		now := time.Now().UTC()
		return tx.Model(&models.JobModel{}).
			Where("id = ?", job.ID).
			Updates(map[string]any{
				"status":  models.JobStatusDone,
				"done_at": now,
			}).Error
	})
	if work != nil {
		work.ReleaseLocks(ctx)
	}
	if runErr == nil {
		log.Debug("job done")
		return
	}

	switch {
	case connector.IsNothingToDo(runErr):
		log.Info("job had nothing to do", zap.String("reason", runErr.Error()))
		w.finish(ctx, job, models.JobStatusDone, runErr.Error())
	case errors.Is(runErr, connector.ErrPolicyRetryable) || errors.Is(runErr, connector.ErrLockBusy):
		// Policy holds and busy locks clear on their own. They wait
		// without consuming the retry budget.
		w.reschedule(ctx, job, runErr, false)
	case connector.IsRetryable(runErr):
		if job.RetryCount < job.MaxRetries {
			w.reschedule(ctx, job, runErr, true)
		} else {
			log.Warn("job exhausted retries", zap.Error(runErr))
			w.finish(ctx, job, models.JobStatusFailed, runErr.Error())
		}
	default:
		log.Error("job failed", zap.Error(runErr))
		w.finish(ctx, job, models.JobStatusFailed, runErr.Error())
	}
}

func (w *Worker) finish(ctx context.Context, job *models.JobModel, status, result string) {
	now := time.Now().UTC()
	cols := map[string]any{
		"status": status,
		"result": result,
	}
	if status == models.JobStatusFailed {
		cols["last_error"] = result
		cols["result"] = ""
	}
	if status == models.JobStatusDone || status == models.JobStatusFailed {
		cols["done_at"] = now
	}
	if err := w.db.WithContext(ctx).Model(&models.JobModel{}).
		Where("id = ?", job.ID).Updates(cols).Error; err != nil {
		w.log.Error("recording job outcome failed",
			zap.String("job_id", job.ID.String()), zap.Error(err))
	}
}

// reschedule returns a job to pending with a linear backoff. Retries
// that consume the budget bump retry_count; waits for a lock or a
// policy condition keep it and retry at the base delay.
func (w *Worker) reschedule(ctx context.Context, job *models.JobModel, cause error, consumeRetry bool) {
	retryCount := job.RetryCount
	if consumeRetry {
		retryCount++
	}
	delay := w.cfg.RetryDelay * time.Duration(retryCount+1)
	runAt := time.Now().UTC().Add(delay)
	w.log.Info("job rescheduled",
		zap.String("job_id", job.ID.String()),
		zap.Duration("delay", delay),
		zap.Error(cause))
	if err := w.db.WithContext(ctx).Model(&models.JobModel{}).
		Where("id = ?", job.ID).
		Updates(map[string]any{
			"status":      models.JobStatusPending,
			"retry_count": retryCount,
			"run_at":      runAt,
			"last_error":  cause.Error(),
		}).Error; err != nil {
		w.log.Error("rescheduling job failed",
			zap.String("job_id", job.ID.String()), zap.Error(err))
	}
}
