package event

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/infrastructure/config"
	"github.com/erp/connector/internal/infrastructure/persistence/models"
)

// Processor drains pending events and schedules one export job per
// configured backend. Exporters decide per backend whether the record is
// bound there; an unbound record ends as a no-op job.
type Processor struct {
	db       *gorm.DB
	backends connector.BackendRepository
	queue    connector.JobQueue
	cfg      config.EventConfig
	log      *zap.Logger
}

// NewProcessor creates a processor.
func NewProcessor(db *gorm.DB, backends connector.BackendRepository, queue connector.JobQueue, cfg config.EventConfig, log *zap.Logger) *Processor {
	return &Processor{db: db, backends: backends, queue: queue, cfg: cfg, log: log}
}

// Run polls for pending events until the context is cancelled.
func (p *Processor) Run(ctx context.Context) error {
	for {
		n, err := p.ProcessBatch(ctx)
		if err != nil && !errors.Is(err, context.Canceled) {
			p.log.Error("event batch failed", zap.Error(err))
		}
		if n > 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.cfg.PollInterval):
		}
	}
}

// ProcessBatch drains up to one batch of pending events and returns how
// many were handled.
func (p *Processor) ProcessBatch(ctx context.Context) (int, error) {
	var events []models.EventModel
	err := p.db.WithContext(ctx).
		Where("status = ?", models.EventStatusPending).
		Order("created_at ASC").
		Limit(p.cfg.BatchSize).
		Find(&events).Error
	if err != nil {
		return 0, err
	}

	backends, err := p.backends.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	handled := 0
	for i := range events {
		if err := p.processEvent(ctx, &events[i], backends); err != nil {
			p.markEvent(ctx, &events[i], models.EventStatusFailed, err.Error())
			continue
		}
		p.markEvent(ctx, &events[i], models.EventStatusProcessed, "")
		handled++
	}
	return handled, nil
}

func (p *Processor) processEvent(ctx context.Context, ev *models.EventModel, backends []*connector.Backend) error {
	var jobType string
	var entity connector.EntityType
	switch ev.Type {
	case TypeProductQtyChanged:
		jobType = connector.JobTypeExportInventory
		entity = connector.EntityProduct
	case TypeOrderShipped:
		jobType = connector.JobTypeExportState
		entity = connector.EntityOrder
	default:
		p.log.Warn("ignoring unknown event type", zap.String("type", ev.Type))
		return nil
	}

	for _, backend := range backends {
		_, err := p.queue.Enqueue(ctx, connector.JobRequest{
			Type:      jobType,
			BackendID: backend.ID,
			Args: connector.JobArgs{
				EntityType: entity,
				LocalID:    ev.AggregateID,
			},
			Options: connector.ExportJobOptions,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (p *Processor) markEvent(ctx context.Context, ev *models.EventModel, status, lastError string) {
	now := time.Now().UTC()
	cols := map[string]any{
		"status":       status,
		"processed_at": now,
		"updated_at":   now,
	}
	if lastError != "" {
		cols["last_error"] = lastError
	}
	if err := p.db.WithContext(ctx).Model(&models.EventModel{}).
		Where("id = ?", ev.ID).Updates(cols).Error; err != nil {
		p.log.Error("marking event failed",
			zap.String("event_id", ev.ID.String()), zap.Error(err))
	}
}
