package sync

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erp/connector/internal/domain/connector"
)

// orderWatermarkBuffer is subtracted from each order import's start time
// before it becomes the next watermark, so records committed on the remote
// while the import ran are picked up again.
const orderWatermarkBuffer = 30 * time.Second

// WorkBuilder assembles the per-run Work for a backend. Implementations
// bind the stores and binders to the caller's transaction.
type WorkBuilder interface {
	WorkFor(ctx context.Context, backendID uuid.UUID) (*Work, error)
}

// Service is the operator surface of the connector: it schedules batch
// imports, triggers single-record imports, and manages the backend's order
// watermark.
type Service struct {
	backends connector.BackendRepository
	builder  WorkBuilder
	flows    *Flows
	jobs     connector.JobAdmin
	log      *zap.Logger
}

// NewService creates a Service.
func NewService(backends connector.BackendRepository, builder WorkBuilder, flows *Flows, jobs connector.JobAdmin, log *zap.Logger) *Service {
	return &Service{
		backends: backends,
		builder:  builder,
		flows:    flows,
		jobs:     jobs,
		log:      log,
	}
}

// ---------------------------------------------------------------------------
// Batch imports
// ---------------------------------------------------------------------------

// ImportCategories schedules a batch import of all product categories.
func (s *Service) ImportCategories(ctx context.Context, backendID uuid.UUID) (uuid.UUID, error) {
	return s.enqueueBatch(ctx, backendID, connector.EntityCategory, nil)
}

// ImportProducts schedules a batch import of products modified since from.
// A zero from imports everything.
func (s *Service) ImportProducts(ctx context.Context, backendID uuid.UUID, from time.Time) (uuid.UUID, error) {
	return s.enqueueBatch(ctx, backendID, connector.EntityProduct, modifiedAfter(from))
}

// ImportCustomers schedules a batch import of all customer accounts.
func (s *Service) ImportCustomers(ctx context.Context, backendID uuid.UUID) (uuid.UUID, error) {
	return s.enqueueBatch(ctx, backendID, connector.EntityCustomer, nil)
}

// ImportAttributes schedules a batch import of product attributes. Each
// attribute import schedules its own term imports.
func (s *Service) ImportAttributes(ctx context.Context, backendID uuid.UUID) (uuid.UUID, error) {
	return s.enqueueBatch(ctx, backendID, connector.EntityAttribute, nil)
}

// ImportOrders schedules a batch import of orders modified since the
// backend's watermark, then advances the watermark.
func (s *Service) ImportOrders(ctx context.Context, backendID uuid.UUID) (uuid.UUID, error) {
	w, err := s.builder.WorkFor(ctx, backendID)
	if err != nil {
		return uuid.Nil, err
	}
	importStart := w.Clock()

	var filters connector.Params
	if since := w.Backend.ImportOrdersFromDate; since != nil {
		filters = modifiedAfter(*since)
	}
	jobID, err := s.enqueueBatchWork(ctx, w, connector.EntityOrder, filters)
	if err != nil {
		return uuid.Nil, err
	}

	w.Backend.AdvanceOrderWatermark(importStart, orderWatermarkBuffer)
	if err := s.backends.Save(ctx, w.Backend); err != nil {
		return uuid.Nil, err
	}
	return jobID, nil
}

// ImportOrdersBetween schedules a batch import of orders modified inside
// [from, to] without touching the watermark.
func (s *Service) ImportOrdersBetween(ctx context.Context, backendID uuid.UUID, from, to time.Time) (uuid.UUID, error) {
	filters := modifiedAfter(from)
	if filters == nil {
		filters = connector.Params{}
	}
	if !to.IsZero() {
		filters["modified_before"] = to.Format(connector.RemoteDateFormat)
	}
	return s.enqueueBatch(ctx, backendID, connector.EntityOrder, filters)
}

// ---------------------------------------------------------------------------
// Single records
// ---------------------------------------------------------------------------

// ImportOrder schedules the import of one order by remote id.
func (s *Service) ImportOrder(ctx context.Context, backendID uuid.UUID, externalID connector.ExternalID) (uuid.UUID, error) {
	return s.enqueueRecord(ctx, backendID, connector.EntityOrder, externalID, connector.OrderJobOptions)
}

// ImportProduct schedules the import of one product by remote id.
func (s *Service) ImportProduct(ctx context.Context, backendID uuid.UUID, externalID connector.ExternalID) (uuid.UUID, error) {
	return s.enqueueRecord(ctx, backendID, connector.EntityProduct, externalID, connector.DefaultJobOptions)
}

// ---------------------------------------------------------------------------
// Administration
// ---------------------------------------------------------------------------

// TestConnection issues one cheap search against the storefront to verify
// the backend's location and credentials.
func (s *Service) TestConnection(ctx context.Context, backendID uuid.UUID) error {
	w, err := s.builder.WorkFor(ctx, backendID)
	if err != nil {
		return err
	}
	_, err = w.AdapterFor(connector.EntityProduct).Search(ctx, connector.Params{
		"per_page": "1",
		"page":     "1",
	})
	if err != nil {
		return err
	}
	s.log.Info("connection test succeeded", zap.String("backend", w.Backend.Name))
	return nil
}

// SetJobsDone marks a set of jobs as done without running them.
func (s *Service) SetJobsDone(ctx context.Context, ids []uuid.UUID, reason string) error {
	return s.jobs.SetDone(ctx, ids, reason)
}

// ---------------------------------------------------------------------------

func (s *Service) enqueueBatch(ctx context.Context, backendID uuid.UUID, entity connector.EntityType, filters connector.Params) (uuid.UUID, error) {
	w, err := s.builder.WorkFor(ctx, backendID)
	if err != nil {
		return uuid.Nil, err
	}
	return s.enqueueBatchWork(ctx, w, entity, filters)
}

func (s *Service) enqueueBatchWork(ctx context.Context, w *Work, entity connector.EntityType, filters connector.Params) (uuid.UUID, error) {
	batch, err := s.flows.BatchFor(entity)
	if err != nil {
		return uuid.Nil, err
	}
	jobID, err := w.Queue.Enqueue(ctx, connector.JobRequest{
		Type:      connector.JobTypeImportBatch,
		BackendID: w.Backend.ID,
		Args: connector.JobArgs{
			EntityType: entity,
			Filters:    filters,
		},
		Options: batch.Options,
	})
	if err != nil {
		return uuid.Nil, err
	}
	s.log.Info("batch import enqueued",
		zap.String("backend", w.Backend.Name),
		zap.String("entity", string(entity)))
	return jobID, nil
}

func (s *Service) enqueueRecord(ctx context.Context, backendID uuid.UUID, entity connector.EntityType, externalID connector.ExternalID, opts connector.JobOptions) (uuid.UUID, error) {
	w, err := s.builder.WorkFor(ctx, backendID)
	if err != nil {
		return uuid.Nil, err
	}
	return w.Queue.Enqueue(ctx, connector.JobRequest{
		Type:      connector.JobTypeImportRecord,
		BackendID: w.Backend.ID,
		Args: connector.JobArgs{
			EntityType: entity,
			ExternalID: externalID,
		},
		Options: opts,
	})
}

// modifiedAfter builds the search filter selecting records modified after
// a point in time. A zero time means no filter.
func modifiedAfter(t time.Time) connector.Params {
	if t.IsZero() {
		return nil
	}
	return connector.Params{"modified_after": t.Format(connector.RemoteDateFormat)}
}
