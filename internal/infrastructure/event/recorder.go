// Package event records host-side change events and turns them into
// outbound export jobs. Events are written in the same transaction as the
// change they describe, so an export is never scheduled for a change that
// rolled back.
package event

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/erp/connector/internal/infrastructure/persistence/models"
)

// Event types drained by the processor.
const (
	// TypeProductQtyChanged fires when a product's stock level moves
	TypeProductQtyChanged = "product.qty_changed"
	// TypeOrderShipped fires when a sales order leaves the warehouse
	TypeOrderShipped = "order.shipped"
)

// Recorder writes change events into the outbox table.
type Recorder struct {
	db *gorm.DB
}

// NewRecorder creates a recorder on the given handle. Hand it a
// transaction handle to commit the event with the change.
func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db}
}

// ProductQtyChanged records a stock level change for a product.
func (r *Recorder) ProductQtyChanged(ctx context.Context, productID uuid.UUID) error {
	return r.record(ctx, TypeProductQtyChanged, productID)
}

// OrderShipped records that an order has shipped.
func (r *Recorder) OrderShipped(ctx context.Context, orderID uuid.UUID) error {
	return r.record(ctx, TypeOrderShipped, orderID)
}

func (r *Recorder) record(ctx context.Context, eventType string, aggregateID uuid.UUID) error {
	now := time.Now().UTC()
	model := models.EventModel{
		ID:          uuid.New(),
		Type:        eventType,
		AggregateID: aggregateID,
		Status:      models.EventStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}
