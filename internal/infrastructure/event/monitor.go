package event

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/erp/connector/internal/domain/store"
	"github.com/erp/connector/internal/infrastructure/config"
	"github.com/erp/connector/internal/infrastructure/persistence/models"
)

// Monitor detects host-side changes that never pass through the
// connector: stock levels moved by the inventory system and orders the
// warehouse marked shipped. Each scan records the matching outbox events
// for the processor to drain.
type Monitor struct {
	db  *gorm.DB
	cfg config.EventConfig
	log *zap.Logger
}

// NewMonitor creates a monitor.
func NewMonitor(db *gorm.DB, cfg config.EventConfig, log *zap.Logger) *Monitor {
	return &Monitor{db: db, cfg: cfg, log: log}
}

// Run scans at the configured interval until the context is cancelled.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		if _, err := m.ScanOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			m.log.Error("change scan failed", zap.Error(err))
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.cfg.ScanInterval):
		}
	}
}

// ScanOnce runs one scan over orders and stock and returns how many
// events it recorded.
func (m *Monitor) ScanOnce(ctx context.Context) (int, error) {
	shipped, err := m.scanShippedOrders(ctx)
	if err != nil {
		return shipped, err
	}
	moved, err := m.scanStockDrift(ctx)
	return shipped + moved, err
}

// scanShippedOrders finds confirmed orders with a shipment date and moves
// them to done, recording the shipped event in the same transaction so
// each order fires exactly once.
func (m *Monitor) scanShippedOrders(ctx context.Context) (int, error) {
	var orders []models.SalesOrderModel
	err := m.db.WithContext(ctx).
		Where("status = ? AND shipped_at IS NOT NULL", string(store.OrderStatusConfirmed)).
		Find(&orders).Error
	if err != nil {
		return 0, err
	}

	recorded := 0
	for i := range orders {
		order := &orders[i]
		err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.SalesOrderModel{}).
				Where("id = ? AND status = ?", order.ID, string(store.OrderStatusConfirmed)).
				Update("status", string(store.OrderStatusDone))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// another scan got here first
				return nil
			}
			return NewRecorder(tx).OrderShipped(ctx, order.ID)
		})
		if err != nil {
			return recorded, err
		}
		m.log.Info("order shipped",
			zap.String("order_id", order.ID.String()),
			zap.String("number", order.Number))
		recorded++
	}
	return recorded, nil
}

// scanStockDrift finds products whose stock bookkeeping no longer matches
// the quantity last pushed to the storefronts. A product with a pending
// event is not recorded again.
func (m *Monitor) scanStockDrift(ctx context.Context) (int, error) {
	var products []models.ProductModel
	err := m.db.WithContext(ctx).
		Where("no_stock_sync = ? AND (forecast_qty <> exported_qty OR on_hand_qty <> exported_qty)", false).
		Find(&products).Error
	if err != nil {
		return 0, err
	}

	recorder := NewRecorder(m.db)
	recorded := 0
	for i := range products {
		product := &products[i]
		var pending int64
		err := m.db.WithContext(ctx).Model(&models.EventModel{}).
			Where("type = ? AND aggregate_id = ? AND status = ?",
				TypeProductQtyChanged, product.ID, models.EventStatusPending).
			Count(&pending).Error
		if err != nil {
			return recorded, err
		}
		if pending > 0 {
			continue
		}
		if err := recorder.ProductQtyChanged(ctx, product.ID); err != nil {
			return recorded, err
		}
		recorded++
	}
	return recorded, nil
}
