package sync

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/erp/connector/internal/domain/connector"
)

// InventoryExporter pushes a product's stock level to the storefront.
// The quantity is read from the backend's configured stock field at export
// time, so a job delayed behind newer stock moves still exports the
// current level.
type InventoryExporter struct{}

// Run exports the stock level of the product in args.LocalID.
func (e *InventoryExporter) Run(ctx context.Context, w *Work, args connector.JobArgs) error {
	product, err := w.Stores.Products().FindByID(ctx, args.LocalID)
	if err != nil {
		return err
	}
	if product.NoStockSync {
		return fmt.Errorf("%w: product %s is excluded from stock sync",
			connector.ErrNothingToDo, product.ID)
	}

	externalID, err := w.BinderFor(connector.EntityProduct).ToExternal(ctx, product.ID)
	if err != nil {
		if errors.Is(err, connector.ErrNotBound) {
			return fmt.Errorf("%w: product %s is not bound", connector.ErrNothingToDo, product.ID)
		}
		return err
	}

	qty := product.Qty(string(w.Backend.StockField))
	payload := map[string]any{
		"stock_quantity": qty.IntPart(),
		"manage_stock":   true,
		"in_stock":       qty.IsPositive(),
	}
	if _, err := w.AdapterFor(connector.EntityProduct).Update(ctx, externalID, payload); err != nil {
		return err
	}
	if err := w.Stores.Products().MarkExported(ctx, product.ID, qty); err != nil {
		return err
	}

	w.Log.Info("stock level exported",
		zap.String("external_id", externalID.String()),
		zap.String("qty", qty.String()))
	return nil
}

// OrderStateExporter reports a shipped order back to the storefront by
// moving the remote order to its final status.
type OrderStateExporter struct{}

// Run exports the state of the order in args.LocalID.
func (e *OrderStateExporter) Run(ctx context.Context, w *Work, args connector.JobArgs) error {
	order, err := w.Stores.Orders().FindByID(ctx, args.LocalID)
	if err != nil {
		return err
	}
	if order.ShippedAt == nil {
		return fmt.Errorf("%w: order %s has not shipped", connector.ErrNothingToDo, order.ID)
	}

	externalID, err := w.BinderFor(connector.EntityOrder).ToExternal(ctx, order.ID)
	if err != nil {
		if errors.Is(err, connector.ErrNotBound) {
			return fmt.Errorf("%w: order %s is not bound", connector.ErrNothingToDo, order.ID)
		}
		return err
	}

	if _, err := w.AdapterFor(connector.EntityOrder).Update(ctx, externalID, map[string]any{
		"status": "completed",
	}); err != nil {
		return err
	}

	w.Log.Info("order state exported",
		zap.String("external_id", externalID.String()),
		zap.String("number", order.Number))
	return nil
}
