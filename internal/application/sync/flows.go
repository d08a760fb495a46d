package sync

import (
	"context"
	"fmt"

	"github.com/erp/connector/internal/domain/connector"
)

// Flows wires the per-entity importers, batch importers and exporters
// together. One Flows value serves every backend; all per-run state lives
// in the Work passed to each call.
type Flows struct {
	importers map[connector.EntityType]*Importer
	batches   map[connector.EntityType]*BatchImporter

	inventory *InventoryExporter
	state     *OrderStateExporter
}

// NewFlows builds the flow registry.
func NewFlows() *Flows {
	f := &Flows{
		importers: map[connector.EntityType]*Importer{},
		batches:   map[connector.EntityType]*BatchImporter{},
	}

	f.importers[connector.EntityCategory] = f.categoryImporter()
	f.importers[connector.EntityAttribute] = f.attributeImporter()
	f.importers[connector.EntityAttributeTerm] = f.termImporter()
	f.importers[connector.EntityProduct] = f.productImporter()
	f.importers[connector.EntityVariant] = f.variantImporter()
	f.importers[connector.EntityCustomer] = f.customerImporter()
	f.importers[connector.EntityOrder] = f.orderImporter()

	for t, opts := range map[connector.EntityType]connector.JobOptions{
		connector.EntityCategory:      connector.DefaultJobOptions,
		connector.EntityAttribute:     connector.DefaultJobOptions,
		connector.EntityAttributeTerm: connector.DefaultJobOptions,
		connector.EntityProduct:       connector.DefaultJobOptions,
		connector.EntityCustomer:      connector.DefaultJobOptions,
		connector.EntityOrder:         connector.OrderJobOptions,
	} {
		f.batches[t] = &BatchImporter{Entity: t, Options: opts}
	}
	f.batches[connector.EntityVariant] = &BatchImporter{
		Entity:  connector.EntityVariant,
		Options: connector.VariantJobOptions,
	}

	f.inventory = &InventoryExporter{}
	f.state = &OrderStateExporter{}
	return f
}

// ImporterFor returns the record importer for an entity type.
func (f *Flows) ImporterFor(t connector.EntityType) (*Importer, error) {
	imp, ok := f.importers[t]
	if !ok {
		return nil, fmt.Errorf("%w: no importer for %s", connector.ErrMapping, t)
	}
	return imp, nil
}

// BatchFor returns the batch importer for an entity type.
func (f *Flows) BatchFor(t connector.EntityType) (*BatchImporter, error) {
	b, ok := f.batches[t]
	if !ok {
		return nil, fmt.Errorf("%w: no batch importer for %s", connector.ErrMapping, t)
	}
	return b, nil
}

// Inventory returns the stock level exporter.
func (f *Flows) Inventory() *InventoryExporter { return f.inventory }

// OrderState returns the order state exporter.
func (f *Flows) OrderState() *OrderStateExporter { return f.state }

// dependency imports a referenced record inline when it has no binding
// yet. Already-bound dependencies are left untouched.
func (f *Flows) dependency(ctx context.Context, w *Work, entity connector.EntityType, externalID connector.ExternalID) error {
	return importDependency(ctx, w, entity, externalID, f.importers)
}
