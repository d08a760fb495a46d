package sync

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/domain/store"
)

func oneQty() decimal.Decimal { return decimal.NewFromInt(1) }

// orderImporter imports sales orders. Customers and the products on the
// order lines are imported first; the payment import rules decide whether
// the order may be imported at all. An order that is already bound is left
// untouched.
func (f *Flows) orderImporter() *Importer {
	return &Importer{
		Entity:       connector.EntityOrder,
		MustSkip:     orderMustSkip,
		Dependencies: f.orderDependencies,
		Mapper: &Mapper{
			Rules: []Rule{
				Direct("number", "number"),
				Direct("currency", "currency"),
				Compute(mapOrderHeader),
				Compute(mapOrderCustomer),
			},
		},
		Upsert: f.upsertOrder,
	}
}

func (f *Flows) orderDependencies(ctx context.Context, w *Work, rec connector.RawRecord) error {
	if customer := rec.ID("customer_id"); customer != "" && customer != "0" {
		if err := f.dependency(ctx, w, connector.EntityCustomer, customer); err != nil {
			return err
		}
	} else {
		if _, err := f.importGuestCustomer(ctx, w, rec); err != nil {
			return err
		}
	}
	for _, line := range rec.List("line_items") {
		product := line.ID("product_id")
		if product == "" || product == "0" {
			continue
		}
		if err := f.dependency(ctx, w, connector.EntityProduct, product); err != nil {
			return err
		}
	}
	return nil
}

func mapOrderHeader(ctx context.Context, mc *MapContext) (connector.Values, error) {
	rec := mc.Record
	ordered := rec.Time("date_created")
	if ordered.IsZero() {
		return nil, mappingErrorf("order %s has no creation date", mc.ExternalID)
	}
	vals := connector.Values{
		"status":       string(store.OrderStatusDraft),
		"amount_total": rec.Decimal("total"),
		"ordered_at":   ordered,
	}
	method, err := paymentMethodOf(ctx, mc)
	if err != nil {
		return nil, err
	}
	vals["payment_method_id"] = method.ID
	return vals, nil
}

// mapOrderCustomer resolves the buyer. Registered customers are resolved
// through their binding; guest checkouts through the same matching the
// dependency import used.
func mapOrderCustomer(ctx context.Context, mc *MapContext) (connector.Values, error) {
	w := mc.Work
	var customerID uuid.UUID
	if externalID := mc.Record.ID("customer_id"); externalID != "" && externalID != "0" {
		binding, err := w.BinderFor(connector.EntityCustomer).ToInternal(ctx, externalID)
		if err != nil {
			if errors.Is(err, connector.ErrNotBound) {
				return nil, mappingErrorf("customer %s is not bound", externalID)
			}
			return nil, err
		}
		customerID = binding.LocalID
	} else {
		id, err := matchGuestCustomer(ctx, w, mc.Record)
		if err != nil {
			if errors.Is(err, connector.ErrNotBound) {
				return nil, mappingErrorf("guest customer for order %s is not bound", mc.ExternalID)
			}
			return nil, err
		}
		customerID = id
	}
	vals := connector.Values{"customer_id": customerID}

	for key, kind := range map[string]store.AddressKind{
		"billing_address_id":  store.AddressBilling,
		"shipping_address_id": store.AddressShipping,
	} {
		sub := mc.Record.Sub(string(kind))
		if len(sub) == 0 {
			continue
		}
		addr := addressFromRecord(sub, customerID, kind)
		if addr.Street == "" && addr.City == "" {
			continue
		}
		id, err := w.Stores.Customers().SaveAddress(ctx, addr)
		if err != nil {
			return nil, err
		}
		vals[key] = id
	}
	return vals, nil
}

// upsertOrder creates the order header and its lines and confirms the
// order. Updating an already imported order is deliberately a no-op; the
// host system owns the order from the moment it is imported.
func (f *Flows) upsertOrder(ctx context.Context, mc *MapContext, vals connector.Values, binding *connector.Binding) (uuid.UUID, ImportResult, error) {
	if binding != nil {
		return binding.LocalID, ImportedUpdated, nil
	}
	w := mc.Work

	if carrierID, err := orderCarrier(ctx, mc); err != nil {
		return uuid.Nil, "", err
	} else if carrierID != uuid.Nil {
		vals["carrier_id"] = carrierID
	}

	orderID, err := w.Stores.Orders().CreateFromValues(ctx, vals)
	if err != nil {
		return uuid.Nil, "", err
	}
	if err := f.importOrderLines(ctx, mc, orderID); err != nil {
		return uuid.Nil, "", err
	}
	if err := w.Stores.Orders().Confirm(ctx, orderID); err != nil {
		return uuid.Nil, "", err
	}
	return orderID, ImportedCreated, nil
}

func orderCarrier(ctx context.Context, mc *MapContext) (uuid.UUID, error) {
	shipping := mc.Record.List("shipping_lines")
	if len(shipping) == 0 {
		return uuid.Nil, nil
	}
	first := shipping[0]
	code := first.Str("method_id")
	if code == "" {
		return uuid.Nil, nil
	}
	carrier, err := mc.Work.Stores.Carriers().FindOrCreate(ctx, code, first.Str("method_title"))
	if err != nil {
		return uuid.Nil, err
	}
	return carrier.ID, nil
}

func (f *Flows) importOrderLines(ctx context.Context, mc *MapContext, orderID uuid.UUID) error {
	w := mc.Work
	for _, item := range mc.Record.List("line_items") {
		line, err := productLine(ctx, w, item, orderID)
		if err != nil {
			return err
		}
		if _, err := w.Stores.Orders().AddLine(ctx, line); err != nil {
			return err
		}
	}
	for _, item := range mc.Record.List("shipping_lines") {
		line := &store.OrderLine{
			OrderID:   orderID,
			Name:      item.Str("method_title"),
			Qty:       oneQty(),
			UnitPrice: item.Decimal("total"),
			Kind:      store.OrderLineShipping,
		}
		if _, err := w.Stores.Orders().AddLine(ctx, line); err != nil {
			return err
		}
	}
	for _, item := range mc.Record.List("fee_lines") {
		line := &store.OrderLine{
			OrderID:   orderID,
			Name:      item.Str("name"),
			Qty:       oneQty(),
			UnitPrice: item.Decimal("total"),
			Kind:      store.OrderLineFee,
		}
		if _, err := w.Stores.Orders().AddLine(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

func productLine(ctx context.Context, w *Work, item connector.RawRecord, orderID uuid.UUID) (*store.OrderLine, error) {
	line := &store.OrderLine{
		OrderID:   orderID,
		Name:      item.Str("name"),
		Qty:       item.Decimal("quantity"),
		UnitPrice: item.Decimal("price"),
		Kind:      store.OrderLineProduct,
	}
	if product := item.ID("product_id"); product != "" && product != "0" {
		binding, err := w.BinderFor(connector.EntityProduct).ToInternal(ctx, product)
		if err != nil {
			if errors.Is(err, connector.ErrNotBound) {
				return nil, mappingErrorf("product %s on order line is not bound", product)
			}
			return nil, err
		}
		id := binding.LocalID
		line.ProductID = &id
	}
	if variation := item.ID("variation_id"); variation != "" && variation != "0" {
		binding, err := w.BinderFor(connector.EntityVariant).ToInternal(ctx, variation)
		if err == nil {
			id := binding.LocalID
			line.VariantID = &id
		} else if !errors.Is(err, connector.ErrNotBound) {
			return nil, err
		}
	}
	return line, nil
}
