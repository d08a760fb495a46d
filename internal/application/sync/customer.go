package sync

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/domain/store"
)

// guestExternalPrefix marks synthetic external ids for customers created
// from guest checkouts. Guests have no remote account, so each guest order
// binds its own customer record under this prefix.
const guestExternalPrefix = "guestorder:"

// GuestExternalID builds the synthetic external id for a guest checkout.
func GuestExternalID(orderNumber string) connector.ExternalID {
	return connector.ExternalID(guestExternalPrefix + orderNumber)
}

// customerImporter imports storefront customer accounts. A customer with a
// matching email is reused instead of duplicated; billing and shipping
// addresses are stored after the customer record itself.
func (f *Flows) customerImporter() *Importer {
	return &Importer{
		Entity: connector.EntityCustomer,
		Mapper: &Mapper{
			Rules: []Rule{
				Direct("email", "email"),
				Compute(mapCustomerName),
				Compute(func(ctx context.Context, mc *MapContext) (connector.Values, error) {
					return connector.Values{"active": true, "guest": false}, nil
				}),
				OnlyOnCreate(findCustomerByEmail),
			},
		},
		AfterImport: importCustomerAddresses,
	}
}

func mapCustomerName(ctx context.Context, mc *MapContext) (connector.Values, error) {
	name := customerDisplayName(mc.Record)
	if name == "" {
		return nil, mappingErrorf("customer %s has no name", mc.ExternalID)
	}
	return connector.Values{"name": name}, nil
}

func customerDisplayName(rec connector.RawRecord) string {
	name := strings.TrimSpace(rec.Str("first_name") + " " + rec.Str("last_name"))
	if name == "" {
		name = strings.TrimSpace(rec.Str("username"))
	}
	if name == "" {
		name = strings.TrimSpace(rec.Str("email"))
	}
	return name
}

func findCustomerByEmail(ctx context.Context, mc *MapContext) (connector.Values, error) {
	email := mc.Record.Str("email")
	if email == "" {
		return nil, nil
	}
	existing, err := mc.Work.Stores.Customers().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrCustomerNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return connector.Values{ExistingIDKey: existing.ID}, nil
}

func importCustomerAddresses(ctx context.Context, mc *MapContext, localID uuid.UUID, _ ImportResult) error {
	w := mc.Work
	for _, kind := range []store.AddressKind{store.AddressBilling, store.AddressShipping} {
		sub := mc.Record.Sub(string(kind))
		if len(sub) == 0 {
			continue
		}
		addr := addressFromRecord(sub, localID, kind)
		if addr.Street == "" && addr.City == "" {
			continue
		}
		if _, err := w.Stores.Customers().SaveAddress(ctx, addr); err != nil {
			return err
		}
	}
	return nil
}

func addressFromRecord(rec connector.RawRecord, customerID uuid.UUID, kind store.AddressKind) *store.Address {
	name := strings.TrimSpace(rec.Str("first_name") + " " + rec.Str("last_name"))
	if company := rec.Str("company"); company != "" {
		name = company
	}
	return &store.Address{
		CustomerID: customerID,
		Kind:       kind,
		Name:       name,
		Street:     rec.Str("address_1"),
		Street2:    rec.Str("address_2"),
		City:       rec.Str("city"),
		Zip:        rec.Str("postcode"),
		State:      rec.Str("state"),
		Country:    rec.Str("country"),
		Phone:      rec.Str("phone"),
		Email:      rec.Str("email"),
	}
}

// matchGuestCustomer resolves the customer behind a guest order without
// creating one: the synthetic per-order binding when it exists, otherwise
// a registered customer whose email matches the billing block. Returns
// ErrNotBound when neither matches.
func matchGuestCustomer(ctx context.Context, w *Work, order connector.RawRecord) (uuid.UUID, error) {
	externalID := GuestExternalID(order.Str("number"))
	binding, err := w.BinderFor(connector.EntityCustomer).ToInternal(ctx, externalID)
	if err == nil {
		return binding.LocalID, nil
	}
	if !errors.Is(err, connector.ErrNotBound) {
		return uuid.Nil, err
	}
	if email := order.Sub("billing").Str("email"); email != "" {
		existing, err := w.Stores.Customers().FindByEmail(ctx, email)
		if err == nil {
			return existing.ID, nil
		}
		if !errors.Is(err, store.ErrCustomerNotFound) {
			return uuid.Nil, err
		}
	}
	return uuid.Nil, connector.ErrNotBound
}

// importGuestCustomer resolves or creates the customer for a guest order.
// A registered customer with the billing email is reused as-is; only when
// nothing matches is a guest customer synthesized and bound under the
// per-order external id. It bypasses the remote adapter since guests have
// no customer record on the storefront.
func (f *Flows) importGuestCustomer(ctx context.Context, w *Work, order connector.RawRecord) (uuid.UUID, error) {
	if id, err := matchGuestCustomer(ctx, w, order); err == nil {
		return id, nil
	} else if !errors.Is(err, connector.ErrNotBound) {
		return uuid.Nil, err
	}

	billing := order.Sub("billing")
	name := customerDisplayName(billing)
	if name == "" {
		name = "Guest " + order.Str("number")
	}
	id, err := w.Stores.Customers().CreateFromValues(ctx, connector.Values{
		"name":   name,
		"email":  billing.Str("email"),
		"phone":  billing.Str("phone"),
		"guest":  true,
		"active": true,
	})
	if err != nil {
		return uuid.Nil, err
	}
	externalID := GuestExternalID(order.Str("number"))
	if err := w.BinderFor(connector.EntityCustomer).Bind(ctx, externalID, id); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
