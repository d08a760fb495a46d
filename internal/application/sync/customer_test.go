package sync

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/domain/store"
)

func customerRecord() connector.RawRecord {
	return connector.RawRecord{
		"email":      "jane@example.com",
		"first_name": "Jane",
		"last_name":  "Doe",
		"billing": map[string]any{
			"first_name": "Jane",
			"last_name":  "Doe",
			"address_1":  "1 Main St",
			"city":       "Springfield",
			"postcode":   "12345",
			"country":    "US",
		},
		"shipping": map[string]any{
			"first_name": "Jane",
			"last_name":  "Doe",
			"address_1":  "2 Depot Rd",
			"city":       "Springfield",
			"postcode":   "12345",
			"country":    "US",
		},
	}
}

func TestCustomerImportCreatesWithAddresses(t *testing.T) {
	h := newHarness()
	h.adapters.adapter(connector.EntityCustomer).records["33"] = customerRecord()

	imp, err := h.flows.ImporterFor(connector.EntityCustomer)
	require.NoError(t, err)

	res, err := imp.Run(context.Background(), h.work, connector.JobArgs{ExternalID: "33"})
	require.NoError(t, err)
	assert.Equal(t, ImportedCreated, res)

	binding, err := h.binders.binder(connector.EntityCustomer).ToInternal(context.Background(), "33")
	require.NoError(t, err)
	row := h.stores.customers.rows[binding.LocalID]
	assert.Equal(t, "Jane Doe", row.Str("name"))
	assert.Equal(t, false, row["guest"])

	require.Len(t, h.stores.customers.addresses, 2)
	kinds := map[store.AddressKind]bool{}
	for _, addr := range h.stores.customers.addresses {
		kinds[addr.Kind] = true
		assert.Equal(t, binding.LocalID, addr.CustomerID)
	}
	assert.True(t, kinds[store.AddressBilling])
	assert.True(t, kinds[store.AddressShipping])
}

func TestCustomerImportReusesMatchingEmail(t *testing.T) {
	h := newHarness()
	existing := &store.Customer{ID: uuid.New(), Name: "Jane Doe", Email: "jane@example.com"}
	h.stores.customers.byEmail[existing.Email] = existing
	h.adapters.adapter(connector.EntityCustomer).records["33"] = customerRecord()

	imp, err := h.flows.ImporterFor(connector.EntityCustomer)
	require.NoError(t, err)

	res, err := imp.Run(context.Background(), h.work, connector.JobArgs{ExternalID: "33"})
	require.NoError(t, err)
	assert.Equal(t, ImportedUpdated, res)

	binding, err := h.binders.binder(connector.EntityCustomer).ToInternal(context.Background(), "33")
	require.NoError(t, err)
	assert.Equal(t, existing.ID, binding.LocalID)
}

func TestCustomerDisplayNameFallbacks(t *testing.T) {
	tests := []struct {
		name string
		rec  connector.RawRecord
		want string
	}{
		{
			name: "first and last name",
			rec:  connector.RawRecord{"first_name": "Jane", "last_name": "Doe", "username": "jd", "email": "j@x.com"},
			want: "Jane Doe",
		},
		{
			name: "username when names are empty",
			rec:  connector.RawRecord{"username": "jd", "email": "j@x.com"},
			want: "jd",
		},
		{
			name: "email as last resort",
			rec:  connector.RawRecord{"email": "j@x.com"},
			want: "j@x.com",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, customerDisplayName(tt.rec))
		})
	}
}

func TestCustomerWithoutNameFailsMapping(t *testing.T) {
	h := newHarness()
	h.adapters.adapter(connector.EntityCustomer).records["33"] = connector.RawRecord{}

	imp, err := h.flows.ImporterFor(connector.EntityCustomer)
	require.NoError(t, err)

	_, err = imp.Run(context.Background(), h.work, connector.JobArgs{ExternalID: "33"})
	assert.ErrorIs(t, err, connector.ErrMapping)
}

func TestImportGuestCustomer(t *testing.T) {
	h := newHarness()
	order := connector.RawRecord{
		"number": "1005",
		"billing": map[string]any{
			"first_name": "Sam",
			"last_name":  "Guest",
			"email":      "sam@example.com",
			"phone":      "555-0100",
		},
	}

	id, err := h.flows.importGuestCustomer(context.Background(), h.work, order)
	require.NoError(t, err)

	row := h.stores.customers.rows[id]
	assert.Equal(t, "Sam Guest", row.Str("name"))
	assert.Equal(t, true, row["guest"])

	binding, err := h.binders.binder(connector.EntityCustomer).ToInternal(
		context.Background(), GuestExternalID("1005"))
	require.NoError(t, err)
	assert.Equal(t, id, binding.LocalID)

	t.Run("second import reuses the bound guest", func(t *testing.T) {
		again, err := h.flows.importGuestCustomer(context.Background(), h.work, order)
		require.NoError(t, err)
		assert.Equal(t, id, again)
		assert.Len(t, h.stores.customers.rows, 1)
	})
}

func TestGuestExternalID(t *testing.T) {
	assert.Equal(t, connector.ExternalID("guestorder:1005"), GuestExternalID("1005"))
}
