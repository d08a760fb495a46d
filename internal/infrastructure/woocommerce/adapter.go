package woocommerce

import (
	"context"
	"fmt"
	"net/http"

	"github.com/erp/connector/internal/domain/connector"
)

// GenericAdapter implements the remote adapter port for one API resource.
// All entity types share the same CRUD shape; only the endpoint differs.
type GenericAdapter struct {
	client   *Client
	endpoint string
}

// NewGenericAdapter creates an adapter for one endpoint, e.g. "products".
func NewGenericAdapter(client *Client, endpoint string) *GenericAdapter {
	return &GenericAdapter{client: client, endpoint: endpoint}
}

// Search returns the ids of the records matching params. WooCommerce has
// no id-only listing, so the full page is fetched and reduced.
func (a *GenericAdapter) Search(ctx context.Context, params connector.Params) ([]connector.ExternalID, error) {
	records, err := a.SearchRead(ctx, params)
	if err != nil {
		return nil, err
	}
	ids := make([]connector.ExternalID, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.ID("id"))
	}
	return ids, nil
}

// SearchRead returns the full records matching params.
func (a *GenericAdapter) SearchRead(ctx context.Context, params connector.Params) ([]connector.RawRecord, error) {
	var records []connector.RawRecord
	if err := a.client.do(ctx, http.MethodGet, a.endpoint, params, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Read returns one record by id.
func (a *GenericAdapter) Read(ctx context.Context, id connector.ExternalID, params connector.Params) (connector.RawRecord, error) {
	var record connector.RawRecord
	if err := a.client.do(ctx, http.MethodGet, a.endpoint+"/"+id.String(), params, nil, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// Create creates a record and returns the stored version.
func (a *GenericAdapter) Create(ctx context.Context, data map[string]any) (connector.RawRecord, error) {
	var record connector.RawRecord
	if err := a.client.do(ctx, http.MethodPost, a.endpoint, nil, data, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// Update updates a record and returns the stored version.
func (a *GenericAdapter) Update(ctx context.Context, id connector.ExternalID, data map[string]any) (connector.RawRecord, error) {
	var record connector.RawRecord
	if err := a.client.do(ctx, http.MethodPut, a.endpoint+"/"+id.String(), nil, data, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// Delete removes a record permanently.
func (a *GenericAdapter) Delete(ctx context.Context, id connector.ExternalID) error {
	return a.client.do(ctx, http.MethodDelete, a.endpoint+"/"+id.String(),
		connector.Params{"force": "true"}, nil, nil)
}

// ---------------------------------------------------------------------------
// Registry
// ---------------------------------------------------------------------------

// endpoints maps top-level entity types to their API routes.
var endpoints = map[connector.EntityType]string{
	connector.EntityCategory:  "products/categories",
	connector.EntityProduct:   "products",
	connector.EntityAttribute: "products/attributes",
	connector.EntityCustomer:  "customers",
	connector.EntityOrder:     "orders",
}

// nestedEndpoints maps nested entity types to route templates taking the
// parent id.
var nestedEndpoints = map[connector.EntityType]string{
	connector.EntityVariant:       "products/%s/variations",
	connector.EntityAttributeTerm: "products/attributes/%s/terms",
}

// AdapterRegistry hands out adapters for one shop client.
type AdapterRegistry struct {
	client *Client
}

// NewAdapterRegistry creates the registry.
func NewAdapterRegistry(client *Client) *AdapterRegistry {
	return &AdapterRegistry{client: client}
}

// AdapterFor returns the adapter for a top-level resource, or nil for
// entity types that only exist nested.
func (r *AdapterRegistry) AdapterFor(entityType connector.EntityType) connector.RemoteAdapter {
	endpoint, ok := endpoints[entityType]
	if !ok {
		return nil
	}
	return NewGenericAdapter(r.client, endpoint)
}

// NestedAdapterFor returns the adapter for a resource under a parent
// record, or nil for entity types that are not nested.
func (r *AdapterRegistry) NestedAdapterFor(entityType connector.EntityType, parentID connector.ExternalID) connector.RemoteAdapter {
	tmpl, ok := nestedEndpoints[entityType]
	if !ok {
		return nil
	}
	return NewGenericAdapter(r.client, fmt.Sprintf(tmpl, parentID))
}
