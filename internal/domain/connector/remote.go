package connector

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RemoteDateFormat is the layout of every timestamp field exchanged with
// the storefront API.
const RemoteDateFormat = "2006-01-02T15:04:05"

// Params are query-string parameters for remote calls (filters, pagination).
type Params map[string]string

// Clone returns a shallow copy so callers can add pagination parameters
// without mutating the original filter set.
func (p Params) Clone() Params {
	out := make(Params, len(p)+2)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// ---------------------------------------------------------------------------
// RawRecord
// ---------------------------------------------------------------------------

// RawRecord is one fetched remote payload, decoded from JSON. It is owned
// exclusively by the importer invocation that fetched it and discarded after
// mapping; it is never persisted.
type RawRecord map[string]any

// Str returns the string value of a field, or "" when absent or not a string.
func (r RawRecord) Str(field string) string {
	if v, ok := r[field].(string); ok {
		return v
	}
	return ""
}

// Bool returns the boolean value of a field.
func (r RawRecord) Bool(field string) bool {
	v, _ := r[field].(bool)
	return v
}

// ID returns a field as an ExternalID. JSON numbers decode as float64, so
// numeric ids are rendered without an exponent or decimals.
func (r RawRecord) ID(field string) ExternalID {
	switch v := r[field].(type) {
	case string:
		return ExternalID(v)
	case float64:
		return ExternalID(decimal.NewFromFloat(v).String())
	case int:
		return ExternalID(decimal.NewFromInt(int64(v)).String())
	default:
		return ""
	}
}

// Decimal returns a numeric or numeric-string field as a decimal.
func (r RawRecord) Decimal(field string) decimal.Decimal {
	switch v := r[field].(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	case int:
		return decimal.NewFromInt(int64(v))
	}
	return decimal.Zero
}

// Time parses a remote timestamp field. The zero time is returned when the
// field is absent or malformed.
func (r RawRecord) Time(field string) time.Time {
	s := r.Str(field)
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(RemoteDateFormat, s)
	if err != nil {
		return time.Time{}
	}
	return t
}

// List returns a nested list of records (e.g. order line items).
func (r RawRecord) List(field string) []RawRecord {
	items, ok := r[field].([]any)
	if !ok {
		return nil
	}
	out := make([]RawRecord, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, RawRecord(m))
		}
	}
	return out
}

// Strings returns a list of plain string values (e.g. attribute options).
func (r RawRecord) Strings(field string) []string {
	items, ok := r[field].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Sub returns a nested record (e.g. a billing address).
func (r RawRecord) Sub(field string) RawRecord {
	if m, ok := r[field].(map[string]any); ok {
		return RawRecord(m)
	}
	return nil
}

// ---------------------------------------------------------------------------
// RemoteAdapter port
// ---------------------------------------------------------------------------

// RemoteAdapter performs CRUD calls against one storefront resource. Each
// operation issues a single HTTP call; implementations translate transport
// and protocol failures into the connector error taxonomy.
type RemoteAdapter interface {
	// Search returns the ids of the records matching the filter parameters.
	Search(ctx context.Context, params Params) ([]ExternalID, error)

	// Read returns one record. ErrNoSuchRecord is returned for ids the
	// storefront no longer knows.
	Read(ctx context.Context, id ExternalID, params Params) (RawRecord, error)

	// SearchRead returns the full records matching the filter parameters.
	SearchRead(ctx context.Context, params Params) ([]RawRecord, error)

	// Create creates a record on the storefront and returns it.
	Create(ctx context.Context, data map[string]any) (RawRecord, error)

	// Update updates a record on the storefront and returns it.
	Update(ctx context.Context, id ExternalID, data map[string]any) (RawRecord, error)

	// Delete deletes a record on the storefront.
	Delete(ctx context.Context, id ExternalID) error
}

// ImageFetcher downloads binary content referenced by remote records.
// ErrNoSuchRecord is returned for URLs that no longer resolve.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// AdapterRegistry resolves the remote adapter for an entity type. Nested
// resources (variations under a template, terms under an attribute) take
// the parent external id as path argument.
type AdapterRegistry interface {
	// AdapterFor returns the adapter for a top-level resource.
	AdapterFor(entityType EntityType) RemoteAdapter

	// NestedAdapterFor returns the adapter for a resource nested under a
	// parent record (variants, attribute terms).
	NestedAdapterFor(entityType EntityType, parentID ExternalID) RemoteAdapter
}
