package connector

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrBackendNotFound indicates no backend exists for the given id
	ErrBackendNotFound = errors.New("connector: backend not found")
	// ErrBackendInvalid indicates the backend configuration is incomplete
	ErrBackendInvalid = errors.New("connector: invalid backend configuration")
)

// Backend is one configured connection to a remote storefront instance:
// its credentials plus the connector's own bookkeeping (the watermark for
// incremental order imports).
type Backend struct {
	// ID is the unique identifier of the backend
	ID uuid.UUID
	// Name is the operator-facing name of the connection
	Name string
	// Location is the base URL of the storefront REST API
	Location string
	// ConsumerKey is the API consumer key
	ConsumerKey string
	// ConsumerSecret is the API consumer secret
	ConsumerSecret string
	// VerifySSL controls TLS certificate verification
	VerifySSL bool
	// WarehouseCode identifies the warehouse used to compute stock quantities
	WarehouseCode string
	// StockField selects which product quantity is exported
	// (forecast or on-hand)
	StockField StockField
	// ImportOrdersFromDate is the watermark for incremental order imports.
	// Advanced by the importer after each successful batch.
	ImportOrdersFromDate *time.Time
	// CreatedAt is when the backend was configured
	CreatedAt time.Time
	// UpdatedAt is when the backend was last updated
	UpdatedAt time.Time
}

// StockField selects the product quantity exported to the storefront.
type StockField string

const (
	// StockFieldForecast exports the forecasted (virtual) quantity
	StockFieldForecast StockField = "forecast_qty"
	// StockFieldOnHand exports the on-hand quantity
	StockFieldOnHand StockField = "on_hand_qty"
)

// Validate validates the backend configuration
func (b *Backend) Validate() error {
	if b.Name == "" || b.Location == "" {
		return ErrBackendInvalid
	}
	if b.ConsumerKey == "" || b.ConsumerSecret == "" {
		return ErrBackendInvalid
	}
	return nil
}

// AdvanceOrderWatermark moves the order import watermark forward. A small
// buffer is subtracted so records committed on the storefront while the
// batch ran are picked up by the next one.
func (b *Backend) AdvanceOrderWatermark(importStart time.Time, buffer time.Duration) {
	next := importStart.Add(-buffer)
	if b.ImportOrdersFromDate != nil && b.ImportOrdersFromDate.After(next) {
		return
	}
	b.ImportOrdersFromDate = &next
	b.UpdatedAt = time.Now()
}

// BackendRepository persists backend connections.
type BackendRepository interface {
	// FindByID finds a backend by its id
	FindByID(ctx context.Context, id uuid.UUID) (*Backend, error)

	// FindByName finds a backend by its operator-facing name
	FindByName(ctx context.Context, name string) (*Backend, error)

	// FindAll returns all configured backends
	FindAll(ctx context.Context) ([]*Backend, error)

	// Save creates or updates a backend
	Save(ctx context.Context, backend *Backend) error
}
