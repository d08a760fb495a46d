package connector

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Binding
// ---------------------------------------------------------------------------

// Binding associates one local record with one (backend, external id) pair.
// At most one binding exists per (backend, entity type, external id); a
// local record has zero or one active binding per backend.
type Binding struct {
	// ID is the unique identifier of the binding
	ID uuid.UUID
	// BackendID is the backend this binding belongs to
	BackendID uuid.UUID
	// EntityType is the kind of record bound
	EntityType EntityType
	// ExternalID is the record id on the storefront
	ExternalID ExternalID
	// LocalID is the internal record id
	LocalID uuid.UUID
	// LastSyncAt is when the record was last imported successfully
	LastSyncAt time.Time
	// CreatedAt is when the binding was created
	CreatedAt time.Time
	// UpdatedAt is when the binding was last updated
	UpdatedAt time.Time
}

// UpToDate reports whether the binding is at least as recent as the remote
// modification timestamp. A zero remote timestamp means the storefront did
// not report one, in which case the record is never considered up to date.
func (b *Binding) UpToDate(remoteUpdatedAt time.Time) bool {
	if remoteUpdatedAt.IsZero() {
		return false
	}
	return !remoteUpdatedAt.After(b.LastSyncAt)
}

// ---------------------------------------------------------------------------
// Binder port
// ---------------------------------------------------------------------------

// Binder is the identity map between external and local record identifiers
// for one (backend, entity type) scope.
//
// Bind is idempotent: re-binding the same (external id, local id) pair only
// refreshes the sync timestamp. Binding a different local record to an
// already bound external id returns ErrBindingConflict.
type Binder interface {
	// ToInternal returns the binding for an external id, or ErrNotBound
	// when the id is not bound.
	ToInternal(ctx context.Context, externalID ExternalID) (*Binding, error)

	// ToExternal returns the external id bound to a local record, or
	// ErrNotBound when the record is not bound.
	ToExternal(ctx context.Context, localID uuid.UUID) (ExternalID, error)

	// Bind records the association between an external id and a local
	// record, stamping the sync timestamp.
	Bind(ctx context.Context, externalID ExternalID, localID uuid.UUID) error
}

// BinderRegistry gives importers access to the binder of any entity type,
// which is how dependency references are resolved across types (an order
// mapper resolving its customer, a variant resolving its template).
type BinderRegistry interface {
	// BinderFor returns the binder scoped to the given entity type.
	BinderFor(entityType EntityType) Binder
}
