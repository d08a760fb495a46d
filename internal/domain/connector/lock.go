package connector

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Advisory lock port
// ---------------------------------------------------------------------------

// ImportLockName builds the advisory lock key serializing concurrent
// importers on the same record. The scope is the full
// (backend, entity type, external id) tuple.
func ImportLockName(backendID uuid.UUID, entityType EntityType, externalID ExternalID) string {
	return fmt.Sprintf("import(%s, %s, %s)", backendID, entityType, externalID)
}

// LockHandle is an acquired advisory lock. The importer keeps the handle
// until the surrounding transaction commits so a concurrent job observes the
// new binding before re-attempting.
type LockHandle interface {
	// Release releases the lock.
	Release(ctx context.Context) error
}

// AdvisoryLocker acquires cooperative, non-structural locks. TryAcquire is
// non-blocking: when the lock is held elsewhere it returns ErrLockBusy and
// the caller reschedules instead of waiting.
type AdvisoryLocker interface {
	// TryAcquire acquires the named lock or returns ErrLockBusy.
	TryAcquire(ctx context.Context, name string) (LockHandle, error)
}
