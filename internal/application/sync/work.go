package sync

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/domain/store"
)

// Work carries everything a synchronization flow needs for one backend.
// It is built once per job execution and passed explicitly; flows never
// reach for global state.
type Work struct {
	Backend  *connector.Backend
	Binders  connector.BinderRegistry
	Adapters connector.AdapterRegistry
	Stores   store.Registry
	Queue    connector.JobQueue
	Locker   connector.AdvisoryLocker
	Images   connector.ImageFetcher
	Log      *zap.Logger

	// RetryCount is how many times the current job has already run.
	RetryCount int

	// Now is the clock used for watermarks and age cutoffs. Tests override
	// it; nil means time.Now.
	Now func() time.Time

	// held accumulates advisory locks acquired during the job. The queue
	// worker releases them after the surrounding transaction commits.
	held []connector.LockHandle
}

// Clock returns the current time through the injected clock.
func (w *Work) Clock() time.Time {
	if w.Now != nil {
		return w.Now()
	}
	return time.Now()
}

// HoldLock records a lock to be released after commit.
func (w *Work) HoldLock(h connector.LockHandle) {
	w.held = append(w.held, h)
}

// ReleaseLocks releases every held lock. Called by the queue worker once
// the job's transaction has finished, committed or not.
func (w *Work) ReleaseLocks(ctx context.Context) {
	for _, h := range w.held {
		if err := h.Release(ctx); err != nil {
			w.Log.Warn("releasing import lock failed", zap.Error(err))
		}
	}
	w.held = nil
}

// BinderFor is a shorthand for the registry lookup.
func (w *Work) BinderFor(t connector.EntityType) connector.Binder {
	return w.Binders.BinderFor(t)
}

// AdapterFor is a shorthand for the registry lookup.
func (w *Work) AdapterFor(t connector.EntityType) connector.RemoteAdapter {
	return w.Adapters.AdapterFor(t)
}
