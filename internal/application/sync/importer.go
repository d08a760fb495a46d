package sync

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/domain/store"
)

// ImportResult is the outcome of one record import.
type ImportResult string

const (
	ImportedCreated ImportResult = "created"
	ImportedUpdated ImportResult = "updated"
	ImportUpToDate  ImportResult = "up-to-date"
	ImportSkipped   ImportResult = "skipped"
)

// Importer runs the per-record import state machine for one entity type:
// read the remote record, short-circuit when the binding is already up to
// date, check the skip policy, take the advisory lock, import
// dependencies, map, upsert, bind, then run the after-import hook.
type Importer struct {
	Entity connector.EntityType
	Mapper *Mapper

	// Dependencies imports the records this one refers to. Runs after the
	// skip policy and the advisory lock, so a record that is never imported
	// does not pull its dependencies in either. Nested imports take their
	// own locks.
	Dependencies func(ctx context.Context, w *Work, rec connector.RawRecord) error

	// MustSkip returns a non-empty reason when the record should not be
	// imported at all. A retryable error postpones the job instead.
	MustSkip func(ctx context.Context, mc *MapContext) (string, error)

	// Upsert overrides the default store.Registry upsert for entities
	// whose persistence is not a plain create-or-update.
	Upsert func(ctx context.Context, mc *MapContext, vals connector.Values, existing *connector.Binding) (uuid.UUID, ImportResult, error)

	// AfterImport runs once the record is written and bound. Follow-up
	// jobs (variants of a template, images) are enqueued here.
	AfterImport func(ctx context.Context, mc *MapContext, localID uuid.UUID, res ImportResult) error
}

// Run imports one record identified by args.ExternalID.
func (i *Importer) Run(ctx context.Context, w *Work, args connector.JobArgs) (ImportResult, error) {
	adapter := i.adapter(w, args)
	if adapter == nil {
		return "", fmt.Errorf("%w: no adapter for %s", connector.ErrMapping, i.Entity)
	}

	rec, err := adapter.Read(ctx, args.ExternalID, nil)
	if err != nil {
		if errors.Is(err, connector.ErrNoSuchRecord) {
			w.Log.Info("import skipped",
				zap.String("entity", string(i.Entity)),
				zap.String("external_id", args.ExternalID.String()),
				zap.String("reason", "record no longer exists"))
			return ImportSkipped, nil
		}
		return "", fmt.Errorf("reading %s %s: %w", i.Entity, args.ExternalID, err)
	}

	binder := w.BinderFor(i.Entity)
	binding, err := binder.ToInternal(ctx, args.ExternalID)
	if err != nil && !errors.Is(err, connector.ErrNotBound) {
		return "", err
	}

	if binding != nil && !args.Force && binding.UpToDate(rec.Time("date_modified")) {
		w.Log.Debug("record already up to date",
			zap.String("entity", string(i.Entity)),
			zap.String("external_id", args.ExternalID.String()))
		return ImportUpToDate, nil
	}

	mc := &MapContext{
		Work:       w,
		ExternalID: args.ExternalID,
		ParentID:   args.ParentID,
		Record:     rec,
		ForCreate:  binding == nil,
		Force:      args.Force,
	}

	if i.MustSkip != nil {
		reason, err := i.MustSkip(ctx, mc)
		if err != nil {
			return "", err
		}
		if reason != "" {
			w.Log.Info("import skipped",
				zap.String("entity", string(i.Entity)),
				zap.String("external_id", args.ExternalID.String()),
				zap.String("reason", reason))
			return ImportSkipped, nil
		}
	}

	lockName := connector.ImportLockName(w.Backend.ID, i.Entity, args.ExternalID)
	handle, err := w.Locker.TryAcquire(ctx, lockName)
	if err != nil {
		return "", err
	}
	w.HoldLock(handle)

	if i.Dependencies != nil {
		if err := i.Dependencies(ctx, w, rec); err != nil {
			return "", err
		}
	}

	vals, err := i.Mapper.Map(ctx, mc)
	if err != nil {
		return "", err
	}

	localID, res, err := i.upsert(ctx, w, mc, vals, binding)
	if err != nil {
		return "", err
	}

	if err := binder.Bind(ctx, args.ExternalID, localID); err != nil {
		return "", err
	}

	if i.AfterImport != nil {
		if err := i.AfterImport(ctx, mc, localID, res); err != nil {
			return "", err
		}
	}

	w.Log.Info("record imported",
		zap.String("entity", string(i.Entity)),
		zap.String("external_id", args.ExternalID.String()),
		zap.String("local_id", localID.String()),
		zap.String("result", string(res)))
	return res, nil
}

func (i *Importer) adapter(w *Work, args connector.JobArgs) connector.RemoteAdapter {
	if !args.ParentID.IsZero() {
		return w.Adapters.NestedAdapterFor(i.Entity, args.ParentID)
	}
	return w.AdapterFor(i.Entity)
}

func (i *Importer) upsert(ctx context.Context, w *Work, mc *MapContext, vals connector.Values, binding *connector.Binding) (uuid.UUID, ImportResult, error) {
	if i.Upsert != nil {
		return i.Upsert(ctx, mc, vals, binding)
	}
	up := w.Stores.UpserterFor(i.Entity)
	if up == nil {
		return uuid.Nil, "", fmt.Errorf("%w: no store for %s", connector.ErrMapping, i.Entity)
	}
	return upsertValues(ctx, up, vals, binding)
}

// upsertValues writes vals through an Upserter, honoring a binding and
// the existing-id escape hatch set by only-on-create rules.
func upsertValues(ctx context.Context, up store.Upserter, vals connector.Values, binding *connector.Binding) (uuid.UUID, ImportResult, error) {
	if binding != nil {
		if err := up.UpdateFromValues(ctx, binding.LocalID, vals); err != nil {
			return uuid.Nil, "", err
		}
		return binding.LocalID, ImportedUpdated, nil
	}
	if raw, ok := vals[ExistingIDKey]; ok {
		id, ok := raw.(uuid.UUID)
		if !ok {
			return uuid.Nil, "", mappingErrorf("existing id has type %T", raw)
		}
		delete(vals, ExistingIDKey)
		if len(vals) > 0 {
			if err := up.UpdateFromValues(ctx, id, vals); err != nil {
				return uuid.Nil, "", err
			}
		}
		return id, ImportedUpdated, nil
	}
	id, err := up.CreateFromValues(ctx, vals)
	if err != nil {
		return uuid.Nil, "", err
	}
	return id, ImportedCreated, nil
}

// importDependency imports another record inline when it is not bound
// yet. Bound dependencies are left alone so one import does not cascade
// into refreshing the whole graph.
func importDependency(ctx context.Context, w *Work, entity connector.EntityType, externalID connector.ExternalID, importers map[connector.EntityType]*Importer) error {
	if externalID.IsZero() {
		return nil
	}
	binder := w.BinderFor(entity)
	_, err := binder.ToInternal(ctx, externalID)
	if err == nil {
		return nil
	}
	if !errors.Is(err, connector.ErrNotBound) {
		return err
	}
	imp, ok := importers[entity]
	if !ok {
		return fmt.Errorf("%w: no importer for dependency %s", connector.ErrMapping, entity)
	}
	_, err = imp.Run(ctx, w, connector.JobArgs{EntityType: entity, ExternalID: externalID})
	return err
}
