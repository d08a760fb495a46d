package sync

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/erp/connector/internal/domain/connector"
)

// batchPageSize is how many records one search page requests.
const batchPageSize = 100

// BatchImporter discovers remote records matching a filter and schedules
// one import job per record. Discovery paginates until the remote returns
// a short page.
type BatchImporter struct {
	Entity  connector.EntityType
	Options connector.JobOptions

	// Direct runs imports inline instead of enqueuing jobs. Used for small
	// dependency-free entities the operator wants imported synchronously.
	Direct bool

	// Import is the inline import used in direct mode.
	Import func(ctx context.Context, w *Work, args connector.JobArgs) error
}

// Run searches the remote and schedules or runs the per-record imports.
// It returns how many records were found.
func (b *BatchImporter) Run(ctx context.Context, w *Work, args connector.JobArgs) (int, error) {
	adapter := b.adapter(w, args)

	params := args.Filters.Clone()
	if params == nil {
		params = connector.Params{}
	}

	// A caller-supplied page size means one page, exactly as requested.
	pageSize := batchPageSize
	singlePage := false
	if supplied, ok := params["per_page"]; ok {
		if n, err := strconv.Atoi(supplied); err == nil && n > 0 {
			pageSize = n
		}
		singlePage = true
	} else {
		params["per_page"] = strconv.Itoa(batchPageSize)
	}

	if singlePage {
		if _, ok := params["page"]; !ok {
			params["page"] = "1"
		}
	}

	total := 0
	for page := 1; ; page++ {
		if !singlePage {
			params["page"] = strconv.Itoa(page)
		}
		ids, err := adapter.Search(ctx, params)
		if err != nil {
			return total, err
		}
		for _, id := range ids {
			if err := b.one(ctx, w, connector.JobArgs{
				EntityType: b.Entity,
				ExternalID: id,
				ParentID:   args.ParentID,
			}); err != nil {
				return total, err
			}
		}
		total += len(ids)
		if singlePage || len(ids) < pageSize {
			break
		}
	}

	w.Log.Info("batch import scheduled",
		zap.String("entity", string(b.Entity)),
		zap.Int("records", total))
	return total, nil
}

func (b *BatchImporter) one(ctx context.Context, w *Work, args connector.JobArgs) error {
	if b.Direct {
		return b.Import(ctx, w, args)
	}
	_, err := w.Queue.Enqueue(ctx, connector.JobRequest{
		Type:      connector.JobTypeImportRecord,
		BackendID: w.Backend.ID,
		Args:      args,
		Options:   b.Options,
	})
	return err
}

func (b *BatchImporter) adapter(w *Work, args connector.JobArgs) connector.RemoteAdapter {
	if !args.ParentID.IsZero() {
		return w.Adapters.NestedAdapterFor(b.Entity, args.ParentID)
	}
	return w.AdapterFor(b.Entity)
}
