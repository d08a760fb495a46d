package sync

import (
	"context"
	"fmt"

	"github.com/erp/connector/internal/domain/connector"
)

// Handler executes one deferred job against a backend.
type Handler func(ctx context.Context, w *Work, args connector.JobArgs) error

// Handler returns the executor for a job type. The queue worker resolves
// handlers by the type stored on each job row.
func (f *Flows) Handler(jobType string) (Handler, error) {
	switch jobType {
	case connector.JobTypeImportRecord:
		return func(ctx context.Context, w *Work, args connector.JobArgs) error {
			imp, err := f.ImporterFor(args.EntityType)
			if err != nil {
				return err
			}
			_, err = imp.Run(ctx, w, args)
			return err
		}, nil
	case connector.JobTypeImportBatch:
		return func(ctx context.Context, w *Work, args connector.JobArgs) error {
			batch, err := f.BatchFor(args.EntityType)
			if err != nil {
				return err
			}
			_, err = batch.Run(ctx, w, args)
			return err
		}, nil
	case connector.JobTypeExportInventory:
		return func(ctx context.Context, w *Work, args connector.JobArgs) error {
			return f.inventory.Run(ctx, w, args)
		}, nil
	case connector.JobTypeExportState:
		return func(ctx context.Context, w *Work, args connector.JobArgs) error {
			return f.state.Run(ctx, w, args)
		}, nil
	}
	return nil, fmt.Errorf("unknown job type %q", jobType)
}
