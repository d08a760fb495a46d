package sync

import (
	"context"
	"errors"

	"github.com/erp/connector/internal/domain/connector"
)

// categoryImporter imports product categories. The parent category is a
// hard dependency: it is imported first, and an unresolvable parent fails
// the mapping.
func (f *Flows) categoryImporter() *Importer {
	return &Importer{
		Entity: connector.EntityCategory,
		Dependencies: func(ctx context.Context, w *Work, rec connector.RawRecord) error {
			parent := rec.ID("parent")
			if parent == "" || parent == "0" {
				return nil
			}
			return f.dependency(ctx, w, connector.EntityCategory, parent)
		},
		Mapper: &Mapper{
			Rules: []Rule{
				Direct("name", "name"),
				Compute(mapCategoryParent),
			},
		},
	}
}

func mapCategoryParent(ctx context.Context, mc *MapContext) (connector.Values, error) {
	parent := mc.Record.ID("parent")
	if parent == "" || parent == "0" {
		return connector.Values{"parent_id": nil}, nil
	}
	binding, err := mc.Work.BinderFor(connector.EntityCategory).ToInternal(ctx, parent)
	if err != nil {
		if errors.Is(err, connector.ErrNotBound) {
			return nil, mappingErrorf("parent category %s is not bound", parent)
		}
		return nil, err
	}
	return connector.Values{"parent_id": binding.LocalID}, nil
}
