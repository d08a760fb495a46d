package sync

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/domain/store"
)

// attributeImporter imports product attributes (colour, size). An existing
// attribute with the same name is reused; importing an attribute schedules
// the batch import of its terms.
func (f *Flows) attributeImporter() *Importer {
	return &Importer{
		Entity: connector.EntityAttribute,
		Mapper: &Mapper{
			Rules: []Rule{
				Direct("name", "name"),
				OnlyOnCreate(findAttributeByName),
			},
		},
		AfterImport: func(ctx context.Context, mc *MapContext, localID uuid.UUID, _ ImportResult) error {
			w := mc.Work
			_, err := w.Queue.Enqueue(ctx, connector.JobRequest{
				Type:      connector.JobTypeImportBatch,
				BackendID: w.Backend.ID,
				Args: connector.JobArgs{
					EntityType: connector.EntityAttributeTerm,
					ParentID:   mc.ExternalID,
				},
				Options: connector.DefaultJobOptions,
			})
			return err
		},
	}
}

func findAttributeByName(ctx context.Context, mc *MapContext) (connector.Values, error) {
	name := mc.Record.Str("name")
	if name == "" {
		return nil, mappingErrorf("attribute %s has no name", mc.ExternalID)
	}
	existing, err := mc.Work.Stores.Attributes().FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrAttributeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return connector.Values{ExistingIDKey: existing.ID}, nil
}

// termImporter imports the terms of an attribute through the nested
// endpoint. The owning attribute must already be bound; batch term imports
// are only scheduled after the attribute import commits.
func (f *Flows) termImporter() *Importer {
	return &Importer{
		Entity: connector.EntityAttributeTerm,
		Mapper: &Mapper{
			Rules: []Rule{
				Direct("name", "name"),
				Compute(mapTermAttribute),
				OnlyOnCreate(findTermByName),
			},
		},
	}
}

func mapTermAttribute(ctx context.Context, mc *MapContext) (connector.Values, error) {
	attrID, err := boundAttributeID(ctx, mc)
	if err != nil {
		return nil, err
	}
	return connector.Values{"attribute_id": attrID}, nil
}

func findTermByName(ctx context.Context, mc *MapContext) (connector.Values, error) {
	attrID, err := boundAttributeID(ctx, mc)
	if err != nil {
		return nil, err
	}
	existing, err := mc.Work.Stores.Terms().FindByName(ctx, attrID, mc.Record.Str("name"))
	if err != nil {
		if errors.Is(err, store.ErrTermNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return connector.Values{ExistingIDKey: existing.ID}, nil
}

func boundAttributeID(ctx context.Context, mc *MapContext) (uuid.UUID, error) {
	if mc.ParentID.IsZero() {
		return uuid.Nil, mappingErrorf("term %s has no parent attribute", mc.ExternalID)
	}
	binding, err := mc.Work.BinderFor(connector.EntityAttribute).ToInternal(ctx, mc.ParentID)
	if err != nil {
		if errors.Is(err, connector.ErrNotBound) {
			return uuid.Nil, mappingErrorf("attribute %s is not bound", mc.ParentID)
		}
		return uuid.Nil, err
	}
	return binding.LocalID, nil
}
