package sync

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/domain/store"
)

// variantImporter imports the variations of a variable product through the
// nested endpoint. The owning template must already be bound; variant jobs
// are only scheduled after the template import commits.
func (f *Flows) variantImporter() *Importer {
	return &Importer{
		Entity: connector.EntityVariant,
		Dependencies: func(ctx context.Context, w *Work, rec connector.RawRecord) error {
			for _, attr := range rec.List("attributes") {
				if err := f.dependency(ctx, w, connector.EntityAttribute, attr.ID("id")); err != nil {
					return err
				}
			}
			return nil
		},
		Mapper: &Mapper{
			Rules: []Rule{
				Compute(mapVariantFields),
				Compute(mapVariantTemplate),
				Compute(mapVariantTerms),
			},
		},
		AfterImport: deactivatePlaceholderVariants,
	}
}

func mapVariantFields(ctx context.Context, mc *MapContext) (connector.Values, error) {
	rec := mc.Record
	price := rec.Decimal("regular_price")
	if price.IsZero() {
		price = rec.Decimal("price")
	}
	return connector.Values{
		"sku":        rec.Str("sku"),
		"list_price": price,
		"active":     rec.Bool("purchasable") || rec.Str("status") == "publish",
	}, nil
}

func mapVariantTemplate(ctx context.Context, mc *MapContext) (connector.Values, error) {
	if mc.ParentID.IsZero() {
		return nil, mappingErrorf("variant %s has no parent template", mc.ExternalID)
	}
	binding, err := mc.Work.BinderFor(connector.EntityProduct).ToInternal(ctx, mc.ParentID)
	if err != nil {
		if errors.Is(err, connector.ErrNotBound) {
			return nil, mappingErrorf("template %s is not bound", mc.ParentID)
		}
		return nil, err
	}
	return connector.Values{"template_id": binding.LocalID}, nil
}

// mapVariantTerms resolves the attribute/option pairs of the variation to
// attribute term ids. Terms are matched by name under the bound attribute.
func mapVariantTerms(ctx context.Context, mc *MapContext) (connector.Values, error) {
	w := mc.Work
	binder := w.BinderFor(connector.EntityAttribute)
	var termIDs []uuid.UUID
	for _, attr := range mc.Record.List("attributes") {
		option := attr.Str("option")
		if option == "" {
			continue
		}
		binding, err := binder.ToInternal(ctx, attr.ID("id"))
		if err != nil {
			if errors.Is(err, connector.ErrNotBound) {
				return nil, mappingErrorf("attribute %s is not bound", attr.ID("id"))
			}
			return nil, err
		}
		term, err := w.Stores.Terms().FindByName(ctx, binding.LocalID, option)
		if err != nil {
			if errors.Is(err, store.ErrTermNotFound) {
				return nil, mappingErrorf("term %q of attribute %s is not known", option, attr.ID("id"))
			}
			return nil, err
		}
		termIDs = append(termIDs, term.ID)
	}
	return connector.Values{"term_ids": termIDs}, nil
}

// deactivatePlaceholderVariants retires the attribute-less default variant
// a template starts with once a real variation exists.
func deactivatePlaceholderVariants(ctx context.Context, mc *MapContext, localID uuid.UUID, _ ImportResult) error {
	w := mc.Work
	variant, err := w.Stores.Variants().FindByID(ctx, localID)
	if err != nil {
		return err
	}
	siblings, err := w.Stores.Variants().VariantsOf(ctx, variant.TemplateID)
	if err != nil {
		return err
	}
	for _, sib := range siblings {
		if sib.ID == localID || !sib.IsPlaceholder() || !sib.Active {
			continue
		}
		if err := w.Stores.Variants().Deactivate(ctx, sib.ID); err != nil {
			return err
		}
	}
	return nil
}
