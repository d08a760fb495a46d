package sync

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/domain/store"
)

// productImporter imports product templates. Categories and the
// attributes behind the template's variations are imported as
// dependencies; variable products schedule a variant batch import after
// the template is written.
func (f *Flows) productImporter() *Importer {
	return &Importer{
		Entity: connector.EntityProduct,
		Dependencies: func(ctx context.Context, w *Work, rec connector.RawRecord) error {
			for _, cat := range rec.List("categories") {
				if err := f.dependency(ctx, w, connector.EntityCategory, cat.ID("id")); err != nil {
					return err
				}
			}
			for _, attr := range rec.List("attributes") {
				id := attr.ID("id")
				if id == "" || id == "0" {
					continue
				}
				if err := f.dependency(ctx, w, connector.EntityAttribute, id); err != nil {
					return err
				}
			}
			return nil
		},
		Mapper: &Mapper{
			Rules: []Rule{
				Direct("name", "name"),
				Direct("description", "description"),
				Compute(mapProductFields),
				Compute(mapProductCategories),
				OnlyOnCreate(findProductBySKU),
			},
		},
		AfterImport: f.afterProductImport,
	}
}

func mapProductFields(ctx context.Context, mc *MapContext) (connector.Values, error) {
	rec := mc.Record
	kind := string(store.ProductKindSimple)
	if rec.Str("type") == "variable" {
		kind = string(store.ProductKindVariable)
	}
	price := rec.Decimal("regular_price")
	if price.IsZero() {
		price = rec.Decimal("price")
	}
	return connector.Values{
		"sku":        rec.Str("sku"),
		"kind":       kind,
		"active":     rec.Str("status") == "publish",
		"list_price": price,
		"weight":     rec.Decimal("weight"),
	}, nil
}

func mapProductCategories(ctx context.Context, mc *MapContext) (connector.Values, error) {
	binder := mc.Work.BinderFor(connector.EntityCategory)
	var main *uuid.UUID
	var secondary []uuid.UUID
	for _, cat := range mc.Record.List("categories") {
		binding, err := binder.ToInternal(ctx, cat.ID("id"))
		if err != nil {
			if errors.Is(err, connector.ErrNotBound) {
				return nil, mappingErrorf("category %s is not bound", cat.ID("id"))
			}
			return nil, err
		}
		if main == nil {
			id := binding.LocalID
			main = &id
			continue
		}
		secondary = append(secondary, binding.LocalID)
	}
	return connector.Values{
		"category_id":            main,
		"secondary_category_ids": secondary,
	}, nil
}

func findProductBySKU(ctx context.Context, mc *MapContext) (connector.Values, error) {
	sku := mc.Record.Str("sku")
	if sku == "" {
		return nil, nil
	}
	existing, err := mc.Work.Stores.Products().FindBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return connector.Values{ExistingIDKey: existing.ID}, nil
}

func (f *Flows) afterProductImport(ctx context.Context, mc *MapContext, localID uuid.UUID, _ ImportResult) error {
	w := mc.Work
	if err := f.importProductImage(ctx, mc, localID); err != nil {
		return err
	}
	if mc.Record.Str("type") != "variable" {
		return nil
	}
	if err := f.setProductAttributeLines(ctx, mc, localID); err != nil {
		return err
	}
	_, err := w.Queue.Enqueue(ctx, connector.JobRequest{
		Type:      connector.JobTypeImportBatch,
		BackendID: w.Backend.ID,
		Args: connector.JobArgs{
			EntityType: connector.EntityVariant,
			ParentID:   mc.ExternalID,
		},
		Options: connector.VariantJobOptions,
	})
	return err
}

// setProductAttributeLines records which attributes and terms the
// template varies on. Options whose terms are not imported yet are left
// out; the scheduled term batch import merges them in later.
func (f *Flows) setProductAttributeLines(ctx context.Context, mc *MapContext, localID uuid.UUID) error {
	w := mc.Work
	binder := w.BinderFor(connector.EntityAttribute)
	for _, attr := range mc.Record.List("attributes") {
		id := attr.ID("id")
		if id == "" || id == "0" {
			continue
		}
		binding, err := binder.ToInternal(ctx, id)
		if err != nil {
			if errors.Is(err, connector.ErrNotBound) {
				return mappingErrorf("attribute %s is not bound", id)
			}
			return err
		}
		var termIDs []uuid.UUID
		for _, option := range attr.Strings("options") {
			term, err := w.Stores.Terms().FindByName(ctx, binding.LocalID, option)
			if err != nil {
				if errors.Is(err, store.ErrTermNotFound) {
					continue
				}
				return err
			}
			termIDs = append(termIDs, term.ID)
		}
		line := store.AttributeLine{
			ProductID:   localID,
			AttributeID: binding.LocalID,
			TermIDs:     termIDs,
		}
		if err := w.Stores.Products().SetAttributeLine(ctx, line); err != nil {
			return err
		}
	}
	return nil
}

// importProductImage downloads the first retrievable image. The featured
// image is tried first, the rest in position order; dead links are skipped
// rather than failing the import.
func (f *Flows) importProductImage(ctx context.Context, mc *MapContext, localID uuid.UUID) error {
	w := mc.Work
	images := mc.Record.List("images")
	if len(images) == 0 || w.Images == nil {
		return nil
	}
	sort.SliceStable(images, func(a, b int) bool {
		return images[a].Decimal("position").LessThan(images[b].Decimal("position"))
	})
	for _, img := range images {
		src := img.Str("src")
		if src == "" {
			continue
		}
		data, err := w.Images.Fetch(ctx, src)
		if err != nil {
			if errors.Is(err, connector.ErrNoSuchRecord) {
				w.Log.Warn("product image missing, trying next",
					zap.String("external_id", mc.ExternalID.String()),
					zap.String("src", src))
				continue
			}
			return err
		}
		return w.Stores.Products().SaveImage(ctx, localID, data)
	}
	return nil
}
