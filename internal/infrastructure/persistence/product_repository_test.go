package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/domain/store"
)

func TestProductStoreCreateFromValues(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	products := NewGormProductStore(db)
	categories := NewGormCategoryStore(db)

	mainCat, err := categories.CreateFromValues(ctx, connector.Values{"name": "Chairs"})
	require.NoError(t, err)
	extraCat, err := categories.CreateFromValues(ctx, connector.Values{"name": "Sale"})
	require.NoError(t, err)

	id, err := products.CreateFromValues(ctx, connector.Values{
		"name":                   "Desk Chair",
		"description":            "Ergonomic",
		"sku":                    "CHAIR-01",
		"kind":                   "simple",
		"active":                 true,
		"list_price":             decimal.NewFromFloat(149.90),
		"weight":                 decimal.NewFromFloat(7.5),
		"category_id":            mainCat,
		"secondary_category_ids": []uuid.UUID{extraCat},
	})
	require.NoError(t, err)

	product, err := products.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Desk Chair", product.Name)
	assert.Equal(t, "CHAIR-01", product.SKU)
	assert.Equal(t, store.ProductKindSimple, product.Kind)
	assert.True(t, product.ListPrice.Equal(decimal.NewFromFloat(149.90)))
	require.NotNil(t, product.CategoryID)
	assert.Equal(t, mainCat, *product.CategoryID)
	assert.Equal(t, []uuid.UUID{extraCat}, product.SecondaryCategoryIDs)
}

func TestProductStoreFindBySKU(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	products := NewGormProductStore(db)

	id, err := products.CreateFromValues(ctx, connector.Values{
		"name": "Desk Chair",
		"sku":  "CHAIR-01",
	})
	require.NoError(t, err)

	found, err := products.FindBySKU(ctx, "CHAIR-01")
	require.NoError(t, err)
	assert.Equal(t, id, found.ID)

	_, err = products.FindBySKU(ctx, "MISSING")
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestProductStoreFieldTypeMismatch(t *testing.T) {
	db := testDB(t)
	products := NewGormProductStore(db)

	// A price arriving as a bare float is a mapping bug, not data.
	_, err := products.CreateFromValues(context.Background(), connector.Values{
		"name":       "Desk Chair",
		"list_price": 149.90,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"list_price"`)
}

func TestProductStoreSaveImage(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	products := NewGormProductStore(db)

	id, err := products.CreateFromValues(ctx, connector.Values{"name": "Desk Chair"})
	require.NoError(t, err)

	require.NoError(t, products.SaveImage(ctx, id, []byte("jpeg-bytes")))

	product, err := products.FindByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), product.Image)

	err = products.SaveImage(ctx, uuid.New(), []byte("x"))
	assert.ErrorIs(t, err, store.ErrProductNotFound)
}

func TestProductStoreMarkExported(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	products := NewGormProductStore(db)

	id, err := products.CreateFromValues(ctx, connector.Values{"name": "Desk Chair"})
	require.NoError(t, err)

	require.NoError(t, products.MarkExported(ctx, id, decimal.NewFromInt(12)))

	product, err := products.FindByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, product.ExportedQty.Equal(decimal.NewFromInt(12)))
}

func TestProductStoreSetAttributeLineMergesTerms(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	products := NewGormProductStore(db)

	productID, err := products.CreateFromValues(ctx, connector.Values{"name": "Desk Chair"})
	require.NoError(t, err)

	attributeID := uuid.New()
	red, blue := uuid.New(), uuid.New()

	require.NoError(t, products.SetAttributeLine(ctx, store.AttributeLine{
		ProductID:   productID,
		AttributeID: attributeID,
		TermIDs:     []uuid.UUID{red},
	}))

	// A later variant adds its term without dropping the earlier one.
	require.NoError(t, products.SetAttributeLine(ctx, store.AttributeLine{
		ProductID:   productID,
		AttributeID: attributeID,
		TermIDs:     []uuid.UUID{blue, red},
	}))

	var count int64
	require.NoError(t, db.Table("product_attribute_lines").
		Where("product_id = ?", productID).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	var termsJSON string
	require.NoError(t, db.Table("product_attribute_lines").
		Where("product_id = ?", productID).
		Pluck("term_ids", &termsJSON).Error)
	assert.Contains(t, termsJSON, red.String())
	assert.Contains(t, termsJSON, blue.String())
}
