package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/connector/internal/domain/store"
	"github.com/erp/connector/internal/infrastructure/persistence/models"
)

func TestPaymentMethodStoreFindByCode(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	methods := NewGormPaymentMethodStore(db)

	_, err := methods.FindByCode(ctx, "bacs")
	assert.ErrorIs(t, err, store.ErrPaymentMethodNotFound)

	model := models.PaymentMethodModel{
		Name:             "Bank Transfer",
		Code:             "bacs",
		ImportRule:       string(store.ImportPaid),
		DaysBeforeCancel: 30,
	}
	require.NoError(t, db.Create(&model).Error)

	method, err := methods.FindByCode(ctx, "bacs")
	require.NoError(t, err)
	assert.Equal(t, "Bank Transfer", method.Name)
	assert.Equal(t, store.ImportPaid, method.ImportRule)
	assert.Equal(t, 30, method.DaysBeforeCancel)
}

func TestCarrierStoreFindOrCreate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	carriers := NewGormCarrierStore(db)

	created, err := carriers.FindOrCreate(ctx, "flat_rate", "Flat rate")
	require.NoError(t, err)
	assert.Equal(t, "Flat rate", created.Name)

	// The second resolution reuses the row regardless of the name sent.
	again, err := carriers.FindOrCreate(ctx, "flat_rate", "Flat rate (renamed)")
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
	assert.Equal(t, "Flat rate", again.Name)
}

func TestCarrierStoreFindOrCreateNameFallsBackToCode(t *testing.T) {
	db := testDB(t)
	carriers := NewGormCarrierStore(db)

	carrier, err := carriers.FindOrCreate(context.Background(), "local_pickup", "")
	require.NoError(t, err)
	assert.Equal(t, "local_pickup", carrier.Name)
}
