package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/connector/internal/domain/connector"
)

func TestGormBinderUnbound(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	binder := NewGormBinder(db, uuid.New(), connector.EntityProduct)

	_, err := binder.ToInternal(ctx, "42")
	assert.ErrorIs(t, err, connector.ErrNotBound)

	_, err = binder.ToExternal(ctx, uuid.New())
	assert.ErrorIs(t, err, connector.ErrNotBound)
}

func TestGormBinderBindAndResolve(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	backendID := uuid.New()
	binder := NewGormBinder(db, backendID, connector.EntityProduct)

	localID := uuid.New()
	require.NoError(t, binder.Bind(ctx, "42", localID))

	binding, err := binder.ToInternal(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, localID, binding.LocalID)
	assert.Equal(t, backendID, binding.BackendID)
	assert.Equal(t, connector.EntityProduct, binding.EntityType)
	assert.False(t, binding.LastSyncAt.IsZero())

	externalID, err := binder.ToExternal(ctx, localID)
	require.NoError(t, err)
	assert.Equal(t, connector.ExternalID("42"), externalID)
}

func TestGormBinderRebindSamePairRefreshes(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	binder := NewGormBinder(db, uuid.New(), connector.EntityProduct)

	localID := uuid.New()
	require.NoError(t, binder.Bind(ctx, "42", localID))

	first, err := binder.ToInternal(ctx, "42")
	require.NoError(t, err)

	require.NoError(t, binder.Bind(ctx, "42", localID))

	second, err := binder.ToInternal(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.False(t, second.LastSyncAt.Before(first.LastSyncAt))
}

func TestGormBinderConflicts(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	binder := NewGormBinder(db, uuid.New(), connector.EntityProduct)

	localID := uuid.New()
	require.NoError(t, binder.Bind(ctx, "42", localID))

	// Same external id, different local record.
	err := binder.Bind(ctx, "42", uuid.New())
	assert.ErrorIs(t, err, connector.ErrBindingConflict)

	// Same local record, different external id.
	err = binder.Bind(ctx, "43", localID)
	assert.ErrorIs(t, err, connector.ErrBindingConflict)
}

func TestGormBinderScoping(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	backendID := uuid.New()
	products := NewGormBinder(db, backendID, connector.EntityProduct)
	localID := uuid.New()
	require.NoError(t, products.Bind(ctx, "42", localID))

	// The same pair is free under another entity type and another backend.
	categories := NewGormBinder(db, backendID, connector.EntityCategory)
	assert.NoError(t, categories.Bind(ctx, "42", localID))

	other := NewGormBinder(db, uuid.New(), connector.EntityProduct)
	assert.NoError(t, other.Bind(ctx, "42", localID))

	_, err := other.ToInternal(ctx, "42")
	assert.NoError(t, err)
}

func TestGormBinderRegistry(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	registry := NewGormBinderRegistry(db, uuid.New())

	localID := uuid.New()
	require.NoError(t, registry.BinderFor(connector.EntityCustomer).Bind(ctx, "7", localID))

	binding, err := registry.BinderFor(connector.EntityCustomer).ToInternal(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, localID, binding.LocalID)
}
