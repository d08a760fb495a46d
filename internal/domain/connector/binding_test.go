package connector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBindingUpToDate(t *testing.T) {
	synced := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	b := &Binding{LastSyncAt: synced}

	t.Run("remote older than last sync", func(t *testing.T) {
		assert.True(t, b.UpToDate(synced.Add(-time.Hour)))
	})

	t.Run("remote equal to last sync", func(t *testing.T) {
		assert.True(t, b.UpToDate(synced))
	})

	t.Run("remote newer than last sync", func(t *testing.T) {
		assert.False(t, b.UpToDate(synced.Add(time.Minute)))
	})

	t.Run("zero remote timestamp is never up to date", func(t *testing.T) {
		assert.False(t, b.UpToDate(time.Time{}))
	})
}
