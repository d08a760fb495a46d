package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSalesOrderConfirm(t *testing.T) {
	t.Run("draft order becomes confirmed", func(t *testing.T) {
		o := &SalesOrder{Status: OrderStatusDraft}
		o.Confirm()
		assert.Equal(t, OrderStatusConfirmed, o.Status)
	})

	t.Run("confirming twice is a no-op", func(t *testing.T) {
		o := &SalesOrder{Status: OrderStatusConfirmed}
		o.Confirm()
		assert.Equal(t, OrderStatusConfirmed, o.Status)
	})

	t.Run("done order is untouched", func(t *testing.T) {
		o := &SalesOrder{Status: OrderStatusDone}
		o.Confirm()
		assert.Equal(t, OrderStatusDone, o.Status)
	})
}
