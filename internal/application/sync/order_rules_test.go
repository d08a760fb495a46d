package sync

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/domain/store"
)

func paymentMethod(rule store.ImportRule, daysBeforeCancel int) *store.PaymentMethod {
	return &store.PaymentMethod{
		ID:               uuid.New(),
		Name:             "Test method",
		Code:             "bacs",
		ImportRule:       rule,
		DaysBeforeCancel: daysBeforeCancel,
	}
}

func orderContext(h *harness, rec connector.RawRecord) *MapContext {
	return &MapContext{Work: h.work, ExternalID: "1005", Record: rec, ForCreate: true}
}

func TestOrderMustSkipCancelledStatuses(t *testing.T) {
	h := newHarness()
	for _, status := range []string{"cancelled", "failed", "trash"} {
		t.Run(status, func(t *testing.T) {
			reason, err := orderMustSkip(context.Background(), orderContext(h, connector.RawRecord{
				"status": status,
			}))
			require.NoError(t, err)
			assert.NotEmpty(t, reason)
		})
	}
}

func TestOrderMustSkipUnknownPaymentMethod(t *testing.T) {
	h := newHarness()

	_, err := orderMustSkip(context.Background(), orderContext(h, connector.RawRecord{
		"status":         "processing",
		"payment_method": "stripe",
	}))
	assert.ErrorIs(t, err, connector.ErrMapping)
}

func TestOrderMustSkipMissingPaymentMethod(t *testing.T) {
	h := newHarness()

	_, err := orderMustSkip(context.Background(), orderContext(h, connector.RawRecord{
		"status": "processing",
	}))
	assert.ErrorIs(t, err, connector.ErrMapping)
}

func TestOrderImportRuleAlways(t *testing.T) {
	h := newHarness()
	h.stores.methods.byCode["bacs"] = paymentMethod(store.ImportAlways, 0)

	reason, err := orderMustSkip(context.Background(), orderContext(h, connector.RawRecord{
		"status":         "pending",
		"payment_method": "bacs",
	}))
	require.NoError(t, err)
	assert.Empty(t, reason)
}

func TestOrderImportRuleNever(t *testing.T) {
	h := newHarness()
	h.stores.methods.byCode["bacs"] = paymentMethod(store.ImportNever, 0)

	reason, err := orderMustSkip(context.Background(), orderContext(h, connector.RawRecord{
		"status":         "processing",
		"payment_method": "bacs",
	}))
	require.NoError(t, err)
	assert.NotEmpty(t, reason)
}

func TestOrderImportRulePaid(t *testing.T) {
	h := newHarness()
	h.stores.methods.byCode["bacs"] = paymentMethod(store.ImportPaid, 0)

	t.Run("paid order passes", func(t *testing.T) {
		reason, err := orderMustSkip(context.Background(), orderContext(h, connector.RawRecord{
			"status":         "processing",
			"payment_method": "bacs",
			"date_paid":      "2024-03-01T10:00:00",
		}))
		require.NoError(t, err)
		assert.Empty(t, reason)
	})

	t.Run("unpaid order is postponed", func(t *testing.T) {
		_, err := orderMustSkip(context.Background(), orderContext(h, connector.RawRecord{
			"status":         "pending",
			"payment_method": "bacs",
		}))
		assert.ErrorIs(t, err, connector.ErrPolicyRetryable)
	})
}

func TestOrderImportRuleAuthorized(t *testing.T) {
	h := newHarness()
	h.stores.methods.byCode["bacs"] = paymentMethod(store.ImportAuthorized, 0)

	t.Run("transaction id authorizes", func(t *testing.T) {
		reason, err := orderMustSkip(context.Background(), orderContext(h, connector.RawRecord{
			"status":         "pending",
			"payment_method": "bacs",
			"transaction_id": "tx-1",
		}))
		require.NoError(t, err)
		assert.Empty(t, reason)
	})

	t.Run("processing status authorizes", func(t *testing.T) {
		reason, err := orderMustSkip(context.Background(), orderContext(h, connector.RawRecord{
			"status":         "processing",
			"payment_method": "bacs",
		}))
		require.NoError(t, err)
		assert.Empty(t, reason)
	})

	t.Run("pending order is postponed", func(t *testing.T) {
		_, err := orderMustSkip(context.Background(), orderContext(h, connector.RawRecord{
			"status":         "pending",
			"payment_method": "bacs",
		}))
		assert.ErrorIs(t, err, connector.ErrPolicyRetryable)
	})
}

func TestOrderUnpaidPastCutoffIsAbandoned(t *testing.T) {
	h := newHarness()
	h.stores.methods.byCode["bacs"] = paymentMethod(store.ImportPaid, 30)

	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	h.work.Now = func() time.Time { return now }

	t.Run("order 40 days old is given up on", func(t *testing.T) {
		created := now.Add(-40 * 24 * time.Hour)
		_, err := orderMustSkip(context.Background(), orderContext(h, connector.RawRecord{
			"status":         "pending",
			"payment_method": "bacs",
			"date_created":   created.Format(connector.RemoteDateFormat),
		}))
		require.Error(t, err)
		assert.ErrorIs(t, err, connector.ErrNothingToDo)
		assert.False(t, connector.IsRetryable(err))
	})

	t.Run("order 10 days old is still postponed", func(t *testing.T) {
		created := now.Add(-10 * 24 * time.Hour)
		_, err := orderMustSkip(context.Background(), orderContext(h, connector.RawRecord{
			"status":         "pending",
			"payment_method": "bacs",
			"date_created":   created.Format(connector.RemoteDateFormat),
		}))
		assert.ErrorIs(t, err, connector.ErrPolicyRetryable)
	})

	t.Run("zero cutoff never abandons", func(t *testing.T) {
		h.stores.methods.byCode["bacs"] = paymentMethod(store.ImportPaid, 0)
		created := now.Add(-400 * 24 * time.Hour)
		_, err := orderMustSkip(context.Background(), orderContext(h, connector.RawRecord{
			"status":         "pending",
			"payment_method": "bacs",
			"date_created":   created.Format(connector.RemoteDateFormat),
		}))
		assert.ErrorIs(t, err, connector.ErrPolicyRetryable)
	})
}
