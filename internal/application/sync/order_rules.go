package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/connector/internal/domain/connector"
	"github.com/erp/connector/internal/domain/store"
)

// orderMustSkip applies the payment import rules. An order that is
// already imported is immutable and only re-imported on request;
// cancelled storefront orders are skipped outright, unpaid orders wait,
// and orders unpaid past the method's cutoff are given up on.
func orderMustSkip(ctx context.Context, mc *MapContext) (string, error) {
	if !mc.ForCreate && !mc.Force {
		return "order is already imported", nil
	}

	rec := mc.Record
	switch rec.Str("status") {
	case "cancelled", "failed", "trash":
		return "order is " + rec.Str("status"), nil
	}

	method, err := paymentMethodOf(ctx, mc)
	if err != nil {
		return "", err
	}

	switch method.ImportRule {
	case store.ImportAlways:
		return "", nil
	case store.ImportNever:
		return fmt.Sprintf("payment method %q orders are never imported", method.Code), nil
	case store.ImportPaid:
		if !rec.Time("date_paid").IsZero() {
			return "", nil
		}
		return "", waitForPayment(mc, method, "paid")
	case store.ImportAuthorized:
		if orderAuthorized(rec) {
			return "", nil
		}
		return "", waitForPayment(mc, method, "authorized")
	}
	return "", mappingErrorf("payment method %q has unknown import rule %q", method.Code, method.ImportRule)
}

func paymentMethodOf(ctx context.Context, mc *MapContext) (*store.PaymentMethod, error) {
	code := mc.Record.Str("payment_method")
	if code == "" {
		return nil, mappingErrorf("order %s has no payment method", mc.ExternalID)
	}
	method, err := mc.Work.Stores.PaymentMethods().FindByCode(ctx, code)
	if err != nil {
		if errors.Is(err, store.ErrPaymentMethodNotFound) {
			return nil, mappingErrorf("payment method %q is not configured", code)
		}
		return nil, err
	}
	return method, nil
}

func orderAuthorized(rec connector.RawRecord) bool {
	if rec.Str("transaction_id") != "" {
		return true
	}
	switch rec.Str("status") {
	case "processing", "completed", "on-hold":
		return true
	}
	return false
}

// waitForPayment postpones the import until the payment arrives, or gives
// up once the order has aged past the method's cutoff.
func waitForPayment(mc *MapContext, method *store.PaymentMethod, want string) error {
	if method.DaysBeforeCancel > 0 {
		created := mc.Record.Time("date_created")
		cutoff := time.Duration(method.DaysBeforeCancel) * 24 * time.Hour
		if !created.IsZero() && mc.Work.Clock().Sub(created) > cutoff {
			return fmt.Errorf("%w: order %s was not %s within %d days",
				connector.ErrNothingToDo, mc.ExternalID, want, method.DaysBeforeCancel)
		}
	}
	return fmt.Errorf("%w: order %s is not %s yet",
		connector.ErrPolicyRetryable, mc.ExternalID, want)
}
