package connector

import (
	"errors"
	"fmt"
)

// ---------------------------------------------------------------------------
// Error taxonomy
//
// Every error escaping an import or export job must be classified into one
// of these kinds so the job queue knows whether to retry, fail, or finish
// the job with an explanation.
// ---------------------------------------------------------------------------

var (
	// ErrNetworkRetryable indicates a transport-level failure (DNS, connect,
	// timeout). The whole job is safe to re-attempt later.
	ErrNetworkRetryable = errors.New("connector: network error, job will be retried")

	// ErrProtocolRetryable indicates a 502/503/504 from the storefront.
	ErrProtocolRetryable = errors.New("connector: protocol error, job will be retried")

	// ErrPolicyRetryable indicates the record cannot be imported yet but may
	// become importable later (e.g. an order awaiting payment).
	ErrPolicyRetryable = errors.New("connector: record not importable yet, job will be retried")

	// ErrLockBusy indicates the advisory lock for the record is held by a
	// concurrent job. The job is rescheduled, not failed.
	ErrLockBusy = errors.New("connector: import lock held by another job, job will be retried")

	// ErrNoSuchRecord indicates the remote record no longer exists.
	// Importers turn it into a skip, not a failure.
	ErrNoSuchRecord = errors.New("connector: record does no longer exist on the storefront")

	// ErrMapping indicates the mapper could not produce an upsert payload,
	// typically because a dependency reference is not bound. Fatal.
	ErrMapping = errors.New("connector: mapping error")

	// ErrBindingConflict indicates an external id is already bound to a
	// different local record. Fatal.
	ErrBindingConflict = errors.New("connector: external id already bound to another record")

	// ErrNotBound indicates an export was requested for a record that has no
	// binding. Exporters never create bindings, so this is a caller bug.
	ErrNotBound = errors.New("connector: record is not bound to the storefront")

	// ErrNothingToDo indicates the job is permanently abandoned without
	// being an error (e.g. an order too old to import). The job finishes
	// successfully with the wrapped message as its result.
	ErrNothingToDo = errors.New("connector: nothing to do")
)

// FatalCallError is an application-level error reported by the storefront
// (an error payload with a code and a message, or an unexpected status).
// It is surfaced to the operator and not retried: re-issuing an invalid
// request forever is wasted work.
type FatalCallError struct {
	Status  int
	Code    string
	Message string
}

// Error implements the error interface
func (e *FatalCallError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("connector: %d error: %s - %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("connector: call failed with status %d", e.Status)
}

// IsRetryable reports whether the job that produced err should be handed
// back to the queue for a later attempt.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetworkRetryable) ||
		errors.Is(err, ErrProtocolRetryable) ||
		errors.Is(err, ErrPolicyRetryable) ||
		errors.Is(err, ErrLockBusy)
}

// IsNothingToDo reports whether err marks a permanently abandoned job that
// should finish successfully with an explanation.
func IsNothingToDo(err error) bool {
	return errors.Is(err, ErrNothingToDo)
}

// IsFatal reports whether err must fail the job for operator attention.
// Everything that is neither retryable nor a nothing-to-do outcome is fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !IsRetryable(err) && !IsNothingToDo(err)
}
