package connector

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "network error", err: ErrNetworkRetryable, want: true},
		{name: "protocol error", err: ErrProtocolRetryable, want: true},
		{name: "policy error", err: ErrPolicyRetryable, want: true},
		{name: "lock busy", err: ErrLockBusy, want: true},
		{name: "wrapped network error", err: fmt.Errorf("fetch products: %w", ErrNetworkRetryable), want: true},
		{name: "mapping error", err: ErrMapping, want: false},
		{name: "nothing to do", err: ErrNothingToDo, want: false},
		{name: "plain error", err: errors.New("boom"), want: false},
		{name: "nil", err: nil, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestIsNothingToDo(t *testing.T) {
	assert.True(t, IsNothingToDo(ErrNothingToDo))
	assert.True(t, IsNothingToDo(fmt.Errorf("%w: order o-1 was cancelled", ErrNothingToDo)))
	assert.False(t, IsNothingToDo(ErrMapping))
	assert.False(t, IsNothingToDo(nil))
}

func TestIsFatal(t *testing.T) {
	assert.False(t, IsFatal(nil))
	assert.False(t, IsFatal(ErrLockBusy))
	assert.False(t, IsFatal(ErrNothingToDo))
	assert.True(t, IsFatal(ErrMapping))
	assert.True(t, IsFatal(ErrBindingConflict))
	assert.True(t, IsFatal(&FatalCallError{Status: 400, Code: "rest_invalid_param", Message: "bad value"}))
}

func TestFatalCallErrorMessage(t *testing.T) {
	withCode := &FatalCallError{Status: 400, Code: "rest_invalid_param", Message: "bad value"}
	assert.Contains(t, withCode.Error(), "rest_invalid_param")
	assert.Contains(t, withCode.Error(), "400")

	bare := &FatalCallError{Status: 418}
	assert.Contains(t, bare.Error(), "418")
}
