package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{nil, "OK"},
		{NewValidationError("qty", "negativa"), "VALIDATION"},
		{&NoConversionPathError{ItemID: "x", From: "CJ", To: "UN"}, "NO_CONVERSION_PATH"},
		{&InsufficientStockError{LocationID: "A", Available: decimal.NewFromInt(2), Requested: decimal.NewFromInt(3)}, "INSUFFICIENT_STOCK"},
		{&InvalidTransitionError{Entity: "sales_order", From: "DELIVERED", To: "CANCELLED"}, "INVALID_TRANSITION"},
		{&InvalidStateError{Entity: "sales_order", ID: "o1", Status: "CONFIRMED", Operation: "pick"}, "INVALID_STATE"},
		{&ActiveTaskExistsError{OrderID: "o1"}, "ACTIVE_TASK_EXISTS"},
		{&ConcurrencyConflictError{Attempts: 3, Cause: errors.New("40001")}, "CONCURRENCY_CONFLICT"},
		{fmt.Errorf("get item: %w", ErrNotFound), "NOT_FOUND"},
		{errors.New("boom"), "INTERNAL"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, Code(tc.err), "%v", tc.err)
	}
}

func TestConcurrencyConflictError_UnwrapsCause(t *testing.T) {
	cause := errors.New("serialization failure")
	err := &ConcurrencyConflictError{Attempts: 3, Cause: cause}

	assert.ErrorIs(t, err, ErrConcurrencyConflict)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "3 intentos")
}

func TestTypedErrors_AsAndIs(t *testing.T) {
	var err error = fmt.Errorf("apply: %w", &InsufficientStockError{
		ItemID: "x", LocationID: "A", Available: decimal.NewFromInt(7), Requested: decimal.NewFromInt(8),
	})

	var ise *InsufficientStockError
	if assert.ErrorAs(t, err, &ise) {
		assert.Equal(t, "A", ise.LocationID)
		assert.True(t, ise.Available.Equal(decimal.NewFromInt(7)))
	}
	assert.ErrorIs(t, err, ErrInsufficientStock)
	assert.NotErrorIs(t, err, ErrNotFound)
}
