package utils

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// License plate tests

func TestValidateLicensePlate_AcceptedFormats(t *testing.T) {
	valid := []string{
		"123-12-123",
		"123-123-123",
		"12-123-12",
	}
	for _, plate := range valid {
		assert.True(t, ValidateLicensePlate(plate), "expected %q to be valid", plate)
	}
}

func TestValidateLicensePlate_RejectedFormats(t *testing.T) {
	invalid := []string{
		"",
		"ABC-12-123",
		"123-12-12",
		"1234-12-123",
		"123 12 123",
		"123-12-123x",
	}
	for _, plate := range invalid {
		assert.False(t, ValidateLicensePlate(plate), "expected %q to be invalid", plate)
	}
}

// Identifier tests

func TestNewTicketID_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewTicketID()
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate ticket id %q", id)
		seen[id] = true
	}
}

func TestNewTransactionID_Prefix(t *testing.T) {
	id := NewTransactionID()
	assert.True(t, strings.HasPrefix(id, "tx-"), "transaction id was %q", id)
}

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(4)

	assert.NoError(t, err)
	assert.Len(t, code, 8)
	assert.Equal(t, strings.ToUpper(code), code)
}

// Circuit breaker tests

func TestCircuitBreaker_ExecuteSuccess(t *testing.T) {
	cb := NewCircuitBreaker("test")
	ctx := context.Background()

	result, err := cb.Execute(ctx, func() (any, error) {
		return "success", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "success", result)
	assert.Equal(t, StateClosed, cb.state)
	assert.Equal(t, uint32(1), cb.counts.TotalSuccesses)
}

func TestCircuitBreaker_ExecuteFailure(t *testing.T) {
	cb := NewCircuitBreaker("test")
	ctx := context.Background()

	expectedError := errors.New("test error")
	result, err := cb.Execute(ctx, func() (any, error) {
		return nil, expectedError
	})

	assert.Error(t, err)
	assert.Equal(t, expectedError, err)
	assert.Nil(t, result)
	assert.Equal(t, uint32(1), cb.counts.TotalFailures)
}

func TestCircuitBreaker_OpensAfterFailureRatio(t *testing.T) {
	cb := NewCircuitBreaker("test")
	cb.maxRequests = 5
	cb.failureRatio = 0.6

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := cb.Execute(ctx, func() (any, error) {
			return "success", nil
		})
		assert.NoError(t, err)
	}
	for i := 0; i < 4; i++ {
		_, err := cb.Execute(ctx, func() (any, error) {
			return nil, errors.New("failure")
		})
		assert.Error(t, err)
	}

	assert.Equal(t, StateOpen, cb.state)

	_, err := cb.Execute(ctx, func() (any, error) {
		t.Fatal("must not execute while the circuit is open")
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestCircuitBreaker_RecoversViaHalfOpen(t *testing.T) {
	cb := NewCircuitBreaker("test")
	cb.maxRequests = 5
	cb.failureRatio = 0.6
	cb.timeout = 100 * time.Millisecond

	ctx := context.Background()

	for i := 0; i < 5; i++ {
		cb.Execute(ctx, func() (any, error) {
			return nil, errors.New("failure")
		})
	}
	assert.Equal(t, StateOpen, cb.state)

	time.Sleep(150 * time.Millisecond)

	_, err := cb.Execute(ctx, func() (any, error) {
		return "success", nil
	})
	assert.NoError(t, err)
	assert.Equal(t, StateClosed, cb.state)
}
