package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicket_Clone_IsDeep(t *testing.T) {
	exitTime := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	fee := decimal.RequireFromString("2.50")
	original := &Ticket{
		ID:       "t1",
		ExitTime: &exitTime,
		Fee:      &fee,
		Status:   StatusPendingPayment,
	}

	clone := original.Clone()
	*clone.ExitTime = clone.ExitTime.Add(time.Hour)
	*clone.Fee = clone.Fee.Add(decimal.NewFromInt(100))

	assert.True(t, original.ExitTime.Equal(exitTime))
	assert.True(t, original.Fee.Equal(fee))
}

func TestTicket_StatusHelpers(t *testing.T) {
	assert.True(t, (&Ticket{Status: StatusActive}).IsActive())
	assert.False(t, (&Ticket{Status: StatusPendingPayment}).IsActive())
	assert.True(t, (&Ticket{Status: StatusPaid}).IsSettled())
	assert.False(t, (&Ticket{Status: StatusActive}).IsSettled())
}

func TestTicket_JSONOmitsUnsetLifecycleFields(t *testing.T) {
	ticket := &Ticket{
		ID:           "t1",
		LicensePlate: "123-12-123",
		EntryTime:    time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Status:       StatusActive,
	}

	raw, err := json.Marshal(ticket)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.NotContains(t, fields, "exit_time")
	assert.NotContains(t, fields, "fee")
	assert.NotContains(t, fields, "transaction_id")
	assert.Equal(t, "active", fields["payment_status"])
}
