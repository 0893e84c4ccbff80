package store

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking-system/internal/status"
	"parking-system/models"
)

func newTestTicket(id, plate string) *models.Ticket {
	return &models.Ticket{
		ID:           id,
		LicensePlate: plate,
		EntryTime:    time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		Status:       models.StatusActive,
	}
}

func TestMemoryStore_CreateAndGet(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newTestTicket("t1", "123-12-123")))

	ticket, err := s.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "t1", ticket.ID)
	assert.Equal(t, models.StatusActive, ticket.Status)
	assert.Nil(t, ticket.Fee)
	assert.Nil(t, ticket.ExitTime)
}

func TestMemoryStore_Get_NotFound(t *testing.T) {
	s := NewMemoryStore()

	_, err := s.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, status.ErrTicketNotFound)
}

func TestMemoryStore_FindActiveByPlate(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, newTestTicket("t1", "123-12-123")))
	require.NoError(t, s.Create(ctx, newTestTicket("t2", "99-999-99")))

	_, err := s.TransitionToPending(ctx, "t2", time.Now().UTC(), decimal.NewFromInt(5), "USD")
	require.NoError(t, err)

	active, err := s.FindActiveByPlate(ctx, "123-12-123")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "t1", active[0].ID)

	active, err = s.FindActiveByPlate(ctx, "99-999-99")
	require.NoError(t, err)
	assert.Empty(t, active, "pending tickets are not active")
}

func TestMemoryStore_TransitionToPending(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newTestTicket("t1", "123-12-123")))

	exitTime := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	fee := decimal.RequireFromString("10.00")

	ticket, err := s.TransitionToPending(ctx, "t1", exitTime, fee, "USD")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingPayment, ticket.Status)
	require.NotNil(t, ticket.Fee)
	assert.True(t, ticket.Fee.Equal(fee))
	require.NotNil(t, ticket.ExitTime)
	assert.True(t, ticket.ExitTime.Equal(exitTime))

	// a second attempt finds the precondition gone
	_, err = s.TransitionToPending(ctx, "t1", exitTime, fee, "USD")
	assert.ErrorIs(t, err, status.ErrPreconditionFailed)
}

func TestMemoryStore_TransitionToPaid_RequiresPending(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newTestTicket("t1", "123-12-123")))

	_, err := s.TransitionToPaid(ctx, "t1", "tx-1")
	assert.ErrorIs(t, err, status.ErrPreconditionFailed)

	_, err = s.TransitionToPending(ctx, "t1", time.Now().UTC(), decimal.NewFromInt(5), "USD")
	require.NoError(t, err)

	ticket, err := s.TransitionToPaid(ctx, "t1", "tx-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPaid, ticket.Status)
	assert.Equal(t, "tx-1", ticket.TransactionID)

	_, err = s.TransitionToPaid(ctx, "t1", "tx-2")
	assert.ErrorIs(t, err, status.ErrPreconditionFailed)
}

func TestMemoryStore_Transition_NotFound(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	_, err := s.TransitionToPending(ctx, "missing", time.Now(), decimal.Zero, "USD")
	assert.ErrorIs(t, err, status.ErrTicketNotFound)

	_, err = s.TransitionToPaid(ctx, "missing", "tx-1")
	assert.ErrorIs(t, err, status.ErrTicketNotFound)
}

func TestMemoryStore_CloneIsolation(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Create(ctx, newTestTicket("t1", "123-12-123")))

	ticket, err := s.Get(ctx, "t1")
	require.NoError(t, err)
	ticket.Status = models.StatusPaid

	stored, err := s.Get(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, stored.Status, "mutating a returned ticket must not touch the store")
}
