package payments

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking-system/internal/status"
)

func TestMockProvider_Charge(t *testing.T) {
	provider := NewMockProvider()

	receipt, err := provider.Charge(context.Background(), &ChargeRequest{
		TicketID:     "t1",
		LicensePlate: "123-12-123",
		Amount:       decimal.RequireFromString("12.50"),
		Currency:     "USD",
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(receipt.TransactionID, "tx-"))
	assert.Len(t, receipt.Reference, 8)
	assert.True(t, receipt.Amount.Equal(decimal.RequireFromString("12.50")))
	assert.Equal(t, "USD", receipt.Currency)
	assert.False(t, receipt.ProcessedAt.IsZero())
}

func TestMockProvider_Charge_NegativeAmount(t *testing.T) {
	provider := NewMockProvider()

	_, err := provider.Charge(context.Background(), &ChargeRequest{
		TicketID: "t1",
		Amount:   decimal.NewFromInt(-1),
	})

	assert.ErrorIs(t, err, status.ErrFailedPayment)
}

func TestNewProvider(t *testing.T) {
	provider, err := NewProvider(ProviderMock)
	require.NoError(t, err)
	assert.Equal(t, ProviderMock, provider.Kind())

	provider, err = NewProvider("")
	require.NoError(t, err)
	assert.Equal(t, ProviderMock, provider.Kind())

	_, err = NewProvider("stripe")
	assert.Error(t, err)
}
