package payments

import (
	"context"
	"log/slog"
	"time"

	"parking-system/internal/status"
	"parking-system/utils"
)

// MockProvider accepts every charge and fabricates a transaction id, the
// way the real provider would confirm one. Amounts are never inspected
// beyond being non-negative.
type MockProvider struct{}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Kind() ProviderKind {
	return ProviderMock
}

func (p *MockProvider) Charge(ctx context.Context, req *ChargeRequest) (*Receipt, error) {
	if req.Amount.IsNegative() {
		return nil, status.ErrFailedPayment
	}

	reference, err := utils.GenerateCode(4)
	if err != nil {
		return nil, err
	}

	receipt := &Receipt{
		TransactionID: utils.NewTransactionID(),
		Reference:     reference,
		Amount:        req.Amount,
		Currency:      req.Currency,
		ProcessedAt:   time.Now().UTC(),
	}

	slog.Info("mock payment settled",
		"ticketID", req.TicketID,
		"transactionID", receipt.TransactionID,
		"amount", req.Amount.String(),
		"currency", req.Currency,
	)
	return receipt, nil
}
