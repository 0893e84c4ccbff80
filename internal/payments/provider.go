package payments

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// ProviderKind identifies a payment backend.
type ProviderKind string

const (
	ProviderMock ProviderKind = "mock"
)

// ChargeRequest carries everything a provider needs to settle a ticket.
type ChargeRequest struct {
	TicketID     string          `json:"ticket_id"`
	LicensePlate string          `json:"license_plate"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
}

// Receipt is the provider's confirmation of a settled charge.
type Receipt struct {
	TransactionID string          `json:"transaction_id"`
	Reference     string          `json:"reference"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	ProcessedAt   time.Time       `json:"processed_at"`
}

// Provider is the common interface for payment backends.
type Provider interface {
	// Kind returns the provider type.
	Kind() ProviderKind

	// Charge settles the requested amount and returns a receipt.
	Charge(ctx context.Context, req *ChargeRequest) (*Receipt, error)
}
