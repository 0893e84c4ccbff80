package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Ticket statuses. The lifecycle is linear: active -> pending_payment -> paid.
const (
	StatusActive         = "active"
	StatusPendingPayment = "pending_payment"
	StatusPaid           = "paid"
)

// Ticket tracks one vehicle from entry to settlement. ExitTime, Fee and
// TransactionID stay nil/empty until the corresponding transition and are
// never revised afterwards.
type Ticket struct {
	ID            string           `json:"ticket_id"`
	LicensePlate  string           `json:"license_plate"`
	ParkingLot    string           `json:"parking_lot,omitempty"`
	EntryTime     time.Time        `json:"entry_time"`
	ExitTime      *time.Time       `json:"exit_time,omitempty"`
	Fee           *decimal.Decimal `json:"fee,omitempty"`
	Currency      string           `json:"currency,omitempty"`
	Status        string           `json:"payment_status"`
	TransactionID string           `json:"transaction_id,omitempty"`
}

func (t *Ticket) IsActive() bool {
	return t.Status == StatusActive
}

func (t *Ticket) IsSettled() bool {
	return t.Status == StatusPaid
}

// Clone returns a deep copy so store fakes can hand out tickets without
// sharing mutable pointers with callers.
func (t *Ticket) Clone() *Ticket {
	c := *t
	if t.ExitTime != nil {
		exit := *t.ExitTime
		c.ExitTime = &exit
	}
	if t.Fee != nil {
		fee := t.Fee.Copy()
		c.Fee = &fee
	}
	return &c
}
