package store

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"parking-system/models"
)

// TicketStore is the keyed-record contract consumed by the ticket
// lifecycle controller. Implementations must make the two Transition
// methods atomic: the status precondition check and the mutation happen
// as one indivisible operation at the store, so exactly one of two
// concurrent transitions on the same ticket can succeed.
//
// The store does not enforce the one-active-ticket-per-plate invariant;
// the caller checks FindActiveByPlate before Create.
type TicketStore interface {
	// Create inserts a new ticket record in the active state.
	Create(ctx context.Context, ticket *models.Ticket) error

	// Get returns the ticket or status.ErrTicketNotFound.
	Get(ctx context.Context, ticketID string) (*models.Ticket, error)

	// FindActiveByPlate returns every currently active ticket for the
	// plate via the secondary index.
	FindActiveByPlate(ctx context.Context, plate string) ([]*models.Ticket, error)

	// AttachParkingLot annotates the ticket with a lot identifier.
	// Callers treat failures as non-fatal.
	AttachParkingLot(ctx context.Context, ticketID, parkingLot string) error

	// TransitionToPending moves active -> pending_payment, recording the
	// exit time and fee. Returns status.ErrPreconditionFailed if the
	// ticket is no longer active.
	TransitionToPending(ctx context.Context, ticketID string, exitTime time.Time, fee decimal.Decimal, currency string) (*models.Ticket, error)

	// TransitionToPaid moves pending_payment -> paid, recording the
	// transaction id. Returns status.ErrPreconditionFailed if the ticket
	// is not pending payment.
	TransitionToPaid(ctx context.Context, ticketID, transactionID string) (*models.Ticket, error)

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}
