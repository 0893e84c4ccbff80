package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	pubnub "github.com/pubnub/go"

	"parking-system/billing"
	"parking-system/internal/payments"
	"parking-system/internal/status"
	"parking-system/models"
	"parking-system/monitoring"
	"parking-system/store"
	"parking-system/utils"
)

// TicketService drives the ticket state machine: entry creates an active
// ticket, exit prices it and moves it to pending_payment, pay settles it.
// All cross-request coordination is delegated to the store's conditional
// transitions; the service holds no locks across operations.
type TicketService struct {
	store         store.TicketStore
	calculator    *billing.Calculator
	payments      payments.Provider
	breaker       *utils.CircuitBreaker
	lots          *LotRegistry
	PubNub        *pubnub.PubNub
	notifyChannel string
}

func NewTicketService(ticketStore store.TicketStore, calculator *billing.Calculator, provider payments.Provider, lots *LotRegistry, pn *pubnub.PubNub, notifyChannel string) *TicketService {
	return &TicketService{
		store:         ticketStore,
		calculator:    calculator,
		payments:      provider,
		breaker:       utils.NewCircuitBreaker("payments"),
		lots:          lots,
		PubNub:        pn,
		notifyChannel: notifyChannel,
	}
}

// Entry opens a ticket for a vehicle. The parking lot annotation is best
// effort: a failure to attach it never rolls back the created ticket.
//
// The already-parked check is lookup-then-create, not atomic: two
// near-simultaneous entries for one plate can both pass it and create two
// active tickets.
func (s *TicketService) Entry(ctx context.Context, plate, parkingLot string) (*models.Ticket, error) {
	if !utils.ValidateLicensePlate(plate) {
		monitoring.TrackTicketOperation("entry", "invalid_plate")
		return nil, status.ErrInvalidPlate
	}

	active, err := s.store.FindActiveByPlate(ctx, plate)
	if err != nil {
		monitoring.TrackTicketOperation("entry", "error")
		return nil, err
	}
	if len(active) > 0 {
		monitoring.TrackTicketOperation("entry", "already_parked")
		return nil, status.ErrAlreadyParked
	}

	ticket := &models.Ticket{
		ID:           utils.NewTicketID(),
		LicensePlate: plate,
		EntryTime:    time.Now().UTC(),
		Status:       models.StatusActive,
	}

	if err := s.store.Create(ctx, ticket); err != nil {
		monitoring.TrackTicketOperation("entry", "error")
		return nil, err
	}

	if parkingLot != "" {
		if !s.lots.Known(ctx, parkingLot) {
			slog.Warn("entry for unregistered parking lot", "parkingLot", parkingLot, "ticketID", ticket.ID)
		}
		if err := s.store.AttachParkingLot(ctx, ticket.ID, parkingLot); err != nil {
			slog.Warn("could not attach parking lot to ticket", "ticketID", ticket.ID, "error", err)
		} else {
			ticket.ParkingLot = parkingLot
		}
	}

	slog.Info("vehicle entered", "ticketID", ticket.ID, "plate", plate, "parkingLot", parkingLot)
	monitoring.TrackTicketOperation("entry", "success")
	return ticket, nil
}

// Exit prices the session and transitions the ticket to pending_payment.
// If a concurrent exit wins the conditional update, the losing call
// reports ErrAlreadyExited and its fee is discarded.
func (s *TicketService) Exit(ctx context.Context, ticketID string) (*models.Ticket, *billing.Breakdown, error) {
	ticket, err := s.store.Get(ctx, ticketID)
	if err != nil {
		monitoring.TrackTicketOperation("exit", "error")
		return nil, nil, err
	}

	switch ticket.Status {
	case models.StatusPendingPayment:
		monitoring.TrackTicketOperation("exit", "already_exited")
		return nil, nil, status.ErrAlreadyExited
	case models.StatusPaid:
		monitoring.TrackTicketOperation("exit", "already_paid")
		return nil, nil, status.ErrAlreadyPaid
	}

	exitTime := time.Now().UTC()
	fee, breakdown := s.calculator.Quote(ticket.EntryTime, exitTime)

	updated, err := s.store.TransitionToPending(ctx, ticketID, exitTime, fee, s.calculator.Currency())
	if errors.Is(err, status.ErrPreconditionFailed) {
		monitoring.TrackTicketOperation("exit", "already_exited")
		return nil, nil, status.ErrAlreadyExited
	}
	if err != nil {
		monitoring.TrackTicketOperation("exit", "error")
		return nil, nil, err
	}

	slog.Info("vehicle exited",
		"ticketID", ticketID,
		"plate", updated.LicensePlate,
		"minutes", breakdown.DurationMinutes,
		"fee", fee.String(),
		"currency", breakdown.Currency,
	)
	monitoring.TrackTicketOperation("exit", "success")
	monitoring.ObserveParkingSession(breakdown.DurationMinutes, fee)
	return updated, breakdown, nil
}

// Pay settles a pending ticket through the payment provider. The fee is
// the one recorded at exit time, never recomputed.
func (s *TicketService) Pay(ctx context.Context, ticketID string) (*models.Ticket, error) {
	ticket, err := s.store.Get(ctx, ticketID)
	if err != nil {
		monitoring.TrackTicketOperation("pay", "error")
		return nil, err
	}

	if ticket.Status == models.StatusPaid {
		monitoring.TrackTicketOperation("pay", "already_paid")
		return nil, status.ErrAlreadyPaid
	}
	if ticket.Status != models.StatusPendingPayment || ticket.Fee == nil {
		monitoring.TrackTicketOperation("pay", "not_exited")
		return nil, status.ErrNotExited
	}

	result, err := s.breaker.Execute(ctx, func() (any, error) {
		return s.payments.Charge(ctx, &payments.ChargeRequest{
			TicketID:     ticket.ID,
			LicensePlate: ticket.LicensePlate,
			Amount:       *ticket.Fee,
			Currency:     ticket.Currency,
		})
	})
	if err != nil {
		monitoring.TrackTicketOperation("pay", "payment_failed")
		return nil, err
	}
	receipt := result.(*payments.Receipt)

	updated, err := s.store.TransitionToPaid(ctx, ticketID, receipt.TransactionID)
	if errors.Is(err, status.ErrPreconditionFailed) {
		monitoring.TrackTicketOperation("pay", "already_paid")
		return nil, status.ErrAlreadyPaid
	}
	if err != nil {
		monitoring.TrackTicketOperation("pay", "error")
		return nil, err
	}

	slog.Info("ticket settled",
		"ticketID", ticketID,
		"transactionID", receipt.TransactionID,
		"amount", receipt.Amount.String(),
		"currency", receipt.Currency,
	)
	monitoring.TrackTicketOperation("pay", "success")
	s.publishSettlement(updated, receipt)
	return updated, nil
}

// Health reports whether the backing store is reachable.
func (s *TicketService) Health(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// publishSettlement notifies downstream consumers about a settled ticket.
// Best effort: failures are logged, never surfaced to the caller.
func (s *TicketService) publishSettlement(ticket *models.Ticket, receipt *payments.Receipt) {
	if s.PubNub == nil {
		return
	}

	_, _, err := s.PubNub.Publish().
		Channel(s.notifyChannel).
		Message(map[string]any{
			"ticket_id":      ticket.ID,
			"license_plate":  ticket.LicensePlate,
			"transaction_id": receipt.TransactionID,
			"amount":         receipt.Amount.String(),
			"currency":       receipt.Currency,
			"payment_status": ticket.Status,
		}).
		Execute()
	if err != nil {
		slog.Warn("could not publish settlement notification", "ticketID", ticket.ID, "error", err)
	}
}
