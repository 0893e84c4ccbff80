package store

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"parking-system/internal/status"
	"parking-system/models"
)

// MemoryStore is a mutex-guarded in-process TicketStore. It backs local
// development runs and tests; the transition guards hold under the same
// contract as the Redis engine.
type MemoryStore struct {
	mu      sync.Mutex
	tickets map[string]*models.Ticket
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tickets: make(map[string]*models.Ticket)}
}

func (s *MemoryStore) Create(ctx context.Context, ticket *models.Ticket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := ticket.Clone()
	t.Status = models.StatusActive
	s.tickets[t.ID] = t
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, ticketID string) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[ticketID]
	if !ok {
		return nil, status.ErrTicketNotFound
	}
	return ticket.Clone(), nil
}

func (s *MemoryStore) FindActiveByPlate(ctx context.Context, plate string) ([]*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var tickets []*models.Ticket
	for _, ticket := range s.tickets {
		if ticket.LicensePlate == plate && ticket.IsActive() {
			tickets = append(tickets, ticket.Clone())
		}
	}
	return tickets, nil
}

func (s *MemoryStore) AttachParkingLot(ctx context.Context, ticketID, parkingLot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[ticketID]
	if !ok {
		return status.ErrTicketNotFound
	}
	ticket.ParkingLot = parkingLot
	return nil
}

func (s *MemoryStore) TransitionToPending(ctx context.Context, ticketID string, exitTime time.Time, fee decimal.Decimal, currency string) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[ticketID]
	if !ok {
		return nil, status.ErrTicketNotFound
	}
	if ticket.Status != models.StatusActive {
		return nil, status.ErrPreconditionFailed
	}

	exit := exitTime
	charged := fee.Copy()
	ticket.ExitTime = &exit
	ticket.Fee = &charged
	ticket.Currency = currency
	ticket.Status = models.StatusPendingPayment
	return ticket.Clone(), nil
}

func (s *MemoryStore) TransitionToPaid(ctx context.Context, ticketID, transactionID string) (*models.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, ok := s.tickets[ticketID]
	if !ok {
		return nil, status.ErrTicketNotFound
	}
	if ticket.Status != models.StatusPendingPayment {
		return nil, status.ErrPreconditionFailed
	}

	ticket.TransactionID = transactionID
	ticket.Status = models.StatusPaid
	return ticket.Clone(), nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
