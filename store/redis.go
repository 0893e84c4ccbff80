package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"parking-system/internal/status"
	"parking-system/models"
)

const timeLayout = time.RFC3339Nano

// transitionToPendingScript performs the guarded active -> pending_payment
// move and drops the ticket from the plate index in one atomic step.
var transitionToPendingScript = redis.NewScript(`
local status = redis.call('HGET', KEYS[1], 'payment_status')
if not status then return 'missing' end
if status ~= 'active' then return 'conflict' end
redis.call('HSET', KEYS[1], 'exit_time', ARGV[1], 'fee', ARGV[2], 'currency', ARGV[3], 'payment_status', 'pending_payment')
redis.call('SREM', KEYS[2], ARGV[4])
return 'ok'
`)

// transitionToPaidScript performs the guarded pending_payment -> paid move.
var transitionToPaidScript = redis.NewScript(`
local status = redis.call('HGET', KEYS[1], 'payment_status')
if not status then return 'missing' end
if status ~= 'pending_payment' then return 'conflict' end
redis.call('HSET', KEYS[1], 'payment_status', 'paid', 'transaction_id', ARGV[1])
return 'ok'
`)

// RedisStore keeps one hash per ticket plus a per-plate set of active
// ticket ids as the secondary index.
type RedisStore struct {
	Redis *redis.Client
}

func NewRedisStore(redisClient *redis.Client) *RedisStore {
	return &RedisStore{Redis: redisClient}
}

func ticketKey(ticketID string) string {
	return fmt.Sprintf("ticket:%s", ticketID)
}

func plateKey(plate string) string {
	return fmt.Sprintf("plate:active:%s", plate)
}

func (s *RedisStore) Create(ctx context.Context, ticket *models.Ticket) error {
	_, err := s.Redis.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, ticketKey(ticket.ID),
			"ticket_id", ticket.ID,
			"license_plate", ticket.LicensePlate,
			"entry_time", ticket.EntryTime.Format(timeLayout),
			"payment_status", models.StatusActive,
		)
		pipe.SAdd(ctx, plateKey(ticket.LicensePlate), ticket.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: create ticket %s: %v", status.ErrStoreUnavailable, ticket.ID, err)
	}

	slog.Info("created ticket", "ticketID", ticket.ID, "plate", ticket.LicensePlate)
	return nil
}

func (s *RedisStore) Get(ctx context.Context, ticketID string) (*models.Ticket, error) {
	fields, err := s.Redis.HGetAll(ctx, ticketKey(ticketID)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: get ticket %s: %v", status.ErrStoreUnavailable, ticketID, err)
	}
	if len(fields) == 0 {
		return nil, status.ErrTicketNotFound
	}
	return parseTicket(fields)
}

func (s *RedisStore) FindActiveByPlate(ctx context.Context, plate string) ([]*models.Ticket, error) {
	ids, err := s.Redis.SMembers(ctx, plateKey(plate)).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: plate lookup %s: %v", status.ErrStoreUnavailable, plate, err)
	}

	var tickets []*models.Ticket
	for _, id := range ids {
		ticket, err := s.Get(ctx, id)
		if errors.Is(err, status.ErrTicketNotFound) {
			// stale index entry
			continue
		}
		if err != nil {
			return nil, err
		}
		if ticket.IsActive() {
			tickets = append(tickets, ticket)
		}
	}
	return tickets, nil
}

func (s *RedisStore) AttachParkingLot(ctx context.Context, ticketID, parkingLot string) error {
	if err := s.Redis.HSet(ctx, ticketKey(ticketID), "parking_lot", parkingLot).Err(); err != nil {
		return fmt.Errorf("%w: attach parking lot to %s: %v", status.ErrStoreUnavailable, ticketID, err)
	}
	return nil
}

func (s *RedisStore) TransitionToPending(ctx context.Context, ticketID string, exitTime time.Time, fee decimal.Decimal, currency string) (*models.Ticket, error) {
	ticket, err := s.Get(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	res, err := transitionToPendingScript.Run(ctx, s.Redis,
		[]string{ticketKey(ticketID), plateKey(ticket.LicensePlate)},
		exitTime.Format(timeLayout), fee.String(), currency, ticketID,
	).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: transition %s to pending: %v", status.ErrStoreUnavailable, ticketID, err)
	}

	switch res {
	case "ok":
		return s.Get(ctx, ticketID)
	case "missing":
		return nil, status.ErrTicketNotFound
	default:
		return nil, status.ErrPreconditionFailed
	}
}

func (s *RedisStore) TransitionToPaid(ctx context.Context, ticketID, transactionID string) (*models.Ticket, error) {
	res, err := transitionToPaidScript.Run(ctx, s.Redis,
		[]string{ticketKey(ticketID)},
		transactionID,
	).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: transition %s to paid: %v", status.ErrStoreUnavailable, ticketID, err)
	}

	switch res {
	case "ok":
		return s.Get(ctx, ticketID)
	case "missing":
		return nil, status.ErrTicketNotFound
	default:
		return nil, status.ErrPreconditionFailed
	}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.Redis.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", status.ErrStoreUnavailable, err)
	}
	return nil
}

func parseTicket(fields map[string]string) (*models.Ticket, error) {
	entryTime, err := time.Parse(timeLayout, fields["entry_time"])
	if err != nil {
		return nil, fmt.Errorf("parse entry_time: %w", err)
	}

	ticket := &models.Ticket{
		ID:            fields["ticket_id"],
		LicensePlate:  fields["license_plate"],
		ParkingLot:    fields["parking_lot"],
		EntryTime:     entryTime,
		Currency:      fields["currency"],
		Status:        fields["payment_status"],
		TransactionID: fields["transaction_id"],
	}

	if raw, ok := fields["exit_time"]; ok && raw != "" {
		exitTime, err := time.Parse(timeLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("parse exit_time: %w", err)
		}
		ticket.ExitTime = &exitTime
	}
	if raw, ok := fields["fee"]; ok && raw != "" {
		fee, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("parse fee: %w", err)
		}
		ticket.Fee = &fee
	}

	return ticket, nil
}
