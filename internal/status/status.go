package status

import "errors"

// Ticket lifecycle errors. Handlers map these onto HTTP status codes;
// nothing below this package should leak a raw store failure.
var (
	ErrInvalidPlate   = errors.New("ticket: invalid license plate format")
	ErrAlreadyParked  = errors.New("ticket: vehicle already parked")
	ErrTicketNotFound = errors.New("ticket: ticket not found")
	ErrAlreadyExited  = errors.New("ticket: exit already processed")
	ErrAlreadyPaid    = errors.New("ticket: ticket already paid")
	ErrNotExited      = errors.New("ticket: ticket has not been exited yet")

	ErrFailedPayment = errors.New("payment: payment failed")
)

// Store-level errors. ErrPreconditionFailed is an internal signal: the
// lifecycle controller translates it to ErrAlreadyExited/ErrAlreadyPaid
// before it reaches a handler.
var (
	ErrPreconditionFailed = errors.New("store: ticket status precondition failed")
	ErrStoreUnavailable   = errors.New("store: backend unavailable")
)
