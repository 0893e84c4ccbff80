package handlers

import (
	"errors"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"parking-system/billing"
	"parking-system/internal/status"
	"parking-system/models"
	"parking-system/services"
)

type TicketHandler struct {
	app           *pocketbase.PocketBase
	ticketService *services.TicketService
}

func NewTicketHandler(app *pocketbase.PocketBase, ticketService *services.TicketService) *TicketHandler {
	return &TicketHandler{
		app:           app,
		ticketService: ticketService,
	}
}

// Entry - POST /entry?plate=123-123-123&parkingLot=382
func (h *TicketHandler) Entry(e *core.RequestEvent) error {
	plate := e.Request.URL.Query().Get("plate")
	parkingLot := e.Request.URL.Query().Get("parkingLot")

	ticket, err := h.ticketService.Entry(e.Request.Context(), plate, parkingLot)
	if err != nil {
		return toApiError(err)
	}

	return e.JSON(http.StatusCreated, map[string]any{"ticketId": ticket.ID})
}

// Exit - POST /exit?ticketId=1234
func (h *TicketHandler) Exit(e *core.RequestEvent) error {
	ticketID := e.Request.URL.Query().Get("ticketId")
	if ticketID == "" {
		return apis.NewBadRequestError("Missing ticketId", nil)
	}

	ticket, breakdown, err := h.ticketService.Exit(e.Request.Context(), ticketID)
	if err != nil {
		return toApiError(err)
	}

	return e.JSON(http.StatusOK, exitResponse(ticket, breakdown))
}

// Pay - POST /pay?ticketId=1234
func (h *TicketHandler) Pay(e *core.RequestEvent) error {
	ticketID := e.Request.URL.Query().Get("ticketId")
	if ticketID == "" {
		return apis.NewBadRequestError("Missing ticketId", nil)
	}

	ticket, err := h.ticketService.Pay(e.Request.Context(), ticketID)
	if err != nil {
		return toApiError(err)
	}

	return e.JSON(http.StatusOK, payResponse(ticket))
}

// Health - GET /health
func (h *TicketHandler) Health(e *core.RequestEvent) error {
	if err := h.ticketService.Health(e.Request.Context()); err != nil {
		return e.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "unhealthy",
			"error":  err.Error(),
		})
	}
	return e.JSON(http.StatusOK, map[string]string{"status": "healthy"})
}

func exitResponse(ticket *models.Ticket, breakdown *billing.Breakdown) map[string]any {
	parkingLot := ticket.ParkingLot
	if parkingLot == "" {
		parkingLot = "N/A"
	}

	return map[string]any{
		"licensePlate":    ticket.LicensePlate,
		"totalParkedTime": breakdown.DurationMinutes,
		"parkingLot":      parkingLot,
		"charge":          breakdown.Fee,
	}
}

func payResponse(ticket *models.Ticket) map[string]any {
	return map[string]any{
		"ticketId":       ticket.ID,
		"licensePlate":   ticket.LicensePlate,
		"charged":        ticket.Fee,
		"currency":       ticket.Currency,
		"transactionId":  ticket.TransactionID,
		"payment_status": ticket.Status,
	}
}

// toApiError maps domain errors onto the HTTP error taxonomy. Anything
// unrecognized (store outages included) becomes a generic 500.
func toApiError(err error) error {
	switch {
	case errors.Is(err, status.ErrInvalidPlate):
		return apis.NewBadRequestError(err.Error(), nil)
	case errors.Is(err, status.ErrNotExited):
		return apis.NewBadRequestError("Ticket has not been exited yet", nil)
	case errors.Is(err, status.ErrTicketNotFound):
		return apis.NewNotFoundError("Ticket not found", nil)
	case errors.Is(err, status.ErrAlreadyParked):
		return apis.NewApiError(http.StatusConflict, "Vehicle is already parked", nil)
	case errors.Is(err, status.ErrAlreadyExited):
		return apis.NewApiError(http.StatusConflict, "Exit request was already processed", nil)
	case errors.Is(err, status.ErrAlreadyPaid):
		return apis.NewApiError(http.StatusConflict, "Ticket is already paid", nil)
	default:
		return apis.NewApiError(http.StatusInternalServerError, "Internal server error", nil)
	}
}
