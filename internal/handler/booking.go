package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-box-office/internal/model"
    "github.com/iliyamo/cinema-box-office/internal/repository"
    "github.com/iliyamo/cinema-box-office/internal/service"
)

// CustomerHandler exposes the booking engine to authenticated
// customers: purchasing a seat, requesting a return on an owned
// ticket and reading own tickets.  JWT authentication and role
// validation happen in middleware before any method runs.
type CustomerHandler struct {
    Booking *service.BookingService
    Admin   *service.TicketAdministration
    Tickets *repository.TicketRepo
}

// NewCustomerHandler constructs a CustomerHandler with the provided
// dependencies.  All must be non-nil.
func NewCustomerHandler(booking *service.BookingService, admin *service.TicketAdministration, tickets *repository.TicketRepo) *CustomerHandler {
    if booking == nil || admin == nil || tickets == nil {
        panic("nil dependency passed to NewCustomerHandler")
    }
    return &CustomerHandler{Booking: booking, Admin: admin, Tickets: tickets}
}

// ticketView is the JSON shape of a ticket in API responses.
type ticketView struct {
    ID           uint64     `json:"id"`
    UserID       uint64     `json:"user_id"`
    SessionID    uint64     `json:"session_id"`
    SeatNumber   uint32     `json:"seat_number"`
    PurchaseTime *time.Time `json:"purchase_time,omitempty"`
    Status       string     `json:"status"`
    RequestType  string     `json:"request_type"`
}

func toTicketView(t model.Ticket) ticketView {
    return ticketView{
        ID:           t.ID,
        UserID:       t.UserID,
        SessionID:    t.SessionID,
        SeatNumber:   t.SeatNumber,
        PurchaseTime: t.PurchaseTime,
        Status:       string(t.Status),
        RequestType:  string(t.RequestType),
    }
}

func toTicketViews(ts []model.Ticket) []ticketView {
    views := make([]ticketView, 0, len(ts))
    for _, t := range ts {
        views = append(views, toTicketView(t))
    }
    return views
}

// PurchaseTicket handles POST /v1/sessions/:id/tickets.  The body must
// contain a positive "seat_number".  On success it returns 201 with
// the new ticket id and PENDING status.  A seat race lost to a
// concurrent purchase returns 409; the client must re-prompt with
// current occupancy rather than retry another seat silently.
func (h *CustomerHandler) PurchaseTicket(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    sessionID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
    }
    var body struct {
        SeatNumber uint32 `json:"seat_number"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    if body.SeatNumber == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_number is required"})
    }

    ticketID, err := h.Booking.Purchase(c.Request().Context(), sessionID, body.SeatNumber, userID)
    if err != nil {
        switch {
        case errors.Is(err, repository.ErrSessionNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
        case errors.Is(err, service.ErrInvalidSeat):
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat number out of range"})
        case errors.Is(err, repository.ErrSeatTaken):
            return c.JSON(http.StatusConflict, echo.Map{"error": "seat no longer available"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "purchase failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "ticket_id": ticketID,
        "status":    string(model.StatusPending),
    })
}

// RequestReturn handles POST /v1/tickets/:id/return.  It flags the
// caller's CONFIRMED ticket for return; an administrator later
// processes it.  Returns 403 when the ticket belongs to someone else
// and 422 when the ticket's state does not allow a return request.
func (h *CustomerHandler) RequestReturn(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ticketID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
    }

    if err := h.Admin.RequestReturn(c.Request().Context(), ticketID, userID); err != nil {
        switch {
        case errors.Is(err, repository.ErrTicketNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
        case errors.Is(err, repository.ErrForbidden):
            return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
        case errors.Is(err, model.ErrInvalidTransition):
            return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "ticket cannot be returned in its current state"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "return request failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "ticket_id":    ticketID,
        "request_type": string(model.RequestReturn),
    })
}

// ListMyTickets handles GET /v1/my-tickets and returns all tickets of
// the current user, newest first.
func (h *CustomerHandler) ListMyTickets(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    tickets, err := h.Tickets.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tickets"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": toTicketViews(tickets)})
}

// GetMyTicket handles GET /v1/tickets/:id.  Tickets of other users are
// reported as not found rather than forbidden so the endpoint does not
// leak ticket existence.
func (h *CustomerHandler) GetMyTicket(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    ticketID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
    }
    t, err := h.Tickets.GetByID(c.Request().Context(), ticketID)
    if err != nil {
        if errors.Is(err, repository.ErrTicketNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load ticket"})
    }
    if t.UserID != userID {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toTicketView(*t)})
}
