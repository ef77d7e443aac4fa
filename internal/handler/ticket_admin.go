package handler

import (
    "errors"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-box-office/internal/model"
    "github.com/iliyamo/cinema-box-office/internal/repository"
    "github.com/iliyamo/cinema-box-office/internal/service"
)

// AdminTicketHandler exposes the ticket lifecycle to administrators:
// confirming and cancelling pending tickets, processing requested
// returns, listing and deleting tickets.
type AdminTicketHandler struct {
    Admin   *service.TicketAdministration
    Tickets *repository.TicketRepo
}

// NewAdminTicketHandler constructs an AdminTicketHandler.  Both
// dependencies must be non-nil.
func NewAdminTicketHandler(admin *service.TicketAdministration, tickets *repository.TicketRepo) *AdminTicketHandler {
    if admin == nil || tickets == nil {
        panic("nil dependency passed to NewAdminTicketHandler")
    }
    return &AdminTicketHandler{Admin: admin, Tickets: tickets}
}

// ApplyAction handles POST /v1/admin/tickets/:id/actions.  The body
// must carry an "action" of confirm, cancel, process_return or
// request_return.  Unknown actions are rejected at the boundary; legal
// actions that do not apply to the ticket's current state return 422.
func (h *AdminTicketHandler) ApplyAction(c echo.Context) error {
    ticketID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
    }
    var body struct {
        Action string `json:"action"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    action, err := model.ParseTicketAction(body.Action)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown action"})
    }

    if err := h.Admin.Apply(c.Request().Context(), ticketID, action); err != nil {
        switch {
        case errors.Is(err, repository.ErrTicketNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
        case errors.Is(err, model.ErrInvalidTransition):
            return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
        case errors.Is(err, repository.ErrStaleTicket):
            return c.JSON(http.StatusConflict, echo.Map{"error": "ticket changed concurrently, retry"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "action failed"})
    }

    t, err := h.Tickets.GetByID(c.Request().Context(), ticketID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load ticket"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toTicketView(*t)})
}

// ListTickets handles GET /v1/admin/tickets.  Optional query
// parameters session_id and user_id narrow the listing; without them
// every ticket is returned, newest first.
func (h *AdminTicketHandler) ListTickets(c echo.Context) error {
    ctx := c.Request().Context()

    if raw := c.QueryParam("session_id"); raw != "" {
        sessionID, err := strconv.ParseUint(raw, 10, 64)
        if err != nil || sessionID == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session_id"})
        }
        tickets, err := h.Tickets.ListBySession(ctx, sessionID)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tickets"})
        }
        return c.JSON(http.StatusOK, echo.Map{"items": toTicketViews(tickets)})
    }
    if raw := c.QueryParam("user_id"); raw != "" {
        userID, err := strconv.ParseUint(raw, 10, 64)
        if err != nil || userID == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user_id"})
        }
        tickets, err := h.Tickets.ListByUser(ctx, userID)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tickets"})
        }
        return c.JSON(http.StatusOK, echo.Map{"items": toTicketViews(tickets)})
    }

    tickets, err := h.Tickets.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load tickets"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": toTicketViews(tickets)})
}

// GetTicket handles GET /v1/admin/tickets/:id.
func (h *AdminTicketHandler) GetTicket(c echo.Context) error {
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
    return c.JSON(http.StatusOK, echo.Map{"item": toTicketView(*t)})
}

// DeleteTicket handles DELETE /v1/admin/tickets/:id, the explicit
// destructive delete.  If the ticket was active its seat becomes free.
func (h *AdminTicketHandler) DeleteTicket(c echo.Context) error {
    ticketID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
    }
    if err := h.Admin.Delete(c.Request().Context(), ticketID); err != nil {
        if errors.Is(err, repository.ErrTicketNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
