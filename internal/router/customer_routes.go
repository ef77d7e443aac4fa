package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-box-office/internal/handler"
	"github.com/iliyamo/cinema-box-office/internal/middleware"
	"github.com/iliyamo/cinema-box-office/internal/model"
)

// RegisterCustomer registers the booking endpoints available to
// authenticated customers: purchasing a seat, requesting a return and
// reading their own tickets.
func RegisterCustomer(e *echo.Echo, h *handler.CustomerHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleCustomer, model.RoleAdmin),
	)
	g.POST("/sessions/:id/tickets", h.PurchaseTicket)
	g.POST("/tickets/:id/return", h.RequestReturn)
	g.GET("/my-tickets", h.ListMyTickets)
	g.GET("/tickets/:id", h.GetMyTicket)
}
