package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-box-office/internal/handler"
	"github.com/iliyamo/cinema-box-office/internal/middleware"
	"github.com/iliyamo/cinema-box-office/internal/model"
)

// RegisterAdmin registers the administrative surface under /v1/admin:
// the ticket lifecycle actions plus catalog CRUD for movies and
// sessions.  Every route requires a valid token with the ADMIN role.
func RegisterAdmin(e *echo.Echo, tickets *handler.AdminTicketHandler, movies *handler.MovieHandler, sessions *handler.SessionHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)

	// Ticket lifecycle: confirm, cancel, process_return, request_return
	// all go through the single actions endpoint.
	g.POST("/tickets/:id/actions", tickets.ApplyAction)
	g.GET("/tickets", tickets.ListTickets)
	g.GET("/tickets/:id", tickets.GetTicket)
	g.DELETE("/tickets/:id", tickets.DeleteTicket)

	g.POST("/movies", movies.CreateMovie)
	g.PUT("/movies/:id", movies.UpdateMovie)
	g.DELETE("/movies/:id", movies.DeleteMovie)

	g.POST("/sessions", sessions.CreateSession)
	g.PUT("/sessions/:id", sessions.UpdateSession)
	g.DELETE("/sessions/:id", sessions.DeleteSession)
}
