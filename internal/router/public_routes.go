package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-box-office/internal/handler"
)

// RegisterPublic registers the unauthenticated catalog: movies,
// sessions and per-session seat availability.  Guests browse these
// before registering, so the group takes the rate limiter and the
// response cache middleware from the caller; booking routes never go
// through either.
func RegisterPublic(e *echo.Echo, movies *handler.MovieHandler, sessions *handler.SessionHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/movies", movies.ListMovies)
	g.GET("/movies/:id", movies.GetMovie)
	g.GET("/sessions", sessions.ListSessions)
	g.GET("/sessions/:id", sessions.GetSession)
	// Availability is a committed-state snapshot; with caching enabled
	// it may lag live occupancy by up to the cache TTL.
	g.GET("/sessions/:id/seats", sessions.GetSeatAvailability)
}
