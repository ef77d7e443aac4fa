package handler

import (
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-box-office/internal/model"
    "github.com/iliyamo/cinema-box-office/internal/repository"
    "github.com/iliyamo/cinema-box-office/internal/service"
)

// SessionHandler serves the session catalog: public listings with seat
// availability, and the administrative CRUD endpoints.
type SessionHandler struct {
    Sessions *repository.SessionRepo
    Movies   *repository.MovieRepo
    Booking  *service.BookingService
}

// NewSessionHandler constructs a SessionHandler.  All dependencies
// must be non-nil.
func NewSessionHandler(sessions *repository.SessionRepo, movies *repository.MovieRepo, booking *service.BookingService) *SessionHandler {
    if sessions == nil || movies == nil || booking == nil {
        panic("nil dependency passed to NewSessionHandler")
    }
    return &SessionHandler{Sessions: sessions, Movies: movies, Booking: booking}
}

// sessionView is the JSON shape of a single session.
type sessionView struct {
    ID         uint64    `json:"id"`
    MovieID    uint64    `json:"movie_id"`
    PriceCents uint32    `json:"price_cents"`
    Date       string    `json:"date"`
    StartsAt   time.Time `json:"starts_at"`
    EndsAt     time.Time `json:"ends_at"`
    Capacity   uint32    `json:"capacity"`
}

func toSessionView(s model.FilmSession) sessionView {
    return sessionView{
        ID:         s.ID,
        MovieID:    s.MovieID,
        PriceCents: s.PriceCents,
        Date:       s.Date.UTC().Format("2006-01-02"),
        StartsAt:   s.StartsAt,
        EndsAt:     s.EndsAt,
        Capacity:   s.Capacity,
    }
}

// sessionBody is the request shape shared by create and update.
type sessionBody struct {
    MovieID    uint64 `json:"movie_id"`
    PriceCents uint32 `json:"price_cents"`
    Date       string `json:"date"`      // YYYY-MM-DD
    StartsAt   string `json:"starts_at"` // RFC3339
    EndsAt     string `json:"ends_at"`   // RFC3339
    Capacity   uint32 `json:"capacity"`
}

// parseSessionBody binds and validates the shared create/update body.
// It returns a populated FilmSession (without ID) or a client error
// message.
func (h *SessionHandler) parseSessionBody(c echo.Context) (*model.FilmSession, string) {
    var body sessionBody
    if err := c.Bind(&body); err != nil {
        return nil, "invalid request body"
    }
    if body.MovieID == 0 {
        return nil, "movie_id is required"
    }
    if body.Capacity == 0 {
        return nil, "capacity must be positive"
    }
    date, err := time.Parse("2006-01-02", body.Date)
    if err != nil {
        return nil, "invalid date format, want YYYY-MM-DD"
    }
    startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
    if err != nil {
        return nil, "invalid starts_at format"
    }
    endsAt, err := time.Parse(time.RFC3339, body.EndsAt)
    if err != nil {
        return nil, "invalid ends_at format"
    }
    if !endsAt.After(startsAt) {
        return nil, "ends_at must be after starts_at"
    }
    return &model.FilmSession{
        MovieID:    body.MovieID,
        PriceCents: body.PriceCents,
        Date:       date,
        StartsAt:   startsAt.UTC(),
        EndsAt:     endsAt.UTC(),
        Capacity:   body.Capacity,
    }, ""
}

// ListSessions handles GET /v1/sessions.  The optional movie_id query
// parameter narrows the listing.  Each entry carries the movie title
// and the count of free seats.
func (h *SessionHandler) ListSessions(c echo.Context) error {
    var movieID uint64
    if raw := c.QueryParam("movie_id"); raw != "" {
        id, err := strconv.ParseUint(raw, 10, 64)
        if err != nil || id == 0 {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie_id"})
        }
        movieID = id
    }
    details, err := h.Sessions.List(c.Request().Context(), movieID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load sessions"})
    }
    return c.JSON(http.StatusOK, echo.Map{"items": details})
}

// GetSession handles GET /v1/sessions/:id.
func (h *SessionHandler) GetSession(c echo.Context) error {
    sessionID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
    }
    s, err := h.Sessions.GetByID(c.Request().Context(), sessionID)
    if err != nil {
        if errors.Is(err, repository.ErrSessionNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load session"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toSessionView(*s)})
}

// GetSeatAvailability handles GET /v1/sessions/:id/seats.  It returns
// the capacity, the seat numbers currently held by active tickets and
// the free count.  The snapshot reflects committed state at read time;
// a seat shown free may be gone by the time a purchase is attempted.
func (h *SessionHandler) GetSeatAvailability(c echo.Context) error {
    sessionID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
    }
    av, err := h.Booking.Availability(c.Request().Context(), sessionID)
    if err != nil {
        if errors.Is(err, repository.ErrSessionNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load availability"})
    }
    return c.JSON(http.StatusOK, av)
}

// CreateSession handles POST /v1/admin/sessions.
func (h *SessionHandler) CreateSession(c echo.Context) error {
    s, msg := h.parseSessionBody(c)
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    ctx := c.Request().Context()
    if _, err := h.Movies.GetByID(ctx, s.MovieID); err != nil {
        if errors.Is(err, repository.ErrMovieNotFound) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify movie"})
    }
    if err := h.Sessions.Create(ctx, s); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create session"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": toSessionView(*s)})
}

// UpdateSession handles PUT /v1/admin/sessions/:id.  Shrinking the
// capacity below an already-claimed seat number is rejected with 409.
func (h *SessionHandler) UpdateSession(c echo.Context) error {
    sessionID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
    }
    s, msg := h.parseSessionBody(c)
    if msg != "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
    }
    s.ID = sessionID
    ctx := c.Request().Context()
    if _, err := h.Movies.GetByID(ctx, s.MovieID); err != nil {
        if errors.Is(err, repository.ErrMovieNotFound) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to verify movie"})
    }
    if err := h.Sessions.Update(ctx, s); err != nil {
        switch {
        case errors.Is(err, repository.ErrSessionNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "capacity below an already claimed seat"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update session"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toSessionView(*s)})
}

// DeleteSession handles DELETE /v1/admin/sessions/:id.  Sessions with
// active tickets cannot be deleted.
func (h *SessionHandler) DeleteSession(c echo.Context) error {
    sessionID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid session id"})
    }
    if err := h.Sessions.Delete(c.Request().Context(), sessionID); err != nil {
        switch {
        case errors.Is(err, repository.ErrSessionNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "session not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "session has active tickets"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete session"})
    }
    return c.NoContent(http.StatusNoContent)
}
