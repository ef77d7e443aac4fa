package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/cinema-box-office/internal/model"
    "github.com/iliyamo/cinema-box-office/internal/repository"
)

// MovieHandler serves the movie catalog: public list/get plus the
// administrative CRUD endpoints.
type MovieHandler struct {
    Movies *repository.MovieRepo
}

// NewMovieHandler constructs a MovieHandler.
func NewMovieHandler(movies *repository.MovieRepo) *MovieHandler {
    if movies == nil {
        panic("nil repository passed to NewMovieHandler")
    }
    return &MovieHandler{Movies: movies}
}

type movieView struct {
    ID          uint64 `json:"id"`
    Title       string `json:"title"`
    Description string `json:"description"`
    DurationMin uint32 `json:"duration_min"`
}

func toMovieView(m model.Movie) movieView {
    return movieView{ID: m.ID, Title: m.Title, Description: m.Description, DurationMin: m.DurationMin}
}

type movieBody struct {
    Title       string `json:"title"`
    Description string `json:"description"`
    DurationMin uint32 `json:"duration_min"`
}

// ListMovies handles GET /v1/movies.
func (h *MovieHandler) ListMovies(c echo.Context) error {
    movies, err := h.Movies.List(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movies"})
    }
    views := make([]movieView, 0, len(movies))
    for _, m := range movies {
        views = append(views, toMovieView(m))
    }
    return c.JSON(http.StatusOK, echo.Map{"items": views})
}

// GetMovie handles GET /v1/movies/:id.
func (h *MovieHandler) GetMovie(c echo.Context) error {
    movieID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
    }
    m, err := h.Movies.GetByID(c.Request().Context(), movieID)
    if err != nil {
        if errors.Is(err, repository.ErrMovieNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movie"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toMovieView(*m)})
}

// CreateMovie handles POST /v1/admin/movies.
func (h *MovieHandler) CreateMovie(c echo.Context) error {
    var body movieBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.Title = strings.TrimSpace(body.Title)
    if body.Title == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
    }
    m := &model.Movie{Title: body.Title, Description: body.Description, DurationMin: body.DurationMin}
    if err := h.Movies.Create(c.Request().Context(), m); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create movie"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"item": toMovieView(*m)})
}

// UpdateMovie handles PUT /v1/admin/movies/:id.
func (h *MovieHandler) UpdateMovie(c echo.Context) error {
    movieID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
    }
    var body movieBody
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    body.Title = strings.TrimSpace(body.Title)
    if body.Title == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "title is required"})
    }
    m := &model.Movie{ID: movieID, Title: body.Title, Description: body.Description, DurationMin: body.DurationMin}
    if err := h.Movies.Update(c.Request().Context(), m); err != nil {
        if errors.Is(err, repository.ErrMovieNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not update movie"})
    }
    return c.JSON(http.StatusOK, echo.Map{"item": toMovieView(*m)})
}

// DeleteMovie handles DELETE /v1/admin/movies/:id.  Movies referenced
// by sessions cannot be deleted.
func (h *MovieHandler) DeleteMovie(c echo.Context) error {
    movieID, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid movie id"})
    }
    if err := h.Movies.Delete(c.Request().Context(), movieID); err != nil {
        switch {
        case errors.Is(err, repository.ErrMovieNotFound):
            return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
        case errors.Is(err, repository.ErrConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "movie has scheduled sessions"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not delete movie"})
    }
    return c.NoContent(http.StatusNoContent)
}
