package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reservation-desk/backend/internal/model"
)

// movieService - 서비스 인터페이스
type movieService interface {
	ListMovies(ctx context.Context) ([]model.Movie, error)
	GetMovie(ctx context.Context, id string) (*model.Movie, error)
	CreateMovie(ctx context.Context, req model.MovieRequest) (string, error)
	UpdateMovie(ctx context.Context, id string, req model.MovieRequest) error
	DeleteMovie(ctx context.Context, id string) error
}

// MovieHandler - 영화 카탈로그 핸들러
type MovieHandler struct {
	svc movieService
}

func NewMovieHandler(svc movieService) *MovieHandler {
	return &MovieHandler{svc: svc}
}

// ListMovies godoc
// @Summary List movies
// @Tags movies
// @Produce json
// @Success 200 {object} model.MovieListResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/movies [get]
func (h *MovieHandler) ListMovies(c *gin.Context) {
	movies, err := h.svc.ListMovies(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MovieListResponse{Status: "success", Data: movies})
}

// GetMovie godoc
// @Summary Get a movie by ID
// @Tags movies
// @Produce json
// @Param id path string true "Movie ID"
// @Success 200 {object} model.MovieResponse
// @Failure 404,500 {object} model.ErrorResponse
// @Router /api/v1/movies/{id} [get]
func (h *MovieHandler) GetMovie(c *gin.Context) {
	movie, err := h.svc.GetMovie(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MovieResponse{Status: "success", Data: movie})
}

// CreateMovie godoc
// @Summary Create a movie
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body model.MovieRequest true "Movie"
// @Success 201 {object} model.MovieMutationResponse
// @Failure 400,401,500 {object} model.ErrorResponse
// @Router /api/v1/movies [post]
func (h *MovieHandler) CreateMovie(c *gin.Context) {
	var req model.MovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}
	id, err := h.svc.CreateMovie(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.MovieMutationResponse{Status: "success", Message: "created", ID: id})
}

// UpdateMovie godoc
// @Summary Update a movie
// @Tags movies
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Param request body model.MovieRequest true "Movie"
// @Success 200 {object} model.MovieMutationResponse
// @Failure 400,401,404,500 {object} model.ErrorResponse
// @Router /api/v1/movies/{id} [put]
func (h *MovieHandler) UpdateMovie(c *gin.Context) {
	var req model.MovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}
	id := c.Param("id")
	if err := h.svc.UpdateMovie(c.Request.Context(), id, req); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MovieMutationResponse{Status: "success", Message: "updated", ID: id})
}

// DeleteMovie godoc
// @Summary Delete a movie
// @Tags movies
// @Produce json
// @Security BearerAuth
// @Param id path string true "Movie ID"
// @Success 200 {object} model.MovieMutationResponse
// @Failure 401,404,500 {object} model.ErrorResponse
// @Router /api/v1/movies/{id} [delete]
func (h *MovieHandler) DeleteMovie(c *gin.Context) {
	id := c.Param("id")
	if err := h.svc.DeleteMovie(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.MovieMutationResponse{Status: "success", Message: "deleted", ID: id})
}
