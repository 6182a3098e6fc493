package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/reservation-desk/backend/internal/db"
	"github.com/reservation-desk/backend/internal/model"
)

const defaultMovieMinutes = 60

// movieRepo - DB 인터페이스
type movieRepo interface {
	ListMovies(ctx context.Context) ([]model.Movie, error)
	GetMovie(ctx context.Context, id string) (*model.Movie, error)
	CreateMovie(ctx context.Context, m model.Movie) error
	UpdateMovie(ctx context.Context, m model.Movie) error
	DeleteMovie(ctx context.Context, id string) error
}

// MovieService - 영화 카탈로그 CRUD
type MovieService struct {
	db movieRepo
}

func NewMovieService(db movieRepo) *MovieService {
	return &MovieService{db: db}
}

func (s *MovieService) ListMovies(ctx context.Context) ([]model.Movie, error) {
	movies, err := s.db.ListMovies(ctx)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	return movies, nil
}

func (s *MovieService) GetMovie(ctx context.Context, id string) (*model.Movie, error) {
	if err := checkMovieID(id); err != nil {
		return nil, err
	}
	movie, err := s.db.GetMovie(ctx, id)
	if err != nil {
		return nil, movieError("get", id, err)
	}
	return movie, nil
}

func (s *MovieService) CreateMovie(ctx context.Context, req model.MovieRequest) (string, error) {
	if err := validateMovie(req); err != nil {
		return "", err
	}

	m := model.Movie{
		ID:      uuid.NewString(),
		Title:   strings.TrimSpace(req.Title),
		Minutes: defaultMovieMinutes,
	}
	if req.Minutes != nil {
		m.Minutes = *req.Minutes
	}
	if err := s.db.CreateMovie(ctx, m); err != nil {
		return "", fmt.Errorf("create movie: %w", err)
	}
	return m.ID, nil
}

// UpdateMovie - Minutes 가 nil 이면 기존 상영 시간 유지
func (s *MovieService) UpdateMovie(ctx context.Context, id string, req model.MovieRequest) error {
	if err := checkMovieID(id); err != nil {
		return err
	}
	if err := validateMovie(req); err != nil {
		return err
	}

	current, err := s.db.GetMovie(ctx, id)
	if err != nil {
		return movieError("update", id, err)
	}

	current.Title = strings.TrimSpace(req.Title)
	if req.Minutes != nil {
		current.Minutes = *req.Minutes
	}
	if err := s.db.UpdateMovie(ctx, *current); err != nil {
		return movieError("update", id, err)
	}
	return nil
}

func (s *MovieService) DeleteMovie(ctx context.Context, id string) error {
	if err := checkMovieID(id); err != nil {
		return err
	}
	if err := s.db.DeleteMovie(ctx, id); err != nil {
		return movieError("delete", id, err)
	}
	return nil
}

func validateMovie(req model.MovieRequest) error {
	fields := make(map[string]string)
	if isBlank(req.Title) {
		fields["title"] = "required"
	}
	if req.Minutes != nil && *req.Minutes <= 0 {
		fields["minutes"] = "must be positive"
	}
	if len(fields) > 0 {
		return validationError("invalid movie", fields)
	}
	return nil
}

// uuid 형식이 아니면 조회할 필요 없이 없는 영화
func checkMovieID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return notFoundf("movie %s not found", id)
	}
	return nil
}

func movieError(op, id string, err error) error {
	if db.IsNoRows(err) {
		return notFoundf("movie %s not found", id)
	}
	return fmt.Errorf("%s movie %s: %w", op, id, err)
}
