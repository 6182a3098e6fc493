package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/reservation-desk/backend/internal/model"
)

// EnsureMovieSchema - movies 테이블 생성 (없으면)
func (p *Postgres) EnsureMovieSchema(ctx context.Context) error {
	_, err := p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS movies (
			id         UUID         PRIMARY KEY,
			title      TEXT         NOT NULL,
			minutes    INTEGER      NOT NULL DEFAULT 60,
			created_at TIMESTAMPTZ  NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("failed to create movies table: %w", err)
	}
	return nil
}

// ListMovies - 영화 전체 목록 (등록순)
func (p *Postgres) ListMovies(ctx context.Context) ([]model.Movie, error) {
	rows, err := p.Pool.Query(ctx, `
		SELECT id, title, minutes, created_at, updated_at
		FROM movies
		ORDER BY created_at ASC;
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	movies := []model.Movie{}
	for rows.Next() {
		var m model.Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.Minutes, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	return movies, rows.Err()
}

// GetMovie - ID로 단건 조회. 없으면 pgx.ErrNoRows 를 감싸서 반환
func (p *Postgres) GetMovie(ctx context.Context, id string) (*model.Movie, error) {
	var m model.Movie
	err := p.Pool.QueryRow(ctx, `
		SELECT id, title, minutes, created_at, updated_at
		FROM movies
		WHERE id = $1;
	`, id).Scan(&m.ID, &m.Title, &m.Minutes, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("movie %s: %w", id, err)
	}
	return &m, nil
}

func (p *Postgres) CreateMovie(ctx context.Context, m model.Movie) error {
	_, err := p.Pool.Exec(ctx, `
		INSERT INTO movies (id, title, minutes, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW());
	`, m.ID, m.Title, m.Minutes)
	if err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}
	return nil
}

func (p *Postgres) UpdateMovie(ctx context.Context, m model.Movie) error {
	tag, err := p.Pool.Exec(ctx, `
		UPDATE movies
		SET title = $1, minutes = $2, updated_at = NOW()
		WHERE id = $3;
	`, m.Title, m.Minutes, m.ID)
	if err != nil {
		return fmt.Errorf("failed to update movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("movie %s: %w", m.ID, pgx.ErrNoRows)
	}
	return nil
}

func (p *Postgres) DeleteMovie(ctx context.Context, id string) error {
	tag, err := p.Pool.Exec(ctx, `DELETE FROM movies WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("failed to delete movie: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("movie %s: %w", id, pgx.ErrNoRows)
	}
	return nil
}
