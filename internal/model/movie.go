package model

import "time"

// Movie - movies 테이블 행
type Movie struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Minutes   int       `json:"minutes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MovieRequest - 영화 생성/수정 요청. Minutes 가 nil 이면 기본값(생성) 또는 기존 값(수정)
type MovieRequest struct {
	Title   string `json:"title"`
	Minutes *int   `json:"minutes"`
}

type MovieResponse struct {
	Status string `json:"status"`
	Data   *Movie `json:"data"`
}

type MovieListResponse struct {
	Status string  `json:"status"`
	Data   []Movie `json:"data"`
}

type MovieMutationResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	ID      string `json:"id,omitempty"`
}
