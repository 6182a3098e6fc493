package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/reservation-desk/backend/internal/config"
	"github.com/reservation-desk/backend/internal/model"
	"github.com/reservation-desk/backend/internal/service"
)

type stubReservations struct {
	created  [][]model.DateGroup
	patched  []model.SlotPatch
	groups   []model.DateGroup
	err      error
	exported []byte
}

func (s *stubReservations) CreateReservations(ctx context.Context, groups []model.DateGroup) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.created = append(s.created, groups)
	return "Reservation saved successfully", nil
}

func (s *stubReservations) UpdateReservation(ctx context.Context, date, slotTime string, patch model.SlotPatch) (model.SlotKey, error) {
	if s.err != nil {
		return model.SlotKey{}, s.err
	}
	s.patched = append(s.patched, patch)
	return model.SlotKey{Date: date, Time: slotTime}, nil
}

func (s *stubReservations) ListReservations(ctx context.Context) ([]model.DateGroup, error) {
	return s.groups, s.err
}

func (s *stubReservations) GetReservationsByDate(ctx context.Context, date string) (model.DateGroup, error) {
	return model.DateGroup{Date: date, TimeList: []model.TimeSlot{}}, s.err
}

func (s *stubReservations) GetReservation(ctx context.Context, date, slotTime string) (model.DateGroup, error) {
	if s.err != nil {
		return model.DateGroup{}, s.err
	}
	return model.DateGroup{Date: date, TimeList: []model.TimeSlot{{Time: slotTime}}}, nil
}

func (s *stubReservations) ExportReservations(ctx context.Context) ([]byte, error) {
	return s.exported, s.err
}

type stubAuth struct {
	loginErr  error
	refreshed []*model.Claims
	tokens    *service.TokenIssuer
}

func (s *stubAuth) Register(ctx context.Context, req model.RegisterRequest) (model.UserResponse, error) {
	if req.Username == "taken" {
		return model.UserResponse{}, &service.Error{
			Kind:    service.ErrConflict,
			Message: "username taken",
			Fields:  map[string]string{"username": "username taken"},
		}
	}
	return model.UserResponse{Username: req.Username, Role: model.RoleMember}, nil
}

func (s *stubAuth) Login(ctx context.Context, username, password string) (model.LoginResult, error) {
	if s.loginErr != nil {
		return model.LoginResult{}, s.loginErr
	}
	pair, err := s.tokens.Issue(username, model.RoleMember)
	if err != nil {
		return model.LoginResult{}, err
	}
	return model.LoginResult{User: model.UserResponse{Username: username, Role: model.RoleMember}, Tokens: pair}, nil
}

func (s *stubAuth) RefreshToken(claims *model.Claims) (model.SessionTokens, error) {
	s.refreshed = append(s.refreshed, claims)
	return s.tokens.Issue(claims.Username, claims.Role)
}

type stubUsers struct {
	deleted []string
	updated []string
}

func (s *stubUsers) ListUsers(ctx context.Context) ([]model.UserResponse, error) {
	return []model.UserResponse{{Username: "alice"}}, nil
}

func (s *stubUsers) GetUser(ctx context.Context, username string) (model.UserResponse, error) {
	if username != "alice" {
		return model.UserResponse{}, &service.Error{Kind: service.ErrNotFound, Message: "user " + username + " not found"}
	}
	return model.UserResponse{Username: username}, nil
}

func (s *stubUsers) UpdateUser(ctx context.Context, username string, patch model.UserPatch) (string, error) {
	s.updated = append(s.updated, username)
	return "User updated successfully", nil
}

func (s *stubUsers) DeleteUser(ctx context.Context, username string) (string, error) {
	s.deleted = append(s.deleted, username)
	return "User deleted successfully", nil
}

type stubAvatars struct {
	uploaded []byte
}

func (s *stubAvatars) UploadAvatar(ctx context.Context, username string, data []byte, contentType string) (string, error) {
	s.uploaded = data
	return "avatars/1", nil
}

func (s *stubAvatars) Avatar(ctx context.Context, username string) ([]byte, string, error) {
	return nil, "", &service.Error{Kind: service.ErrUnavailable, Message: "avatar storage is not configured"}
}

type stubMovies struct{}

func (stubMovies) ListMovies(ctx context.Context) ([]model.Movie, error) { return []model.Movie{}, nil }
func (stubMovies) GetMovie(ctx context.Context, id string) (*model.Movie, error) {
	return &model.Movie{ID: id, Title: "Arrival", Minutes: 116}, nil
}
func (stubMovies) CreateMovie(ctx context.Context, req model.MovieRequest) (string, error) {
	return "m-1", nil
}
func (stubMovies) UpdateMovie(ctx context.Context, id string, req model.MovieRequest) error {
	return nil
}
func (stubMovies) DeleteMovie(ctx context.Context, id string) error { return nil }

type testServer struct {
	router       *gin.Engine
	tokens       *service.TokenIssuer
	reservations *stubReservations
	auth         *stubAuth
	users        *stubUsers
	avatars      *stubAvatars
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tokens, err := service.NewTokenIssuer(config.AuthConfig{
		JWTAccessSecret:  "access-secret",
		JWTRefreshSecret: "refresh-secret",
		JWTAccessTTL:     "10m",
		JWTRefreshTTL:    "30m",
	})
	require.NoError(t, err)

	ts := &testServer{
		tokens:       tokens,
		reservations: &stubReservations{},
		auth:         &stubAuth{tokens: tokens},
		users:        &stubUsers{},
		avatars:      &stubAvatars{},
	}
	ts.router = NewRouter(RouterConfig{
		Reservations:      NewReservationHandler(ts.reservations),
		Auth:              NewAuthHandler(ts.auth),
		Users:             NewUserHandler(ts.users, ts.avatars),
		Movies:            NewMovieHandler(stubMovies{}),
		Tokens:            tokens,
		AuthRatePerMinute: 100,
	})
	return ts
}

func (ts *testServer) do(method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func (ts *testServer) bearer(t *testing.T, typ model.TokenType) map[string]string {
	t.Helper()
	pair, err := ts.tokens.Issue("alice", model.RoleMember)
	require.NoError(t, err)
	token := pair.AccessToken
	if typ == model.RefreshToken {
		token = pair.RefreshToken
	}
	return map[string]string{"Authorization": "Bearer " + token}
}
