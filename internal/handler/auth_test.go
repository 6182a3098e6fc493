package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reservation-desk/backend/internal/model"
	"github.com/reservation-desk/backend/internal/service"
)

func TestRegister(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/api/v1/auth/register", `{"username":"alice","email":"a@example.com","password":"pw","confirmPassword":"pw"}`, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var resp model.UserEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Data.Username)

	w = ts.do(http.MethodPost, "/api/v1/auth/register", `{"username":"taken","email":"t@example.com","password":"pw","confirmPassword":"pw"}`, nil)
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "username taken", decodeError(t, w).Fields["username"])
}

func TestLogin_ReturnsTokenPair(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"pw"}`, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, int64(600), resp.ExpiresIn)

	claims, err := ts.tokens.Verify(resp.AccessToken, model.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
}

func TestLogin_HidesWhichCredentialFailed(t *testing.T) {
	for _, kind := range []error{service.ErrNotFound, service.ErrUnauthenticated} {
		ts := newTestServer(t)
		ts.auth.loginErr = &service.Error{Kind: kind, Message: "detail"}

		w := ts.do(http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"pw"}`, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "invalid username or password", decodeError(t, w).Message)
	}
}

func TestLogin_Locked(t *testing.T) {
	ts := newTestServer(t)
	ts.auth.loginErr = &service.Error{Kind: service.ErrRateLimited, Message: "too many failed logins"}

	w := ts.do(http.MethodPost, "/api/v1/auth/login", `{"username":"alice","password":"pw"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRefresh(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodPost, "/api/v1/auth/refresh", "", ts.bearer(t, model.RefreshToken))
	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, ts.auth.refreshed, 1)
	assert.Equal(t, "alice", ts.auth.refreshed[0].Username)

	var pair model.SessionTokens
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	_, err := ts.tokens.Verify(pair.AccessToken, model.AccessToken)
	assert.NoError(t, err)
}

func TestUserRoutes(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/api/v1/users/ghost", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = ts.do(http.MethodPatch, "/api/v1/users/alice", `{"birthday":"1990-01-01"}`, ts.bearer(t, model.AccessToken))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"alice"}, ts.users.updated)

	w = ts.do(http.MethodGet, "/api/v1/users/alice/avatar", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestUploadAvatar_ReadsRawBody(t *testing.T) {
	ts := newTestServer(t)
	headers := ts.bearer(t, model.AccessToken)
	headers["Content-Type"] = "image/png"

	w := ts.do(http.MethodPut, "/api/v1/users/alice/avatar", strings.Repeat("x", 8), headers)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []byte("xxxxxxxx"), ts.avatars.uploaded)
}

func TestHealthRoutes(t *testing.T) {
	ts := newTestServer(t)

	w := ts.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = ts.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}
