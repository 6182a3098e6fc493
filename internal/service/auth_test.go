package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reservation-desk/backend/internal/model"
)

func registerAlice(t *testing.T, svc *AuthService) model.UserResponse {
	t.Helper()
	user, err := svc.Register(context.Background(), model.RegisterRequest{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "pw1",
		ConfirmPassword: "pw1",
	})
	require.NoError(t, err)
	return user
}

func TestRegister_CreatesMember(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo, nil)
	svc.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 59, 0, time.UTC) }

	user := registerAlice(t, svc)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, model.RoleMember, user.Role)
	assert.False(t, user.IsEnabled)
	assert.Equal(t, "2024-01-02 03:04", user.CreatedAt)
	assert.NotEmpty(t, user.ID)

	stored := repo.users["alice"]
	assert.NotEqual(t, "pw1", stored.PasswordHash)
	assert.True(t, strings.HasPrefix(stored.PasswordHash, "$2"))
}

func TestRegister_Validation(t *testing.T) {
	svc, _ := newTestAuthService(newFakeUserRepo(), nil)

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username:        strings.Repeat("a", 21),
		Email:           "no-at-sign",
		Password:        "pw1",
		ConfirmPassword: "pw2",
	})
	require.ErrorIs(t, err, ErrValidation)
	domainErr, _ := AsError(err)
	assert.Contains(t, domainErr.Fields, "username")
	assert.Contains(t, domainErr.Fields, "email")
	assert.Equal(t, "does not match password", domainErr.Fields["confirmPassword"])

	_, err = svc.Register(context.Background(), model.RegisterRequest{Username: "bob", Email: "bob@example.com"})
	require.ErrorIs(t, err, ErrValidation)
	domainErr, _ = AsError(err)
	assert.Equal(t, "required", domainErr.Fields["password"])
	assert.Equal(t, "required", domainErr.Fields["confirmPassword"])
}

func TestRegister_ReportsBothConflicts(t *testing.T) {
	repo := newFakeUserRepo(
		model.User{Username: "alice", Email: "a@example.com"},
		model.User{Username: "carol", Email: "bob@example.com"},
	)
	svc, _ := newTestAuthService(repo, nil)

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username:        "alice",
		Email:           "bob@example.com",
		Password:        "pw",
		ConfirmPassword: "pw",
	})
	require.ErrorIs(t, err, ErrConflict)
	domainErr, _ := AsError(err)
	assert.Equal(t, map[string]string{"username": "username taken", "email": "email taken"}, domainErr.Fields)
	assert.Equal(t, "username taken, email taken", domainErr.Message)
	assert.Equal(t, 1, repo.lookup)
}

func TestRegister_UniqueViolationRace(t *testing.T) {
	repo := newFakeUserRepo()
	repo.race = true
	svc, _ := newTestAuthService(repo, nil)

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "pw", ConfirmPassword: "pw",
	})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestLogin(t *testing.T) {
	repo := newFakeUserRepo()
	guard := &fakeGuard{}
	svc, tokens := newTestAuthService(repo, guard)
	registerAlice(t, svc)

	_, err := svc.Login(context.Background(), "alice", "wrongpw")
	require.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, 1, guard.failures)

	_, err = svc.Login(context.Background(), "nobody", "pw1")
	require.ErrorIs(t, err, ErrNotFound)

	result, err := svc.Login(context.Background(), "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "alice", result.User.Username)
	assert.Equal(t, 1, guard.resets)

	claims, err := tokens.Verify(result.Tokens.AccessToken, model.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Username)
	assert.Equal(t, model.RoleMember, claims.Role)

	_, err = tokens.Verify(result.Tokens.RefreshToken, model.RefreshToken)
	assert.NoError(t, err)
}

func TestLogin_Locked(t *testing.T) {
	repo := newFakeUserRepo()
	guard := &fakeGuard{}
	svc, _ := newTestAuthService(repo, guard)
	registerAlice(t, svc)

	guard.locked = true
	_, err := svc.Login(context.Background(), "alice", "pw1")
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestRefreshToken(t *testing.T) {
	svc, tokens := newTestAuthService(newFakeUserRepo(), nil)

	pair, err := svc.RefreshToken(&model.Claims{Username: "alice", Role: model.RoleAdmin, Type: model.RefreshToken})
	require.NoError(t, err)

	claims, err := tokens.Verify(pair.AccessToken, model.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, claims.Role)

	_, err = svc.RefreshToken(nil)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestUpdateUser(t *testing.T) {
	repo := newFakeUserRepo(model.User{Username: "bob", Email: "bob@example.com"})
	svc, _ := newTestAuthService(repo, nil)
	registerAlice(t, svc)
	before := repo.users["alice"]

	_, err := svc.UpdateUser(context.Background(), "alice", model.UserPatch{Email: "bob@example.com"})
	require.ErrorIs(t, err, ErrConflict)

	_, err = svc.UpdateUser(context.Background(), "alice", model.UserPatch{Password: "new", ConfirmPassword: "nope"})
	require.ErrorIs(t, err, ErrValidation)

	ack, err := svc.UpdateUser(context.Background(), "alice", model.UserPatch{Birthday: "1990-01-01", Password: "new", ConfirmPassword: "new"})
	require.NoError(t, err)
	assert.Equal(t, "User updated successfully", ack)

	after := repo.users["alice"]
	assert.Equal(t, "1990-01-01", after.Birthday)
	assert.Equal(t, before.Email, after.Email)
	assert.NotEqual(t, before.PasswordHash, after.PasswordHash)

	_, err = svc.Login(context.Background(), "alice", "new")
	assert.NoError(t, err)

	_, err = svc.UpdateUser(context.Background(), "ghost", model.UserPatch{})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateUser_RejectsBlankPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo, nil)
	registerAlice(t, svc)
	before := repo.users["alice"].PasswordHash

	_, err := svc.UpdateUser(context.Background(), "alice", model.UserPatch{Password: "   ", ConfirmPassword: "   "})
	require.ErrorIs(t, err, ErrValidation)
	domainErr, _ := AsError(err)
	assert.Equal(t, "must not be blank", domainErr.Fields["password"])
	assert.Equal(t, before, repo.users["alice"].PasswordHash)
}

func TestDeleteUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo, nil)
	registerAlice(t, svc)

	_, err := svc.DeleteUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.NotContains(t, repo.users, "alice")

	_, err = svc.DeleteUser(context.Background(), "alice")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetAndListUsers(t *testing.T) {
	svc, _ := newTestAuthService(newFakeUserRepo(), nil)
	registerAlice(t, svc)

	user, err := svc.GetUser(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)

	_, err = svc.GetUser(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)

	users, err := svc.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestEnsureRoot(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _ := newTestAuthService(repo, nil)

	require.NoError(t, svc.EnsureRoot(context.Background(), "root", "secret"))
	root := repo.users["root"]
	assert.Equal(t, model.RoleRoot, root.Role)
	assert.True(t, root.IsEnabled)

	require.NoError(t, svc.EnsureRoot(context.Background(), "root", "other"))
	assert.Equal(t, root.PasswordHash, repo.users["root"].PasswordHash)

	assert.ErrorIs(t, svc.EnsureRoot(context.Background(), "", ""), ErrMisconfigured)
}
