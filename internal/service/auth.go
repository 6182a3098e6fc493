package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/reservation-desk/backend/internal/db"
	"github.com/reservation-desk/backend/internal/metrics"
	"github.com/reservation-desk/backend/internal/model"
	"github.com/sirupsen/logrus"
)

const (
	timestampLayout = "2006-01-02 15:04"

	maxUsernameLength = 20
	maxEmailLength    = 50

	msgInvalidCredentials = "invalid username or password"
)

type userRepo interface {
	FindUsersByUsernameOrEmail(ctx context.Context, username, email string) ([]model.User, error)
	CreateUser(ctx context.Context, user model.User) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, user model.User) error
	DeleteUser(ctx context.Context, username string) error
}

type AuthService struct {
	users  userRepo
	hasher PasswordHasher
	tokens *TokenIssuer
	guard  LoginGuard
	loc    *time.Location
	now    func() time.Time
}

// NewAuthService - guard 가 nil 이면 잠금 없이, loc 가 nil 이면 UTC 로 시간 표시
func NewAuthService(users userRepo, hasher PasswordHasher, tokens *TokenIssuer, guard LoginGuard, loc *time.Location) *AuthService {
	if guard == nil {
		guard = NoopLoginGuard()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		guard:  guard,
		loc:    loc,
		now:    time.Now,
	}
}

// EnsureRoot - root 계정이 없으면 생성
func (s *AuthService) EnsureRoot(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(password) == "" {
		return fmt.Errorf("%w: ROOT_USERNAME/ROOT_PASSWORD are required", ErrMisconfigured)
	}

	_, err := s.users.GetUserByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !db.IsNoRows(err) {
		return err
	}

	if fields := credentialErrors(username, password); len(fields) > 0 {
		return fmt.Errorf("%w: invalid root credentials", ErrMisconfigured)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}

	now := s.now()
	_, err = s.users.CreateUser(ctx, model.User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        username + "@localhost",
		PasswordHash: hash,
		Role:         model.RoleRoot,
		IsEnabled:    true,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return err
	}
	logrus.WithField("username", username).Info("root account created")
	return nil
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.UserResponse, error) {
	fields := credentialErrors(req.Username, req.Password)
	if isBlank(req.Email) {
		fields["email"] = "required"
	} else if msg := emailError(req.Email); msg != "" {
		fields["email"] = msg
	}
	if isBlank(req.ConfirmPassword) {
		fields["confirmPassword"] = "required"
	} else if req.ConfirmPassword != req.Password {
		fields["confirmPassword"] = "does not match password"
	}
	if len(fields) > 0 {
		metrics.IncAuthEvent("register", "invalid")
		return model.UserResponse{}, validationError("invalid registration", fields)
	}

	existing, err := s.users.FindUsersByUsernameOrEmail(ctx, req.Username, req.Email)
	if err != nil {
		logrus.WithError(err).Error("lookup users for registration failed")
		return model.UserResponse{}, fmt.Errorf("register %s: %w", req.Username, err)
	}
	if conflicts := registrationConflicts(existing, req.Username, req.Email); len(conflicts) > 0 {
		metrics.IncAuthEvent("register", "conflict")
		return model.UserResponse{}, conflictError(joinReasons(conflicts), conflicts)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return model.UserResponse{}, fmt.Errorf("register %s: hash password: %w", req.Username, err)
	}

	now := s.now()
	user, err := s.users.CreateUser(ctx, model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		ImageRef:     req.ImageRef,
		Birthday:     req.Birthday,
		Role:         model.RoleMember,
		IsEnabled:    false,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		if db.IsUniqueViolation(err) {
			metrics.IncAuthEvent("register", "conflict")
			return model.UserResponse{}, conflictError("username or email taken", nil)
		}
		logrus.WithError(err).WithField("username", req.Username).Error("create user failed")
		return model.UserResponse{}, fmt.Errorf("register %s: %w", req.Username, err)
	}

	metrics.IncAuthEvent("register", "ok")
	return s.toResponse(*user), nil
}

// Login - 없는 사용자는 NotFound, 비밀번호 불일치는 Unauthenticated 로 구분해서 반환
func (s *AuthService) Login(ctx context.Context, username, password string) (model.LoginResult, error) {
	if isBlank(username) || password == "" {
		return model.LoginResult{}, validationError("username and password are required", nil)
	}

	if s.guard.Locked(ctx, username) {
		metrics.IncAuthEvent("login", "locked")
		return model.LoginResult{}, newError(ErrRateLimited, "too many failed login attempts")
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if db.IsNoRows(err) {
			s.guard.RecordFailure(ctx, username)
			metrics.IncAuthEvent("login", "invalid")
			return model.LoginResult{}, notFoundf("user %s not found", username)
		}
		logrus.WithError(err).WithField("username", username).Error("lookup user for login failed")
		return model.LoginResult{}, fmt.Errorf("login %s: %w", username, err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.guard.RecordFailure(ctx, username)
		metrics.IncAuthEvent("login", "invalid")
		return model.LoginResult{}, newError(ErrUnauthenticated, msgInvalidCredentials)
	}

	tokens, err := s.tokens.Issue(user.Username, user.Role)
	if err != nil {
		return model.LoginResult{}, fmt.Errorf("login %s: issue tokens: %w", username, err)
	}

	s.guard.Reset(ctx, username)
	metrics.IncAuthEvent("login", "ok")
	return model.LoginResult{User: s.toResponse(*user), Tokens: tokens}, nil
}

// RefreshToken - 검증된 refresh 토큰의 신원으로 새 토큰 쌍 발급
func (s *AuthService) RefreshToken(claims *model.Claims) (model.SessionTokens, error) {
	if claims == nil || claims.Username == "" {
		return model.SessionTokens{}, newError(ErrUnauthenticated, "not authenticated")
	}

	tokens, err := s.tokens.Issue(claims.Username, claims.Role)
	if err != nil {
		return model.SessionTokens{}, fmt.Errorf("refresh %s: %w", claims.Username, err)
	}
	metrics.IncAuthEvent("refresh", "ok")
	return tokens, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]model.UserResponse, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		logrus.WithError(err).Error("list users failed")
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]model.UserResponse, 0, len(users))
	for _, user := range users {
		out = append(out, s.toResponse(user))
	}
	return out, nil
}

func (s *AuthService) GetUser(ctx context.Context, username string) (model.UserResponse, error) {
	user, err := s.getUser(ctx, username)
	if err != nil {
		return model.UserResponse{}, err
	}
	return s.toResponse(*user), nil
}

func (s *AuthService) UpdateUser(ctx context.Context, username string, patch model.UserPatch) (string, error) {
	user, err := s.getUser(ctx, username)
	if err != nil {
		return "", err
	}

	fields := make(map[string]string)
	if !isBlank(patch.Email) {
		if msg := emailError(patch.Email); msg != "" {
			fields["email"] = msg
		}
	}
	switch {
	case patch.Password != "" && isBlank(patch.Password):
		fields["password"] = "must not be blank"
	case patch.Password != "":
		if len(patch.Password) > maxPasswordBytes {
			fields["password"] = fmt.Sprintf("must be at most %d bytes", maxPasswordBytes)
		}
		if patch.ConfirmPassword != patch.Password {
			fields["confirmPassword"] = "does not match password"
		}
	}
	if len(fields) > 0 {
		return "", validationError("invalid user update", fields)
	}

	if !isBlank(patch.Email) && patch.Email != user.Email {
		other, err := s.users.GetUserByEmail(ctx, patch.Email)
		switch {
		case err == nil && other.Username != user.Username:
			return "", conflictError("email taken", map[string]string{"email": "email taken"})
		case err != nil && !db.IsNoRows(err):
			return "", fmt.Errorf("update user %s: %w", username, err)
		}
		user.Email = patch.Email
	}
	if !isBlank(patch.ImageRef) {
		user.ImageRef = patch.ImageRef
	}
	if !isBlank(patch.Birthday) {
		user.Birthday = patch.Birthday
	}
	if patch.Password != "" {
		hash, err := s.hasher.Hash(patch.Password)
		if err != nil {
			return "", fmt.Errorf("update user %s: hash password: %w", username, err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = s.now()

	if err := s.users.UpdateUser(ctx, *user); err != nil {
		switch {
		case db.IsNoRows(err):
			return "", notFoundf("user %s not found", username)
		case db.IsUniqueViolation(err):
			return "", conflictError("email taken", map[string]string{"email": "email taken"})
		}
		logrus.WithError(err).WithField("username", username).Error("update user failed")
		return "", fmt.Errorf("update user %s: %w", username, err)
	}
	return "User updated successfully", nil
}

func (s *AuthService) DeleteUser(ctx context.Context, username string) (string, error) {
	if err := s.users.DeleteUser(ctx, username); err != nil {
		if db.IsNoRows(err) {
			return "", notFoundf("user %s not found", username)
		}
		logrus.WithError(err).WithField("username", username).Error("delete user failed")
		return "", fmt.Errorf("delete user %s: %w", username, err)
	}
	return "User deleted successfully", nil
}

func (s *AuthService) getUser(ctx context.Context, username string) (*model.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, notFoundf("user %s not found", username)
		}
		logrus.WithError(err).WithField("username", username).Error("get user failed")
		return nil, fmt.Errorf("get user %s: %w", username, err)
	}
	return user, nil
}

func (s *AuthService) toResponse(user model.User) model.UserResponse {
	return model.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		ImageRef:  user.ImageRef,
		Birthday:  user.Birthday,
		Role:      user.Role,
		IsEnabled: user.IsEnabled,
		CreatedAt: user.CreatedAt.In(s.loc).Format(timestampLayout),
		UpdatedAt: user.UpdatedAt.In(s.loc).Format(timestampLayout),
	}
}

func credentialErrors(username, password string) map[string]string {
	fields := make(map[string]string)
	if isBlank(username) {
		fields["username"] = "required"
	} else if utf8.RuneCountInString(username) > maxUsernameLength {
		fields["username"] = fmt.Sprintf("must be at most %d characters", maxUsernameLength)
	}
	if isBlank(password) {
		fields["password"] = "required"
	} else if len(password) > maxPasswordBytes {
		fields["password"] = fmt.Sprintf("must be at most %d bytes", maxPasswordBytes)
	}
	return fields
}

func emailError(email string) string {
	if utf8.RuneCountInString(email) > maxEmailLength {
		return fmt.Sprintf("must be at most %d characters", maxEmailLength)
	}
	if !strings.Contains(email, "@") {
		return "must be a valid email address"
	}
	return ""
}

func registrationConflicts(existing []model.User, username, email string) map[string]string {
	conflicts := make(map[string]string)
	for _, user := range existing {
		if user.Username == username {
			conflicts["username"] = "username taken"
		}
		if user.Email == email {
			conflicts["email"] = "email taken"
		}
	}
	return conflicts
}

func joinReasons(conflicts map[string]string) string {
	var reasons []string
	for _, key := range []string{"username", "email"} {
		if reason, ok := conflicts[key]; ok {
			reasons = append(reasons, reason)
		}
	}
	return strings.Join(reasons, ", ")
}
