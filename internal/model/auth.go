package model

import "time"

const (
	RoleRoot   = "root"
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// TokenType - JWT typ 클레임 (access / refresh)
type TokenType string

const (
	AccessToken  TokenType = "access"
	RefreshToken TokenType = "refresh"
)

// User - users 테이블 행. PasswordHash 는 서비스 밖으로 나가지 않음
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	ImageRef     string
	Birthday     string
	Role         string
	IsEnabled    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserResponse - 클라이언트에 노출되는 사용자 정보 (시간은 "2006-01-02 15:04")
type UserResponse struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	ImageRef  string `json:"imageRef,omitempty"`
	Birthday  string `json:"birthday,omitempty"`
	Role      string `json:"role"`
	IsEnabled bool   `json:"isEnabled"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type RegisterRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
	ImageRef        string `json:"imageRef"`
	Birthday        string `json:"birthday"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserPatch - 빈 문자열 필드는 기존 값 유지
type UserPatch struct {
	Email           string `json:"email"`
	ImageRef        string `json:"imageRef"`
	Birthday        string `json:"birthday"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Claims - 검증된 토큰에서 꺼낸 신원 정보
type Claims struct {
	Username  string
	Role      string
	Type      TokenType
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type SessionTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    int64  `json:"expiresIn"`
}

// LoginResult - 사용자 정보와 발급된 토큰 (합성)
type LoginResult struct {
	User   UserResponse
	Tokens SessionTokens
}

// LoginResponse - 로그인 응답은 사용자 필드와 토큰 필드를 평탄화해서 내려줌
type LoginResponse struct {
	UserResponse
	SessionTokens
}
