package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/reservation-desk/backend/internal/config"
	"github.com/reservation-desk/backend/internal/model"
)

type tokenClaims struct {
	Username string          `json:"username"`
	Role     string          `json:"role"`
	Type     model.TokenType `json:"typ"`
	jwt.RegisteredClaims
}

// TokenIssuer - access/refresh 토큰 발급 및 검증. 두 토큰은 서로 다른 secret 으로 서명
type TokenIssuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenIssuer(cfg config.AuthConfig) (*TokenIssuer, error) {
	if strings.TrimSpace(cfg.JWTAccessSecret) == "" {
		return nil, fmt.Errorf("%w: JWT_ACCESS_SECRET is required", ErrMisconfigured)
	}
	if strings.TrimSpace(cfg.JWTRefreshSecret) == "" {
		return nil, fmt.Errorf("%w: JWT_REFRESH_SECRET is required", ErrMisconfigured)
	}
	if cfg.JWTAccessSecret == cfg.JWTRefreshSecret {
		return nil, fmt.Errorf("%w: JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ", ErrMisconfigured)
	}

	accessTTL, err := time.ParseDuration(cfg.JWTAccessTTL)
	if err != nil || accessTTL <= 0 {
		return nil, fmt.Errorf("%w: invalid JWT_ACCESS_TTL", ErrMisconfigured)
	}

	refreshTTL, err := time.ParseDuration(cfg.JWTRefreshTTL)
	if err != nil || refreshTTL <= 0 {
		return nil, fmt.Errorf("%w: invalid JWT_REFRESH_TTL", ErrMisconfigured)
	}

	return &TokenIssuer{
		accessSecret:  []byte(cfg.JWTAccessSecret),
		refreshSecret: []byte(cfg.JWTRefreshSecret),
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}, nil
}

// Issue - 같은 신원으로 access/refresh 토큰 쌍 발급
func (t *TokenIssuer) Issue(username, role string) (model.SessionTokens, error) {
	now := t.now()

	accessToken, err := t.sign(username, role, model.AccessToken, now)
	if err != nil {
		return model.SessionTokens{}, err
	}
	refreshToken, err := t.sign(username, role, model.RefreshToken, now)
	if err != nil {
		return model.SessionTokens{}, err
	}

	return model.SessionTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(t.accessTTL.Seconds()),
	}, nil
}

// Verify - 서명, 알고리즘, 만료, typ 를 모두 확인. 실패 사유는 구분하지 않음
func (t *TokenIssuer) Verify(tokenStr string, typ model.TokenType) (*model.Claims, error) {
	secret, _ := t.config(typ)
	if secret == nil {
		return nil, newError(ErrUnauthenticated, "token is illegal")
	}

	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrUnauthenticated
		}
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil || !token.Valid {
		return nil, newError(ErrUnauthenticated, "token is illegal")
	}
	if claims.Type != typ || strings.TrimSpace(claims.Username) == "" {
		return nil, newError(ErrUnauthenticated, "token is illegal")
	}

	result := &model.Claims{
		Username: claims.Username,
		Role:     claims.Role,
		Type:     claims.Type,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}
	return result, nil
}

func (t *TokenIssuer) sign(username, role string, typ model.TokenType, now time.Time) (string, error) {
	secret, ttl := t.config(typ)
	claims := tokenClaims{
		Username: username,
		Role:     role,
		Type:     typ,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (t *TokenIssuer) config(typ model.TokenType) ([]byte, time.Duration) {
	switch typ {
	case model.AccessToken:
		return t.accessSecret, t.accessTTL
	case model.RefreshToken:
		return t.refreshSecret, t.refreshTTL
	default:
		return nil, 0
	}
}
