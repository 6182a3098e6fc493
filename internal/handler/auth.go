package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reservation-desk/backend/internal/model"
	"github.com/reservation-desk/backend/internal/service"
)

type authService interface {
	Register(ctx context.Context, req model.RegisterRequest) (model.UserResponse, error)
	Login(ctx context.Context, username, password string) (model.LoginResult, error)
	RefreshToken(claims *model.Claims) (model.SessionTokens, error)
}

type AuthHandler struct {
	svc authService
}

func NewAuthHandler(svc authService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register godoc
// @Summary Register a new user
// @Description New accounts get the member role and start disabled.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.RegisterRequest true "Account details"
// @Success 201 {object} model.UserEnvelope
// @Failure 400 {object} model.ErrorResponse
// @Failure 409 {object} model.ErrorResponse
// @Failure 429 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}

	user, err := h.svc.Register(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, model.UserEnvelope{Status: "success", Data: &user})
}

// Login godoc
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body model.LoginRequest true "Username and password"
// @Success 200 {object} model.LoginResponse
// @Failure 400 {object} model.ErrorResponse
// @Failure 401 {object} model.ErrorResponse
// @Failure 429 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}

	result, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		// 계정 존재 여부가 드러나지 않도록 두 경우를 같은 응답으로 보냄
		if errors.Is(err, service.ErrNotFound) || errors.Is(err, service.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{Error: "authentication", Message: "invalid username or password"})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, model.LoginResponse{
		UserResponse:  result.User,
		SessionTokens: result.Tokens,
	})
}

// Refresh godoc
// @Summary Refresh the token pair
// @Description Requires a refresh token in the Authorization header.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.SessionTokens
// @Failure 401 {object} model.ErrorResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	tokens, err := h.svc.RefreshToken(GetClaims(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

// Me godoc
// @Summary Get current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.AuthMeResponse
// @Failure 401 {object} model.ErrorResponse
// @Router /api/v1/auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := GetClaims(c)
	if claims == nil {
		writeUnauthenticated(c, "not authenticated")
		return
	}
	c.JSON(http.StatusOK, model.AuthMeResponse{Username: claims.Username, Role: claims.Role})
}
