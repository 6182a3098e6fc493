package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/reservation-desk/backend/internal/model"
)

const maxAvatarUpload = 2<<20 + 1

type userService interface {
	ListUsers(ctx context.Context) ([]model.UserResponse, error)
	GetUser(ctx context.Context, username string) (model.UserResponse, error)
	UpdateUser(ctx context.Context, username string, patch model.UserPatch) (string, error)
	DeleteUser(ctx context.Context, username string) (string, error)
}

type avatarService interface {
	UploadAvatar(ctx context.Context, username string, data []byte, contentType string) (string, error)
	Avatar(ctx context.Context, username string) ([]byte, string, error)
}

// UserHandler - 사용자 디렉터리 핸들러
type UserHandler struct {
	svc     userService
	avatars avatarService
}

func NewUserHandler(svc userService, avatars avatarService) *UserHandler {
	return &UserHandler{svc: svc, avatars: avatars}
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} model.UserResponse
// @Failure 500 {object} model.ErrorResponse
// @Router /api/v1/users [get]
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get a user
// @Tags users
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} model.UserEnvelope
// @Failure 404,500 {object} model.ErrorResponse
// @Router /api/v1/users/{username} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.UserEnvelope{Status: "success", Data: &user})
}

// UpdateUser godoc
// @Summary Update a user
// @Description Empty fields keep their stored value. A new password needs a matching confirmPassword.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Param request body model.UserPatch true "User patch"
// @Success 200 {object} model.UserMutationResponse
// @Failure 400,401,404,409,500 {object} model.ErrorResponse
// @Router /api/v1/users/{username} [patch]
func (h *UserHandler) UpdateUser(c *gin.Context) {
	var patch model.UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}

	username := c.Param("username")
	message, err := h.svc.UpdateUser(c.Request.Context(), username, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.UserMutationResponse{Status: "success", Message: message, Username: username})
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} model.UserMutationResponse
// @Failure 401,404,500 {object} model.ErrorResponse
// @Router /api/v1/users/{username} [delete]
func (h *UserHandler) DeleteUser(c *gin.Context) {
	username := c.Param("username")
	message, err := h.svc.DeleteUser(c.Request.Context(), username)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.UserMutationResponse{Status: "success", Message: message, Username: username})
}

// UploadAvatar godoc
// @Summary Upload a profile image
// @Description Raw image body (png, jpeg, gif or webp, at most 2MB).
// @Tags users
// @Accept image/png
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} model.AvatarResponse
// @Failure 400,401,404,503,500 {object} model.ErrorResponse
// @Router /api/v1/users/{username}/avatar [put]
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxAvatarUpload))
	if err != nil {
		writeBadRequest(c, "invalid request body")
		return
	}

	key, err := h.avatars.UploadAvatar(c.Request.Context(), c.Param("username"), data, c.ContentType())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, model.AvatarResponse{Status: "success", ImageRef: key})
}

// Avatar godoc
// @Summary Get a profile image
// @Tags users
// @Produce image/png
// @Param username path string true "Username"
// @Success 200 {file} file
// @Failure 404,503,500 {object} model.ErrorResponse
// @Router /api/v1/users/{username}/avatar [get]
func (h *UserHandler) Avatar(c *gin.Context) {
	data, contentType, err := h.avatars.Avatar(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	c.Header("Cache-Control", "private, max-age=300")
	c.Data(http.StatusOK, contentType, data)
}
