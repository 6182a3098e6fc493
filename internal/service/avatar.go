package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/reservation-desk/backend/internal/client"
	"github.com/reservation-desk/backend/internal/db"
	"github.com/reservation-desk/backend/internal/model"
	"github.com/sirupsen/logrus"
)

const (
	avatarPrefix   = "avatars/"
	maxAvatarBytes = 2 << 20

	msgAvatarUnavailable = "avatar storage is not configured"
)

var allowedAvatarTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/gif":  true,
	"image/webp": true,
}

// ObjectStore - 아바타 바이너리 저장소 (MinIO)
type ObjectStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Download(ctx context.Context, key string) ([]byte, string, error)
	Remove(ctx context.Context, key string) error
}

type avatarRepo interface {
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	UpdateImageRef(ctx context.Context, username, imageRef string) (string, error)
}

type AvatarService struct {
	users avatarRepo
	store ObjectStore
}

// NewAvatarService - store 가 nil 이면 모든 요청이 ErrUnavailable
func NewAvatarService(users avatarRepo, store ObjectStore) *AvatarService {
	return &AvatarService{users: users, store: store}
}

// UploadAvatar - 새 오브젝트를 올리고 image_ref 를 교체. 이전 오브젝트는 정리
func (s *AvatarService) UploadAvatar(ctx context.Context, username string, data []byte, contentType string) (string, error) {
	if s.store == nil {
		return "", newError(ErrUnavailable, msgAvatarUnavailable)
	}
	if len(data) == 0 {
		return "", validationError("avatar is empty", map[string]string{"avatar": "required"})
	}
	if len(data) > maxAvatarBytes {
		return "", validationError("avatar too large", map[string]string{"avatar": fmt.Sprintf("must be at most %d bytes", maxAvatarBytes)})
	}

	contentType = normalizeContentType(contentType)
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = normalizeContentType(http.DetectContentType(data))
	}
	if !allowedAvatarTypes[contentType] {
		return "", validationError("unsupported avatar type", map[string]string{"avatar": "must be png, jpeg, gif or webp"})
	}

	if _, err := s.users.GetUserByUsername(ctx, username); err != nil {
		if db.IsNoRows(err) {
			return "", notFoundf("user %s not found", username)
		}
		return "", fmt.Errorf("upload avatar %s: %w", username, err)
	}

	key := avatarPrefix + uuid.NewString()
	if err := s.store.Upload(ctx, key, data, contentType); err != nil {
		logrus.WithError(err).WithField("key", key).Error("upload avatar failed")
		return "", fmt.Errorf("upload avatar %s: %w", username, err)
	}

	previous, err := s.users.UpdateImageRef(ctx, username, key)
	if err != nil {
		s.remove(ctx, key)
		if db.IsNoRows(err) {
			return "", notFoundf("user %s not found", username)
		}
		return "", fmt.Errorf("upload avatar %s: %w", username, err)
	}

	if strings.HasPrefix(previous, avatarPrefix) && previous != key {
		s.remove(ctx, previous)
	}
	return key, nil
}

// Avatar - 사용자 아바타 바이트와 Content-Type
func (s *AvatarService) Avatar(ctx context.Context, username string) ([]byte, string, error) {
	if s.store == nil {
		return nil, "", newError(ErrUnavailable, msgAvatarUnavailable)
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, "", notFoundf("user %s not found", username)
		}
		return nil, "", fmt.Errorf("get avatar %s: %w", username, err)
	}
	if !strings.HasPrefix(user.ImageRef, avatarPrefix) {
		return nil, "", notFoundf("user %s has no avatar", username)
	}

	data, contentType, err := s.store.Download(ctx, user.ImageRef)
	if err != nil {
		if client.IsNotFound(err) {
			return nil, "", notFoundf("user %s has no avatar", username)
		}
		logrus.WithError(err).WithField("key", user.ImageRef).Error("download avatar failed")
		return nil, "", fmt.Errorf("get avatar %s: %w", username, err)
	}
	return data, contentType, nil
}

func (s *AvatarService) remove(ctx context.Context, key string) {
	if err := s.store.Remove(ctx, key); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("remove avatar object failed")
	}
}

func normalizeContentType(value string) string {
	if i := strings.Index(value, ";"); i >= 0 {
		value = value[:i]
	}
	return strings.ToLower(strings.TrimSpace(value))
}
