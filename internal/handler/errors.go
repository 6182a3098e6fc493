package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/reservation-desk/backend/internal/model"
	"github.com/reservation-desk/backend/internal/service"
)

// writeError - 서비스 에러 종류를 HTTP 상태로 매핑. 분류되지 않은 에러는 상세 내용을 숨김
func writeError(c *gin.Context, err error) {
	status, kind := classify(err)
	if status == http.StatusInternalServerError {
		logrus.WithError(err).WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"request_id": c.GetString(requestIDKey),
		}).Error("request failed")
		c.JSON(status, model.ErrorResponse{Error: "internal", Message: "server error"})
		return
	}

	resp := model.ErrorResponse{Error: kind, Message: err.Error()}
	if domainErr, ok := service.AsError(err); ok {
		resp.Message = domainErr.Message
		if resp.Message == "" {
			resp.Message = domainErr.Kind.Error()
		}
		resp.Fields = domainErr.Fields
	}
	c.JSON(status, resp)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, "validation"
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusUnauthorized, "authentication"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, service.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, service.ErrUnavailable):
		return http.StatusServiceUnavailable, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func writeBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "validation", Message: message})
}

func writeUnauthenticated(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{Error: "authentication", Message: message})
}
