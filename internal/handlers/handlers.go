package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	apperrors "icearena/internal/errors"
	"icearena/internal/logger"
	"icearena/internal/middleware"
	"icearena/internal/service"
	"icearena/internal/validation"
)

type Handlers struct {
	services *service.Services
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		services: services,
	}
}

// statusFor maps a domain error kind to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrBadRequest),
		errors.Is(err, apperrors.ErrInvalidDuration):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrRequiresApproval):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrScheduleConflict),
		errors.Is(err, apperrors.ErrEventConflict),
		errors.Is(err, apperrors.ErrSeatUnavailable),
		errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// handleServiceError пишет ответ с ошибкой сервиса. Внутренние ошибки
// логируются, а клиенту уходит только fallback.
func (h *Handlers) handleServiceError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).Error(fallback, zap.Error(err))
		_ = c.Error(err)
	}

	c.JSON(status, gin.H{
		"error": apperrors.Message(err, fallback),
		"code":  apperrors.Code(err),
	})
}

// bindJSON decodes the body and answers 400 on failure.
func (h *Handlers) bindJSON(c *gin.Context, req interface{}) bool {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return true
	}

	msg := err.Error()
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msg = strings.Join(validation.FieldMessages(err), "; ")
	}

	c.JSON(http.StatusBadRequest, gin.H{
		"error": msg,
		"code":  apperrors.Code(apperrors.ErrBadRequest),
	})
	return false
}

// pathID parses a positive numeric path parameter.
func (h *Handlers) pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Некорректный идентификатор " + name,
			"code":  apperrors.Code(apperrors.ErrBadRequest),
		})
		return 0, false
	}
	return id, true
}

// currentUser returns the caller set by the identity middleware.
func currentUser(c *gin.Context) (int64, bool) {
	return middleware.UserIDFromContext(c.Request.Context())
}
