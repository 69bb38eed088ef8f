package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	domainErrors "github.com/PankiTrejd/naracki/internal/domain/errors"
	pkgAuth "github.com/PankiTrejd/naracki/internal/pkg/auth"
	"github.com/PankiTrejd/naracki/internal/server/http/dto"
	"github.com/PankiTrejd/naracki/internal/server/http/middleware"
)

// CurrentSubject extracts the authenticated subject from context.
func CurrentSubject(c *gin.Context) string {
	val, ok := c.Get(middleware.SubjectContextKey)
	if !ok {
		return ""
	}
	subject, _ := val.(string)
	return subject
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domainErrors.ErrValidation):
		return http.StatusBadRequest, "invalid request"
	case errors.Is(err, domainErrors.ErrInvalidCredentials), errors.Is(err, pkgAuth.ErrInvalidToken):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domainErrors.ErrPermission):
		return http.StatusForbidden, "operation not permitted"
	case errors.Is(err, domainErrors.ErrNotFound):
		return http.StatusNotFound, "not found"
	case errors.Is(err, domainErrors.ErrTimeout):
		return http.StatusInternalServerError, "operation timed out"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func writeError(c *gin.Context, err error) {
	status, message := statusFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, dto.ErrorResponse{Message: message, Error: err.Error()})
}

func writeMessage(c *gin.Context, status int, message string) {
	c.JSON(status, dto.MessageResponse{Message: message})
}

func badRequest(c *gin.Context, err error) {
	writeError(c, domainErrors.Validationf("%s", err.Error()))
}

func pathUUID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		writeError(c, domainErrors.Validationf("invalid id %q", c.Param("id")))
		return uuid.Nil, false
	}
	return id, true
}

func pathInt(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, domainErrors.Validationf("invalid id %q", c.Param("id")))
		return 0, false
	}
	return id, true
}
