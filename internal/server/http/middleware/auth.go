package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	pkgAuth "github.com/PankiTrejd/naracki/internal/pkg/auth"
)

const (
	// SubjectContextKey is a gin context key for the authenticated token subject.
	SubjectContextKey = "subject"
	authCookieName    = "naracki_token"
)

// TokenParser validates tokens.
type TokenParser interface {
	ParseToken(token string) (string, error)
}

// AuthRequired rejects requests without a valid operator token.
func AuthRequired(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortJSON(c, http.StatusUnauthorized, "authentication required", "missing token")
			return
		}

		subject, err := parser.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				abortJSON(c, http.StatusUnauthorized, "authentication required", err.Error())
				return
			}
			abortJSON(c, http.StatusInternalServerError, "internal error", err.Error())
			return
		}

		c.Set(SubjectContextKey, subject)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie and header to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}

// abortJSON mirrors the {message, error} body written by handlers.
func abortJSON(c *gin.Context, status int, message, detail string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message, "error": detail})
}
