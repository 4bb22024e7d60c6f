package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/school-results-api/internal/models"
	appErrors "github.com/noah-isme/school-results-api/pkg/errors"
	"github.com/noah-isme/school-results-api/pkg/response"
)

// ContextSessionKey is the gin context key storing the admin session.
const ContextSessionKey = "adminSession"

type sessionAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.AdminSession, error)
}

// AdminSession protects routes with the admin session token, read from the
// session cookie or an Authorization bearer header.
func AdminSession(auth sessionAuthenticator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := SessionToken(c, cookieName)
		if err != nil {
			response.Error(c, err)
			return
		}

		session, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			response.Error(c, err)
			return
		}

		c.Set(ContextSessionKey, session)
		c.Next()
	}
}

// SessionToken extracts the session token. The bearer header wins over the cookie.
func SessionToken(c *gin.Context, cookieName string) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookie, err := c.Cookie(cookieName); err == nil && cookie != "" {
		return cookie, nil
	}
	return "", appErrors.Clone(appErrors.ErrUnauthorized, "admin session required")
}

// CurrentSession returns the session stored by AdminSession.
func CurrentSession(c *gin.Context) *models.AdminSession {
	value, exists := c.Get(ContextSessionKey)
	if !exists {
		return nil
	}
	session, ok := value.(*models.AdminSession)
	if !ok {
		return nil
	}
	return session
}
