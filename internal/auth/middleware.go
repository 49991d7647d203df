package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"training-service/internal/models"
)

const principalKey = "auth.principal"

// Middleware verifies the Authorization bearer token and attaches the
// resolved principal to the request context.
func Middleware(tokens *Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokens.Verify(tokenString, TokenAccess)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Could not validate credentials"})
			c.Abort()
			return
		}

		c.Set(principalKey, models.Principal{ID: claims.Subject, Role: claims.Role})
		c.Next()
	}
}

// PrincipalFrom returns the principal the middleware attached to the request.
func PrincipalFrom(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}
