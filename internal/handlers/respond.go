package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"training-service/internal/apperr"
	"training-service/internal/auth"
	"training-service/internal/models"
)

// principal fetches the authenticated actor or answers 401 itself.
func principal(c *gin.Context) (models.Principal, bool) {
	p, ok := auth.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
	}
	return p, ok
}

// writeError maps a use-case error onto the transport. Internal detail is
// logged, never sent to the client.
func writeError(c *gin.Context, err error) {
	if apperr.KindOf(err) == apperr.KindInternal {
		var e *apperr.Error
		if errors.As(err, &e) && e.Err != nil {
			log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, e.Err)
		} else {
			log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		}
	}
	c.JSON(apperr.HTTPStatus(err), gin.H{"error": apperr.ClientMessage(err)})
}
