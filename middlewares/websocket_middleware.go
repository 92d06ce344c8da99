package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/services"
)

// WebSocketAuthMiddleware authenticates the handshake from the ?token= query
// parameter.
func WebSocketAuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		actor, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Set(ContextRole, actor.Role)
		c.Set(ContextUserID, actor.UserID)

		c.Next()
	}
}
