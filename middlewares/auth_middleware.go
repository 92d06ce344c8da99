package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hostel-app/models"
	"github.com/yeremiapane/hostel-app/services"
	"github.com/yeremiapane/hostel-app/utils"
)

// Context keys set by the auth middlewares.
const (
	ContextUserID = "userID"
	ContextRole   = "role"
	ContextToken  = "token"
)

func AuthMiddleware(auth *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("not authorized, no token"))
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("not authorized, malformed token"))
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		actor, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if !errors.Is(err, services.ErrUnauthenticated) {
				utils.ErrorLogger.Errorf("authenticate request: %v", err)
			}
			utils.RespondError(c, http.StatusUnauthorized, services.ErrUnauthenticated)
			return
		}

		c.Set(ContextUserID, actor.UserID)
		c.Set(ContextRole, actor.Role)
		c.Set(ContextToken, token)
		c.Next()
	}
}

// ActorFrom returns the caller stored by AuthMiddleware.
func ActorFrom(c *gin.Context) services.Actor {
	actor := services.Actor{UserID: c.GetString(ContextUserID)}
	if role, ok := c.Get(ContextRole); ok {
		actor.Role, _ = role.(models.Role)
	}
	return actor
}
