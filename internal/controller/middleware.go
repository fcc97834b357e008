package controller

import (
	"net/http"
	"strings"

	"github.com/clinichub/clinic-booking/internal/model"
	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// Authenticated validates the bearer token and stores the caller's identity
// on the request context.
func Authenticated(users TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			respondError(c, http.StatusUnauthorized, "Missing authorization header")
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			respondError(c, http.StatusUnauthorized, "Invalid authorization header")
			return
		}

		claims, err := users.ParseAccessToken(token)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(actorKey, model.ActorContext{UserID: claims.UserID, Role: claims.Role})
		c.Next()
	}
}

// RequireAdmin rejects non-admin callers. Must run after Authenticated.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !actorFrom(c).IsAdmin() {
			respondError(c, http.StatusForbidden, "Forbidden")
			return
		}
		c.Next()
	}
}

func actorFrom(c *gin.Context) model.ActorContext {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(model.ActorContext); ok {
			return actor
		}
	}
	return model.ActorContext{}
}
