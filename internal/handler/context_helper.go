package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/studq/queue-api/internal/middleware"
	"github.com/studq/queue-api/internal/models"
)

// currentClaims returns the JWT claims stored by the auth middleware, or nil
// when the route ran unauthenticated.
func currentClaims(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
