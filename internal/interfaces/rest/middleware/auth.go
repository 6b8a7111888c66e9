package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-mission-hub/internal/infrastructure/auth"
)

const brawlerIDKey = "brawler_id"

// Auth verifies the Bearer token and stores the brawler id in the
// request context.
func Auth(authorizer auth.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		brawlerID, err := authorizer.Authorize(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(brawlerIDKey, brawlerID)
		c.Next()
	}
}

// BrawlerID returns the authenticated brawler id set by Auth.
func BrawlerID(c *gin.Context) int64 {
	return c.GetInt64(brawlerIDKey)
}
