package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/huangang/taskhub/backend/internal/models"
	"github.com/huangang/taskhub/backend/pkg/response"
)

const (
	ContextUser   = "user"
	ContextUserID = "user_id"
)

// IdentityResolver turns an Authorization header value into a user, or nil.
type IdentityResolver interface {
	VerifyCredential(ctx context.Context, header string) *models.User
}

// Identify resolves the caller before any handler runs. Requests without a
// usable credential continue anonymously.
func Identify(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header != "" {
			if user := resolver.VerifyCredential(c.Request.Context(), header); user != nil {
				c.Set(ContextUser, user)
				c.Set(ContextUserID, user.ID)
			}
		}
		c.Next()
	}
}

// AuthRequired rejects requests that Identify could not attach a user to.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUser(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Response{
				Code:    response.CodeUnauthorized,
				Message: "authentication required",
			})
			return
		}
		c.Next()
	}
}

// GetUser returns the resolved caller, or nil for anonymous requests.
func GetUser(c *gin.Context) *models.User {
	if v, exists := c.Get(ContextUser); exists {
		if user, ok := v.(*models.User); ok {
			return user
		}
	}
	return nil
}

// GetUserID returns the caller's id, or "" for anonymous requests.
func GetUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
