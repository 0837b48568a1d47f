package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"sink_quoter/internal/apperr"
	"sink_quoter/internal/services"
)

const (
	userHeader = "X-User-ID"
	scopeKey   = "scope"
)

// TenantMiddleware resolves the acting user from the X-User-ID header and
// stores their company scope on the context.
func TenantMiddleware(users services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(c.GetHeader(userHeader), 10, 64)
		if err != nil || userID == 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid " + userHeader})
			return
		}

		scope, err := users.ResolveScope(c.Request.Context(), uint(userID))
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unknown user"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}

		c.Set(scopeKey, scope)
		c.Next()
	}
}

func scopeFrom(c *gin.Context) services.Scope {
	if v, ok := c.Get(scopeKey); ok {
		if scope, ok := v.(services.Scope); ok {
			return scope
		}
	}
	return services.Scope{}
}
