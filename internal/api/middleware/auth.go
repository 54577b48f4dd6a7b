// internal/api/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"bulk-order-api-server/internal/auth"

	"github.com/gin-gonic/gin"
)

const callerKey = "caller"

// Authenticate validates the bearer token and stores the auth.Caller in the
// request context.
func Authenticate(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abort(c, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			abort(c, http.StatusUnauthorized, "Invalid token format")
			return
		}

		claims, err := issuer.Parse(tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		caller, err := auth.CallerFromClaims(claims)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// CallerFrom returns the caller stored by Authenticate.
func CallerFrom(c *gin.Context) (auth.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return auth.Caller{}, false
	}
	caller, ok := v.(auth.Caller)
	return caller, ok
}

// Authorize only lets callers with one of allowedRoles through.
func Authorize(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			abort(c, http.StatusInternalServerError, "Caller not found in context")
			return
		}

		for _, role := range allowedRoles {
			if role == caller.Role {
				c.Next()
				return
			}
		}

		abort(c, http.StatusForbidden, "You do not have permission to access this resource")
	}
}

func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"message": message, "error": true, "success": false})
}
