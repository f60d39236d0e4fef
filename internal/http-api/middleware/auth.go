package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"langleague/internal/http-api/service"
)

// AuthMiddleware is a Gin middleware for JWT authentication of API requests.
// On success it stores the caller's identity in the request context; handlers
// read the login from there and thread it into the services explicitly.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// Expected format: "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := authService.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set("userID", claims.UserID)
		c.Set("login", claims.Login)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// CurrentLogin returns the authenticated caller's login, or "" when the
// request carries no identity.
func CurrentLogin(c *gin.Context) string {
	login, exists := c.Get("login")
	if !exists {
		return ""
	}
	s, ok := login.(string)
	if !ok {
		return ""
	}
	return s
}

// RequireRole checks if the user has the specified role.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleInterface, exists := c.Get("role")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "role not found in token"})
			c.Abort()
			return
		}

		userRole, ok := roleInterface.(string)
		if !ok || userRole != requiredRole {
			c.JSON(http.StatusForbidden, gin.H{"error": "insufficient permissions"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireAdmin is a convenience wrapper for requiring the admin role.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole("admin")
}
