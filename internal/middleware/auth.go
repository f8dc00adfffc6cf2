package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bachhoa/bachhoa-store/internal/auth"
)

// Context keys set by the auth middleware.
const (
	UserIDKey   = "userID"
	UserRoleKey = "userRole"
)

// AuthMiddleware requires a valid bearer token and stores the caller's
// user ID and role in the context.
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. --- Get Authorization Header ---
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenString, ok := bearerToken(authHeader)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token format (must be Bearer)"})
			return
		}

		// 2. --- Validate Token ---
		userID, role, err := tokens.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		// 3. --- Success ---
		c.Set(UserIDKey, userID)
		c.Set(UserRoleKey, role)
		c.Next()
	}
}

// OptionalAuth identifies the caller when a valid bearer token is sent
// and lets the request through anonymously otherwise.
func OptionalAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tokenString, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if userID, role, err := tokens.ValidateToken(tokenString); err == nil {
				c.Set(UserIDKey, userID)
				c.Set(UserRoleKey, role)
			}
		}
		c.Next()
	}
}

// RequireRoles must run after AuthMiddleware.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(UserRoleKey)
		if _, exists := c.Get(UserIDKey); !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient role"})
	}
}

// CurrentUser returns the authenticated caller, if any.
func CurrentUser(c *gin.Context) (userID int64, role string, ok bool) {
	raw, exists := c.Get(UserIDKey)
	if !exists {
		return 0, "", false
	}
	userID, ok = raw.(int64)
	return userID, c.GetString(UserRoleKey), ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
