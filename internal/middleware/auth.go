package middleware

import (
	"net/http"
	"strings"

	"windbooks_backend/internal/auth"
	"windbooks_backend/internal/logger"
	"windbooks_backend/internal/repositories"
	"windbooks_backend/pkg/contextkeys"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware validates the bearer access token and stores the
// caller's identity in the gin context.
func AuthMiddleware(issuer *auth.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing or invalid"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := issuer.VerifyAccess(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		ctx := logger.WithUserID(c.Request.Context(), claims.Subject)
		c.Request = c.Request.WithContext(ctx)

		c.Set("userID", claims.Subject)
		c.Set("roles", claims.Roles)
		c.Next()
	}
}

// SuperAdminMiddleware allows only super-admin accounts through. It
// checks the database rather than a claim so a revoked flag takes
// effect without waiting for token expiry. Requires DBMiddleware and
// AuthMiddleware to have run.
func SuperAdminMiddleware(userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		dbVal, ok := c.Get(string(contextkeys.DBContextKey))
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Database not available"})
			return
		}
		db := dbVal.(*gorm.DB)

		user, err := userRepo.FindByID(db, userID)
		if err != nil || !user.IsSuperAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied: insufficient permissions"})
			return
		}

		c.Next()
	}
}

// GetUserID returns the authenticated user's ID from the gin context.
func GetUserID(c *gin.Context) string {
	userID, exists := c.Get("userID")
	if !exists {
		return ""
	}

	id, ok := userID.(string)
	if !ok {
		return ""
	}

	return id
}
